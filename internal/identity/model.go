package identity

import "time"

// User represents a registered wallet owner. Created once at registration and
// never mutated afterwards.
type User struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	NationalID string
	Active     bool
	CreatedAt  time.Time
}
