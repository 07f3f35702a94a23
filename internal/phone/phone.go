package phone

import "strings"

const (
	countryPrefix = "+254"
	trunkPrefix   = "07"
	localLength   = 10
	bareLength    = 12
)

// Normalize rewrites a Kenyan phone number into its canonical international
// form so the same physical number always resolves to the same wallet key.
// Accepted shapes: "+2547XXXXXXXX" (returned unchanged), "07XXXXXXXX" (trunk
// digit rewritten) and "2547XXXXXXXX" (plus sign prepended). Anything else is
// returned trimmed but otherwise untouched; rejecting malformed input is left
// to the caller.
func Normalize(raw string) string {
	p := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")

	switch {
	case strings.HasPrefix(p, countryPrefix):
		return p
	case strings.HasPrefix(p, trunkPrefix) && len(p) == localLength:
		return countryPrefix + p[1:]
	case strings.HasPrefix(p, countryPrefix[1:]) && len(p) == bareLength:
		return "+" + p
	default:
		return p
	}
}
