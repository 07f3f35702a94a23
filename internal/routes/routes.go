package routes

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/mkoba-pay/mkoba_pay/internal/config"
	"github.com/mkoba-pay/mkoba_pay/internal/identity"
	"github.com/mkoba-pay/mkoba_pay/internal/ledger"
	"github.com/mkoba-pay/mkoba_pay/internal/middleware"
	"github.com/mkoba-pay/mkoba_pay/internal/notification"
	"github.com/mkoba-pay/mkoba_pay/internal/payments"
	"github.com/mkoba-pay/mkoba_pay/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. Without a database
// the in-memory stores back everything, which only makes sense in development.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.Env)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.Env)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	// Stores
	var walletStore wallet.Store
	var ledgerStore ledger.Store
	var identityRepo identity.Repository
	if d.DB != nil {
		walletStore = wallet.NewPostgresStore(d.DB)
		ledgerStore = ledger.NewPostgresStore(d.DB)
		identityRepo = identity.NewPostgresRepository(d.DB)
	} else {
		walletStore = wallet.NewMemoryStore()
		ledgerStore = ledger.NewInMemory()
		identityRepo = identity.NewMemoryRepository()
	}

	// Services and handlers
	walletSvc := wallet.NewService(walletStore)
	notifier := notification.NewLoggerNotifier(d.Logger)
	paymentSvc := payments.NewService(walletStore, ledgerStore, notifier)
	identitySvc := identity.NewService(identityRepo, walletSvc, d.Logger)

	identityHandler := identity.NewHandler(identitySvc)
	walletHandler := wallet.NewHandler(walletSvc)
	paymentHandler := payments.NewHandler(paymentSvc)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{"message": d.Cfg.AppName + " backend is running"})
	})
	RegisterHealthRoutes(app, d)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	api.Post("/users/register", identityHandler.Register)
	api.Get("/wallet/:phone", walletHandler.Get)
	api.Get("/transactions/:phone", paymentHandler.ListTransactions)

	// Money movement carries idempotency replay and per-phone rate limiting.
	moneyRoute := func(path string, h fiber.Handler) {
		var chain []fiber.Handler
		if d.Cache != nil {
			chain = append(chain,
				middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger),
				middleware.MoneyRateLimit(d.Cache, d.Cfg.MoneyRateLimit),
			)
		}
		api.Post(path, append(chain, h)...)
	}
	moneyRoute("/wallet/topup", paymentHandler.TopUp)
	moneyRoute("/wallet/transfer", paymentHandler.Transfer)

	return nil
}
