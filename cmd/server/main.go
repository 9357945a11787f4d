package main // main package for the API server binary

import (
	"github.com/joho/godotenv"            // loads .env files into the environment
	"github.com/labstack/echo/v4"         // Echo web framework
	emw "github.com/labstack/echo/v4/middleware" // Echo built-in middleware (logger, recover)

	"github.com/iliyamo/barbershop-admin/internal/cache"
	"github.com/iliyamo/barbershop-admin/internal/config"
	"github.com/iliyamo/barbershop-admin/internal/database"
	"github.com/iliyamo/barbershop-admin/internal/handler"
	"github.com/iliyamo/barbershop-admin/internal/middleware"
	"github.com/iliyamo/barbershop-admin/internal/queue"
	"github.com/iliyamo/barbershop-admin/internal/repository"
	"github.com/iliyamo/barbershop-admin/internal/router"
	queue_publisher "github.com/iliyamo/barbershop-admin/internal/service"
	"github.com/iliyamo/barbershop-admin/internal/utils"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	utils.InitLogger()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		utils.ErrorLogger.WithError(err).Fatal("database connection failed")
	}
	defer func() { _ = db.Close() }()

	// Redis backs the listing cache and the rate limiter. A nil client
	// degrades both to pass-through rather than failing startup.
	rdb := config.NewRedisClient()
	if rdb == nil {
		utils.InfoLogger.Warn("redis unavailable; caching and rate limiting disabled")
	}
	store := cache.New(config.LoadCacheConfig(), rdb)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	customers := repository.NewCustomerRepo(db)
	billing := repository.NewBillingRepo(db)
	revenue := repository.NewRevenueRepo(db)
	users := repository.NewUserRepo(db)

	// Audit trail: handlers publish, the background consumer appends to the
	// log file. Both sides are best-effort.
	publish := handler.Publisher(queue_publisher.PublishMutation)
	go func() {
		if err := queue.StartMutationConsumer(); err != nil {
			utils.ErrorLogger.WithError(err).Error("mutation consumer stopped")
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(emw.Logger())
	e.Use(emw.Recover())

	router.Register(e, router.Deps{
		Secret:       cfg.JWTSecret,
		Store:        store,
		RateLimit:    limiter,
		Auth:         handler.NewAuthHandler(cfg, users),
		Customers:    handler.NewCustomerHandler(customers, store, publish),
		Reservations: handler.NewBillingHandler(repository.Reservations, billing, store, publish),
		Invoices:     handler.NewBillingHandler(repository.Invoices, billing, store, publish),
		Dashboard:    handler.NewDashboardHandler(billing, revenue),
	})

	utils.InfoLogger.Infof("listening on :%s (env=%s)", cfg.Port, cfg.Env)
	if err := e.Start(":" + cfg.Port); err != nil {
		utils.ErrorLogger.WithError(err).Fatal("server stopped")
	}
}
