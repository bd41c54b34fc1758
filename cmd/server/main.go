package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "truckrecruit/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"truckrecruit/internal/analytics"
	"truckrecruit/internal/auth"
	"truckrecruit/internal/cache"
	"truckrecruit/internal/config"
	"truckrecruit/internal/db"
	"truckrecruit/internal/events"
	"truckrecruit/internal/handler"
	"truckrecruit/internal/health"
	"truckrecruit/internal/logger"
	"truckrecruit/internal/repository"
	"truckrecruit/internal/router"
	"truckrecruit/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Truck Recruit API
// @version 1.0
// @description Driver recruiting platform with quota-metered contact unlocks and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.L().Error("load config", "error", err)
		os.Exit(1)
	}
	log := logger.Init(cfg.AppEnv)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Error("database init", "error", err)
		os.Exit(1)
	}

	if cfg.ResetDB {
		log.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.Error("reset database", "error", err)
			os.Exit(1)
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Error("migrate database", "error", err)
		os.Exit(1)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, "truckrecruit:")
	defer cacheClient.Close()

	publisher, err := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		// Events are best-effort; the API keeps serving without a broker.
		log.Warn("event publishing disabled", "error", err)
		publisher = events.NopPublisher{}
	}
	defer publisher.Close()

	// Initialize repositories
	repos := repository.New(gormDB)
	contactStore, err := repository.NewContactStoreFor(cfg.ContactStore, repos)
	if err != nil {
		log.Error("contact store", "kind", cfg.ContactStore, "error", err)
		os.Exit(1)
	}

	tracker := analytics.NewTracker(repos.Events, cfg.AnalyticsBatchSize, cfg.AnalyticsFlushInterval)
	tracker.Start()
	defer tracker.Stop()

	monitor := health.NewMonitor(cfg.HealthCheckSpec, health.DBCheck(gormDB), health.CacheCheck(cacheClient))
	if err := monitor.Start(); err != nil {
		log.Error("health monitor", "error", err)
		os.Exit(1)
	}
	defer monitor.Stop()

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(repos, jwtService, tokenStore, publisher, tracker)
	contactService := service.NewContactService(contactStore, publisher, tracker, cacheClient, cfg.RetryAttempts, cfg.RetryDelay)
	subscriptionService := service.NewSubscriptionService(contactStore, contactService, publisher)

	// Initialize handlers
	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Profile:     handler.NewProfileHandler(service.NewProfileService(repos.Profiles)),
		Driver:      handler.NewDriverHandler(service.NewDriverService(repos.Drivers, contactStore, cacheClient)),
		Recruiter:   handler.NewRecruiterHandler(service.NewRecruiterService(repos.Recruiters)),
		Contact:     handler.NewContactHandler(contactService),
		Job:         handler.NewJobHandler(service.NewJobService(repos.Jobs, tracker)),
		Application: handler.NewApplicationHandler(service.NewApplicationService(repos.Applications, repos.Jobs, tracker)),
		Interview:   handler.NewInterviewHandler(service.NewInterviewService(repos.Interviews, repos.Applications, repos.Drivers)),
		Message:     handler.NewMessageHandler(service.NewMessageService(repos.Messages, repos.Profiles)),
		Dashboard:   handler.NewDashboardHandler(service.NewDashboardService(repos, contactService, contactStore)),
		Analytics:   handler.NewAnalyticsHandler(tracker),
		Admin:       handler.NewAdminHandler(service.NewAdminService(repos, authService), subscriptionService),
		Health:      handler.NewHealthHandler(monitor),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, handlers, router.DefaultLimits(), jwtService, tokenStore)

	log.Info("swagger documentation available", "url", swaggerURL(cfg.SwaggerHost, cfg.ServerPort))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info("server starting", "addr", addr, "env", cfg.AppEnv, "contact_store", cfg.ContactStore)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server start", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}
}

// swaggerURL builds the docs URL. host may already carry a scheme.
func swaggerURL(host, port string) string {
	switch {
	case host == "":
		return "http://localhost:" + port + "/swagger/index.html"
	case strings.HasPrefix(host, "http://"), strings.HasPrefix(host, "https://"):
		return host + "/swagger/index.html"
	default:
		return "http://" + host + "/swagger/index.html"
	}
}
