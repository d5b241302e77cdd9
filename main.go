package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/username/carteira/backend/src/config"
	"github.com/username/carteira/backend/src/database"
	"github.com/username/carteira/backend/src/handlers"
	"github.com/username/carteira/backend/src/logger"
	"github.com/username/carteira/backend/src/parsers/csvimport"
	"github.com/username/carteira/backend/src/processors"
	"github.com/username/carteira/backend/src/scheduler"
	"github.com/username/carteira/backend/src/security"
	"github.com/username/carteira/backend/src/services"
	"github.com/username/carteira/backend/src/utils"
	"golang.org/x/time/rate"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("Carteira backend server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	defer database.DB.Close()

	authService := security.NewAuthService(config.Cfg.SessionSecret, config.Cfg.SessionTTL)
	store := services.NewPortfolioStore(database.DB, config.Cfg.SessionTTL)
	tracker := services.NewOperationTracker(config.Cfg.SessionTTL)

	sessionService := services.NewSessionService(
		database.DB,
		authService,
		services.NewGeminiAIClients,
		services.AIConfig{Model: config.Cfg.GeminiModel, Timeout: config.Cfg.AIRequestTimeout},
		store,
		tracker,
	)

	portfolioService := services.NewPortfolioService(
		store,
		sessionService,
		tracker,
		processors.NewRebalancingProcessor(),
		processors.NewValuationProcessor(),
		processors.NewPortfolioProcessor(),
		csvimport.NewParser(),
		database.DB,
		config.Cfg.MaxPasteLength,
	)

	sched := scheduler.New(logger.L)
	cleanupJob := services.NewSessionCleanupJob(sessionService)
	if err := sched.AddJob(config.Cfg.CleanupSchedule, cleanupJob); err != nil {
		stdlog.Fatalf("Invalid CLEANUP_SCHEDULE %q: %v", config.Cfg.CleanupSchedule, err)
	}
	if err := sched.RunNow(cleanupJob); err != nil {
		logger.L.Warn("Initial session cleanup failed", "error", err)
	}
	sched.Start()
	defer sched.Stop()

	sessionHandler := handlers.NewSessionHandler(sessionService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService, config.Cfg.MaxUploadSizeBytes)
	analysisHandler := handlers.NewAnalysisHandler(portfolioService)

	limiter := rate.NewLimiter(rate.Limit(config.Cfg.RateLimitPerSecond), config.Cfg.RateLimitBurst)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(handlers.ProxyHeadersMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.Cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "If-None-Match"},
		ExposedHeaders:   []string{"X-CSRF-Token", "ETag", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(handlers.RateLimitMiddleware(limiter))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.SendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/auth/csrf", handlers.GetCSRFToken)
		r.Get("/glossary", handlers.HandleGetGlossary)

		r.Group(func(r chi.Router) {
			r.Use(handlers.CSRFMiddleware)
			r.Post("/session", sessionHandler.HandleCreateSession)

			r.Group(func(r chi.Router) {
				r.Use(handlers.SessionMiddleware(sessionService))

				r.Delete("/session", sessionHandler.HandleEndSession)
				r.Get("/operations", portfolioHandler.HandleGetOperations)

				r.Get("/portfolio", portfolioHandler.HandleGetPortfolio)
				r.Post("/portfolio/reset", portfolioHandler.HandleResetPortfolio)
				r.Post("/portfolio/update", portfolioHandler.HandleUpdatePortfolio)
				r.Get("/portfolio/updates", portfolioHandler.HandleGetUpdates)

				r.Post("/rebalancing", analysisHandler.HandleRebalance)
				r.Post("/valuation", analysisHandler.HandleValuation)
			})
		})
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: config.Cfg.AIRequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.L.Info("Server starting", "address", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			stdlog.Fatalf("Failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.L.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.L.Error("Server shutdown failed", "error", err)
	}
}
