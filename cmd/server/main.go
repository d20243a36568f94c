package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"listing-range-api/internal/auth"
	"listing-range-api/internal/catalogcache"
	"listing-range-api/internal/config"
	"listing-range-api/internal/database"
	"listing-range-api/internal/handler"
	"listing-range-api/internal/repository"
	"listing-range-api/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	slog.Info("starting listing-range-api")

	cfg := config.Load()

	slog.Info("connecting to database", "host", cfg.Database.Host, "database", cfg.Database.Name)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.Connect(ctx, cfg.Database)
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(context.Background(), db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database ready")

	// Repositories
	catalogRepo := repository.NewCatalogRepo(db)
	rangeRepo := repository.NewRangeRepo(db)
	assignmentRepo := repository.NewAssignmentRepo(db)

	// Cache + services
	cache := catalogcache.New(catalogRepo, cfg.CacheTTLs, logger)
	analyzer := service.NewAnalyzer(cache, rangeRepo, logger)
	resolver := service.NewResolver(rangeRepo, logger)
	ledger := service.NewLedger(assignmentRepo, resolver, logger)

	// Handlers
	healthHandler := handler.NewHealthHandler(db)
	analysisHandler := handler.NewAnalysisHandler(analyzer)
	catalogHandler := handler.NewCatalogHandler(cache)
	rangeHandler := handler.NewRangeHandler(resolver, rangeRepo)
	assignmentHandler := handler.NewAssignmentHandler(ledger)

	// Router
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(auth.Middleware)

	// CORS middleware
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-ID, X-User-Role")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Routes
	r.Get("/health", healthHandler.Check)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analysis", analysisHandler.Analyze)
		r.Get("/catalog/{kind}", catalogHandler.List)
		r.Post("/catalog/{kind}/invalidate", catalogHandler.Invalidate)
		r.Get("/categories/{categoryID}/ranges", rangeHandler.ListByCategory)
		r.Post("/ranges/map", rangeHandler.MapToRanges)
		r.Post("/ranges/unknown", rangeHandler.EnsureUnknown)
		r.Post("/assignments/{id}/allocations", assignmentHandler.ApplyBulk)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		slog.Info("server started", "port", cfg.APIPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}

	slog.Info("server stopped")
}
