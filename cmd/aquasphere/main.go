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
	"github.com/go-chi/cors"

	"aquasphere/internal/config"
	"aquasphere/internal/database"
	"aquasphere/internal/handler"
	"aquasphere/internal/mw"
	"aquasphere/internal/service"
)

func main() {
	cfg := config.New()

	db, err := database.New(cfg.DatabaseDriver, cfg.DatabaseURI)
	if err != nil {
		slog.Error("failed to connect to DB", "error", err)
		os.Exit(1)
	}
	defer database.Close(context.Background(), db)

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to migrate DB schema", "error", err)
		os.Exit(1)
	}

	// Services
	authSvc := service.NewAuthService(db)
	orderSvc := service.NewOrderService(db)
	productSvc := service.NewProductService(db)
	stateSvc := service.NewStateService(db)
	adminSvc := service.NewAdminService(db)
	paymongo := service.NewPayMongoClient(cfg.PayMongoAPIURL, cfg.PayMongoKey)
	paymentSvc := service.NewPaymentService(db, paymongo)
	uploader := service.NewUploader(cfg.UploadDir)

	// Router
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public routes
	r.Post("/api/register", handler.RegisterHandler(authSvc, cfg.JWTSecret))
	r.Post("/api/login", handler.LoginHandler(authSvc, cfg.JWTSecret))
	r.Get("/api/check-email", handler.CheckEmailHandler(authSvc))
	r.Get("/api/check-username", handler.CheckUsernameHandler(authSvc))
	r.Get("/api/products", handler.ListProductsHandler(productSvc))
	r.Get("/api/health", handler.HealthHandler(db))

	// Order and payment flow; the webhook must stay reachable by the gateway.
	r.Post("/api/orders", handler.CreateOrderHandler(orderSvc))
	r.Post("/api/payments/source", handler.CreatePaymentSourceHandler(paymentSvc))
	r.Post("/api/payments/webhook", handler.WebhookHandler(paymentSvc))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(mw.Auth(cfg.JWTSecret))

		r.Get("/api/user", handler.CurrentUserHandler(authSvc))
		r.Get("/api/user/orders", handler.ListOrdersHandler(orderSvc))
		r.Get("/api/user/state", handler.GetStateHandler(stateSvc))
		r.Post("/api/user/state", handler.SaveStateHandler(stateSvc))

		// Admin panel
		r.Group(func(r chi.Router) {
			r.Use(mw.AdminOnly)

			r.Get("/api/admin/products", handler.AdminListProductsHandler(productSvc))
			r.Post("/api/admin/products", handler.AddProductHandler(productSvc, uploader))
			r.Post("/api/admin/products/{id}", handler.UpdateProductHandler(productSvc, uploader))
			r.Delete("/api/admin/products/{id}", handler.DeleteProductHandler(productSvc))
			r.Get("/api/admin/stats", handler.AdminStatsHandler(adminSvc))
			r.Get("/api/admin/settings", handler.AdminSettingsHandler(adminSvc))
			r.Get("/api/admin/activity", handler.AdminActivityHandler(adminSvc))
		})
	})

	// Uploaded product images
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	slog.Info("starting server", "addr", cfg.RunAddress, "db", cfg.DatabaseDriver)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-quit
	slog.Info("shutting down...")

	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}
