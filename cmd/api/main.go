package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/voyago/voyago-api/docs"
	"github.com/voyago/voyago-api/internal/config"
	"github.com/voyago/voyago-api/internal/domain/auth"
	"github.com/voyago/voyago-api/internal/domain/booking"
	"github.com/voyago/voyago-api/internal/domain/listing"
	"github.com/voyago/voyago-api/internal/domain/notification"
	"github.com/voyago/voyago-api/internal/domain/payment"
	"github.com/voyago/voyago-api/internal/domain/photo"
	"github.com/voyago/voyago-api/internal/domain/review"
	"github.com/voyago/voyago-api/internal/domain/user"
	"github.com/voyago/voyago-api/internal/middleware"
	"github.com/voyago/voyago-api/internal/pkg/chapa"
	"github.com/voyago/voyago-api/internal/pkg/database"
	"github.com/voyago/voyago-api/internal/pkg/email"
	"github.com/voyago/voyago-api/internal/pkg/imaging"
	"github.com/voyago/voyago-api/internal/pkg/jwt"
	"github.com/voyago/voyago-api/internal/pkg/logger"
	pkgresponse "github.com/voyago/voyago-api/internal/pkg/response"
	"github.com/voyago/voyago-api/internal/pkg/storage"
)

// @title Voyago API
// @version 1.0
// @description Travel listing and booking platform API
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Voyago API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	// Photo storage: S3/MinIO when configured, local disk otherwise
	var store storage.Storage
	if cfg.S3AccessKey != "" {
		store, err = storage.NewS3Storage(storage.Config{
			S3Endpoint:  cfg.S3Endpoint,
			S3Region:    cfg.S3Region,
			S3AccessKey: cfg.S3AccessKey,
			S3SecretKey: cfg.S3SecretKey,
			S3Bucket:    cfg.S3Bucket,
			S3PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create S3 storage")
		}
	} else {
		store, err = storage.NewLocalStorage("./uploads", cfg.BackendURL+"/uploads")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create local storage")
		}
		log.Warn().Msg("S3 not configured, storing photos on local disk")
	}

	// Email (optional)
	var emailService *email.Service
	if cfg.SendGridAPIKey != "" {
		emailService = email.NewService(email.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		})
		defer emailService.Close()
	} else {
		log.Warn().Msg("SendGrid not configured, emails disabled")
	}

	chapaClient := chapa.NewClient(chapa.Config{
		BaseURL:   cfg.ChapaBaseURL,
		SecretKey: cfg.ChapaSecretKey,
	})

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	listingRepo := listing.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	photoRepo := photo.NewRepository(db)
	reviewRepo := review.NewRepository(db)
	paymentRepo := payment.NewRepository(db)
	notificationRepo := notification.NewRepository(db)

	// ---------- WebSocket hub ----------
	hub := notification.NewHub(redis)
	go hub.Run()
	defer hub.Close()

	// ---------- Services ----------
	authService := auth.NewService(userRepo, jwtService, redis)
	listingService := listing.NewService(listingRepo)
	bookingService := booking.NewService(bookingRepo, listingRepo)
	photoService := photo.NewService(photoRepo, listingRepo, store, imaging.NewProcessor(imaging.DefaultConfig()))
	paymentService := payment.NewService(paymentRepo, bookingRepo, listingRepo, userRepo, chapaClient, payment.URLs{
		FrontendURL: cfg.FrontendURL,
		BackendURL:  cfg.BackendURL,
	})
	notificationService := notification.NewService(notificationRepo, userRepo, listingRepo, hub, emailService, cfg.FrontendURL)

	bookingService.SetNotifier(notificationService)
	paymentService.SetNotifier(notificationService)
	if emailService != nil {
		authService.SetMailer(emailService, cfg.FrontendURL+"/dashboard")
		paymentService.SetMailer(emailService)
	}

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	listingHandler := listing.NewHandler(listingService)
	bookingHandler := booking.NewHandler(bookingService)
	photoHandler := photo.NewHandler(photoService)
	reviewHandler := review.NewHandler(reviewRepo)
	paymentHandler := payment.NewHandler(paymentService)
	notificationHandler := notification.NewHandler(notificationService, hub, cfg.AllowedOrigins)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (before Compress)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(notificationHandler.WebSocket)).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			pkgresponse.OK(w, map[string]string{"message": "pong"})
		})

		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/listings", listingHandler.Routes(authMiddleware))
		r.Mount("/listings/{listingID}/photos", photoHandler.Routes(authMiddleware))
		r.Mount("/listings/{listingID}/reviews", review.Routes(reviewHandler, authMiddleware))
		r.Mount("/bookings", bookingHandler.Routes(authMiddleware))
		r.Mount("/payments", paymentHandler.Routes(authMiddleware))
		r.Mount("/notifications", notificationHandler.Routes(authMiddleware))
	})

	if cfg.IsDevelopment() {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
