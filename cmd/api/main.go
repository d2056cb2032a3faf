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

	"github.com/vbank/vbank-api/internal/config"
	"github.com/vbank/vbank-api/internal/domain/account"
	"github.com/vbank/vbank-api/internal/domain/auth"
	"github.com/vbank/vbank-api/internal/domain/ledger"
	"github.com/vbank/vbank-api/internal/domain/stats"
	"github.com/vbank/vbank-api/internal/domain/user"
	"github.com/vbank/vbank-api/internal/middleware"
	"github.com/vbank/vbank-api/internal/pkg/database"
	"github.com/vbank/vbank-api/internal/pkg/email"
	"github.com/vbank/vbank-api/internal/pkg/jwt"
	"github.com/vbank/vbank-api/internal/pkg/logger"
	"github.com/vbank/vbank-api/internal/pkg/payment"
	"github.com/vbank/vbank-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting VBank API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	var mailer email.Sender
	if cfg.SendGridAPIKey != "" {
		mailer = email.NewSendGridClient(email.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		})
	} else {
		log.Warn().Msg("SENDGRID_API_KEY not set, activation emails disabled")
	}

	gateway := payment.NewGateway(payment.Config{
		BaseURL:    cfg.PaymentBaseURL,
		MerchantID: cfg.PaymentMerchantID,
		SecretKey:  cfg.PaymentSecretKey,
		TestMode:   cfg.PaymentTestMode,
	})

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	accountRepo := account.NewRepository(db)
	ledgerRepo := ledger.NewRepository(db, cfg.TxTimeout)
	statsRepo := stats.NewRepository(db)

	// ---------- Services ----------
	refreshTokens := auth.NewRedisRefreshTokenStore(redisClient)
	authSvc := auth.NewService(userRepo, accountRepo, jwtService, refreshTokens)
	accountSvc := account.NewService(accountRepo, userRepo, mailer, cfg.FrontendURL)
	ledgerSvc := ledger.NewService(ledgerRepo, accountRepo, userRepo, gateway)
	statsSvc := stats.NewService(statsRepo)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authSvc)
	accountHandler := account.NewHandler(accountSvc)
	ledgerHandler := ledger.NewHandler(ledgerSvc)
	statsHandler := stats.NewHandler(statsSvc)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/accounts", accountHandler.Routes(authMiddleware))
		r.Mount("/ledger", ledgerHandler.Routes(authMiddleware))
		r.Mount("/stats", statsHandler.Routes(authMiddleware))
	})

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
