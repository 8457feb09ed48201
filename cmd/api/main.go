package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-millet-backend/config"
	_ "go-millet-backend/docs" // Important for Swagger
	v1 "go-millet-backend/internal/delivery/http/v1"
	sanityrepo "go-millet-backend/internal/repository/sanity"
	"go-millet-backend/internal/usecase"
	"go-millet-backend/pkg/logger"
	"go-millet-backend/pkg/mailchimp"
	"go-millet-backend/pkg/mailer"
	"go-millet-backend/pkg/recaptcha"
	"go-millet-backend/pkg/redis"
	"go-millet-backend/pkg/sanity"
	"go-millet-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// @title           TrueMillet Marketing Site API
// @version         1.0
// @description     Backend for the TrueMillet marketing website: contact form intake and newsletter subscriptions.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting millet site backend", "port", cfg.Port)

	// 3. Setup Redis (optional, rate limiting only)
	if err := redis.Initialize(redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, rate limiting falls back to in-memory", "error", err)
	}
	defer redis.Close()

	// 4. Setup provider clients
	verifier := recaptcha.NewVerifier(cfg.RecaptchaSecretKey)
	mailClient := mailer.NewClient(cfg.MandrillAPIKey, cfg.EmailFrom, cfg.EmailFromName)
	dispatcher := mailer.NewDispatcher(mailClient)
	listClient := mailchimp.NewClient(cfg.MailchimpAPIKey, cfg.MailchimpAudienceID, cfg.MailchimpServerPrefix)
	cmsClient := sanity.NewClient(cfg.SanityProjectID, cfg.SanityDataset, cfg.SanityAPIToken, cfg.SanityAPIVersion)

	if !cfg.ContactConfigured() {
		logger.Log.Warn("Contact flow not fully configured - contact form will return 503")
	}

	// 5. Setup Repositories
	subscriberRepo := sanityrepo.NewSubscriberRepository(cmsClient)

	// 6. Setup UseCases
	validate := validator.New()
	validation.RegisterValidators(validate)
	contactUC := usecase.NewContactUsecase(cfg, validate, verifier, dispatcher)
	newsletterUC := usecase.NewNewsletterUsecase(cfg, validate, subscriberRepo, listClient, dispatcher)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC:    contactUC,
		NewsletterUC: newsletterUC,
		Config:       cfg,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
