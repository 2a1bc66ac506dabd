package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finrasyo/finrasyo-server/internal/api"
	"github.com/finrasyo/finrasyo-server/internal/config"
	"github.com/finrasyo/finrasyo-server/internal/fetch"
	"github.com/finrasyo/finrasyo-server/internal/kap"
	"github.com/finrasyo/finrasyo-server/internal/repository"
	"github.com/finrasyo/finrasyo-server/internal/selection"
	"github.com/finrasyo/finrasyo-server/internal/service"
	"github.com/finrasyo/finrasyo-server/internal/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Log.Level, cfg.Log.Format)

	db, err := config.SetupDatabase(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to set up database")
	}
	defer db.Close()

	repo := repository.NewSQLRepository(db)

	directory := loadDirectory(cfg, logger)

	var source fetch.Source
	if cfg.Financials.BaseURL != "" {
		source = fetch.NewHTTPSource(cfg.Financials.BaseURL, cfg.Financials.Token, nil)
		logger.WithField("base_url", cfg.Financials.BaseURL).Info("analyses read remote financial data")
	}

	svc := service.NewDefaultService(repo, service.Options{
		JWTSecret:     cfg.Auth.JWTSecret,
		TokenDuration: cfg.Auth.TokenDuration,
		UnitPrice:     cfg.Pricing.UnitPriceDecimal(),
		CreditPrice:   cfg.Pricing.CreditPriceDecimal(),
		MaxYears:      cfg.Selection.MaxYears,
		Directory:     directory,
		Source:        source,
		Logger:        logger,
	})

	handler := api.NewHandler(svc, cfg.Payments.WebhookSecret)
	if cfg.Payments.WebhookSecret == "" {
		logger.Warn("PAYMENTS_WEBHOOK_SECRET is not set, payment callbacks are refused")
	}

	router := gin.Default()
	router.Use(api.JWTSecretMiddleware(cfg.Auth.JWTSecret))
	handler.SetupRoutes(router)

	server := http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	logger.WithField("addr", server.Addr).Info("Server started")
	<-done

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server shut down failed")
		return
	}

	logger.Info("Server shut down successfully")
}

// loadDirectory seeds the BIST directory from the embedded list and, when
// configured, replaces it with a fresh scrape. A failed scrape keeps the
// embedded list.
func loadDirectory(cfg *config.Config, logger *utils.Logger) *selection.Directory {
	companies, err := selection.DefaultCompanies()
	if err != nil {
		logger.WithError(err).Warn("embedded BIST company list unreadable")
	}
	directory := selection.NewDirectory(companies, cfg.Selection.MaxResults)

	if !cfg.Directory.RefreshOnStart {
		return directory
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	scraped, err := kap.NewClient(cfg.Directory.KAPURL, nil).FetchCompanies(ctx)
	if err != nil {
		logger.WithError(err).Warn("BIST company refresh failed, using embedded list")
		return directory
	}

	directory.Replace(scraped)
	logger.WithField("companies", directory.Len()).Info("BIST company list refreshed")
	return directory
}
