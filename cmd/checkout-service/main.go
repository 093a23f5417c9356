package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/questgg/checkout-service/internal/config"
	"github.com/questgg/checkout-service/internal/delivery/httpapi"
	"github.com/questgg/checkout-service/internal/infrastructure/gateway"
	publisher "github.com/questgg/checkout-service/internal/infrastructure/kafka"
	"github.com/questgg/checkout-service/internal/infrastructure/logger"
	"github.com/questgg/checkout-service/internal/infrastructure/metrics"
	"github.com/questgg/checkout-service/internal/infrastructure/migrate"
	"github.com/questgg/checkout-service/internal/infrastructure/postgres"
	"github.com/questgg/checkout-service/internal/infrastructure/postgres/repository"
	"github.com/questgg/checkout-service/internal/usecase/checkout"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)

	if cfg.OrderDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.OrderDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	checkoutMetrics := metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)

	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	pub := publisher.NewDefaultKafkaPublisher(brokers, cfg.KafkaService.Topic)

	// Init repositories
	orderRepo := repository.NewDefaultOrderRepository(db)
	cartRepo := repository.NewDefaultCartRepository(db)
	eventLog := logger.NewPGPaymentEventLogger(db)

	// Init gateway clients
	authClient := gateway.NewAuthClient(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.Gateway.APISecret, nil, checkoutMetrics)
	orderClient := gateway.NewOrderClient(cfg.Gateway.BaseURL, authClient, nil, checkoutMetrics)

	// Init checkout usecase
	uc := checkout.NewDefaultCheckoutUsecase(
		orderRepo,
		cartRepo,
		orderClient,
		eventLog,
		pub,
		checkoutMetrics,
		checkout.Options{
			TerminalID: cfg.Gateway.TerminalID,
			OkURL:      cfg.Gateway.OkURL,
			KoURL:      cfg.Gateway.KoURL,
		},
	)

	handler := httpapi.NewHandler(uc, orderClient, prometheus.DefaultGatherer)

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("checkout service started on %s\n", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("failed to serve: %v\n", err)
	}
}
