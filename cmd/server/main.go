package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/thogaimadan/home_ledger/internal/config"
	"github.com/thogaimadan/home_ledger/internal/es"
	"github.com/thogaimadan/home_ledger/internal/handlers"
	"github.com/thogaimadan/home_ledger/internal/logging"
	loggingmw "github.com/thogaimadan/home_ledger/internal/middleware/logging"
	"github.com/thogaimadan/home_ledger/internal/mykafka"
	"github.com/thogaimadan/home_ledger/internal/service"
	httpserver "github.com/thogaimadan/home_ledger/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(configuration.JWT_SECRET, "JWT_SECRET")
	config.MustNonEmpty(configuration.REFRESH_SECRET, "REFRESH_SECRET")

	logger := logging.New(configuration.LogLevel)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	var prod *mykafka.Producer
	if len(configuration.KafkaBrokers) > 0 {
		topics := []string{"user_events", "product_events", "sale_events"}
		prod, err = mykafka.NewProducer(configuration.KafkaBrokers, topics)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		logger.Warn("kafka brokers not configured, events disabled")
	}

	tokenService := &service.TokenService{
		DB:            db,
		JWTSecret:     []byte(configuration.JWT_SECRET),
		RefreshSecret: []byte(configuration.REFRESH_SECRET),
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:              db,
		AuthHandler:     &handlers.AuthHandler{DB: db, Tokens: tokenService, Producer: prod},
		ProductHandler:  &handlers.ProductHandler{DB: db, Producer: prod},
		SalesHandler:    &handlers.SalesHandler{DB: db, Producer: prod},
		EarningsHandler: &handlers.EarningsHandler{DB: db},
		TokenService:    tokenService,
	}

	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		deps.SearchHandler = handlers.NewSearchHandler(esClient, "products")
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", configuration.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
