package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/florawear/storefront/internal/auth"
	"github.com/florawear/storefront/internal/config"
	"github.com/florawear/storefront/internal/db"
	"github.com/florawear/storefront/internal/events"
	httpserver "github.com/florawear/storefront/internal/http"
	"github.com/florawear/storefront/internal/order"
	"github.com/florawear/storefront/internal/user"
)

func main() {
	cfg := config.Load()

	logger := log.New(os.Stdout, "[storefront] ", log.LstdFlags|log.Lshortfile)

	if cfg.SessionSecret == "" {
		logger.Fatal("SESSION_SECRET not set")
	}

	// DB
	database := db.MustOpen(cfg.DatabaseDSN)
	if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
		logger.Fatalf("migrations: %v", err)
	}

	userRepo := user.NewRepository(database)
	orderRepo := order.NewRepository(database)

	// RabbitMQ is optional; without a broker order events are not published.
	var publisher order.EventPublisher
	if cfg.AMQPURL != "" {
		conn := events.MustDialRabbit(cfg.AMQPURL)
		defer conn.Close()

		p, err := events.NewPublisher(conn)
		if err != nil {
			logger.Fatalf("create publisher: %v", err)
		}
		defer p.Close()
		publisher = p
	}

	orderService := order.NewService(orderRepo, publisher, logger)

	issuer := auth.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL)

	authH := httpserver.NewAuthHandler(userRepo, issuer, cfg.SessionTTL, cfg.CookieSecure, cfg.BcryptCost, logger)
	wishH := httpserver.NewWishlistHandler(userRepo, logger)
	orderH := httpserver.NewOrderHandler(orderService, logger)
	adminH := httpserver.NewAdminHandler(orderService, userRepo, logger)

	mux := httpserver.NewRouter(authH, wishH, orderH, adminH, issuer)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Printf("storefront listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
