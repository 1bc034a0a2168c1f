package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lavka/internal/config"
	httpapi "lavka/internal/http"
	"lavka/internal/repository"
	"lavka/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer logger.Sync()

	store := repository.NewMemoryStore()
	usersRepo := repository.NewMemoryUsers(store)
	cartsRepo := repository.NewMemoryCarts(store)
	ordersRepo := repository.NewMemoryOrders(store)
	tx := repository.NewMemoryTx(store)

	productsSvc := service.NewProductService(store)
	usersSvc := service.NewUserService(usersRepo)
	cartsSvc := service.NewCartService(cartsRepo, store, usersRepo)
	ordersSvc := service.NewOrderService(store, usersRepo, cartsRepo, ordersRepo, tx, logger,
		decimal.NewFromFloat(cfg.OrderTaxRate))

	srv := httpapi.NewServer(productsSvc, usersSvc, cartsSvc, ordersSvc)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
