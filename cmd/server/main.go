package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moonstore-be/internal/cart"
	"moonstore-be/internal/catalog"
	"moonstore-be/internal/config"
	"moonstore-be/internal/coupon"
	"moonstore-be/internal/db"
	"moonstore-be/internal/httpx"
	"moonstore-be/internal/logger"
	"moonstore-be/internal/metrics"
	"moonstore-be/internal/notify"
	"moonstore-be/internal/order"
	"moonstore-be/internal/payment"
	"moonstore-be/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	database := db.InitDB(cfg)
	defer database.Close()

	var notifier notify.Notifier = notify.Noop{}
	if cfg.DiscordWebhookURL != "" {
		sink := notify.NewDiscordSink(cfg.DiscordWebhookURL)
		defer sink.Close()
		notifier = sink
	}

	stats := &metrics.Store{}

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	catalogRepo := catalog.NewRepository(database)
	catalogSvc := catalog.NewService(catalogRepo, notifier)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, catalogRepo)

	couponRepo := coupon.NewRepository(database)
	couponSvc := coupon.NewService(couponRepo, cartRepo)

	paymentRepo := payment.NewRepository(database)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, cartRepo, couponRepo, paymentRepo, notifier, stats)

	router := httpx.NewRouter(&httpx.Handler{
		Users:   userSvc,
		Catalog: catalogSvc,
		Carts:   cartSvc,
		Coupons: couponSvc,
		Orders:  orderSvc,
		Stats:   stats,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	go func() {
		logger.L().Info("server listening", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L().Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.L().Error("forced shutdown", zap.Error(err))
	}
}
