package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	. "github.com/DrGermanius/ExpressWash/internal"
)

func main() {
	//decimals at json as numbers
	//https://github.com/shopspring/decimal/issues/21
	decimal.MarshalJSONWithoutQuotes = true

	z, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	sugaredLogger := z.Sugar()
	defer sugaredLogger.Sync()

	cfg, err := NewConfig()
	if err != nil {
		sugaredLogger.Fatal(err)
	}
	settings := cfg.Settings

	var repository IRepository
	if cfg.DatabaseURI == "" {
		sugaredLogger.Warn("DATABASE_URI is empty, orders are kept in memory")
		repository = NewMemoryRepository(settings.Pricing)
	} else {
		r, err := NewRepository(cfg.DatabaseURI, settings.Pricing, settings.StoreTimeout, sugaredLogger)
		if err != nil {
			sugaredLogger.Fatal(err)
		}
		defer r.Close()
		repository = r
	}

	var notifier INotifier = NewLogNotifier(sugaredLogger)
	if settings.SMS.Enabled() {
		notifier = NewSMSNotifier(&http.Client{Timeout: settings.NotifyTimeout}, sugaredLogger, settings.SMS.URL, settings.SMS.APIKey, settings.SMS.SenderID)
	}

	var cache ICache = NoopCache{}
	if cfg.RedisAddr != "" {
		rc := NewRedisCache(cfg.RedisAddr, "expresswash")
		defer rc.Close()
		cache = rc
	}

	service := NewService(repository, notifier, cache, settings, sugaredLogger)
	handlers := NewHandlers(service, sugaredLogger)

	app := fiber.New()
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New())

	RegisterRoutes(app, handlers)

	go func() {
		if err := app.Listen(cfg.RunAddress); err != nil {
			sugaredLogger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sugaredLogger.Info("Shutting down service...")

	if err := app.Shutdown(); err != nil {
		sugaredLogger.Errorf("shutdown error: %s", err.Error())
	}
}
