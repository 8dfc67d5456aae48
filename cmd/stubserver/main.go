package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/backendstub"
	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/config"
	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/logging"
	loggingmw "github.com/VINCENT-bot354/-SAFARIBYTES/internal/middleware/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := backendstub.InitDB(initCtx, os.Getenv("DATABASE_URL"), config.EnvDefault("STUB_DB_PATH", "stub.db"))
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	if os.Getenv("STUB_SEED") != "" {
		if err := backendstub.Seed(db); err != nil {
			log.Fatalf("seed error: %v", err)
		}
	}

	secret := config.EnvDefault("JWT_SECRET", "dev-only-secret")

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	backendstub.New(db, []byte(secret)).Register(e)

	port := config.EnvDefault("SERVER_PORT", "8080")

	go func() {
		logger.Info("stub backend starting", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
