// Command devapi serves an in-memory estate backend on DEVAPI_PORT for local
// development of the frontend.
package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FACorreiaa/estate-templui/internal/devapi"
	"github.com/FACorreiaa/estate-templui/internal/server"
	"github.com/FACorreiaa/estate-templui/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file, using environment variables")
	}

	if err := logger.Init(zapcore.InfoLevel, zap.String("service", "devapi")); err != nil {
		return err
	}
	defer func() { _ = logger.Log.Sync() }()

	gin.SetMode(gin.ReleaseMode)
	cfg := devapi.LoadConfig()
	api, err := devapi.New(cfg, logger.Log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan bool, 1)
	go server.GracefulShutdown(logger.Log, done, srv)

	logger.Log.Info("Dev API starting",
		zap.String("port", cfg.Port),
		zap.Strings("accounts", []string{devapi.AdminEmail, devapi.AgentEmail, devapi.UserEmail}),
		zap.String("password", devapi.SeedPassword))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
