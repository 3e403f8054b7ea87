package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/yungbote/foodgram-backend/internal/app"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

func main() {
	// .env is optional; real env vars win.
	_ = godotenv.Load()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	a, err := app.New(log)
	if err != nil {
		log.Error("Failed to init app", "error", err)
		log.Sync()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	runErr := a.Run(ctx)
	stop()
	if runErr != nil {
		log.Error("Server stopped with error", "error", runErr)
		a.Close()
		os.Exit(1)
	}
	log.Info("Server stopped")
	a.Close()
}
