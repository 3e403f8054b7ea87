package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yungbote/foodgram-backend/internal/app"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

var rootCmd = &cobra.Command{
	Use:           "foodgramctl",
	Short:         "Operator tasks for the foodgram backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	_ = godotenv.Load()
	rootCmd.AddCommand(importIngredientsCmd, createStaffCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openApp wires the same stack the server uses, minus the listener.
func openApp() (*app.App, error) {
	mode := os.Getenv("LOG_MODE")
	if mode == "" {
		mode = "production"
	}
	log, err := logger.New(mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a, err := app.New(log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}
