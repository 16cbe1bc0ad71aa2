package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"completions-tracker/internal/config"
	"completions-tracker/internal/database"
	"completions-tracker/internal/logger"
	"completions-tracker/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogMode); err != nil {
		fmt.Fprintln(os.Stderr, "logger error:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := database.Init(cfg); err != nil {
		logger.Fatal("database init failed", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg); err != nil {
		logger.Fatal("server error", "error", err)
	}
}
