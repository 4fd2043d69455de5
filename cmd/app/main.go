package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"exchange_chat/internal/app"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file (empty for defaults)")
	flag.Parse()

	// 1. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 2. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.InfoContext(ctx, "✨ Exchange chat operational. Press Ctrl+C to exit.",
		slog.String("addr", bootstrap.Config.Addr()),
	)

	// 3. Serve until signalled
	if err := bootstrap.Run(ctx); err != nil {
		slog.Error("❌ Server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("👋 Shut down gracefully")
}
