package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/AngelCh415/marketing_analytics/internal/app"
	"github.com/AngelCh415/marketing_analytics/internal/config"
)

func main() {
	cfg, err := config.Load(os.Getenv("MKT_CONFIG_FILE"))
	if err != nil {
		slog.Error("config error", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	if err := app.New(cfg, logger).Serve(context.Background()); err != nil {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
