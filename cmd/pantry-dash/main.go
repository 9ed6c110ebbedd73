package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"pantry-monitor/config"
	"pantry-monitor/dashboard"
	"pantry-monitor/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Pantry Dashboard starting ===")
	logger.Info("Config — server: %s | poll interval: %ds", cfg.ServerURL, cfg.PollIntervalSec)

	client := dashboard.NewClient(cfg.ServerURL)
	refresher := dashboard.NewRefresher(client, logger,
		time.Duration(cfg.PollIntervalSec)*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go refresher.Start(ctx)

	pages := dashboard.NewPageServer(refresher, logger, cfg.PollIntervalSec)

	logger.Info("Dashboard available at http://localhost%s", cfg.DashboardAddr)
	if err := http.ListenAndServe(cfg.DashboardAddr, pages.Routes()); err != nil {
		logger.Error("Dashboard server failed: %v", err)
		os.Exit(1)
	}
}
