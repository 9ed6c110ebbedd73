package main

import (
	"os"

	"pantry-monitor/config"
	"pantry-monitor/services"
	"pantry-monitor/storage"
	"pantry-monitor/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	store, err := storage.NewStore(cfg.DSN())
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	svc := services.NewReportService(store, logger)
	report, err := svc.Generate()
	if err != nil {
		logger.Error("Failed to build report: %v", err)
		os.Exit(1)
	}
	svc.Print(report)
}
