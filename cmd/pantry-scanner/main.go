package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"pantry-monitor/camera"
	"pantry-monitor/config"
	"pantry-monitor/scanner"
	"pantry-monitor/storage"
	"pantry-monitor/utils"
	"pantry-monitor/vision"
)

func main() {
	testCamera := flag.Bool("test", false, "capture a test image and exit")
	schedule := flag.Bool("schedule", false, "keep running and scan on the configured cron schedule")
	flag.Parse()

	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Pantry Scanner starting ===")
	logger.Info("Config — camera: %s | model: %s | image dir: %s",
		cfg.CameraSource, cfg.ClaudeModel, cfg.ImageDirectory)

	source, err := camera.New(cfg, logger)
	if err != nil {
		logger.Error("Camera setup failed: %v", err)
		os.Exit(1)
	}

	if *testCamera {
		sc := scanner.New(cfg, logger, source, nil, nil)
		if err := sc.TestCamera(context.Background()); err != nil {
			logger.Error("Camera test failed: %v", err)
			os.Exit(1)
		}
		return
	}

	analyzer := vision.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.ClaudeModel,
		cfg.MaxTokens, cfg.InputCostPerMTok, cfg.OutputCostPerMTok, logger)

	var store storage.ScanWriter
	pg, err := storage.NewStore(cfg.DSN())
	if err != nil {
		logger.Warn("Database connection failed: %v", err)
		logger.Warn("Continuing without database — changes will not be persisted")
	} else {
		defer pg.Close()
		store = pg
	}

	sc := scanner.New(cfg, logger, source, analyzer, store)

	if !*schedule {
		if err := sc.Run(context.Background()); err != nil {
			logger.Error("Scan failed: %v", err)
			os.Exit(1)
		}
		return
	}

	logger.Info("Scheduling scans: %q", cfg.ScanSchedule)
	c := cron.New()
	_, err = c.AddFunc(cfg.ScanSchedule, func() {
		if err := sc.Run(context.Background()); err != nil {
			logger.Error("Scheduled scan failed: %v", err)
		}
	})
	if err != nil {
		logger.Error("Invalid SCAN_SCHEDULE %q: %v", cfg.ScanSchedule, err)
		os.Exit(1)
	}
	c.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Stopping scheduler...")
	<-c.Stop().Done()
	logger.Info("Scanner stopped")
}
