package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"pantry-monitor/config"
	"pantry-monitor/storage"
	"pantry-monitor/utils"
)

func main() {
	reset := flag.Bool("reset", false, "drop and recreate the database (destroys all data)")
	flag.Parse()

	logger := utils.NewLogger()
	cfg := config.Load()

	admin, err := storage.NewAdmin(cfg.AdminDSN())
	if err != nil {
		logger.Error("Could not connect to PostgreSQL: %v", err)
		logger.Error("Check that PostgreSQL is running and the credentials in .env are correct")
		os.Exit(1)
	}
	defer admin.Close()

	if *reset {
		fmt.Printf("⚠️  This will delete ALL data in %q.\nType 'YES' to confirm reset: ", cfg.PostgresDB)
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.TrimSpace(line) != "YES" {
			logger.Info("Reset cancelled")
			return
		}

		logger.Info("Dropping database %q...", cfg.PostgresDB)
		if err := admin.DropDatabase(cfg.PostgresDB); err != nil {
			logger.Error("Drop failed: %v", err)
			os.Exit(1)
		}
	}

	exists, err := admin.DatabaseExists(cfg.PostgresDB)
	if err != nil {
		logger.Error("Database check failed: %v", err)
		os.Exit(1)
	}
	if exists {
		logger.Info("Database %q already exists", cfg.PostgresDB)
	} else {
		logger.Info("Creating database %q...", cfg.PostgresDB)
		if err := admin.CreateDatabase(cfg.PostgresDB); err != nil {
			logger.Error("Create failed: %v", err)
			os.Exit(1)
		}
	}

	// Opening the store runs the schema migrations.
	store, err := storage.NewStore(cfg.DSN())
	if err != nil {
		logger.Error("Table creation failed: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	logger.Info("Setup complete — tables: pantry_scans, pantry_items, inventory_changes")
	logger.Info("You can now run pantry-scanner and pantryd")
}
