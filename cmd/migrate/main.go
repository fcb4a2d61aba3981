package main

import (
	"bankdash-api/config"
	"bankdash-api/logger"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Applies the SQL migrations in db/migrations. Usage: migrate [up|down]
func main() {
	config.LoadConfig(".")
	logger.Init()

	cfg := config.AppConfig.Database
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)

	m, err := migrate.New("file://db/migrations", connStr)
	if err != nil {
		logger.Log.Fatalf("Cannot create migrate instance: %v", err)
	}

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	default:
		logger.Log.Fatalf("Unknown direction %q, expected up or down", direction)
	}

	if err != nil && err != migrate.ErrNoChange {
		logger.Log.Fatalf("Migration failed: %v", err)
	}

	logger.Log.Infof("Migrations %s applied successfully", direction)
}
