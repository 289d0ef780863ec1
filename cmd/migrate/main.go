package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
)

const usage = "migration command: up|down|status|version|create|validate"

func main() {
	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", usage)
	dir := flag.String("dir", migrate.DefaultDir, "goose migrations directory")
	name := flag.String("name", "", "migration name (for create)")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	// create and validate work offline so they run before config is required.
	switch *cmd {
	case "create":
		if *name == "" {
			exitf("missing -name for create")
		}
		path, err := migrate.CreateSQLMigration(*dir, *name)
		if err != nil {
			exitf("failed to create migration: %v", err)
		}
		fmt.Println("created migration:", path)
		return
	case "validate":
		if err := migrate.ValidateDir(*dir); err != nil {
			exitf("migration validation failed: %v", err)
		}
		fmt.Println("migration validation passed")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		exitf("failed to load config: %v", err)
	}
	if cfg.DB.IsSQLite() {
		exitf("migrations target postgres; %s is set to sqlite", "STOREFRONT_DB_DRIVER")
	}

	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
		"dir": *dir,
	})

	if err := run(ctx, cfg, logg, *cmd, *dir, *version); err != nil {
		logg.Error(ctx, "migrate.failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migrate.done")
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, cmd, dir, version string) error {
	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer client.Close()

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extract sql.DB: %w", err)
	}

	switch cmd {
	case "up", "down", "status":
		return migrate.Run(ctx, sqlDB, dir, cmd)
	case "version":
		if version == "" {
			return fmt.Errorf("missing -version for version command")
		}
		return migrate.MigrateToVersion(ctx, sqlDB, dir, version)
	default:
		return fmt.Errorf("unknown -cmd value %q (%s)", cmd, usage)
	}
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
