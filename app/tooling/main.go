package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/jrazmi/flowdesk/app/tooling/commands"
	"github.com/jrazmi/flowdesk/infrastructure/postgresdb"
	"github.com/jrazmi/flowdesk/schema"
	"github.com/jrazmi/flowdesk/sdk/environment"
	"github.com/jrazmi/flowdesk/sdk/logger"
)

var build = "develop"
var appName = "TOOLING"

func processCommands(ctx context.Context, log *logger.Logger, command string, pool *postgresdb.Pool) error {
	switch command {
	case "migrate":
		log.InfoContext(ctx, "running migration")
		if err := commands.Migrate(ctx, log, pool, schema.MigrationsFS, schema.MigrationsDir); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		return nil

	case "migrate-status":
		pending, err := commands.Status(ctx, log, pool, schema.MigrationsFS, schema.MigrationsDir, os.Stdout)
		if err != nil {
			return fmt.Errorf("migration status failed: %w", err)
		}
		log.InfoContext(ctx, "migration status", "pending", pending)
		return nil

	default:
		printHelp()
		return nil
	}
}

func printHelp() {
	fmt.Println("Available commands:")
	fmt.Println("  migrate        - apply pending migrations to the Postgres database")
	fmt.Println("  migrate-status - list migrations and whether they have been applied")
	fmt.Println()
	fmt.Println("The database is read from TOOLING_PG_DATABASE_URL.")
}

func run(ctx context.Context, log *logger.Logger) error {
	log.InfoContext(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0), "build", build)

	var command string
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	if command == "" || command == "help" || command == "--help" || command == "-h" {
		printHelp()
		return nil
	}

	pool, err := postgresdb.NewFromEnv(appName, postgresdb.WithLogger(log))
	if err != nil {
		return fmt.Errorf("configuring postgres support: %w", err)
	}
	defer func() {
		log.InfoContext(ctx, "shutdown", "status", "closing database connection")
		pool.Close()
	}()
	log.InfoContext(ctx, "init", "service", "postgres")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- processCommands(ctx, log, command, pool)
	}()

	select {
	case err := <-done:
		return err

	case sig := <-shutdown:
		log.InfoContext(ctx, "shutdown", "status", "shutdown started", "signal", sig)
		cancel()

		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			return fmt.Errorf("shutdown timeout")
		}
	}
}

func main() {
	if err := environment.LoadEnv(); err != nil {
		fmt.Println("loading .env:", err)
		os.Exit(1)
	}

	log, err := logger.NewFromEnv(appName)
	if err != nil {
		fmt.Println("oh no we couldn't even get logging going.")
		os.Exit(1)
	}
	ctx := context.Background()

	if err = run(ctx, log); err != nil {
		log.ErrorContext(ctx, "startup", "err", err)
		os.Exit(1)
	}
}
