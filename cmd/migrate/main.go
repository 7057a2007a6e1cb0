package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/subcommands"

	"drebuilder/internal/config"
	"drebuilder/internal/database"
	"drebuilder/internal/logger"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	commander := subcommands.NewCommander(flag.CommandLine, "migrate")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(&upCmd{}, "")
	commander.Register(&downCmd{}, "")
	commander.Register(&versionCmd{}, "")
	flag.Parse()

	status := commander.Execute(context.Background())
	logger.Sync()
	os.Exit(int(status))
}

// openMigrator builds a migrate instance for the configured PostgreSQL
// database. SQLite storage is migrated by the API on startup.
func openMigrator() (*migrate.Migrate, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	dbConfig, err := database.NewConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load database configuration: %w", err)
	}
	if dbConfig.Driver != database.DriverPostgres {
		return nil, fmt.Errorf("SQL migrations target PostgreSQL; DB_DRIVER is %q", dbConfig.Driver)
	}

	m, err := migrate.New(database.MigrationsSource, dbConfig.MigrateURL())
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		logger.Get().Warnf("migrate source close error: %v", srcErr)
	}
	if dbErr != nil {
		logger.Get().Warnf("migrate database close error: %v", dbErr)
	}
}

// --- upCmd ---

type upCmd struct{}

func (*upCmd) Name() string     { return "up" }
func (*upCmd) Synopsis() string { return "applies all pending migrations" }
func (*upCmd) Usage() string {
	return `migrate up

Applies every migration under ./migrations that has not run yet.
`
}
func (*upCmd) SetFlags(*flag.FlagSet) {}

func (*upCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	m, err := openMigrator()
	if err != nil {
		logger.Get().Errorf("Migration error: %v", err)
		return subcommands.ExitFailure
	}
	defer closeMigrator(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Get().Errorf("migration up failed: %v", err)
		return subcommands.ExitFailure
	}
	logger.Get().Info("Migrations applied successfully")
	return subcommands.ExitSuccess
}

// --- downCmd ---

type downCmd struct {
	steps int
}

func (*downCmd) Name() string     { return "down" }
func (*downCmd) Synopsis() string { return "rolls back applied migrations" }
func (*downCmd) Usage() string {
	return `migrate down [-steps N]

Rolls back the last N migrations (default 1).
`
}
func (c *downCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.steps, "steps", 1, "Number of migrations to roll back.")
}

func (c *downCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.steps < 1 {
		fmt.Fprintln(os.Stderr, "Error: -steps must be at least 1.")
		return subcommands.ExitUsageError
	}

	m, err := openMigrator()
	if err != nil {
		logger.Get().Errorf("Migration error: %v", err)
		return subcommands.ExitFailure
	}
	defer closeMigrator(m)

	if err := m.Steps(-c.steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Get().Errorf("migration down failed: %v", err)
		return subcommands.ExitFailure
	}
	logger.Get().Infof("Rolled back %d migration(s)", c.steps)
	return subcommands.ExitSuccess
}

// --- versionCmd ---

type versionCmd struct{}

func (*versionCmd) Name() string     { return "version" }
func (*versionCmd) Synopsis() string { return "prints the current schema version" }
func (*versionCmd) Usage() string {
	return `migrate version

Prints the applied schema version and whether it is dirty.
`
}
func (*versionCmd) SetFlags(*flag.FlagSet) {}

func (*versionCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	m, err := openMigrator()
	if err != nil {
		logger.Get().Errorf("Migration error: %v", err)
		return subcommands.ExitFailure
	}
	defer closeMigrator(m)

	version, dirty, err := m.Version()
	if err != nil {
		logger.Get().Errorf("failed to get version: %v", err)
		return subcommands.ExitFailure
	}
	logger.Get().Infof("Version: %d, Dirty: %v", version, dirty)
	return subcommands.ExitSuccess
}
