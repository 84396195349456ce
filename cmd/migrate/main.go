package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/Haleralex/fundhub/internal/config"
	"github.com/Haleralex/fundhub/internal/pkg/logger"
)

const usage = `usage: migrate [flags] <command> [arg]

commands:
  up [N]        apply all or N pending migrations
  down [N]      roll back all or N migrations
  goto V        migrate up or down to version V
  force V       mark version V as clean after a failed run
  version       print current version
  drop          drop everything in the database
`

func main() {
	flags := flag.NewFlagSet("migrate", flag.ExitOnError)
	dir := flags.String("path", "./migrations", "migrations directory")
	dsn := flags.String("database-url", "", "database URL (default: from config)")
	configDir := flags.String("config", "configs", "directory with config.yaml")
	verbose := flags.Bool("v", false, "log every applied migration")
	flags.Usage = func() {
		fmt.Fprint(flags.Output(), usage, "\nflags:\n")
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])

	level := "info"
	if *verbose {
		level = "debug"
	}
	log := logger.New(&logger.Config{Level: level, Format: "text", Output: os.Stderr})

	if flags.NArg() == 0 {
		flags.Usage()
		os.Exit(2)
	}

	if err := run(log, *dir, *dsn, *configDir, flags.Args()); err != nil {
		log.Error("migration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(log *slog.Logger, dir, dsn, configDir string, args []string) error {
	// Те же источники, что у API: .env, config.yaml, FUNDHUB_DATABASE_*
	if dsn == "" {
		cfg, err := config.Load(configDir, "config")
		if err != nil {
			return err
		}
		dsn = cfg.Database.DSN()
	}

	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err := errors.Join(srcErr, dbErr); err != nil {
			log.Warn("close migrate", slog.String("error", err.Error()))
		}
	}()
	m.Log = migrateLog{log}

	cmd, arg := args[0], ""
	if len(args) > 1 {
		arg = args[1]
	}

	switch cmd {
	case "up", "down":
		n, err := optionalCount(arg)
		if err != nil {
			return err
		}
		if err := step(m, cmd, n); err != nil {
			return err
		}
	case "goto", "force":
		v, err := strconv.Atoi(arg)
		if err != nil || v < 0 {
			return fmt.Errorf("%s needs a version, got %q", cmd, arg)
		}
		if cmd == "force" {
			err = m.Force(v)
		} else {
			err = m.Migrate(uint(v))
		}
		if err := ignoreNoChange(err); err != nil {
			return fmt.Errorf("%s %d: %w", cmd, v, err)
		}
	case "version":
	case "drop":
		if err := m.Drop(); err != nil {
			return fmt.Errorf("drop: %w", err)
		}
		log.Info("database dropped")
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	return reportVersion(log, m)
}

func step(m *migrate.Migrate, direction string, n int) error {
	var err error
	switch {
	case n > 0 && direction == "down":
		err = m.Steps(-n)
	case n > 0:
		err = m.Steps(n)
	case direction == "down":
		err = m.Down()
	default:
		err = m.Up()
	}
	if err := ignoreNoChange(err); err != nil {
		return fmt.Errorf("%s: %w", direction, err)
	}
	return nil
}

func optionalCount(arg string) (int, error) {
	if arg == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("step count must be a non-negative integer, got %q", arg)
	}
	return n, nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func reportVersion(log *slog.Logger, m *migrate.Migrate) error {
	v, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		log.Info("schema is empty")
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	case dirty:
		log.Warn("schema is dirty, fix it and run force", slog.Uint64("version", uint64(v)))
	default:
		log.Info("schema version", slog.Uint64("version", uint64(v)))
	}
	return nil
}

// migrateLog - адаптер migrate.Logger поверх slog.
type migrateLog struct{ log *slog.Logger }

func (l migrateLog) Printf(format string, v ...any) {
	l.log.Debug(fmt.Sprintf(format, v...))
}

func (l migrateLog) Verbose() bool {
	return l.log.Enabled(context.Background(), slog.LevelDebug)
}
