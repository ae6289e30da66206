package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"

	"cyberquest/internal/config"
	"cyberquest/internal/logger"
)

const migrationsDir = "db/migrations"

func main() {
	action := flag.String("action", "up", "up, down, or create")
	steps := flag.Int("steps", 1, "number of migrations to roll back with -action=down")
	name := flag.String("name", "", "migration name for -action=create")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogPretty)

	switch *action {
	case "create":
		if err := create(migrationsDir, *name); err != nil {
			log.Fatal().Err(err).Msg("create migration failed")
		}
	case "up", "down":
		if cfg.DatabaseURL == "" {
			log.Fatal().Msg("DATABASE_URL is not set")
		}
		m, err := migrate.New("file://"+migrationsDir, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("migration setup failed")
		}
		if *action == "up" {
			err = m.Up()
		} else {
			err = m.Steps(-*steps)
		}
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Str("action", *action).Msg("database migration failed")
		}
		log.Info().Str("action", *action).Msg("database migrations applied")
	default:
		log.Fatal().Str("action", *action).Msg("unknown action")
	}
}

// create writes an empty up/down pair numbered after the highest existing version.
func create(dir, name string) error {
	if name == "" {
		return errors.New("migration name is required")
	}
	if strings.ContainsAny(name, " ") {
		return errors.New("migration name must not contain spaces")
	}
	version, err := nextVersion(dir)
	if err != nil {
		return err
	}
	base := fmt.Sprintf("%06d_%s", version, name)
	upPath := filepath.Join(dir, base+".up.sql")
	downPath := filepath.Join(dir, base+".down.sql")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create migrations dir: %w", err)
	}
	if err := writeFile(upPath, "-- up migration\n"); err != nil {
		return fmt.Errorf("create up migration: %w", err)
	}
	if err := writeFile(downPath, "-- down migration\n"); err != nil {
		return fmt.Errorf("create down migration: %w", err)
	}
	log.Info().Str("up", upPath).Str("down", downPath).Msg("migration created")
	return nil
}

func nextVersion(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 1, nil
		}
		return 0, err
	}
	var versions []int
	for _, entry := range entries {
		prefix, _, ok := strings.Cut(entry.Name(), "_")
		if !ok {
			continue
		}
		if v, err := strconv.Atoi(prefix); err == nil {
			versions = append(versions, v)
		}
	}
	if len(versions) == 0 {
		return 1, nil
	}
	sort.Ints(versions)
	return versions[len(versions)-1] + 1, nil
}

func writeFile(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("file already exists: %s", path)
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
