// Команда migrate управляет схемой базы данных вне API: применяет и откатывает
// миграции, а также снимает dirty-состояние после неудачной миграции.
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/yourusername/cuse-rank-api/internal/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "путь к файлу конфигурации")
	action := flag.String("action", "up", "up, down, force или version")
	version := flag.Int("version", -1, "версия для force")
	steps := flag.Int("steps", 1, "число миграций для отката в down")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal(err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+cfg.Server.MigrationsPath,
		"postgres",
		driver,
	)
	if err != nil {
		log.Fatal(err)
	}

	if err := run(m, *action, *version, *steps); err != nil {
		log.Printf("migrate %s: %v", *action, err)
		os.Exit(1)
	}
}

func run(m *migrate.Migrate, action string, version, steps int) error {
	switch action {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
	case "down":
		if steps <= 0 {
			return fmt.Errorf("steps must be positive, got %d", steps)
		}
		if err := m.Steps(-steps); err != nil {
			return err
		}
	case "force":
		// Снимает dirty-флаг, данные не трогает
		if version < 0 {
			return fmt.Errorf("force requires -version")
		}
		fmt.Printf("Forcing migration version to %d to clean dirty state...\n", version)
		if err := m.Force(version); err != nil {
			return err
		}
	case "version":
	default:
		return fmt.Errorf("unknown action %q", action)
	}

	v, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	fmt.Printf("Schema version: %d (dirty: %t)\n", v, dirty)
	return nil
}
