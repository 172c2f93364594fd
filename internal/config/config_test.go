package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GIN_MODE", "release")
	t.Setenv("DATABASE_HOST", "localhost")
	t.Setenv("DATABASE_DBNAME", "cuse_rank")
	t.Setenv("DATABASE_USER", "postgres")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoad_FromEnvWithDefaults(t *testing.T) {
	// Arrange
	setRequiredEnv(t)

	// Act
	cfg, err := Load("")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port, "порт БД по умолчанию")
	assert.Equal(t, "8080", cfg.Server.Port, "порт сервера по умолчанию")
	assert.Equal(t, 8, cfg.Scoring.Concurrency)
	assert.Equal(t, 5*time.Minute, cfg.Scoring.CacheTTL)
	assert.Equal(t, 24, cfg.JWT.ExpirationHrs)
	assert.Equal(t, 30, cfg.RateLimit.EvaluationsPerMinute)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	// Arrange: файл задает concurrency=2, env переопределяет порт
	setRequiredEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "scoring:\n  concurrency: 2\n  cache_ttl: 30s\nserver:\n  port: \"9000\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("SERVER_PORT", "9100")

	// Act
	cfg, err := Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Scoring.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Scoring.CacheTTL)
	assert.Equal(t, "9100", cfg.Server.Port, "переменная окружения важнее файла")
}

func TestLoad_MissingFileIsNotFatal(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load("")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT secret")
}

func TestValidate_RejectsZeroConcurrency(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Host: "h", DBName: "d", User: "u"},
		JWT:      JWTConfig{Secret: "s"},
	}

	assert.Error(t, cfg.Validate())
}

func TestPostgresConnectionString(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", d.PostgresConnectionString())
}
