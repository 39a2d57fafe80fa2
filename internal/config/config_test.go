package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_DefaultsWithMissingFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "postgres", cfg.Store)
	assert.Equal(t, 0, cfg.GoogleBooksMaxRetries)
	assert.Equal(t, 30*time.Minute, cfg.ScanLatchTTL)
	assert.False(t, cfg.TrustProxy)
}

func TestLoad_FileThenEnv(t *testing.T) {
	p := writeFile(t, t.TempDir(), "config.yaml", `
addr: ":9000"
store: memory
jwtSecret: from-file
tokenTTL: 2h
corsOrigins: ["https://a.example"]
`)
	t.Setenv("APP_ADDR", ":9100")
	t.Setenv("CORS_ORIGINS", "https://b.example, https://c.example")
	t.Setenv("SCAN_LATCH_TTL", "5m")
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.Addr)
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"https://b.example", "https://c.example"}, cfg.CORSOrigins)
	assert.Equal(t, 5*time.Minute, cfg.ScanLatchTTL)
	assert.True(t, cfg.TrustProxy)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_BadValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")

	t.Run("duration", func(t *testing.T) {
		t.Setenv("TOKEN_TTL", "soon")
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorContains(t, err, "TOKEN_TTL")
	})

	t.Run("store", func(t *testing.T) {
		t.Setenv("STORE", "firestore")
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorContains(t, err, "unknown store")
	})

	t.Run("yaml", func(t *testing.T) {
		p := writeFile(t, t.TempDir(), "config.yaml", "addr: [unclosed")
		_, err := Load(p)
		assert.ErrorContains(t, err, "parse config")
	})
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, ".env", "DB_DSN=from_file\nLOG_LEVEL=debug\n")

	t.Setenv("DB_DSN", "from_env")
	t.Setenv("LOG_LEVEL", "")
	_ = os.Unsetenv("LOG_LEVEL")

	cwd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	LoadEnvFiles()

	assert.Equal(t, "from_env", os.Getenv("DB_DSN"))
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
}

func TestRead_SkipsValidation(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("GOOGLE_BOOKS_API_KEY", "k")

	cfg, err := Read(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, "k", cfg.GoogleBooksAPIKey)
}
