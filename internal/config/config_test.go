package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
env: dev
storage:
  path: storage/students.db
auth:
  jwt_secret: s3cret
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "storage/students.db", cfg.Storage.Path)
	assert.Equal(t, "localhost:8082", cfg.HTTPServer.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTPServer.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.HTTPServer.ShutdownTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10*time.Second, cfg.Remote.Timeout)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
env: dev
storage:
  driver: postgres
  dsn: postgres://localhost/students
http_server:
  address: localhost:9000
`)
	t.Setenv("HTTP_SERVER_ADDR", "0.0.0.0:8080")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPServer.Addr)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing env", "storage:\n  path: x.db\n"},
		{"unknown env", "env: qa\nstorage:\n  path: x.db\n"},
		{"sqlite without path", "env: dev\nstorage:\n  driver: sqlite\n"},
		{"postgres without dsn", "env: dev\nstorage:\n  driver: postgres\n"},
		{"remote without url", "env: dev\nstorage:\n  driver: remote\n"},
		{"unknown driver", "env: dev\nstorage:\n  driver: mongo\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "does not exist")
}

func TestLoad_ExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "local.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.NotEmpty(t, cfg.Auth.JWTSecret)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
}
