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
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: "file-secret"
database:
  host: "db.internal"
  port: 6543
`)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, ActivityStorePostgres, cfg.Activity.Store)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.ExpireTime)
	assert.Empty(t, cfg.Server.TrustedProxies)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: "file-secret"
`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.Equal(t, "localhost:6380", cfg.Redis.Addr())
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("JWT_SECRET", "s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing secret",
			cfg:     Config{Activity: ActivityConfig{Store: ActivityStorePostgres}},
			wantErr: "jwt.secret is required",
		},
		{
			name:    "mongo without uri",
			cfg:     Config{JWT: JWTConfig{Secret: "s"}, Activity: ActivityConfig{Store: ActivityStoreMongo}},
			wantErr: "mongo.uri is required",
		},
		{
			name:    "unknown store",
			cfg:     Config{JWT: JWTConfig{Secret: "s"}, Activity: ActivityConfig{Store: "cassandra"}},
			wantErr: "unknown activity.store",
		},
		{
			name: "ok",
			cfg:  Config{JWT: JWTConfig{Secret: "s"}, Activity: ActivityConfig{Store: ActivityStorePostgres}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "h", Port: 1, User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=d sslmode=disable", c.DSN())
}
