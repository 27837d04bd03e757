package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, StoreBackendMemory, cfg.Store.Backend)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "disable", cfg.DB.SSLMode)
	assert.Equal(t, "localhost:6379", cfg.Valkey.Addr)
	assert.Equal(t, "silentaid", cfg.Valkey.Prefix)
	assert.Equal(t, "silentaid", cfg.Telemetry.ServiceName)
	assert.True(t, cfg.Telemetry.OTLPInsecure)
}

func TestLoadPostgresBackendRequiresDB(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DB_NAME", "")
	t.Setenv("DB_INSTANCE_IDENTIFIER", "")
	t.Setenv("DB_USERNAME", "")

	_, err := Load()
	assert.EqualError(t, err, "DB_NAME (or DB_INSTANCE_IDENTIFIER) and DB_USERNAME must be set")
}

func TestLoadPostgresBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DB_NAME", "silentaid")
	t.Setenv("DB_USERNAME", "app")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("PORT", "8080")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "silentaid", cfg.DB.Name)
	assert.Equal(t, "app", cfg.DB.Username)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "5432", cfg.DB.Port)
}

func TestLoadDBNameFallsBackToInstanceIdentifier(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DB_NAME", "")
	t.Setenv("DB_INSTANCE_IDENTIFIER", "silentaid-instance")
	t.Setenv("DB_USERNAME", "app")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "silentaid-instance", cfg.DB.Name)
}

func TestLoadInvalidStoreBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "mongodb")

	_, err := Load()
	assert.EqualError(t, err, "invalid STORE_BACKEND: mongodb")
}

func TestLoadProdSSLModeDefault(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("APP_ENV", "prod")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "require", cfg.DB.SSLMode)
	assert.False(t, cfg.Telemetry.OTLPInsecure)
}

func TestLoadInvalidValkeyDB(t *testing.T) {
	t.Setenv("STORE_BACKEND", "valkey")
	t.Setenv("VALKEY_DB", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadCORSOrigins(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.silentaid.example, https://admin.silentaid.example")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, []string{"https://app.silentaid.example", "https://admin.silentaid.example"}, cfg.CORS.AllowedOrigins)
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("FLAG", "true")
	assert.True(t, getEnvBool("FLAG", false))

	t.Setenv("FLAG", "0")
	assert.False(t, getEnvBool("FLAG", true))

	t.Setenv("FLAG", "banana")
	assert.True(t, getEnvBool("FLAG", true))

	t.Setenv("FLAG", "")
	assert.False(t, getEnvBool("FLAG", false))
}

func TestParseHeaders(t *testing.T) {
	headers := parseHeaders("authorization=Bearer token, x-env=prod, malformed")
	assert.Equal(t, map[string]string{
		"authorization": "Bearer token",
		"x-env":         "prod",
	}, headers)
}
