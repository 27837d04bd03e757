package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"silentaid/config"
	"silentaid/handlers"
	"silentaid/store"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv: "dev",
		Port:   "5000",
		Store:  config.StoreConfig{Backend: config.StoreBackendMemory},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

func stubTelemetry(ctx context.Context, cfg config.Config) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}

func TestLoadSecretMapErrors(t *testing.T) {
	originalGetSecret := getSecret
	getSecret = func(name string) (string, error) {
		return "", errors.New("secret error")
	}
	defer func() { getSecret = originalGetSecret }()

	_, err := loadSecretMap("prod/valkey")
	assert.Error(t, err)

	getSecret = func(name string) (string, error) {
		return "not-json", nil
	}
	_, err = loadSecretMap("prod/valkey")
	assert.Error(t, err)
}

func TestLoadProdSecretsSuccess(t *testing.T) {
	originalGetSecret := getSecret
	getSecret = func(name string) (string, error) {
		switch name {
		case "prod/postgres":
			return `{"username":"user","password":"pass","engine":"postgres","host":"localhost","port":5432,"dbInstanceIdentifier":"silentaid"}`, nil
		case "prod/valkey":
			return `{"VALKEY_ADDR":"localhost:6379"}`, nil
		default:
			return "", errors.New("unknown")
		}
	}
	defer func() { getSecret = originalGetSecret }()

	assert.NoError(t, loadProdSecrets())
	assert.Equal(t, "user", os.Getenv("DB_USERNAME"))
	assert.Equal(t, "localhost", os.Getenv("DB_HOST"))
	assert.Equal(t, "5432", os.Getenv("DB_PORT"))
	assert.Equal(t, "silentaid", os.Getenv("DB_INSTANCE_IDENTIFIER"))
	assert.Equal(t, "localhost:6379", os.Getenv("VALKEY_ADDR"))
}

func TestLoadProdSecretsInvalidPostgresJSON(t *testing.T) {
	originalGetSecret := getSecret
	getSecret = func(name string) (string, error) {
		return "not-json", nil
	}
	defer func() { getSecret = originalGetSecret }()

	assert.Error(t, loadProdSecrets())
}

func TestLoadProdSecretsPostgresError(t *testing.T) {
	originalGetSecret := getSecret
	getSecret = func(name string) (string, error) {
		return "", errors.New("postgres error")
	}
	defer func() { getSecret = originalGetSecret }()

	assert.Error(t, loadProdSecrets())
}

func TestLoadProdSecretsValkeyOptional(t *testing.T) {
	originalGetSecret := getSecret
	getSecret = func(name string) (string, error) {
		if name == "prod/postgres" {
			return `{"username":"user","password":"pass","engine":"postgres","host":"localhost","port":5432,"dbInstanceIdentifier":"silentaid"}`, nil
		}
		return "", errors.New("no valkey secret")
	}
	defer func() { getSecret = originalGetSecret }()

	assert.NoError(t, loadProdSecrets())
}

func TestNewDocumentStoreMemory(t *testing.T) {
	documentStore, err := newDocumentStore(memoryConfig())
	assert.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, documentStore)
}

func TestNewDocumentStoreValkey(t *testing.T) {
	originalNewValkeyStore := newValkeyStore
	newValkeyStore = func(cfg config.ValkeyConfig) (*store.ValkeyStore, error) {
		return &store.ValkeyStore{}, nil
	}
	defer func() { newValkeyStore = originalNewValkeyStore }()

	cfg := memoryConfig()
	cfg.Store.Backend = config.StoreBackendValkey
	documentStore, err := newDocumentStore(cfg)
	assert.NoError(t, err)
	assert.IsType(t, &store.ValkeyStore{}, documentStore)
}

func TestNewDocumentStoreValkeyError(t *testing.T) {
	originalNewValkeyStore := newValkeyStore
	newValkeyStore = func(cfg config.ValkeyConfig) (*store.ValkeyStore, error) {
		return nil, errors.New("valkey error")
	}
	defer func() { newValkeyStore = originalNewValkeyStore }()

	cfg := memoryConfig()
	cfg.Store.Backend = config.StoreBackendValkey
	_, err := newDocumentStore(cfg)
	assert.ErrorContains(t, err, "valkey connection error")
}

func TestNewDocumentStorePostgresConnectError(t *testing.T) {
	originalConnectDB := connectDB
	connectDB = func(cfg config.DatabaseConfig) error { return errors.New("db error") }
	defer func() { connectDB = originalConnectDB }()

	cfg := memoryConfig()
	cfg.Store.Backend = config.StoreBackendPostgres
	_, err := newDocumentStore(cfg)
	assert.EqualError(t, err, "db error")
}

func TestRunSuccess(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	originalLoadEnv := loadEnv
	originalLoadConfig := loadConfig
	originalInitTelemetry := initTelemetry
	originalSetupRoutes := setupRoutes
	originalListenAndServe := listenAndServe

	loadEnv = func(_ ...string) error { return errors.New("no env") }
	loadConfig = func() (config.Config, error) { return memoryConfig(), nil }
	initTelemetry = stubTelemetry
	setupRoutes = func(apiHandler *handlers.APIHandler) *mux.Router {
		return mux.NewRouter()
	}
	var boundAddr string
	listenAndServe = func(addr string, handler http.Handler) error {
		boundAddr = addr
		return nil
	}

	defer func() {
		loadEnv = originalLoadEnv
		loadConfig = originalLoadConfig
		initTelemetry = originalInitTelemetry
		setupRoutes = originalSetupRoutes
		listenAndServe = originalListenAndServe
	}()

	assert.NoError(t, run())
	assert.Equal(t, ":5000", boundAddr)
}

func TestRunDefaultPort(t *testing.T) {
	t.Setenv("APP_ENV", "")
	originalLoadConfig := loadConfig
	originalInitTelemetry := initTelemetry
	originalListenAndServe := listenAndServe

	loadConfig = func() (config.Config, error) {
		cfg := memoryConfig()
		cfg.Port = ""
		return cfg, nil
	}
	initTelemetry = stubTelemetry
	var boundAddr string
	listenAndServe = func(addr string, handler http.Handler) error {
		boundAddr = addr
		return nil
	}

	defer func() {
		loadConfig = originalLoadConfig
		initTelemetry = originalInitTelemetry
		listenAndServe = originalListenAndServe
	}()

	assert.NoError(t, run())
	assert.Equal(t, ":5000", boundAddr)
}

func TestRunProdSecretsError(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	originalGetSecret := getSecret
	getSecret = func(name string) (string, error) { return "", errors.New("secret error") }
	defer func() { getSecret = originalGetSecret }()

	assert.Error(t, run())
}

func TestRunConfigError(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	originalLoadConfig := loadConfig
	loadConfig = func() (config.Config, error) { return config.Config{}, errors.New("config error") }
	defer func() { loadConfig = originalLoadConfig }()

	assert.ErrorContains(t, run(), "configuration error")
}

func TestRunTelemetryError(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	originalLoadConfig := loadConfig
	originalInitTelemetry := initTelemetry

	loadConfig = func() (config.Config, error) { return memoryConfig(), nil }
	initTelemetry = func(ctx context.Context, cfg config.Config) (func(context.Context) error, error) {
		return nil, errors.New("exporter error")
	}

	defer func() {
		loadConfig = originalLoadConfig
		initTelemetry = originalInitTelemetry
	}()

	assert.ErrorContains(t, run(), "telemetry error")
}

func TestRunStoreError(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	originalLoadConfig := loadConfig
	originalInitTelemetry := initTelemetry
	originalConnectDB := connectDB

	loadConfig = func() (config.Config, error) {
		cfg := memoryConfig()
		cfg.Store.Backend = config.StoreBackendPostgres
		return cfg, nil
	}
	initTelemetry = stubTelemetry
	connectDB = func(cfg config.DatabaseConfig) error { return errors.New("db error") }

	defer func() {
		loadConfig = originalLoadConfig
		initTelemetry = originalInitTelemetry
		connectDB = originalConnectDB
	}()

	assert.Error(t, run())
}

func TestRunListenError(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	originalLoadConfig := loadConfig
	originalInitTelemetry := initTelemetry
	originalListenAndServe := listenAndServe

	loadConfig = func() (config.Config, error) { return memoryConfig(), nil }
	initTelemetry = stubTelemetry
	listenAndServe = func(addr string, handler http.Handler) error {
		return errors.New("listen error")
	}

	defer func() {
		loadConfig = originalLoadConfig
		initTelemetry = originalInitTelemetry
		listenAndServe = originalListenAndServe
	}()

	assert.EqualError(t, run(), "listen error")
}
