package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"silentaid/config"
	"silentaid/db"
	"silentaid/handlers"
	"silentaid/middleware"
	"silentaid/routes"
	"silentaid/secretmanager" // Ensure this is available in production.
	"silentaid/store"
	"silentaid/telemetry"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	loadEnv        = godotenv.Load
	loadConfig     = config.Load
	connectDB      = db.Connect
	newValkeyStore = store.NewValkeyStore
	initTelemetry  = telemetry.Init
	setupRoutes    = routes.SetupRoutes
	listenAndServe = http.ListenAndServe
	getSecret      = secretmanager.GetSecret
	logFatal       = log.Fatal
)

func loadSecretMap(secretName string) (map[string]string, error) {
	secretJSON, err := getSecret(secretName)
	if err != nil {
		return nil, err
	}
	secrets := make(map[string]string)
	if err := json.Unmarshal([]byte(secretJSON), &secrets); err != nil {
		return nil, err
	}
	return secrets, nil
}

func loadProdSecrets() error {
	pgSecrets, err := getSecret("prod/postgres")
	if err != nil {
		return fmt.Errorf("error retrieving Postgres secret: %w", err)
	}
	var pgValues map[string]interface{}
	if err := json.Unmarshal([]byte(pgSecrets), &pgValues); err != nil {
		return fmt.Errorf("error parsing Postgres secret JSON: %w", err)
	}
	os.Setenv("DB_USERNAME", pgValues["username"].(string))
	os.Setenv("DB_PASSWORD", pgValues["password"].(string))
	os.Setenv("DB_ENGINE", pgValues["engine"].(string))
	os.Setenv("DB_HOST", pgValues["host"].(string))
	os.Setenv("DB_PORT", fmt.Sprintf("%v", pgValues["port"]))
	os.Setenv("DB_INSTANCE_IDENTIFIER", pgValues["dbInstanceIdentifier"].(string))

	valkeySecrets, err := loadSecretMap("prod/valkey")
	if err == nil {
		for key, value := range valkeySecrets {
			os.Setenv(key, value)
		}
	}
	return nil
}

func newDocumentStore(cfg config.Config) (store.DocumentStore, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendMemory:
		log.Println("Using in-memory document store; alerts are lost on restart")
		return store.NewMemoryStore(), nil
	case config.StoreBackendValkey:
		valkeyStore, err := newValkeyStore(cfg.Valkey)
		if err != nil {
			return nil, fmt.Errorf("valkey connection error: %w", err)
		}
		return valkeyStore, nil
	default:
		if err := connectDB(cfg.DB); err != nil {
			return nil, err
		}
		postgresStore := store.NewPostgresStore(db.DB)
		if err := postgresStore.EnsureSchema(context.Background()); err != nil {
			return nil, err
		}
		return postgresStore, nil
	}
}

func main() {
	if err := run(); err != nil {
		logFatal(err)
	}
}

func run() error {
	if err := loadEnv(); err != nil {
		log.Println("No .env file found; using system environment variables")
	}
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}
	log.Println("Environment:", appEnv)

	if appEnv == "prod" {
		if err := loadProdSecrets(); err != nil {
			return err
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	shutdownTelemetry, err := initTelemetry(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("telemetry error: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			log.Printf("telemetry shutdown error: %v", err)
		}
	}()

	documentStore, err := newDocumentStore(cfg)
	if err != nil {
		return err
	}
	defer documentStore.Close()

	apiHandler := handlers.NewAPIHandler(documentStore)
	router := setupRoutes(apiHandler)

	corsOpts := []gorillaHandlers.CORSOption{
		gorillaHandlers.AllowedOrigins(cfg.CORS.AllowedOrigins),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With"}),
	}

	handler := middleware.RequestLogger(gorillaHandlers.CORS(corsOpts...)(router))
	handler = otelhttp.NewHandler(handler, "http.server")

	port := cfg.Port
	if port == "" {
		port = "5000"
	}

	log.Printf("Starting server on port %s in %s environment (store: %s)", port, cfg.AppEnv, cfg.Store.Backend)
	return listenAndServe(":"+port, handler)
}
