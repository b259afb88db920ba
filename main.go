package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/chromalens/api/analysis"
	"github.com/chromalens/api/api"
	"github.com/chromalens/api/datastore"
	"github.com/chromalens/api/gemini"
	"github.com/chromalens/api/migrations"
	"github.com/chromalens/api/scheduler"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := loadConfig()

	blobs, analysisRepo, closeStores, err := openStores(config)
	if err != nil {
		log.Fatalf("Failed to open datastores: %v", err)
	}
	defer closeStores()

	app := &api.Application{
		Config:       config,
		Blobs:        blobs,
		AnalysisRepo: analysisRepo,
	}

	if config.GeminiAPIKey != "" {
		client, err := gemini.NewClient(context.Background(), config.GeminiAPIKey, config.GeminiModel)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		defer client.Close()
		app.Labels = client
		app.Narrator = client
	} else {
		log.Println("GEMINI_API_KEY not set; label detection and insights disabled")
	}

	// Start scheduler for retention purges
	retention := scheduler.NewScheduler(blobs, analysisRepo, time.Duration(config.RetentionDays)*24*time.Hour)
	retention.Start()
	defer retention.Stop()

	mux := http.NewServeMux()

	fmt.Println("ChromaLens API Starting...")
	if err := app.Serve(mux); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func loadConfig() api.Config {
	opts := analysis.DefaultOptions()
	opts.MaxSamples = getEnvInt("MAX_SAMPLES", opts.MaxSamples)
	opts.GridSize = getEnvInt("GRID_SIZE", opts.GridSize)
	opts.Seed = int64(getEnvInt("CLUSTER_SEED", int(opts.Seed)))
	opts.TimeBudget = getEnvDuration("ANALYSIS_TIME_BUDGET", 0)
	opts.MaxPixels = int64(getEnvInt("MAX_IMAGE_PIXELS", int(opts.MaxPixels)))

	port := getEnv("HTTP_PORT", ":8080")
	return api.Config{
		HTTPPort:         port,
		DatabaseType:     getEnv("DB_TYPE", "postgres"),
		DatabaseHost:     getEnv("DB_HOST", "localhost"),
		DatabaseUser:     getEnv("DB_USER", "postgres"),
		DatabasePassword: getEnv("DB_PASSWORD", ""),
		DatabaseName:     getEnv("DB_NAME", "chromalens"),
		SSLMode:          getEnv("SSL_MODE", "disable"),
		BlobURLSecret:    getEnv("BLOB_URL_SECRET", "change-this-blob-secret"),
		BlobURLTTL:       getEnvInt("BLOB_URL_TTL", 3600), // 1 hour
		PublicBaseURL:    strings.TrimSuffix(getEnv("PUBLIC_BASE_URL", "http://localhost"+port), "/"),
		AllowedOrigins:   getEnvSlice("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		DevMode:          getEnvBool("DEV_MODE", true),
		MaxImageBytes:    int64(getEnvInt("MAX_IMAGE_BYTES", 10<<20)),
		StoreImages:      getEnvBool("STORE_IMAGES", true),
		RetentionDays:    getEnvInt("RETENTION_DAYS", 30),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", gemini.DefaultModel),
		Analysis:         opts,
	}
}

// openStores returns the blob store and analysis repository for DB_TYPE
func openStores(config api.Config) (datastore.BlobStore, datastore.AnalysisRepository, func(), error) {
	if config.DatabaseType == "memory" {
		log.Println("Using in-memory datastores; data is lost on restart")
		return datastore.NewMemoryBlobStore(config.Signer()), datastore.NewMemoryAnalysisStore(), func() {}, nil
	}

	connStr := datastore.BuildDBConnStr(
		config.DatabasePassword,
		config.DatabaseUser,
		config.DatabaseHost,
		config.DatabaseName,
		config.SSLMode,
	)

	dbConn, err := datastore.NewDB(config.DatabaseType, connStr)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	closeDB := func() { dbConn.Close() }

	log.Println("Running database migrations...")
	if err := migrations.RunMigrations(dbConn.DB); err != nil {
		closeDB()
		return nil, nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	blobs, err := datastore.NewBlobDatabase(dbConn, config.Signer())
	if err != nil {
		closeDB()
		return nil, nil, nil, err
	}
	analyses, err := datastore.NewAnalysisDatabase(dbConn)
	if err != nil {
		closeDB()
		return nil, nil, nil, err
	}
	return blobs, analyses, closeDB, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolVal
}

func getEnvSlice(key, defaultValue string) []string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	parts := strings.Split(value, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
