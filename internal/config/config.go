// Package config reads service configuration from the environment, with a
// .env file loaded first when present.
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config is the flat service configuration.
type Config struct {
	Addr             string // listen address
	AllowedOrigin    string // CORS origin for the frontend
	CatalogPath      string // scene catalog JSON file
	LocalSnapshot    string // local snapshot tier file
	ValkeyAddr       string // baseline tier; empty = in-memory baseline
	BaselineKey      string // valkey key holding the baseline document
	EditPasswordHash string // bcrypt hash gating edit mode; empty = open
	JWTSecret        string // secret for edit tokens; empty = auth disabled
}

// Load reads the .env file (if any) and assembles the configuration with
// defaults suitable for local development.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[Config] No .env file found, using environment and defaults")
	}

	return Config{
		Addr:             getenv("ROADVIEW_ADDR", ":8080"),
		AllowedOrigin:    getenv("ROADVIEW_ALLOWED_ORIGIN", "http://127.0.0.1:5173"),
		CatalogPath:      getenv("ROADVIEW_CATALOG", "data/scenes.json"),
		LocalSnapshot:    getenv("ROADVIEW_LOCAL_SNAPSHOT", "data/roadview-local.json"),
		ValkeyAddr:       os.Getenv("ROADVIEW_VALKEY_ADDR"),
		BaselineKey:      getenv("ROADVIEW_BASELINE_KEY", "roadview:settings"),
		EditPasswordHash: os.Getenv("ROADVIEW_EDIT_PASSWORD_HASH"),
		JWTSecret:        os.Getenv("ROADVIEW_JWT_SECRET"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
