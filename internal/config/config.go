package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting. Loaded once in main and passed to the
// components that need it; nothing in this package is a mutable singleton.
type Config struct {
	ListenAddr string

	MongoURI      string
	MongoDatabase string

	// Deadline applied around every document/blob store call.
	StoreDeadline time.Duration
	// How often live subscriptions re-poll their snapshot.
	PollInterval time.Duration

	JWTSecret string

	// Blob storage: "local" or "s3".
	BlobDriver   string
	LocalBlobDir string
	LocalBlobURL string
	S3Bucket     string
	S3Region     string
	S3Key        string
	S3Secret     string
	S3Endpoint   string
	S3BaseURL    string
}

// Load reads .env (if present) and assembles the configuration from
// environment variables with development defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}

	return Config{
		ListenAddr:    getEnv("LISTEN_ADDR", "0.0.0.0:8080"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DB", "roadcall"),
		StoreDeadline: getDuration("STORE_DEADLINE", 10*time.Second),
		PollInterval:  getDuration("FEED_POLL_INTERVAL", 2*time.Second),
		JWTSecret:     getEnv("JWT_SECRET", "supersecret"),
		BlobDriver:    getEnv("BLOB_DRIVER", "local"),
		LocalBlobDir:  getEnv("BLOB_LOCAL_DIR", "./uploads"),
		LocalBlobURL:  getEnv("BLOB_LOCAL_URL", "http://localhost:8080/uploads"),
		S3Bucket:      getEnv("S3_BUCKET", ""),
		S3Region:      getEnv("S3_REGION", "us-east-1"),
		S3Key:         getEnv("S3_KEY", ""),
		S3Secret:      getEnv("S3_SECRET", ""),
		S3Endpoint:    getEnv("S3_ENDPOINT", ""),
		S3BaseURL:     getEnv("S3_URL", ""),
	}
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return defaultValue
}
