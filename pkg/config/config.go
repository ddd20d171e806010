package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DataStoreFirestore = "firestore"
	DataStoreMemory    = "memory"
)

type Config struct {
	ServerPort      string
	FirebaseProject string
	Environment     string
	DataStore       string
	StorageBucket   string

	ServiceAccountJSON string
	ServiceAccountPath string

	LogLevel  string
	LogPretty bool

	// AllowedOrigins restricts CORS and WebSocket upgrades. Empty allows any.
	AllowedOrigins []string

	SearchPageSize  int
	MessagePageSize int
}

func Load() (*Config, error) {
	godotenv.Load()

	environment := getEnv("ENVIRONMENT", "development")

	config := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		FirebaseProject: getEnv("FIREBASE_PROJECT_ID", ""),
		Environment:     environment,
		DataStore:       getEnv("DATA_STORE", DataStoreFirestore),
		StorageBucket:   getEnv("STORAGE_BUCKET", ""),

		ServiceAccountJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		ServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", "./serviceAccountKey.json"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvAsBool("LOG_PRETTY", environment == "development"),

		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS"),

		SearchPageSize:  getEnvAsInt("SEARCH_PAGE_SIZE", 50),
		MessagePageSize: getEnvAsInt("MESSAGE_PAGE_SIZE", 100),
	}

	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
