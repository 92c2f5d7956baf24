package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Storage backends for the saved stop collection.
const (
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port string

	Store      string
	DataFile   string
	SQLitePath string
	Database   DatabaseConfig

	GeocoderURL       string
	GeocoderUserAgent string
	GeocoderTimeout   time.Duration

	CORSOrigins []string
	JWTSecret   string

	LogFile   string
	LogStdout bool
	LogLevel  string
}

// DatabaseConfig describes the postgres connection used when Store is "postgres".
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, relying on env vars")
	}

	return Config{
		Port:       getEnv("PORT", "8080"),
		Store:      strings.ToLower(getEnv("PLANNER_STORE", StoreFile)),
		DataFile:   getEnv("PLANNER_DATA_FILE", "./data/stops.json"),
		SQLitePath: getEnv("SQLITE_DATABASE", "./data/planner.db"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "planner"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			TimeZone: getEnv("DB_TIMEZONE", "UTC"),
		},
		GeocoderURL:       getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org/search"),
		GeocoderUserAgent: getEnv("GEOCODER_USER_AGENT", "RoutingGuideApp/1.0"),
		GeocoderTimeout:   time.Duration(getEnvInt("GEOCODER_TIMEOUT_SECONDS", 8)) * time.Second,
		CORSOrigins:       splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		LogFile:           getEnv("LOG_FILE", "./logs/planner.log"),
		LogStdout:         getEnvBool("LOG_STDOUT", false),
		LogLevel:          getEnv("LOG_LEVEL", "debug"),
	}
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		logrus.WithField("key", key).Warnf("Ignoring invalid value %q, using %d", v, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	v, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return defaultValue
	}
	return b
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
