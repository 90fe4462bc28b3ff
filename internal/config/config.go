// Package config loads the relay server configuration from the environment.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds the settings shared by the relay server and the operator CLI.
type Config struct {
	ServerPort  string
	Environment string

	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	SQLitePath  string

	// RedisAddr empty disables the presence mirror.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AllowedOrigins []string

	// AdminTokenSecret empty disables operator token checks on admin handshakes.
	AdminTokenSecret string

	// StoreTimeout bounds a single persistence call made while relaying an event.
	StoreTimeout time.Duration
}

// Load reads configuration from environment variables, reading a .env file first outside production.
func Load() *Config {
	env := getEnv("ENV", "development")
	if !strings.EqualFold(env, "production") {
		if err := godotenv.Load(); err != nil {
			log.Println("INFO: no .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		Environment:      env,
		DBDriver:         strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", ""),
		DBPassword:       getEnv("DB_PASSWORD", ""),
		DBName:           getEnv("DB_NAME", "shopchat"),
		SQLitePath:       getEnv("SQLITE_PATH", "shopchat.db"),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvAsInt("REDIS_DB", 0),
		AllowedOrigins:   splitList(getEnv("ALLOWED_ORIGINS", "")),
		AdminTokenSecret: getEnv("ADMIN_TOKEN_SECRET", ""),
		StoreTimeout:     time.Duration(getEnvAsInt("STORE_TIMEOUT_SECONDS", 10)) * time.Second,
	}

	return cfg
}

// Validate reports settings that make the server unusable.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.IsProduction() && c.DBDriver == DriverPostgres && c.DatabaseURL == "" {
		missing := []string{}
		if c.DBUser == "" {
			missing = append(missing, "DB_USER")
		}
		if c.DBPassword == "" {
			missing = append(missing, "DB_PASSWORD")
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing required production environment variables: %v", missing)
		}
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// PostgresDSN returns DATABASE_URL, or a key/value DSN built from the DB_* variables.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("WARN: could not parse env var %s as integer, using default %d", key, defaultValue)
		return defaultValue
	}
	return intValue
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
