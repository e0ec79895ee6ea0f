package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store backends selectable via STORE_BACKEND.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config holds all configuration for the ledger service.
type Config struct {
	// gRPC server port
	GRPCPort int
	// TLS certificate and key for the gRPC endpoint; empty runs plaintext
	TLSCertFile string
	TLSKeyFile  string
	// HTTP metrics/health port
	HTTPPort int
	// Service name for observability
	ServiceName string
	// Log level and format
	Log LogConfig
	// Store backend: memory or postgres
	StoreBackend string
	// Database configuration, used when StoreBackend is postgres
	Database DatabaseConfig
	// Kafka configuration; empty brokers disable event publishing
	Kafka KafkaConfig
	// Bank identity used for identifier generation
	Bank BankConfig
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json", "text"
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN returns the PostgreSQL data source name.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// KafkaConfig holds Kafka connection settings.
type KafkaConfig struct {
	Brokers []string
}

// Enabled reports whether event publishing is configured.
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// BankConfig identifies the institution the service runs for.
type BankConfig struct {
	// CountryCode is the two-letter country prefix of generated identifiers.
	CountryCode string
	// BankCode is an eight-digit institution code.
	BankCode int
	// OperatingAccountNumber is the account number of the bank's own
	// operating account, the counterparty of cash transactions.
	OperatingAccountNumber int64
}

// Validate checks required configuration values.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case StoreMemory:
	case StorePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	if c.Bank.BankCode <= 0 {
		return fmt.Errorf("BANK_CODE must be positive")
	}
	return nil
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	return Config{
		GRPCPort:     getEnvInt("GRPC_PORT", 8090),
		TLSCertFile:  getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:   getEnv("TLS_KEY_FILE", ""),
		HTTPPort:     getEnvInt("HTTP_PORT", 9090),
		ServiceName:  getEnv("SERVICE_NAME", "ledger-service"),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		StoreBackend: getEnv("STORE_BACKEND", StoreMemory),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "bank"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "bank_ledger"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "")),
		},
		Bank: BankConfig{
			CountryCode:            getEnv("BANK_COUNTRY", "DE"),
			BankCode:               getEnvInt("BANK_CODE", 30120400),
			OperatingAccountNumber: int64(getEnvInt("BANK_OPERATING_ACCOUNT", 1)),
		},
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func splitList(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
