package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type ApplicationSettings struct {
	ServerPort string

	PesacoreBaseURL              string
	PesacoreVerificationEndpoint string
	PesacoreConfirmationEndpoint string
	PesacoreAuthHeader           string
	PesacoreTimeout              time.Duration

	// TransactionIDSource is one of uuid, redis or static.
	TransactionIDSource string
	TransactionIDStatic string
	RedisAddr           string
	RedisSequenceKey    string

	NatsURL           string
	NatsSubjectPrefix string

	SettlementLenientResponse bool

	LogLevel  slog.Level
	LogFormat string
}

// LoadEnvironmentConfig reads a .env file when one exists, then the process
// environment.
func LoadEnvironmentConfig() *ApplicationSettings {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	return &ApplicationSettings{
		ServerPort: getEnvironmentVariable("PORT", "5000"),

		PesacoreBaseURL:              getEnvironmentVariable("PESACORE_BASE_URL", "http://localhost:8080"),
		PesacoreVerificationEndpoint: getEnvironmentVariable("PESACORE_VERIFICATION_ENDPOINT", "/api/v1/paymenthub/verification"),
		PesacoreConfirmationEndpoint: getEnvironmentVariable("PESACORE_CONFIRMATION_ENDPOINT", "/api/v1/paymenthub/confirmation"),
		PesacoreAuthHeader:           getEnvironmentVariable("PESACORE_AUTH_HEADER", ""),
		PesacoreTimeout:              getDurationEnvironmentVariable("PESACORE_TIMEOUT", 5*time.Second),

		TransactionIDSource: strings.ToLower(getEnvironmentVariable("TRANSACTION_ID_SOURCE", "uuid")),
		TransactionIDStatic: getEnvironmentVariable("TRANSACTION_ID_STATIC", "123"),
		RedisAddr:           getEnvironmentVariable("REDIS_ADDR", "localhost:6379"),
		RedisSequenceKey:    getEnvironmentVariable("REDIS_SEQUENCE_KEY", "paymenthub:transaction-seq"),

		NatsURL:           getEnvironmentVariable("NATS_URL", ""),
		NatsSubjectPrefix: getEnvironmentVariable("NATS_SUBJECT_PREFIX", "paymenthub"),

		SettlementLenientResponse: getBoolEnvironmentVariable("SETTLEMENT_LENIENT_RESPONSE", false),

		LogLevel:  parseLogLevel(getEnvironmentVariable("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnvironmentVariable("LOG_FORMAT", "text")),
	}
}

func (s *ApplicationSettings) ListenAddress() string {
	if strings.HasPrefix(s.ServerPort, ":") {
		return s.ServerPort
	}
	return ":" + s.ServerPort
}

func getEnvironmentVariable(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnvironmentVariable(key string, defaultValue bool) bool {
	if valueStr := os.Getenv(key); valueStr != "" {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getDurationEnvironmentVariable(key string, defaultValue time.Duration) time.Duration {
	if valueStr := os.Getenv(key); valueStr != "" {
		if value, err := time.ParseDuration(valueStr); err == nil && value > 0 {
			return value
		}
	}
	return defaultValue
}

func parseLogLevel(value string) slog.Level {
	switch strings.ToLower(value) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
