package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	Port    string
	GinMode string

	DBDriver    string
	DatabaseURL string
	DBPath      string
	DBLogging   bool

	WhatsAppToken   string
	PhoneNumberID   string
	APIVersion      string
	BaseURL         string
	ProviderTimeout time.Duration
	VerifyToken     string
	AppSecret       string

	LogMode string
	LogFile string

	AMQPURL      string
	AMQPExchange string

	AutomationMaxDelay time.Duration
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file")
	}

	return &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DBDriver:    getEnv("DB_DRIVER", "sqlite"),
		DatabaseURL: getEnv("DATABASE_URL", getEnv("DB_URL", "")),
		DBPath:      getEnv("DB_PATH", "./messaging.db"),
		DBLogging:   cast.ToBool(getEnv("DB_LOGGING", "false")),

		WhatsAppToken:   getEnv("WHATSAPP_ACCESS_TOKEN", ""),
		PhoneNumberID:   getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		APIVersion:      getEnv("WHATSAPP_API_VERSION", "v22.0"),
		BaseURL:         getEnv("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
		ProviderTimeout: getDuration("WHATSAPP_TIMEOUT", 5*time.Second),
		VerifyToken:     getEnv("WHATSAPP_VERIFY_TOKEN", ""),
		AppSecret:       getEnv("WHATSAPP_APP_SECRET", ""),

		LogMode: getEnv("LOG_MODE", "development"),
		LogFile: getEnv("LOG_FILE", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "messaging.events"),

		AutomationMaxDelay: getDuration("AUTOMATION_MAX_DELAY", time.Minute),
	}
}

// Validate reports settings that would prevent the server from starting.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("WHATSAPP_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getDuration accepts Go duration strings ("5s") or a bare number of milliseconds.
func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	if ms, err := cast.ToInt64E(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := cast.ToDurationE(value)
	if err != nil {
		log.Printf("Warning: invalid duration for %s, using %s", key, fallback)
		return fallback
	}
	return d
}
