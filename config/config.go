package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Cal.com configuration.
	CalAPIKey         string  `mapstructure:"CAL_API_KEY"`
	CalBaseURL        string  `mapstructure:"CAL_BASE_URL"`
	CalEventTypeID    int     `mapstructure:"CAL_EVENT_TYPE_ID"`
	CalRequestsPerSec float64 `mapstructure:"CAL_REQUESTS_PER_SEC"`

	// Dialogue configuration.
	DisplayTimezone    string `mapstructure:"DISPLAY_TIMEZONE"`
	BookingHorizonDays int    `mapstructure:"BOOKING_HORIZON_DAYS"`
	SessionTTLMinutes  int    `mapstructure:"SESSION_TTL_MINUTES"`

	// Session store: "redis", "sql" or "memory".
	SessionStore string `mapstructure:"SESSION_STORE"`
	SQLDriver    string `mapstructure:"SQL_DRIVER"`
	SQLDSN       string `mapstructure:"SQL_DSN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Booking records.
	RecordBookings bool   `mapstructure:"RECORD_BOOKINGS"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	DatabaseName   string `mapstructure:"DATABASE_NAME"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("CAL_API_KEY", "")
	v.SetDefault("CAL_BASE_URL", "https://api.cal.com/v2")
	v.SetDefault("CAL_EVENT_TYPE_ID", 0)
	v.SetDefault("CAL_REQUESTS_PER_SEC", 5)
	v.SetDefault("DISPLAY_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("BOOKING_HORIZON_DAYS", 30)
	v.SetDefault("SESSION_TTL_MINUTES", 30)
	v.SetDefault("SESSION_STORE", "redis")
	v.SetDefault("SQL_DRIVER", "sqlite")
	v.SetDefault("SQL_DSN", "calbot.db")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_SESSION_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)
	v.SetDefault("RECORD_BOOKINGS", false)
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "calbot")
}

// LoadConfig reads config.yaml (if present) and the environment into AppConfig
// and aborts the process when the result is not usable.
func LoadConfig() {
	v := viper.GetViper()
	// Look for a config file named "config.yaml" in the current and "config" directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	// Automatically use environment variables where available.
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := v.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := AppConfig.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
}

// Validate checks the values the dialogue cannot run without.
func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.CalAPIKey) == "" {
		problems = append(problems, "CAL_API_KEY is required")
	}
	if c.CalEventTypeID <= 0 {
		problems = append(problems, "CAL_EVENT_TYPE_ID must be positive")
	}
	if c.CalRequestsPerSec <= 0 {
		problems = append(problems, "CAL_REQUESTS_PER_SEC must be positive")
	}
	if _, err := time.LoadLocation(c.DisplayTimezone); err != nil {
		problems = append(problems, fmt.Sprintf("DISPLAY_TIMEZONE %q: %v", c.DisplayTimezone, err))
	}
	if c.BookingHorizonDays <= 0 {
		problems = append(problems, "BOOKING_HORIZON_DAYS must be positive")
	}
	if c.SessionTTLMinutes <= 0 {
		problems = append(problems, "SESSION_TTL_MINUTES must be positive")
	}
	switch c.SessionStore {
	case "redis", "memory":
	case "sql":
		if strings.TrimSpace(c.SQLDSN) == "" && c.SQLDriver != "sqlite" {
			problems = append(problems, "SQL_DSN is required for SESSION_STORE=sql")
		}
	default:
		problems = append(problems, fmt.Sprintf("SESSION_STORE %q is not one of redis, sql, memory", c.SessionStore))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

// Location returns the display timezone. Validate guarantees it loads.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
