package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int    `mapstructure:"REDIS_CACHE_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Payments.
	StripeKey string `mapstructure:"STRIPE_KEY"`

	// Push notifications.
	FirebaseServiceAccountKeyPath string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`

	// Calendar engine tuning.
	CalendarRetryMaxAttempts int `mapstructure:"CALENDAR_RETRY_MAX_ATTEMPTS"`
	CalendarRetryBackoffMS   int `mapstructure:"CALENDAR_RETRY_BACKOFF_MS"`

	// Default policy windows, applied when availability was published
	// without a policy snapshot.
	MinCancelNoticeHours     int     `mapstructure:"MIN_CANCEL_NOTICE_HOURS"`
	MinRescheduleNoticeHours int     `mapstructure:"MIN_RESCHEDULE_NOTICE_HOURS"`
	FullRefundNoticeHours    int     `mapstructure:"FULL_REFUND_NOTICE_HOURS"`
	PartialRefundRate        float64 `mapstructure:"PARTIAL_REFUND_RATE"`

	// Session types a coach may book outside published availability.
	ExemptSessionTypes []string `mapstructure:"EXEMPT_SESSION_TYPES"`

	// Flat pricing fallback.
	DefaultHourlyRate float64 `mapstructure:"DEFAULT_HOURLY_RATE"`
	DefaultCurrency   string  `mapstructure:"DEFAULT_CURRENCY"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 3)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("CALENDAR_RETRY_MAX_ATTEMPTS", 3)
	viper.SetDefault("CALENDAR_RETRY_BACKOFF_MS", 50)
	viper.SetDefault("MIN_CANCEL_NOTICE_HOURS", 12)
	viper.SetDefault("MIN_RESCHEDULE_NOTICE_HOURS", 12)
	viper.SetDefault("FULL_REFUND_NOTICE_HOURS", 48)
	viper.SetDefault("PARTIAL_REFUND_RATE", 0.5)
	viper.SetDefault("DEFAULT_HOURLY_RATE", 60.0)
	viper.SetDefault("DEFAULT_CURRENCY", "USD")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
