package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	Timezone          string `mapstructure:"TIMEZONE"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// MongoDB, used when a backend below is set to "mongo".
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Backends: "file" or "mongo" for salons, "redis" or "mongo" for history,
	// "memory" or "redis" for the availability cache.
	SalonSource       string `mapstructure:"SALON_SOURCE"`
	SalonDataFile     string `mapstructure:"SALON_DATA_FILE"`
	HistoryBackend    string `mapstructure:"HISTORY_BACKEND"`
	AvailabilityCache string `mapstructure:"AVAILABILITY_CACHE"`

	// Booking engine.
	SlotDaysAhead       int           `mapstructure:"SLOT_DAYS_AHEAD"`
	AvailabilityTimeout time.Duration `mapstructure:"AVAILABILITY_TIMEOUT"`
	PaymentTimeout      time.Duration `mapstructure:"PAYMENT_TIMEOUT"`
	SessionIdleTTL      time.Duration `mapstructure:"SESSION_IDLE_TTL"`

	// Payments.
	StripeKey      string `mapstructure:"STRIPE_KEY"`
	StripeCurrency string `mapstructure:"STRIPE_CURRENCY"`

	// Confirmation notifications.
	NotificationsEnabled bool   `mapstructure:"NOTIFICATIONS_ENABLED"`
	TwilioAccountSID     string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken      string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber    string `mapstructure:"TWILIO_PHONE_NUMBER"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("TIMEZONE", "Europe/Stockholm")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "neoncut")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("SALON_SOURCE", "file")
	viper.SetDefault("SALON_DATA_FILE", "data/salons.json")
	viper.SetDefault("HISTORY_BACKEND", "redis")
	viper.SetDefault("AVAILABILITY_CACHE", "memory")
	viper.SetDefault("SLOT_DAYS_AHEAD", 7)
	viper.SetDefault("AVAILABILITY_TIMEOUT", 5*time.Second)
	viper.SetDefault("PAYMENT_TIMEOUT", 30*time.Second)
	viper.SetDefault("SESSION_IDLE_TTL", 30*time.Minute)
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("STRIPE_CURRENCY", "sek")
	viper.SetDefault("NOTIFICATIONS_ENABLED", false)
	viper.SetDefault("TWILIO_ACCOUNT_SID", "")
	viper.SetDefault("TWILIO_AUTH_TOKEN", "")
	viper.SetDefault("TWILIO_PHONE_NUMBER", "")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location resolves TIMEZONE, falling back to the host's local zone.
func Location() *time.Location {
	if AppConfig.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(AppConfig.Timezone)
	if err != nil {
		log.Printf("Unknown TIMEZONE %q, using local time", AppConfig.Timezone)
		return time.Local
	}
	return loc
}
