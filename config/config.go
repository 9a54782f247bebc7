package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB     int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB      int    `mapstructure:"REDIS_AUTH_DB"`
	RedisDeliveryDB  int    `mapstructure:"REDIS_DELIVERY_DB"`
	PriceCacheTTLMin int    `mapstructure:"PRICE_CACHE_TTL_MIN"`

	// Gemini API key for the classifier/interpreter adapters.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`

	// Quotation defaults. DefaultTaxRate is the fallback applied when no
	// regional tax rule is configured; its use is logged and surfaced on
	// the draft so it never hides as an implicit constant.
	DefaultTaxRate    float64 `mapstructure:"DEFAULT_TAX_RATE"`
	MaxPriceThreshold float64 `mapstructure:"MAX_PRICE_THRESHOLD"`
	PriceSearchLimit  int     `mapstructure:"PRICE_SEARCH_LIMIT"`
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
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_DELIVERY_DB", 2)
	viper.SetDefault("PRICE_CACHE_TTL_MIN", 10)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "ezzo_sales")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("DEFAULT_TAX_RATE", 0.09)
	viper.SetDefault("MAX_PRICE_THRESHOLD", 10000.0)
	viper.SetDefault("PRICE_SEARCH_LIMIT", 10)

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
