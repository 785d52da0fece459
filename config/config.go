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
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// MongoDB configuration.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr            string        `mapstructure:"REDIS_ADDR"`
	RedisPassword        string        `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int           `mapstructure:"REDIS_CACHE_DB"`
	AvailabilityCacheTTL time.Duration `mapstructure:"AVAILABILITY_CACHE_TTL"`

	// Studio scheduling.
	StudioTimezone         string `mapstructure:"STUDIO_TIMEZONE"`
	StudioRoomID           string `mapstructure:"STUDIO_ROOM_ID"`
	DefaultSlotDurationMin int    `mapstructure:"DEFAULT_SLOT_DURATION_MIN"`
	DefaultOpen            string `mapstructure:"DEFAULT_OPEN"`
	DefaultClose           string `mapstructure:"DEFAULT_CLOSE"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env is optional; real deployments inject the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017/?replicaSet=rs0")
	viper.SetDefault("DATABASE_NAME", "podstudio")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("AVAILABILITY_CACHE_TTL", "30s")
	viper.SetDefault("STUDIO_TIMEZONE", "Europe/Paris")
	viper.SetDefault("STUDIO_ROOM_ID", "podcast-room")
	viper.SetDefault("DEFAULT_SLOT_DURATION_MIN", 60)
	viper.SetDefault("DEFAULT_OPEN", "09:00")
	viper.SetDefault("DEFAULT_CLOSE", "18:00")

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

// StudioLocation resolves the studio's wall-clock zone. Business hours and
// booking dates are always interpreted in this location.
func StudioLocation() (*time.Location, error) {
	name := AppConfig.StudioTimezone
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}
