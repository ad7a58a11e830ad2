package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Booking  BookingConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// RedisConfig controls the optional seat plan cache. An empty Addr
// disables caching entirely.
type RedisConfig struct {
	Addr        string
	SeatPlanTTL time.Duration
}

// BookingConfig tunes the seat acquisition path: how long a request
// waits for one seat lock, how often the whole attempt is retried on
// contention, and the pause between attempts.
type BookingConfig struct {
	LockWait     time.Duration
	MaxAttempts  int
	RetryBackoff time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("SEAT_PLAN_TTL_SECONDS", 30)
	viper.SetDefault("BOOKING_LOCK_WAIT_MS", 200)
	viper.SetDefault("BOOKING_MAX_ATTEMPTS", 3)
	viper.SetDefault("BOOKING_RETRY_BACKOFF_MS", 25)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:        viper.GetString("REDIS_ADDR"),
			SeatPlanTTL: time.Duration(viper.GetInt("SEAT_PLAN_TTL_SECONDS")) * time.Second,
		},
		Booking: BookingConfig{
			LockWait:     time.Duration(viper.GetInt("BOOKING_LOCK_WAIT_MS")) * time.Millisecond,
			MaxAttempts:  viper.GetInt("BOOKING_MAX_ATTEMPTS"),
			RetryBackoff: time.Duration(viper.GetInt("BOOKING_RETRY_BACKOFF_MS")) * time.Millisecond,
		},
	}

	return config, nil
}
