package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	ServerAddr  string `mapstructure:"SERVER_ADDR"`

	// Login rate limiting policy. Defaults to 5 attempts per minute per
	// client, matching the brute-force ceiling on /login.
	LoginRateLimit         int `mapstructure:"LOGIN_RATE_LIMIT"`
	LoginRateWindowSeconds int `mapstructure:"LOGIN_RATE_WINDOW_SECONDS"`

	// TTL for the cached /friends response, in seconds.
	FriendsCacheTTLSeconds int `mapstructure:"FRIENDS_CACHE_TTL_SECONDS"`
}

var AppConfig *Config

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_ADDR", ":8080")
	viper.SetDefault("LOGIN_RATE_LIMIT", 5)
	viper.SetDefault("LOGIN_RATE_WINDOW_SECONDS", 60)
	viper.SetDefault("FRIENDS_CACHE_TTL_SECONDS", 900)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
