package config

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	HTTPAddr    string `mapstructure:"HTTP_ADDR"`

	// Outbound push notification endpoint; dispatch is disabled when empty.
	NotifyURL    string `mapstructure:"NOTIFY_URL"`
	NotifyAPIKey string `mapstructure:"NOTIFY_API_KEY"`

	// External game-catalogue metadata endpoint; lookups are skipped when
	// empty.
	MetadataURL string `mapstructure:"METADATA_URL"`
}

var AppConfig *Config

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.SetDefault("HTTP_ADDR", ":8080")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Warn(".env file not found, loading from environment variables")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		logrus.WithError(err).Fatal("unable to decode configuration")
	}
}
