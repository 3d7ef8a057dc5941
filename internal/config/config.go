package config

import (
	"errors"
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Storage StorageConfig `yaml:"storage"`
	Bidding BiddingConfig `yaml:"bidding"`
	Logger  LoggerConfig  `yaml:"logger"`
}

type HTTPConfig struct {
	Port int `yaml:"port"`
}

// StorageConfig selects the persistence backend. Driver is either "memory"
// or "sqlite"; Path is only used by the sqlite driver.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type BiddingConfig struct {
	RetryLimit int `yaml:"retry_limit"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath(".") // if its current directory

	viper.SetDefault("http.port", 8080)
	viper.SetDefault("storage.driver", "memory")
	viper.SetDefault("storage.path", "data/auction.db")
	viper.SetDefault("bidding.retry_limit", 3)
	viper.SetDefault("logger.level", "info")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Run on defaults when no config file is present.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Bidding.RetryLimit = viper.GetInt("bidding.retry_limit")

	return &config, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		log.Fatalf("Could not load configuration: %v", err)
	}
	return config
}
