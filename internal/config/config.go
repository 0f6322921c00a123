package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Mongo      MongoConfig
	Cloudinary CloudinaryConfig
}

type ServerConfig struct {
	Port string
}

type MongoConfig struct {
	URL     string
	Name    string
	Timeout time.Duration
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

var requiredKeys = []string{
	"PORT",
	"MONGODB_URL",
	"CLOUDINARY_CLOUD_NAME",
	"CLOUDINARY_API_KEY",
	"CLOUDINARY_API_SECRET",
}

// Load reads configuration from the environment, with an optional .env file
// for local development. Every key in requiredKeys must be set; startup is the
// only place configuration is read, so a miss here aborts the process.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // .env is optional, the environment always wins
	v.AutomaticEnv()

	v.SetDefault("MONGODB_DB", "dwellio")
	v.SetDefault("MONGO_TIMEOUT", "10s")

	var missing []string
	for _, key := range requiredKeys {
		if strings.TrimSpace(v.GetString(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	timeout := v.GetDuration("MONGO_TIMEOUT")
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid MONGO_TIMEOUT: %q", v.GetString("MONGO_TIMEOUT"))
	}

	return &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
		},
		Mongo: MongoConfig{
			URL:     v.GetString("MONGODB_URL"),
			Name:    v.GetString("MONGODB_DB"),
			Timeout: timeout,
		},
		Cloudinary: CloudinaryConfig{
			CloudName: v.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:    v.GetString("CLOUDINARY_API_KEY"),
			APISecret: v.GetString("CLOUDINARY_API_SECRET"),
		},
	}, nil
}
