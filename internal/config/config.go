package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds the service configuration
type Config struct {
	// HTTP server settings
	HTTPAddress string

	// n8n instance the workflows are fetched from
	N8nBaseURL string
	N8nAPIKey  string

	// Path of the JSON file tracking installed registry tools
	RegistryCachePath string

	Debug bool
}

// Load reads configuration from files and environment variables
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Configure environment variables before reading the config file
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envMappings := map[string]string{
		"HTTPAddress":       "HTTP_ADDRESS",
		"N8nBaseURL":        "N8N_BASE_URL",
		"N8nAPIKey":         "N8N_API_KEY",
		"RegistryCachePath": "REGISTRY_CACHE_PATH",
		"Debug":             "DEBUG",
	}

	for configKey, envVar := range envMappings {
		if err := v.BindEnv(configKey, envVar); err != nil {
			log.Warn().Err(err).Msgf("Failed to bind environment variable %s for %s", envVar, configKey)
		}
	}

	v.SetConfigName("templatize")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.templatize")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug().Msg("Config file not found, using environment variables and defaults")
	} else {
		log.Info().Msgf("Using config file: %s", v.ConfigFileUsed())
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTPAddress", ":8085")
	v.SetDefault("N8nBaseURL", "")
	v.SetDefault("N8nAPIKey", "")
	v.SetDefault("RegistryCachePath", "registry_cache.json")
	v.SetDefault("Debug", false)
}
