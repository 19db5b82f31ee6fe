package main

import (
	"fmt"

	"github.com/spf13/viper"
)

// config holds the server configuration, read from the environment.
type config struct {
	Port     string
	LogLevel string
}

func loadConfig() (config, error) {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")

	v.AutomaticEnv()
	envBindings := map[string]string{
		"port":      "PORT",
		"log_level": "LOG_LEVEL",
	}
	for key, envVar := range envBindings {
		if err := v.BindEnv(key, envVar); err != nil {
			return config{}, fmt.Errorf("failed to bind env var %s: %w", envVar, err)
		}
	}

	return config{
		Port:     v.GetString("port"),
		LogLevel: v.GetString("log_level"),
	}, nil
}
