package client

import (
	"fmt"

	"github.com/spf13/viper"
)

// ClientConfig holds the settings used by the files and connect commands
// when they talk to a running agent.
type ClientConfig struct {
	Address string `mapstructure:"address" yaml:"address"`
	Token   string `mapstructure:"token"   yaml:"token"`
}

func LoadClientConfig() (*ClientConfig, error) {
	viper.SetDefault("client.address", "http://127.0.0.1:5000")
	viper.SetDefault("client.token", "")

	cfg := &ClientConfig{}
	if err := viper.UnmarshalKey("client", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal client configuration: %w", err)
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("client.address is required")
	}

	return cfg, nil
}
