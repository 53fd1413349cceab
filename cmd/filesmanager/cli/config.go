package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var configPaths = []string{".", "./config", "/etc/filesmanager", "$HOME/.filesmanager"}

func initConfig(path string) error {
	envFiles := []string{".env", ".env.local"}
	for _, envFile := range envFiles {
		// Missing .env files are fine
		godotenv.Load(envFile)
	}

	if path != "" {
		viper.SetConfigFile(path)
		configDir := filepath.Dir(path)
		for _, envFile := range envFiles {
			godotenv.Load(filepath.Join(configDir, envFile))
		}
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		for _, configPath := range configPaths {
			viper.AddConfigPath(configPath)
			for _, envFile := range envFiles {
				godotenv.Load(filepath.Join(configPath, envFile))
			}
		}
	}

	viper.SetEnvPrefix("FILESMANAGER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}
