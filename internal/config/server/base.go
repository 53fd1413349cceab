package server

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type BaseServerConfig struct {
	ShutdownTimeout string `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"required"`

	Log       LogServerConfig       `mapstructure:"log"       yaml:"log"`
	HTTP      HTTPServerConfig      `mapstructure:"http"      yaml:"http"`
	Metadata  MetadataServerConfig  `mapstructure:"metadata"  yaml:"metadata"`
	Storage   StorageServerConfig   `mapstructure:"storage"   yaml:"storage"`
	Redis     RedisServerConfig     `mapstructure:"redis"     yaml:"redis"`
	Auth      AuthServerConfig      `mapstructure:"auth"      yaml:"auth"`
	Queue     QueueServerConfig     `mapstructure:"queue"     yaml:"queue"`
	Thumbnail ThumbnailServerConfig `mapstructure:"thumbnail" yaml:"thumbnail"`
}

func LoadServerConfig() (*BaseServerConfig, error) {
	cfg := &BaseServerConfig{}

	setDefaults()
	bindEnv()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// bindEnv maps nested keys onto FILESMANAGER_* variables and keeps the
// FOLDER_PATH variable understood by older deployments.
func bindEnv() {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.BindEnv("storage.folder_path", "FILESMANAGER_STORAGE_FOLDER_PATH", "FOLDER_PATH")
}
