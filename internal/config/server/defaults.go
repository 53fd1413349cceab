package server

import (
	"os"

	"github.com/spf13/viper"
)

func GetServerDefault() BaseServerConfig {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "filesmanager"
	}

	return BaseServerConfig{
		ShutdownTimeout: "10s",

		Log: LogServerConfig{
			Level:      "INFO",
			TimeFormat: "2006-01-02 15:04:05",
			File:       "",
			NoColor:    false,
			JSON:       false,
			NoTerminal: false,
			Rotation: LogServerRotationConfig{
				MaxSize:    128,
				MaxBackups: 5,
				MaxAge:     16,
				Compress:   false,
			},
		},
		HTTP: HTTPServerConfig{
			Address:      ":5000",
			ReadTimeout:  "30s",
			WriteTimeout: "60s",
			MaxBodySize:  64 << 20,
		},
		Metadata: MetadataServerConfig{
			Type: "sqlite",
			SQLite: MetadataSQLiteConfig{
				Path: "files_manager.db",
			},
		},
		Storage: StorageServerConfig{
			Type:       "local",
			FolderPath: "/tmp/files_manager",
			S3: StorageS3Config{
				Region:       "us-east-1",
				UsePathStyle: true,
			},
		},
		Redis: RedisServerConfig{
			Address: "127.0.0.1:6379",
			DB:      0,
		},
		Auth: AuthServerConfig{
			TokenTTL: "24h",
		},
		Queue: QueueServerConfig{
			Stream:    "fileQueue",
			Group:     "thumbnails",
			Consumer:  hostname,
			Buffer:    256,
			Block:     "5s",
			ClaimIdle: "1m",
		},
		Thumbnail: ThumbnailServerConfig{
			Widths:    []int{500, 250, 100},
			MaxPixels: 40_000_000,
		},
	}
}

func setDefaults() {
	defaults := GetServerDefault()

	viper.SetDefault("shutdown_timeout", defaults.ShutdownTimeout)

	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.time_format", defaults.Log.TimeFormat)
	viper.SetDefault("log.file", defaults.Log.File)
	viper.SetDefault("log.no_color", defaults.Log.NoColor)
	viper.SetDefault("log.json", defaults.Log.JSON)
	viper.SetDefault("log.no_terminal", defaults.Log.NoTerminal)
	viper.SetDefault("log.rotation.max_size", defaults.Log.Rotation.MaxSize)
	viper.SetDefault("log.rotation.max_backups", defaults.Log.Rotation.MaxBackups)
	viper.SetDefault("log.rotation.max_age", defaults.Log.Rotation.MaxAge)
	viper.SetDefault("log.rotation.compress", defaults.Log.Rotation.Compress)

	viper.SetDefault("http.address", defaults.HTTP.Address)
	viper.SetDefault("http.read_timeout", defaults.HTTP.ReadTimeout)
	viper.SetDefault("http.write_timeout", defaults.HTTP.WriteTimeout)
	viper.SetDefault("http.max_body_size", defaults.HTTP.MaxBodySize)

	viper.SetDefault("metadata.type", defaults.Metadata.Type)
	viper.SetDefault("metadata.sqlite.path", defaults.Metadata.SQLite.Path)

	viper.SetDefault("storage.type", defaults.Storage.Type)
	viper.SetDefault("storage.folder_path", defaults.Storage.FolderPath)
	viper.SetDefault("storage.s3.bucket", defaults.Storage.S3.Bucket)
	viper.SetDefault("storage.s3.region", defaults.Storage.S3.Region)
	viper.SetDefault("storage.s3.endpoint", defaults.Storage.S3.Endpoint)
	viper.SetDefault("storage.s3.access_key", defaults.Storage.S3.AccessKey)
	viper.SetDefault("storage.s3.secret_key", defaults.Storage.S3.SecretKey)
	viper.SetDefault("storage.s3.use_path_style", defaults.Storage.S3.UsePathStyle)

	viper.SetDefault("redis.address", defaults.Redis.Address)
	viper.SetDefault("redis.password", defaults.Redis.Password)
	viper.SetDefault("redis.db", defaults.Redis.DB)

	viper.SetDefault("auth.token_ttl", defaults.Auth.TokenTTL)
	viper.SetDefault("auth.jwt_secret", defaults.Auth.JWTSecret)

	viper.SetDefault("queue.stream", defaults.Queue.Stream)
	viper.SetDefault("queue.group", defaults.Queue.Group)
	viper.SetDefault("queue.consumer", defaults.Queue.Consumer)
	viper.SetDefault("queue.buffer", defaults.Queue.Buffer)
	viper.SetDefault("queue.block", defaults.Queue.Block)
	viper.SetDefault("queue.claim_idle", defaults.Queue.ClaimIdle)

	viper.SetDefault("thumbnail.widths", defaults.Thumbnail.Widths)
	viper.SetDefault("thumbnail.max_pixels", defaults.Thumbnail.MaxPixels)
}
