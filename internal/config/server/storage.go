package server

// StorageServerConfig selects the blob store holding uploaded file content.
// FolderPath is the storage root for the local store and the key prefix for S3.
type StorageServerConfig struct {
	Type       string          `mapstructure:"type"        yaml:"type"        validate:"required,oneof=local s3"`
	FolderPath string          `mapstructure:"folder_path" yaml:"folder_path" validate:"required"`
	S3         StorageS3Config `mapstructure:"s3"          yaml:"s3"`
}

type StorageS3Config struct {
	Bucket       string `mapstructure:"bucket"         yaml:"bucket"`
	Region       string `mapstructure:"region"         yaml:"region"`
	Endpoint     string `mapstructure:"endpoint"       yaml:"endpoint"`
	AccessKey    string `mapstructure:"access_key"     yaml:"access_key"`
	SecretKey    string `mapstructure:"secret_key"     yaml:"secret_key"`
	UsePathStyle bool   `mapstructure:"use_path_style" yaml:"use_path_style"`
}
