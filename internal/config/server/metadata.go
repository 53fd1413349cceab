package server

// MetadataServerConfig holds metadata store configuration
type MetadataServerConfig struct {
	Type   string               `mapstructure:"type"   yaml:"type"   validate:"required,oneof=sqlite"`
	SQLite MetadataSQLiteConfig `mapstructure:"sqlite" yaml:"sqlite"`
}

// MetadataSQLiteConfig holds SQLite-specific configuration
type MetadataSQLiteConfig struct {
	Path string `mapstructure:"path" yaml:"path" validate:"required"`
}
