package server

type QueueServerConfig struct {
	Stream    string `mapstructure:"stream"     yaml:"stream"     validate:"required"`
	Group     string `mapstructure:"group"      yaml:"group"      validate:"required"`
	Consumer  string `mapstructure:"consumer"   yaml:"consumer"   validate:"required"`
	Buffer    int    `mapstructure:"buffer"     yaml:"buffer"     validate:"gt=0"`
	Block     string `mapstructure:"block"      yaml:"block"`
	ClaimIdle string `mapstructure:"claim_idle" yaml:"claim_idle"`
}

type ThumbnailServerConfig struct {
	Widths    []int `mapstructure:"widths"     yaml:"widths"     validate:"required,min=1,dive,gt=0"`
	MaxPixels int   `mapstructure:"max_pixels" yaml:"max_pixels" validate:"gte=0"`
}
