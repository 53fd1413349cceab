package server

type HTTPServerConfig struct {
	Address      string `mapstructure:"address"       yaml:"address"       validate:"required"`
	ReadTimeout  string `mapstructure:"read_timeout"  yaml:"read_timeout"`
	WriteTimeout string `mapstructure:"write_timeout" yaml:"write_timeout"`
	MaxBodySize  int64  `mapstructure:"max_body_size" yaml:"max_body_size" validate:"gt=0"`
}
