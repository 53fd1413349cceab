package server

type RedisServerConfig struct {
	Address  string `mapstructure:"address"  yaml:"address"  validate:"required,hostname_port"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db"       yaml:"db"       validate:"gte=0"`
}
