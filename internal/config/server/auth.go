package server

// AuthServerConfig configures how request credentials are resolved.
// JWTSecret enables "Authorization: Bearer" tokens next to X-Token sessions.
type AuthServerConfig struct {
	TokenTTL  string `mapstructure:"token_ttl"  yaml:"token_ttl"  validate:"required"`
	JWTSecret string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
}
