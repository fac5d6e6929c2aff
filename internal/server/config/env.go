package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig is the DTO for environment-variable overrides. Only variables
// that are actually set override the current Config values.
type envConfig struct {
	EndpointAddrHTTP             string        `env:"ADDRESS"`
	DatabaseDSN                  string        `env:"DATABASE_DSN"`
	SecretKey                    string        `env:"JWT_SECRET"`
	CORSAllowedOrigin            string        `env:"FRONTEND_ORIGIN"`
	AccessTokenValidityDuration  time.Duration `env:"ACCESS_TOKEN_TTL"`
	RefreshTokenValidityDuration time.Duration `env:"REFRESH_TOKEN_TTL"`
	BcryptCost                   int           `env:"BCRYPT_COST"`
}

// parseEnv overlays environment-variable values onto the provided Config.
// Malformed values (e.g. an unparseable duration) cause a panic, consistent
// with the JSON loader.
func parseEnv(config *Config) {
	c := envConfig{}
	if err := env.Parse(&c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.CORSAllowedOrigin != "" {
		config.CORSAllowedOrigin = c.CORSAllowedOrigin
	}
	if c.AccessTokenValidityDuration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration
	}
	if c.RefreshTokenValidityDuration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
}
