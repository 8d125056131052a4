package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// envConfig mirrors Config for environment parsing. Zero values mean "not
// set" and leave the current value untouched.
type envConfig struct {
	EndpointAddr          string        `envconfig:"ADDRESS"`
	DatabaseDSN           string        `envconfig:"DATABASE_DSN"`
	SecretKey             string        `envconfig:"JWT_SECRET"`
	TokenValidityDuration time.Duration `envconfig:"TOKEN_TTL"`
	RedisAddr             string        `envconfig:"REDIS_ADDR"`
	AdminEmail            string        `envconfig:"ADMIN_EMAIL"`
	AdminPassword         string        `envconfig:"ADMIN_PASSWORD"`
}

// parseEnv overlays environment variables onto the provided Config.
func parseEnv(config *Config) {
	var e envConfig
	if err := envconfig.Process("", &e); err != nil {
		panic(err)
	}

	if e.EndpointAddr != "" {
		config.EndpointAddr = e.EndpointAddr
	}
	if e.DatabaseDSN != "" {
		config.DatabaseDSN = e.DatabaseDSN
	}
	if e.SecretKey != "" {
		config.SecretKey = e.SecretKey
	}
	if e.TokenValidityDuration != 0 {
		config.TokenValidityDuration = e.TokenValidityDuration
	}
	if e.RedisAddr != "" {
		config.RedisAddr = e.RedisAddr
	}
	if e.AdminEmail != "" {
		config.AdminEmail = e.AdminEmail
	}
	if e.AdminPassword != "" {
		config.AdminPassword = e.AdminPassword
	}
}
