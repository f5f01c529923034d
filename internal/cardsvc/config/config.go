package config

import (
	"os"
	"strconv"
)

// Config holds everything the card service reads from the environment.
type Config struct {
	Port        string
	RateLimit   int
	StoreDriver string // "postgres" or "memory"
	DatabaseURL string
	RedisAddr   string // empty means in-process cache
	NatsURL     string // empty disables audit event publishing
	JWT         JWTConfig
	Login       LoginConfiguration
}

type JWTConfig struct {
	SecretKey         string
	Issuer            string
	Audience          string
	ExpirationMinutes int
}

// ExpiresInMilliseconds reports the configured token lifetime the way
// clients expect it, derived from the same minutes value used for the
// exp claim.
func (c JWTConfig) ExpiresInMilliseconds() int64 {
	return int64(c.ExpirationMinutes) * 60_000
}

// LoginConfiguration holds the single valid credential pair.
// Immutable after load.
type LoginConfiguration struct {
	Login    string
	Password string
}

// IsValid checks the submitted pair against the configured one,
// case-sensitive exact match on both fields.
func (l LoginConfiguration) IsValid(login, password string) bool {
	return login == l.Login && password == l.Password
}

func Load() Config {
	return Config{
		Port:        getenv("CARD_SERVICE_PORT", "8080"),
		RateLimit:   getenvInt("RATE_LIMIT", 100),
		StoreDriver: getenv("STORE_DRIVER", "postgres"),
		DatabaseURL: os.Getenv("POSTGRES_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		NatsURL:     os.Getenv("NATS_URL"),
		JWT: JWTConfig{
			SecretKey:         os.Getenv("JWT_SECRET_KEY"),
			Issuer:            getenv("JWT_ISSUER", "card-services"),
			Audience:          getenv("JWT_AUDIENCE", "card-services-api"),
			ExpirationMinutes: getenvInt("JWT_EXPIRATION_MINUTES", 60),
		},
		Login: LoginConfiguration{
			Login:    os.Getenv("LOGIN_USER"),
			Password: os.Getenv("LOGIN_PASSWORD"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
