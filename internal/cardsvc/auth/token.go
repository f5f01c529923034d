package auth

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"

	"github.com/desafiobackend/card-services/internal/cardsvc/config"
	"github.com/desafiobackend/card-services/internal/cardsvc/models"
)

var ErrMissingSecret = errors.New("auth: JWT secret key is not configured")

// TokenIssuer builds signed bearer tokens for authenticated users.
// The same JWTAuth instance is used by the route middleware to verify
// incoming tokens, so issue and verify can never drift apart.
type TokenIssuer struct {
	tokenAuth *jwtauth.JWTAuth
	cfg       config.JWTConfig
}

func NewTokenIssuer(cfg config.JWTConfig) (*TokenIssuer, error) {
	if cfg.SecretKey == "" {
		return nil, ErrMissingSecret
	}
	return &TokenIssuer{
		tokenAuth: jwtauth.New("HS256", []byte(cfg.SecretKey), nil),
		cfg:       cfg,
	}, nil
}

// Issue signs a token for username. Expiry is wall-clock UTC now plus
// the configured minutes; ExpiresIn reports the same window in
// milliseconds.
func (t *TokenIssuer) Issue(username string) (models.Token, error) {
	now := time.Now().UTC()

	_, tokenString, err := t.tokenAuth.Encode(map[string]interface{}{
		"jti":      uuid.New().String(),
		"username": username,
		"iss":      t.cfg.Issuer,
		"aud":      t.cfg.Audience,
		"iat":      now.Unix(),
		"exp":      now.Add(time.Duration(t.cfg.ExpirationMinutes) * time.Minute).Unix(),
	})
	if err != nil {
		return models.Token{}, err
	}

	return models.Token{
		Username:    username,
		AccessToken: tokenString,
		ExpiresIn:   t.cfg.ExpiresInMilliseconds(),
	}, nil
}

// TokenAuth exposes the underlying JWTAuth for jwtauth.Verifier.
func (t *TokenIssuer) TokenAuth() *jwtauth.JWTAuth {
	return t.tokenAuth
}
