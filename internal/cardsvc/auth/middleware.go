package auth

import (
	"net/http"

	"github.com/go-chi/jwtauth"

	"github.com/desafiobackend/card-services/internal/cardsvc/config"
)

// RequireClaims checks the issuer and audience claims of an already
// verified token. jwtauth.Verifier/Authenticator handle signature and
// expiry; this closes the gap for tokens signed with the right key but
// minted for another deployment.
func RequireClaims(cfg config.JWTConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			if iss, _ := claims["iss"].(string); iss != cfg.Issuer {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			if !audienceMatches(claims["aud"], cfg.Audience) {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// aud comes back as a string or a list depending on how the token was
// minted.
func audienceMatches(claim interface{}, want string) bool {
	switch aud := claim.(type) {
	case string:
		return aud == want
	case []string:
		for _, a := range aud {
			if a == want {
				return true
			}
		}
	case []interface{}:
		for _, a := range aud {
			if s, ok := a.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}
