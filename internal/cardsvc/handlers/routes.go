package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"

	"github.com/desafiobackend/card-services/internal/cardsvc/auth"
	"github.com/desafiobackend/card-services/internal/cardsvc/cache"
	"github.com/desafiobackend/card-services/internal/cardsvc/middleware"
)

// get-by-id entries carry a short expiry as a safety net on top of
// tag eviction; list entries live until the collection tag is evicted.
const cardCacheTTL = time.Minute

func (h *Handler) SetRoutes(r *chi.Mux) {
	r.Post("/login", h.Login)
	r.Get("/health", h.Health)

	// Secure routes
	r.Route("/cards", func(r chi.Router) {
		r.Use(jwtauth.Verifier(h.issuer.TokenAuth()))
		r.Use(jwtauth.Authenticator)
		r.Use(auth.RequireClaims(h.jwtCfg))

		r.With(cache.Cached(h.cache, 0, collectionTags)).
			Get("/", h.GetAllCards)
		r.With(cache.Cached(h.cache, cardCacheTTL, cardTags)).
			Get("/{id}", h.GetCardById)

		r.With(middleware.ValidateBody(middleware.KindCreateCard)).
			Post("/", h.CreateCard)
		r.With(
			middleware.ValidateBody(middleware.KindUpdateCard),
			middleware.AuditTrail("update", h.cards, h.events),
		).Put("/{id}", h.UpdateCard)
		r.With(middleware.AuditTrail("delete", h.cards, h.events)).
			Delete("/{id}", h.DeleteCard)
	})
}

func collectionTags(r *http.Request) []cache.Tag {
	return []cache.Tag{cache.CollectionTag()}
}

func cardTags(r *http.Request) []cache.Tag {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 0 {
		return nil
	}
	return []cache.Tag{cache.CardTag(id)}
}
