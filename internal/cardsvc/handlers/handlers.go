package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	log "github.com/sirupsen/logrus"

	sharedconfig "github.com/desafiobackend/card-services/configs"
	"github.com/desafiobackend/card-services/internal/cardsvc/auth"
	"github.com/desafiobackend/card-services/internal/cardsvc/broker"
	"github.com/desafiobackend/card-services/internal/cardsvc/cache"
	"github.com/desafiobackend/card-services/internal/cardsvc/config"
	"github.com/desafiobackend/card-services/internal/cardsvc/middleware"
	"github.com/desafiobackend/card-services/internal/cardsvc/models"
	"github.com/desafiobackend/card-services/internal/cardsvc/service"
)

type Handler struct {
	issuer *auth.TokenIssuer
	jwtCfg config.JWTConfig
	login  config.LoginConfiguration
	cards  *service.CardService
	cache  cache.TagStore
	events *broker.Broker
}

func NewHandler(issuer *auth.TokenIssuer, cfg config.Config,
	cards *service.CardService, cacheStore cache.TagStore, events *broker.Broker) *Handler {
	return &Handler{
		issuer: issuer,
		jwtCfg: cfg.JWT,
		login:  cfg.Login,
		cards:  cards,
		cache:  cacheStore,
		events: events,
	}
}

type LoginRequest struct {
	Login    string `json:"Login"`
	Password string `json:"Password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Request body is not valid JSON.", http.StatusBadRequest)
		return
	}

	if !h.login.IsValid(req.Login, req.Password) {
		http.Error(w, "Username or password is incorrect.", http.StatusBadRequest)
		return
	}

	token, err := h.issuer.Issue(req.Login)
	if err != nil {
		log.Errorf("failed to issue token for %s: %v", req.Login, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, token)
}

func (h *Handler) GetAllCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.cards.GetAll(r.Context())
	if err != nil {
		log.Errorf("failed to list cards: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if len(cards) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeJSON(w, http.StatusOK, cards)
}

func (h *Handler) GetCardById(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cardId(w, r)
	if !ok {
		return
	}

	card, err := h.cards.GetByID(r.Context(), id)
	if err != nil {
		log.Errorf("failed to get card %d: %v", id, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if card == nil {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, card)
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	cmd, ok := middleware.CommandFromContext(r.Context()).(*models.CreateCardCommand)
	if !ok {
		http.Error(w, "Request argument not found.", http.StatusBadRequest)
		return
	}

	card, err := h.cards.Create(r.Context(), *cmd)
	if err != nil {
		log.Errorf("failed to create card: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	// evict only after the store confirmed the write
	h.evict(r, cache.CollectionTag())

	w.Header().Set("Location", fmt.Sprintf("/cards/%d", card.Id))
	h.writeJSON(w, http.StatusCreated, card)
}

func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cardId(w, r)
	if !ok {
		return
	}

	cmd, ok := middleware.CommandFromContext(r.Context()).(*models.UpdateCardCommand)
	if !ok {
		http.Error(w, "Request argument not found.", http.StatusBadRequest)
		return
	}

	card, err := h.cards.Update(r.Context(), id, *cmd)
	if err != nil {
		log.Errorf("failed to update card %d: %v", id, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if card == nil {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	h.evict(r, cache.CollectionTag(), cache.CardTag(id))

	h.writeJSON(w, http.StatusOK, card)
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cardId(w, r)
	if !ok {
		return
	}

	deleted, err := h.cards.Delete(r.Context(), id)
	if err != nil {
		log.Errorf("failed to delete card %d: %v", id, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	h.evict(r, cache.CollectionTag(), cache.CardTag(id))

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"instance": sharedconfig.GetInstanceId(),
	})
}

func (h *Handler) cardId(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 0 {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return 0, false
	}
	return id, true
}

func (h *Handler) evict(r *http.Request, tags ...cache.Tag) {
	if err := h.cache.EvictTags(r.Context(), tags...); err != nil {
		log.Errorf("cache eviction failed: %v", err)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}
