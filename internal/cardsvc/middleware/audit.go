package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	log "github.com/sirupsen/logrus"

	"github.com/desafiobackend/card-services/internal/cardsvc/broker"
	"github.com/desafiobackend/card-services/internal/cardsvc/service"
)

// AuditTrail guards per-id mutating routes. It resolves the target
// card before the handler runs: absent cards short-circuit with 404,
// present ones get an audit line (and event) with pre-mutation state.
// A route id that does not parse as a non-negative integer identifies
// no target, so the request passes through untouched.
func AuditTrail(action string, cards *service.CardService, events *broker.Broker) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.Atoi(chi.URLParam(r, "id"))
			if err != nil || id < 0 {
				next.ServeHTTP(w, r)
				return
			}

			card, err := cards.GetByID(r.Context(), id)
			if err != nil {
				log.Errorf("audit lookup failed for card %d (%s): %v", id, action, err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if card == nil {
				log.Warnf("card %d not found for %s", id, action)
				http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
				return
			}

			now := time.Now().UTC()
			log.Infof("%s - Card %d - %s - %s", now.Format(time.RFC3339), card.Id, card.Title, action)
			events.PublishAudit(broker.AuditEvent{
				At:     now,
				Action: action,
				CardId: card.Id,
				Title:  card.Title,
			})

			next.ServeHTTP(w, r)
		})
	}
}
