package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/desafiobackend/card-services/internal/cardsvc/models"
	"github.com/desafiobackend/card-services/internal/cardsvc/service"
	"github.com/desafiobackend/card-services/internal/cardsvc/store"
)

func auditRouter(t *testing.T, action string) (*chi.Mux, *service.CardService, *bool) {
	t.Helper()

	cards := service.NewCardService(store.NewMemoryCardStore())
	reached := false

	r := chi.NewRouter()
	r.With(AuditTrail(action, cards, nil)).Delete("/cards/{id}", func(w http.ResponseWriter, req *http.Request) {
		reached = true
		w.WriteHeader(http.StatusNoContent)
	})
	return r, cards, &reached
}

func seedCard(t *testing.T, cards *service.CardService, title string) *models.Card {
	t.Helper()
	card, err := cards.Create(context.Background(), models.CreateCardCommand{Title: title, Content: "Conteudo"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	return card
}

func TestAuditTrailShortCircuitsMissingCard(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	r, _, reached := auditRouter(t, "delete")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/cards/42", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if *reached {
		t.Error("handler was reached for a missing card")
	}

	warned := false
	for _, entry := range hook.AllEntries() {
		if entry.Level == log.WarnLevel {
			warned = true
		}
	}
	if !warned {
		t.Error("expected a warning log for the missing card")
	}
}

func TestAuditTrailLogsPreMutationState(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	r, cards, reached := auditRouter(t, "delete")
	card := seedCard(t, cards, "Desafio")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/cards/1", nil))

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if !*reached {
		t.Fatal("handler was not reached for an existing card")
	}

	found := false
	for _, entry := range hook.AllEntries() {
		if entry.Level == log.InfoLevel &&
			strings.Contains(entry.Message, card.Title) &&
			strings.Contains(entry.Message, "delete") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an audit line with title %q and action delete", card.Title)
	}
}

func TestAuditTrailPassesThroughUnparsableId(t *testing.T) {
	r, _, reached := auditRouter(t, "delete")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/cards/abc", nil))

	// no target identified, the filter takes no action
	if !*reached {
		t.Error("handler was not reached for an unparsable id")
	}
}

func TestAuditTrailUpdateAction(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	cards := service.NewCardService(store.NewMemoryCardStore())
	card := seedCard(t, cards, "Antes da alteracao")

	r := chi.NewRouter()
	r.With(AuditTrail("update", cards, nil)).Put("/cards/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/cards/1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	// the audit line carries the title as of lookup time
	found := false
	for _, entry := range hook.AllEntries() {
		if strings.Contains(entry.Message, card.Title) && strings.Contains(entry.Message, "update") {
			found = true
		}
	}
	if !found {
		t.Error("expected an audit line with the pre-mutation title")
	}
}
