package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	log "github.com/sirupsen/logrus"

	"github.com/desafiobackend/card-services/internal/cardsvc/models"
)

// Kind names a command type for validator resolution.
type Kind string

const (
	KindCreateCard Kind = "create-card"
	KindUpdateCard Kind = "update-card"
)

// Command is a decoded request body that knows how to validate itself.
type Command interface {
	Validate() error
}

// commandRegistry maps a command kind to its factory. Populated at
// startup, never mutated at request time.
var commandRegistry = map[Kind]func() Command{
	KindCreateCard: func() Command { return &models.CreateCardCommand{} },
	KindUpdateCard: func() Command { return &models.UpdateCardCommand{} },
}

// Register adds a command kind to the registry. Must be called before
// the router starts serving.
func Register(kind Kind, factory func() Command) {
	commandRegistry[kind] = factory
}

type contextKey struct{ name string }

var commandKey = &contextKey{"command"}

// CommandFromContext returns the command stashed by ValidateBody.
func CommandFromContext(ctx context.Context) Command {
	cmd, _ := ctx.Value(commandKey).(Command)
	return cmd
}

// ValidationProblem is the structured 400 body for failed validation,
// grouping messages per field with fields in deterministic order.
type ValidationProblem struct {
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Errors map[string][]string `json:"errors"`
}

// ValidateBody decodes the request body into the command registered
// for kind, validates it, and hands it to the next handler through the
// request context. Invalid requests never reach the handler.
func ValidateBody(kind Kind) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Errorf("panic validating %s request: %v", kind, rec)
					writeProblem(w, http.StatusInternalServerError, "An error occurred while validating the request.")
				}
			}()

			newCommand, ok := commandRegistry[kind]
			if !ok {
				writeProblem(w, http.StatusBadRequest, "Request of kind "+string(kind)+" not found in the registry.")
				return
			}

			cmd := newCommand()
			if err := json.NewDecoder(r.Body).Decode(cmd); err != nil {
				writeProblem(w, http.StatusBadRequest, "Request body is not valid JSON.")
				return
			}

			if err := cmd.Validate(); err != nil {
				fieldErrs, ok := err.(validation.Errors)
				if !ok {
					log.Errorf("validator for %s returned non-field error: %v", kind, err)
					writeProblem(w, http.StatusInternalServerError, "An error occurred while validating the request.")
					return
				}
				writeValidationProblem(w, fieldErrs)
				return
			}

			ctx := context.WithValue(r.Context(), commandKey, cmd)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeValidationProblem(w http.ResponseWriter, fieldErrs validation.Errors) {
	problem := ValidationProblem{
		Title:  "One or more validation errors occurred.",
		Status: http.StatusBadRequest,
		Errors: map[string][]string{},
	}

	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		problem.Errors[field] = append(problem.Errors[field], fieldErrs[field].Error())
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(problem)
}

func writeProblem(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}
