package cache

import (
	"bytes"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// Cached wraps a GET handler with tag-scoped response caching. The
// request path is the cache key. Only 2xx responses are stored; a
// store failure degrades to serving uncached.
func Cached(store TagStore, ttl time.Duration, tags func(r *http.Request) []Tag) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scopes := tags(r)
			if len(scopes) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			key := r.URL.Path

			entry, err := store.Get(r.Context(), key)
			if err != nil {
				log.Errorf("cache lookup failed for %s: %v", key, err)
			}
			if entry != nil {
				writeEntry(w, entry)
				return
			}

			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status < 200 || rec.status > 299 {
				return
			}

			entry = &Entry{
				Status:      rec.status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			}
			if err := store.Set(r.Context(), key, entry, scopes, ttl); err != nil {
				log.Errorf("cache store failed for %s: %v", key, err)
			}
		})
	}
}

func writeEntry(w http.ResponseWriter, entry *Entry) {
	if entry.ContentType != "" {
		w.Header().Set("Content-Type", entry.ContentType)
	}
	w.WriteHeader(entry.Status)
	if len(entry.Body) > 0 {
		w.Write(entry.Body)
	}
}

// responseRecorder passes the response through while keeping a copy
// for the cache.
type responseRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(p []byte) (int, error) {
	r.body.Write(p)
	return r.ResponseWriter.Write(p)
}
