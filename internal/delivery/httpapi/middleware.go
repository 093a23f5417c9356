package httpapi

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/jaevor/go-nanoid"
)

var newRequestID = mustNanoID()

func mustNanoID() func() string {
	generate, err := nanoid.Standard(12)
	if err != nil {
		log.Fatalf("failed to init request id generator: %v", err)
	}
	return generate
}

// requestID tags every request with a short id, echoes it back in the
// X-Request-ID header and logs the request outcome.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = newRequestID()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		next.ServeHTTP(w, r)

		slog.Info("http request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"elapsed", time.Since(start),
		)
	})
}
