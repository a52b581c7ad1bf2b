package handlers

import (
	"net/http"
	"time"

	"github.com/lucsky/cuid"

	"commute/internal/logging"
)

const requestIDHeader = "X-Request-Id"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// WithRequestLog tags every request with an id and logs its outcome
func WithRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = cuid.New()
		}
		w.Header().Set(requestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		logging.Infof("%s %s %s -> %d (%s) id=%s", r.RemoteAddr, r.Method, r.URL.RequestURI(), rec.status, time.Since(start), id)
	})
}
