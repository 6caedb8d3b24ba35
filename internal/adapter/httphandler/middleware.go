package httphandler

import (
	"log/slog"
	"net/http"
	"time"
)

// A RequestObserver records served requests.
type RequestObserver interface {
	ObserveRequest(route string, code int, d time.Duration)
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// Observe logs every request and reports it to o when o is not nil.
// The route is the matched mux pattern.
func Observe(next http.Handler, o RequestObserver) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		const op = "httphandler.Observe"

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		if o != nil {
			o.ObserveRequest(route, rec.code, elapsed)
		}
		slog.Debug(
			"request served",
			"op", op,
			"method", r.Method,
			"path", r.URL.Path,
			"code", rec.code,
			"elapsed", elapsed,
		)
	}
	return http.HandlerFunc(hf)
}
