package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/mcauth/internal/yggdrasil"
)

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// create a logger to wrap request info
		l := log.With().
			Str("correlation_id", CorrelationCtx(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Str("user_agent", r.UserAgent()).
			Logger()

		ctx := l.WithContext(r.Context())
		ww := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(ww, r.WithContext(ctx))

		// skip logging healthy checks
		if r.URL.Path == yggdrasil.HealthCheckRoute && ww.statusCode < 400 {
			return
		}

		l.Info().
			Int("status", ww.statusCode).
			Dur("duration", time.Since(start)).
			Msg("request.handled")
	})
}

func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Ctx(r.Context()).Error().
					Interface("panic", err).
					Bytes("stack", debug.Stack()).
					Msg("panic.recovered")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"InternalServerError","errorMessage":"internal server error"}`))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
