package middleware

import (
	"context"
	"net/http"

	"github.com/rs/xid"

	"github.com/darmiel/mcauth/internal/yggdrasil"
)

// CorrelationIDHeader is the header the client sends its request ID in.
const CorrelationIDHeader = yggdrasil.RequestIDHeader

type correlationIDKey struct{}

// CorrelationCtx retrieves the correlation ID from the context.
func CorrelationCtx(ctx context.Context) string {
	id, ok := ctx.Value(correlationIDKey{}).(string)
	if !ok {
		return ""
	}
	return id
}

func CorrelationIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(CorrelationIDHeader)
		if id == "" {
			id = xid.New().String()
		}
		w.Header().Set(CorrelationIDHeader, id)

		ctx := context.WithValue(r.Context(), correlationIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
