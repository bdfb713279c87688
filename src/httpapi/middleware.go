package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RequestIDHeader carries the id of a request in both directions
const RequestIDHeader = "X-Request-Id"

const operationName = "sqlserver-diagnostics"

// Wrap tags every request with an id and traces it
func Wrap(h http.Handler) http.Handler {
	return otelhttp.NewHandler(withRequestID(h), operationName)
}

// withRequestID keeps an id sent by the caller and otherwise assigns a new one
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}
