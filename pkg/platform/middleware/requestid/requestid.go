// Package requestid tags every request with an id for log correlation.
package requestid

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"portcall/pkg/requestcontext"
)

// Header carries the request id in both directions.
const Header = "X-Request-ID"

const maxLength = 128

// Middleware reuses a caller-supplied X-Request-ID or generates one, stores it
// in the context and echoes it on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(Header))
		if id == "" || len(id) > maxLength {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), id)))
	})
}
