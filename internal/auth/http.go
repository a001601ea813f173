package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aanand-mishra/student-records/internal/utils/response"
)

type ownerKey struct{}

// WithOwner returns a context carrying the authenticated owner id.
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

// OwnerFromContext returns the owner id stored by Middleware, or "".
func OwnerFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ownerKey{}).(string)
	return id
}

// Middleware rejects requests without a valid bearer token and stores the
// token's subject in the request context.
func Middleware(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearer(r.Header.Get("Authorization"))
			if !ok {
				response.WriteJSON(w, http.StatusUnauthorized,
					response.GeneralError(errors.New("missing bearer token")))
				return
			}

			ownerID, err := v.Verify(token)
			if err != nil {
				slog.Debug("rejected token", slog.String("error", err.Error()))
				response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), ownerID)))
		})
	}
}

func bearer(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
