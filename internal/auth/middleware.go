package auth

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	apperrors "github.com/maro14/fauxdoorz/pkg/errors"
	httputil "github.com/maro14/fauxdoorz/pkg/http"
	"github.com/maro14/fauxdoorz/pkg/logger"
)

// RequireAuth wraps a route, verifying the bearer token and injecting the
// resulting Session into the request context.
func RequireAuth(tm *TokenManager, log *logger.Logger, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		sess, err := sessionFromRequest(tm, r)
		if err != nil {
			if writeErr := httputil.WriteError(w, err); writeErr != nil {
				log.Error("failed to write error response", "middleware", "RequireAuth", "error", writeErr)
			}
			return
		}

		next(w, r.WithContext(NewContext(r.Context(), sess)), ps)
	}
}

// RequireAdmin is RequireAuth plus a role check.
func RequireAdmin(tm *TokenManager, log *logger.Logger, next httprouter.Handle) httprouter.Handle {
	return RequireAuth(tm, log, func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		sess := FromContext(r.Context())
		if sess == nil || !sess.IsAdmin() {
			if writeErr := httputil.WriteError(w, apperrors.Forbidden("Admin access required")); writeErr != nil {
				log.Error("failed to write error response", "middleware", "RequireAdmin", "error", writeErr)
			}
			return
		}
		next(w, r, ps)
	})
}

func sessionFromRequest(tm *TokenManager, r *http.Request) (*Session, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, apperrors.Unauthorized("No token provided")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, apperrors.Unauthorized("Invalid authorization header format")
	}

	sess, err := tm.Verify(parts[1])
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid or expired token")
	}

	return sess, nil
}
