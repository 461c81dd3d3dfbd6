package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"snapgram-backend/application/services"
	"snapgram-backend/domain/social"
	"snapgram-backend/pkg/auth"
	"snapgram-backend/pkg/common"
	pkgerrors "snapgram-backend/pkg/errors"
)

// SessionGate resolves the caller's identity from a bearer token or the
// session cookie. An invalid token behaves exactly like no token; only
// the required variants turn a missing identity into a failure.
type SessionGate struct {
	verifier   *auth.Verifier
	directory  *services.UserDirectory
	cookieName string
	logger     *zap.Logger
}

// NewSessionGate creates the session middleware set.
func NewSessionGate(verifier *auth.Verifier, directory *services.UserDirectory, cookieName string, logger *zap.Logger) *SessionGate {
	return &SessionGate{
		verifier:   verifier,
		directory:  directory,
		cookieName: cookieName,
		logger:     logger,
	}
}

// Optional attaches the user when a valid token is present and continues
// anonymously otherwise.
func (g *SessionGate) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := g.resolve(r)
		if err != nil {
			// Upstream failure: the page can still render anonymously.
			g.logger.Error("Identity resolution failed", zap.Error(err))
		}
		if user != nil {
			r = r.WithContext(auth.SetUserInContext(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePage redirects anonymous requests to the login page. Used by
// page routes, where a hard 401 would be hostile to a browser.
func (g *SessionGate) RequirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := g.resolve(r)
		if err != nil {
			g.logger.Error("Identity resolution failed", zap.Error(err))
			http.Error(w, "service unavailable", http.StatusInternalServerError)
			return
		}
		if user == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.SetUserInContext(r.Context(), user)))
	})
}

// RequireAction rejects anonymous requests with a 401 and a challenge to
// re-authenticate. Used by mutating action routes.
func (g *SessionGate) RequireAction(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := g.resolve(r)
		if err != nil {
			g.logger.Error("Identity resolution failed", zap.Error(err))
			common.RespondAppError(w, err)
			return
		}
		if user == nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			common.RespondError(w, http.StatusUnauthorized,
				string(pkgerrors.ErrorTypeUnauthenticated), "Not authenticated. Please log in.")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.SetUserInContext(r.Context(), user)))
	})
}

// resolve maps the request to a user. A nil user with a nil error means
// anonymous: no token, or a token that failed verification. A non-nil
// error is reserved for upstream failures while resolving a verified
// identity.
func (g *SessionGate) resolve(r *http.Request) (*social.User, error) {
	token := ExtractToken(r, g.cookieName)
	if token == "" {
		return nil, nil
	}

	claims, err := g.verifier.Verify(r.Context(), token)
	if err != nil {
		g.logger.Debug("Rejected identity token", zap.Error(err))
		return nil, nil
	}

	user, err := g.directory.GetOrCreate(r.Context(), claims)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ExtractToken pulls the identity token from the Authorization header,
// falling back to the session cookie.
func ExtractToken(r *http.Request, cookieName string) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}

	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}
