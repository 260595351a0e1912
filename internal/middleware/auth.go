package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"social-login/internal/logger"
	"social-login/internal/session"
	"social-login/internal/user"
)

// ErrSessionRehydrate marks a failure to load the record behind a valid session.
var ErrSessionRehydrate = errors.New("session: failed to rehydrate identity record")

// unexported, collision-proof context key
type userContextKeyType struct{}

var userKey = userContextKeyType{}

// UserFromContext extracts the authenticated identity record from context.
func UserFromContext(ctx context.Context) (*user.Record, bool) {
	rec, ok := ctx.Value(userKey).(*user.Record)
	return rec, ok && rec != nil
}

// WithUser returns ctx carrying rec.
func WithUser(ctx context.Context, rec *user.Record) context.Context {
	return context.WithValue(ctx, userKey, rec)
}

type AuthMiddleware struct {
	Sessions session.Store
	Users    user.Store
	Cookie   session.CookieOptions

	// AnonymousRedirect is where requests without a live session are sent.
	AnonymousRedirect string

	now func() time.Time
}

func NewAuthMiddleware(sessions session.Store, users user.Store, cookie session.CookieOptions) *AuthMiddleware {
	return &AuthMiddleware{
		Sessions:          sessions,
		Users:             users,
		Cookie:            cookie,
		AnonymousRedirect: "/",
		now:               time.Now,
	}
}

func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Read session cookie
		sessionID := session.ReadCookie(r, a.Cookie)
		if sessionID == "" {
			a.anonymous(w, r)
			return
		}

		// 2. Load session
		sess, err := a.Sessions.Get(r.Context(), sessionID)
		if err != nil {
			logger.Error("session lookup failed", map[string]any{
				"error": err,
			})
			http.Error(w, "session unavailable", http.StatusInternalServerError)
			return
		}
		if sess == nil {
			session.ClearCookie(w, a.Cookie)
			a.anonymous(w, r)
			return
		}

		// 3. Enforce expiry even if the store has not evicted yet
		if sess.Expired(a.now()) {
			_ = a.Sessions.Delete(r.Context(), sessionID)
			session.ClearCookie(w, a.Cookie)
			a.anonymous(w, r)
			return
		}

		// 4. Rehydrate the identity record; failure fails the request
		rec, err := a.Users.FindByID(r.Context(), sess.UserID)
		if err != nil {
			logger.Error("session rehydration failed", map[string]any{
				"user_id": sess.UserID,
				"error":   errors.Join(ErrSessionRehydrate, err),
			})
			http.Error(w, "failed to load account", http.StatusInternalServerError)
			return
		}

		// 5. Continue request
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), rec)))
	})
}

func (a *AuthMiddleware) anonymous(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, a.AnonymousRedirect, http.StatusFound)
}
