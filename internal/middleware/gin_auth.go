package middleware

import (
	"net/http"

	"social-login/internal/user"

	"github.com/gin-gonic/gin"
)

// GinRequireAuth adapts the net/http AuthMiddleware to Gin.
// Auth decisions stay session-based and provider-agnostic.
func GinRequireAuth(auth *AuthMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false

		// Bridge handler to allow net/http middleware execution
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})

		// Wrap Gin request with net/http auth middleware
		handler := auth.RequireAuth(next)

		// Execute middleware chain
		handler.ServeHTTP(c.Writer, c.Request)

		// If auth middleware handled the response, stop Gin chain
		if !passed {
			c.Abort()
		}
	}
}

// CurrentUser is the gin-side accessor for the rehydrated record.
func CurrentUser(c *gin.Context) (*user.Record, bool) {
	return UserFromContext(c.Request.Context())
}
