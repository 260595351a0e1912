package handler

import (
	"net/http"
	"time"

	"social-login/internal/auth/provider"
	"social-login/internal/auth/resolver"
	"social-login/internal/logger"
	"social-login/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	successRedirect = "/account"
	failureRedirect = "/"
)

type Handler struct {
	providers    *provider.Registry
	sessionStore session.Store
	resolver     resolver.Resolver
	cookie       session.CookieOptions
	sessionTTL   time.Duration
	now          func() time.Time
}

func NewHandler(
	registry *provider.Registry,
	sessionStore session.Store,
	resolver resolver.Resolver,
	cookie session.CookieOptions,
	sessionTTL time.Duration,
) *Handler {
	return &Handler{
		providers:    registry,
		sessionStore: sessionStore,
		resolver:     resolver,
		cookie:       cookie,
		sessionTTL:   sessionTTL,
		now:          time.Now,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/auth/:provider", h.login)
	r.GET("/auth/:provider/callback", h.callback)
	r.GET("/logout", h.Logout)
}

func (h *Handler) lookup(c *gin.Context) (provider.OAuthProvider, bool) {
	p, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		c.String(http.StatusNotFound, "unknown oauth provider")
		return nil, false
	}
	return p, true
}

func (h *Handler) login(c *gin.Context) {
	p, ok := h.lookup(c)
	if !ok {
		return
	}

	state, err := h.generateState(c)
	if err != nil {
		h.fail(c, p.Name(), "state generation failed", err)
		return
	}

	_, codeChallenge, err := h.generatePKCE(c)
	if err != nil {
		h.fail(c, p.Name(), "pkce generation failed", err)
		return
	}

	c.Redirect(http.StatusFound, p.AuthCodeURL(state, codeChallenge))
}

func (h *Handler) callback(c *gin.Context) {
	p, ok := h.lookup(c)
	if !ok {
		return
	}

	validState := validateState(c)
	codeVerifier := getPKCEVerifier(c)
	h.clearFlowCookies(c)

	if !validState {
		h.fail(c, p.Name(), "invalid state", nil)
		return
	}

	// Provider-side failure, e.g. the user denied consent
	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oauth callback returned error", map[string]any{
			"provider": p.Name(),
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		c.Redirect(http.StatusFound, failureRedirect)
		return
	}

	code := c.Query("code")
	if code == "" {
		h.fail(c, p.Name(), "callback missing code", nil)
		return
	}

	if codeVerifier == "" {
		h.fail(c, p.Name(), "missing pkce verifier", nil)
		return
	}

	identity, err := p.ExchangeCode(c.Request.Context(), code, codeVerifier)
	if err != nil {
		h.fail(c, p.Name(), "authentication failed", err)
		return
	}

	rec, err := h.resolver.Resolve(c.Request.Context(), identity)
	if err != nil {
		h.fail(c, p.Name(), "failed to resolve user", err)
		return
	}

	sessionID, err := session.GenerateID()
	if err != nil {
		h.fail(c, p.Name(), "failed to create session", err)
		return
	}

	now := h.now()
	expiresAt := now.Add(h.sessionTTL)

	sess := session.Session{
		SessionID: sessionID,
		UserID:    rec.ID,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}

	if err := h.sessionStore.Create(c.Request.Context(), sess); err != nil {
		h.fail(c, p.Name(), "failed to persist session", err)
		return
	}

	session.SetCookie(c.Writer, sessionID, expiresAt, h.cookie)

	logger.Info("login success", map[string]any{
		"provider": p.Name(),
		"user_id":  rec.ID,
		"ip":       c.ClientIP(),
	})

	c.Redirect(http.StatusFound, successRedirect)
}

func (h *Handler) Logout(c *gin.Context) {
	sessionID := session.ReadCookie(c.Request, h.cookie)
	if sessionID != "" {
		// Best-effort; the cookie is cleared regardless
		if err := h.sessionStore.Delete(c.Request.Context(), sessionID); err != nil {
			logger.Warn("session delete failed", map[string]any{
				"error": err,
			})
		}
		logger.Info("logout", map[string]any{
			"ip": c.ClientIP(),
		})
	}

	session.ClearCookie(c.Writer, h.cookie)

	c.Redirect(http.StatusFound, failureRedirect)
}

func (h *Handler) fail(c *gin.Context, providerName, msg string, err error) {
	fields := map[string]any{
		"provider": providerName,
	}
	if err != nil {
		fields["error"] = err
	}

	logger.Error(msg, fields)
	c.Redirect(http.StatusFound, failureRedirect)
}
