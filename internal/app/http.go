package app

import (
	"context"
	"time"

	"social-login/internal/auth/handler"
	"social-login/internal/auth/provider"
	"social-login/internal/auth/resolver"
	"social-login/internal/config"
	"social-login/internal/logger"
	"social-login/internal/middleware"
	"social-login/internal/session"
	"social-login/internal/user"
	"social-login/internal/web"

	"github.com/gin-gonic/gin"
)

// Deps is everything the router needs. Tests build it directly with
// in-memory stores and fake providers.
type Deps struct {
	Providers  *provider.Registry
	Users      user.Store
	Sessions   session.Store
	Cookie     session.CookieOptions
	SessionTTL time.Duration
}

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func(context.Context) error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	registry, err := setupProviders(ctx, cfg)
	if err != nil {
		_ = infra.Close(ctx)
		return nil, nil, err
	}

	router := NewRouter(Deps{
		Providers:  registry,
		Users:      infra.Users,
		Sessions:   infra.Sessions,
		Cookie:     session.CookieOptions{Secure: cfg.CookieSecure},
		SessionTTL: cfg.SessionTTL,
	})

	return router, infra.Close, nil
}

func NewRouter(deps Deps) *gin.Engine {

	// ----------------------------
	// Dependencies
	// ----------------------------

	identityResolver := resolver.NewStoreResolver(deps.Users)

	authHandler := handler.NewHandler(
		deps.Providers,
		deps.Sessions,
		identityResolver,
		deps.Cookie,
		deps.SessionTTL,
	)

	authMiddleware := middleware.NewAuthMiddleware(deps.Sessions, deps.Users, deps.Cookie)
	pages := web.NewPages(deps.Providers.Names())

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery(), logger.Gin())
	router.SetHTMLTemplate(web.Templates())

	// ----------------------------
	// Public Routes
	// ----------------------------

	router.GET("/", pages.Index)
	router.GET("/ping", pages.Ping)
	authHandler.RegisterRoutes(router)

	// ----------------------------
	// Protected Routes
	// ----------------------------

	router.GET("/account", middleware.GinRequireAuth(authMiddleware), pages.Account)

	for _, route := range router.Routes() {
		logger.Info("route", map[string]any{
			"method": route.Method,
			"path":   route.Path,
		})
	}

	return router
}
