package app

import (
	"context"

	"social-login/internal/auth/provider"
	"social-login/internal/auth/provider/google"
	"social-login/internal/auth/provider/oidc"
	"social-login/internal/auth/provider/social"
	"social-login/internal/config"
	"social-login/internal/logger"
)

type socialCtor func(clientID, clientSecret, redirectURL string) (*social.Provider, error)

// setupProviders registers every provider with client credentials configured.
func setupProviders(ctx context.Context, cfg config.Config) (*provider.Registry, error) {
	var list []provider.OAuthProvider

	if cfg.Google.Enabled() {
		p, err := google.New(
			ctx,
			cfg.Google.ClientID,
			cfg.Google.ClientSecret,
			cfg.CallbackURL("google", cfg.Google),
		)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	socials := []struct {
		name string
		cfg  config.ProviderConfig
		ctor socialCtor
	}{
		{"facebook", cfg.Facebook, social.Facebook},
		{"github", cfg.GitHub, social.GitHub},
		{"twitter", cfg.Twitter, social.Twitter},
		{"instagram", cfg.Instagram, social.Instagram},
	}

	for _, s := range socials {
		if !s.cfg.Enabled() {
			continue
		}
		p, err := s.ctor(s.cfg.ClientID, s.cfg.ClientSecret, cfg.CallbackURL(s.name, s.cfg))
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	if cfg.OIDC.Enabled() {
		p, err := oidc.New(ctx, oidc.Config{
			Name:         cfg.OIDC.Name,
			Issuer:       cfg.OIDC.Issuer,
			ClientID:     cfg.OIDC.ClientID,
			ClientSecret: cfg.OIDC.ClientSecret,
			RedirectURL:  cfg.CallbackURL(cfg.OIDC.Name, cfg.OIDC.ProviderConfig),
		})
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	registry := provider.NewRegistry(list...)

	if len(list) == 0 {
		logger.Warn("no identity providers configured", nil)
	} else {
		logger.Info("identity providers registered", map[string]any{
			"providers": registry.Names(),
		})
	}

	return registry, nil
}
