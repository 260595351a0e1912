// Package social implements sign-in for providers that speak plain OAuth 2.0
// and expose the account through a profile endpoint rather than an
// id_token (Facebook, GitHub, Twitter, Instagram).
package social

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"social-login/internal/auth"
	"social-login/internal/logger"

	"golang.org/x/oauth2"
)

const maxProfileBytes = 1 << 20

// Profile is the subset of a provider's profile response we care about.
type Profile struct {
	ID          string
	DisplayName string
	Email       string
}

// ProfileDecoder parses a provider's profile response body.
type ProfileDecoder func(body []byte) (Profile, error)

type Config struct {
	Name         string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Endpoint     oauth2.Endpoint
	Scopes       []string
	ProfileURL   string
	Decode       ProfileDecoder
}

type Provider struct {
	name        string
	oauthConfig *oauth2.Config
	profileURL  string
	decode      ProfileDecoder
}

func New(cfg Config) (*Provider, error) {
	if cfg.Name == "" || cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, errors.New("oauth config missing required fields")
	}
	if cfg.ProfileURL == "" || cfg.Decode == nil {
		return nil, fmt.Errorf("%s: profile url and decoder are required", cfg.Name)
	}

	return &Provider{
		name: cfg.Name,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     cfg.Endpoint,
			Scopes:       cfg.Scopes,
		},
		profileURL: cfg.ProfileURL,
		decode:     cfg.Decode,
	}, nil
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return p.name
}

// AuthCodeURL builds the OAuth authorization URL with PKCE parameters.
func (p *Provider) AuthCodeURL(state string, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// ExchangeCode trades the code for an access token and fetches the
// account profile with it. The token itself is not kept.
func (p *Provider) ExchangeCode(
	ctx context.Context,
	code string,
	codeVerifier string,
) (*auth.Identity, error) {

	token, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return nil, fmt.Errorf("%s token exchange failed: %w", p.name, err)
	}

	body, err := p.fetchProfile(ctx, token)
	if err != nil {
		return nil, err
	}

	profile, err := p.decode(body)
	if err != nil {
		return nil, fmt.Errorf("%s profile decode failed: %w", p.name, err)
	}

	if profile.ID == "" {
		return nil, fmt.Errorf("%s profile missing account id", p.name)
	}

	logger.Info("oauth profile fetched", map[string]any{
		"provider":     p.name,
		"name_present": profile.DisplayName != "",
	})

	return &auth.Identity{
		Provider:       p.name,
		ProviderUserID: profile.ID,
		DisplayName:    profile.DisplayName,
		Email:          profile.Email,
	}, nil
}

func (p *Provider) fetchProfile(ctx context.Context, token *oauth2.Token) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s profile request: %w", p.name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.oauthConfig.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s profile request failed: %w", p.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProfileBytes))
	if err != nil {
		return nil, fmt.Errorf("%s profile read failed: %w", p.name, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s profile endpoint returned %d", p.name, resp.StatusCode)
	}

	return body, nil
}
