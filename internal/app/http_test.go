package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"social-login/internal/auth"
	"social-login/internal/auth/provider"
	"social-login/internal/config"
	"social-login/internal/session"
	"social-login/internal/user"

	"github.com/gin-gonic/gin"
)

type stubProvider struct {
	name     string
	identity auth.Identity
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) AuthCodeURL(state, _ string) string {
	return "https://" + s.name + ".test/authorize?state=" + url.QueryEscape(state)
}

func (s *stubProvider) ExchangeCode(context.Context, string, string) (*auth.Identity, error) {
	id := s.identity
	return &id, nil
}

type spyUsers struct {
	user.Store
	calls int
}

func (s *spyUsers) FindByOAuthID(ctx context.Context, provider, oauthID string) (*user.Record, error) {
	s.calls++
	return s.Store.FindByOAuthID(ctx, provider, oauthID)
}

func (s *spyUsers) FindByID(ctx context.Context, id string) (*user.Record, error) {
	s.calls++
	return s.Store.FindByID(ctx, id)
}

func (s *spyUsers) Create(ctx context.Context, r user.Record) (*user.Record, error) {
	s.calls++
	return s.Store.Create(ctx, r)
}

type testApp struct {
	router   *gin.Engine
	users    *spyUsers
	github   *stubProvider
	sessions *session.MemoryStore
	jar      map[string]*http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ta := &testApp{
		users:    &spyUsers{Store: user.NewMemoryStore()},
		sessions: session.NewMemoryStore(),
		github: &stubProvider{
			name:     "github",
			identity: auth.Identity{Provider: "github", ProviderUserID: "gh-42", DisplayName: "Ada"},
		},
		jar: make(map[string]*http.Cookie),
	}
	ta.router = NewRouter(Deps{
		Providers:  provider.NewRegistry(ta.github, &stubProvider{name: "facebook"}),
		Users:      ta.users,
		Sessions:   ta.sessions,
		Cookie:     session.CookieOptions{Secure: false},
		SessionTTL: time.Hour,
	})
	return ta
}

// get performs a request carrying the accumulated cookies, like a browser.
func (ta *testApp) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range ta.jar {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ta.router.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(ta.jar, c.Name)
			continue
		}
		ta.jar[c.Name] = c
	}
	return rec
}

func (ta *testApp) login(t *testing.T) {
	t.Helper()

	rec := ta.get(t, "/auth/github")
	if rec.Code != http.StatusFound {
		t.Fatalf("GET /auth/github = %d, want 302", rec.Code)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse Location: %v", err)
	}

	rec = ta.get(t, "/auth/github/callback?code=abc&state="+url.QueryEscape(loc.Query().Get("state")))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/account" {
		t.Fatalf("callback = %d %q, want 302 /account", rec.Code, rec.Header().Get("Location"))
	}
}

func TestPing(t *testing.T) {
	ta := newTestApp(t)

	check := func() {
		rec := ta.get(t, "/ping")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if rec.Body.String() != "pong!" {
			t.Fatalf("body = %q, want pong!", rec.Body.String())
		}
	}

	check()
	ta.login(t)
	check()
}

func TestIndexListsProviders(t *testing.T) {
	ta := newTestApp(t)

	rec := ta.get(t, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`href="/auth/github"`, `href="/auth/facebook"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("index missing %s", want)
		}
	}
}

func TestAccountAnonymousRedirects(t *testing.T) {
	ta := newTestApp(t)

	rec := ta.get(t, "/account")

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Fatalf("GET /account = %d %q, want 302 /", rec.Code, rec.Header().Get("Location"))
	}
	if ta.users.calls != 0 {
		t.Fatalf("identity store calls = %d, want 0", ta.users.calls)
	}
}

func TestLoginAccountLogout(t *testing.T) {
	ta := newTestApp(t)

	ta.login(t)

	rec := ta.get(t, "/account")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /account = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Ada") {
		t.Fatalf("account page missing name: %s", rec.Body.String())
	}

	rec = ta.get(t, "/logout")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Fatalf("GET /logout = %d %q, want 302 /", rec.Code, rec.Header().Get("Location"))
	}

	rec = ta.get(t, "/account")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Fatalf("GET /account after logout = %d, want 302 /", rec.Code)
	}
}

func TestRepeatLoginKeepsOriginalName(t *testing.T) {
	ta := newTestApp(t)

	ta.login(t)
	ta.github.identity.DisplayName = "Ada Lovelace"
	ta.login(t)

	rec := ta.get(t, "/account")
	if !strings.Contains(rec.Body.String(), "Name: Ada<") {
		t.Fatalf("expected first-login name on account page: %s", rec.Body.String())
	}
}

func TestSetupInfraMemoryDrivers(t *testing.T) {
	infra, err := setupInfra(context.Background(), config.Config{
		StoreDriver:  config.StoreMemory,
		SessionStore: config.SessionMemory,
	})
	if err != nil {
		t.Fatalf("setupInfra() error = %v", err)
	}
	if _, ok := infra.Users.(*user.MemoryStore); !ok {
		t.Fatalf("Users = %T, want *user.MemoryStore", infra.Users)
	}
	if _, ok := infra.Sessions.(*session.MemoryStore); !ok {
		t.Fatalf("Sessions = %T, want *session.MemoryStore", infra.Sessions)
	}
	if err := infra.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestSetupProvidersRegistersConfigured(t *testing.T) {
	cfg := config.Config{
		PublicBaseURL: "http://localhost:1337",
		GitHub:        config.ProviderConfig{ClientID: "id", ClientSecret: "secret"},
		Twitter:       config.ProviderConfig{ClientID: "id"}, // no secret: skipped
	}

	registry, err := setupProviders(context.Background(), cfg)
	if err != nil {
		t.Fatalf("setupProviders() error = %v", err)
	}

	names := registry.Names()
	if len(names) != 1 || names[0] != "github" {
		t.Fatalf("Names() = %v, want [github]", names)
	}

	p, err := registry.Get("github")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	u, err := url.Parse(p.AuthCodeURL("s", "c"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := u.Query().Get("redirect_uri"); got != "http://localhost:1337/auth/github/callback" {
		t.Fatalf("redirect_uri = %q", got)
	}
}
