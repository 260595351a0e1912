package web

import (
	"embed"
	"html/template"
	"net/http"

	"social-login/internal/middleware"

	"github.com/gin-gonic/gin"
)

const title = "Social Login Example"

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the page templates for gin's HTML renderer.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

type Pages struct {
	providers []string
}

// NewPages returns the page handlers; providers are listed on the landing page.
func NewPages(providers []string) *Pages {
	return &Pages{providers: providers}
}

func (p *Pages) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":     title,
		"Providers": p.providers,
	})
}

// Ping is the health check. It never looks at the session.
func (p *Pages) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong!")
}

// Account must run behind middleware.GinRequireAuth.
func (p *Pages) Account(c *gin.Context) {
	rec, ok := middleware.CurrentUser(c)
	if !ok {
		c.String(http.StatusInternalServerError, "account unavailable")
		return
	}

	c.HTML(http.StatusOK, "account.html", gin.H{
		"User": rec,
	})
}
