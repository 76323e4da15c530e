// Package site serves the browser shell for the client-side pages.
package site

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Pages maps every client route to its page title.
var Pages = map[string]string{
	"/":                    "Home",
	"/about":               "About",
	"/volunteer":           "Volunteer",
	"/emergency":           "Emergency Help",
	"/donate":              "Donate",
	"/relief-map":          "Relief Map",
	"/dashboard":           "Dashboard",
	"/login":               "Login",
	"/register":            "Register",
	"/volunteer-profile":   "Volunteer Profile",
	"/volunteer-tasks":     "Volunteer Tasks",
	"/volunteer-dashboard": "Volunteer Dashboard",
	"/request-relief":      "Request Relief",
	"/track-relief":        "Track Relief",
	"/evacuation-routes":   "Evacuation Routes",
}

var aliases = []string{"/index", "/home"}

type failure struct {
	Error string
}

type page struct {
	Title string
	Path  string
}

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// Register installs the page routes, the home aliases and the not-found
// fallback. It also sets the engine's HTML templates.
func Register(r *gin.Engine) {
	r.SetHTMLTemplate(Templates())

	for path, title := range Pages {
		p := page{Title: title, Path: path}
		r.GET(path, func(c *gin.Context) {
			c.HTML(http.StatusOK, "shell.html", p)
		})
	}
	for _, alias := range aliases {
		r.GET(alias, func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/")
		})
	}
	r.NoRoute(notFound)
}

func notFound(c *gin.Context) {
	if isAPI(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
		return
	}
	c.HTML(http.StatusNotFound, "not_found.html", page{Path: c.Request.URL.Path})
}

// Recovery turns a panic into the reload page showing the error, or a JSON
// 500 for API calls.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error("panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		if isAPI(c) || c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.HTML(http.StatusInternalServerError, "error.html", failure{Error: fmt.Sprint(recovered)})
		c.Abort()
	})
}

func isAPI(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}
