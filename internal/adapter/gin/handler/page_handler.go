package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// PageHandler renders the server-side HTML pages. The pages themselves are
// static shells; all data loading happens through the JSON API. Each page
// embeds the CSRF token in a meta tag so the page scripts can echo it on
// mutating requests.
type PageHandler struct{}

// NewPageHandler creates a new PageHandler instance.
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func pageData(c *gin.Context, title string) gin.H {
	return gin.H{
		"Title":     title,
		"CSRFToken": csrf.Token(c.Request),
	}
}

// Dashboard handles GET /
func (h *PageHandler) Dashboard(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard.html", pageData(c, "Dashboard"))
}

// Soundings handles GET /soundings
func (h *PageHandler) Soundings(c *gin.Context) {
	c.HTML(http.StatusOK, "soundings.html", pageData(c, "Soundings"))
}

// History handles GET /history
func (h *PageHandler) History(c *gin.Context) {
	c.HTML(http.StatusOK, "history.html", pageData(c, "Hitch History"))
}

// Fuel handles GET /fuel
func (h *PageHandler) Fuel(c *gin.Context) {
	c.HTML(http.StatusOK, "fuel.html", pageData(c, "Fuel Tickets"))
}

// NewHitch handles GET /new-hitch
func (h *PageHandler) NewHitch(c *gin.Context) {
	c.HTML(http.StatusOK, "new_hitch.html", pageData(c, "Start New Hitch"))
}
