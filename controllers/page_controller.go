// Package controllers file: controllers/page_controller.go
package controllers

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kabaddi-scoreboard/logger"
	"kabaddi-scoreboard/models"
	"kabaddi-scoreboard/services"
)

// Health answers the load balancer check.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// TemplateFuncs are the helpers available to every page template.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"signed": func(n int) string { return fmt.Sprintf("%+d", n) },
		"clock": func(t time.Time) string {
			return t.Local().Format("15:04:05")
		},
		"teams": func() []models.Team { return []models.Team{models.TeamA, models.TeamB} },
	}
}

// PageController renders the landing and archive pages.
type PageController struct {
	Service     services.ScoreboardServiceInterface
	RecentLimit int
}

// Index shows the create form and the most recent competitions.
func (pc *PageController) Index(c *gin.Context) {
	recent, err := pc.Service.ListCompetitions(c.Request.Context(), pc.RecentLimit)
	if err != nil {
		logger.Error.Printf("Index: listing competitions: %v", err)
		renderError(c)
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Competitions": recent,
		"Flash":        popFlash(c),
	})
}

// Competitions lists every competition, newest first.
func (pc *PageController) Competitions(c *gin.Context) {
	all, err := pc.Service.ListCompetitions(c.Request.Context(), 0)
	if err != nil {
		logger.Error.Printf("Competitions: listing competitions: %v", err)
		renderError(c)
		return
	}
	c.HTML(http.StatusOK, "competitions.html", gin.H{"Competitions": all})
}

// NotFound renders the 404 page; also used as the router's NoRoute handler.
func NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "not_found.html", gin.H{"Path": c.Request.URL.Path})
}

func renderError(c *gin.Context) {
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"Message": "Something went wrong loading this page. Please try again.",
	})
}
