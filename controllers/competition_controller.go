// Package controllers file: controllers/competition_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kabaddi-scoreboard/logger"
	"kabaddi-scoreboard/services"
	"kabaddi-scoreboard/websocket"
)

// CompetitionController serves the competition pages and their form posts.
type CompetitionController struct {
	Service services.ScoreboardServiceInterface
	Hub     *websocket.Hub
}

// Create handles the landing page form and redirects to the new competition.
func (cc *CompetitionController) Create(c *gin.Context) {
	var in services.CompetitionInput
	if err := c.ShouldBind(&in); err != nil {
		logger.Warn.Printf("CreateCompetition: invalid form: %v", err)
		setFlash(c, "Name, place and a valid date are required.")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	comp, err := cc.Service.CreateCompetition(c.Request.Context(), in)
	if err != nil {
		setFlash(c, flashFor(err, "Failed to create competition"))
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.Redirect(http.StatusSeeOther, "/competition/"+comp.ID)
}

// Show renders one competition with its match cards.
func (cc *CompetitionController) Show(c *gin.Context) {
	id := c.Param("id")
	detail, err := cc.Service.GetCompetition(c.Request.Context(), id)
	if err != nil {
		renderError(c)
		return
	}
	if detail == nil {
		logger.Warn.Printf("ShowCompetition: %s not found", id)
		NotFound(c)
		return
	}
	c.HTML(http.StatusOK, "competition.html", gin.H{
		"Competition": detail,
		"Flash":       popFlash(c),
	})
}

// CreateMatch handles the add-match form on the competition page.
func (cc *CompetitionController) CreateMatch(c *gin.Context) {
	id := c.Param("id")
	back := "/competition/" + id

	var in services.MatchInput
	if err := c.ShouldBind(&in); err != nil {
		setFlash(c, "Both team names are required.")
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	if _, err := cc.Service.CreateMatch(c.Request.Context(), id, in); err != nil {
		setFlash(c, flashFor(err, "Failed to create match"))
	}
	c.Redirect(http.StatusSeeOther, back)
}

// Live upgrades to a websocket that receives this competition's invalidations.
func (cc *CompetitionController) Live(c *gin.Context) {
	id := c.Param("id")
	detail, err := cc.Service.GetCompetition(c.Request.Context(), id)
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	if detail == nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	cc.Hub.ServeWs(c.Writer, c.Request, websocket.CompetitionTopic(id))
}
