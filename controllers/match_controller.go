// Package controllers file: controllers/match_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"kabaddi-scoreboard/logger"
	"kabaddi-scoreboard/models"
	"kabaddi-scoreboard/services"
	"kabaddi-scoreboard/websocket"
)

// MatchController serves the scoreboard page, its controls and the QR code.
type MatchController struct {
	Service        services.ScoreboardServiceInterface
	Hub            *websocket.Hub
	ApplicationURL string
	// QREncoder defaults to the real encoder when nil.
	QREncoder services.QRCodeEncoder
}

type pointsForm struct {
	Team   string `form:"team" binding:"required"`
	Action string `form:"action" binding:"required"`
}

type scoreForm struct {
	Team  string `form:"team" binding:"required"`
	Score string `form:"score" binding:"required"`
}

// Show renders the scoreboard. Finished matches show the final score instead of controls.
func (mc *MatchController) Show(c *gin.Context) {
	id := c.Param("id")
	detail, err := mc.Service.GetMatch(c.Request.Context(), id)
	if err != nil {
		renderError(c)
		return
	}
	if detail == nil {
		logger.Warn.Printf("ShowMatch: %s not found", id)
		NotFound(c)
		return
	}
	c.HTML(http.StatusOK, "match.html", gin.H{
		"Match":             detail,
		"Flash":             popFlash(c),
		"SuperTacklePoints": models.SuperTacklePoints,
	})
}

// Points applies +1, -1 or a super tackle from the scoreboard buttons.
func (mc *MatchController) Points(c *gin.Context) {
	id := c.Param("id")
	back := "/match/" + id

	var form pointsForm
	if err := c.ShouldBind(&form); err != nil {
		setFlash(c, "Choose a team and an action.")
		c.Redirect(http.StatusSeeOther, back)
		return
	}
	team, err := models.ParseTeam(form.Team)
	if err != nil {
		setFlash(c, "Unknown team.")
		c.Redirect(http.StatusSeeOther, back)
		return
	}
	adj, err := models.ParseAdjustment(form.Action)
	if err != nil {
		setFlash(c, "Unknown action.")
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	res, err := mc.Service.AdjustScore(c.Request.Context(), id, team, adj)
	mc.afterScore(c, back, res, err)
}

// Score sets a team's total to an absolute value.
func (mc *MatchController) Score(c *gin.Context) {
	id := c.Param("id")
	back := "/match/" + id

	var form scoreForm
	if err := c.ShouldBind(&form); err != nil {
		setFlash(c, "Choose a team and a score.")
		c.Redirect(http.StatusSeeOther, back)
		return
	}
	team, err := models.ParseTeam(form.Team)
	if err != nil {
		setFlash(c, "Unknown team.")
		c.Redirect(http.StatusSeeOther, back)
		return
	}
	score, err := strconv.Atoi(form.Score)
	if err != nil {
		setFlash(c, "Score must be a whole number.")
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	res, err := mc.Service.UpdateScore(c.Request.Context(), id, team, score)
	mc.afterScore(c, back, res, err)
}

func (mc *MatchController) afterScore(c *gin.Context, back string, res *services.ScoreUpdate, err error) {
	switch {
	case err != nil:
		setFlash(c, flashFor(err, "Failed to update score"))
	case res.Locked:
		setFlash(c, "This match has finished; the score can no longer change.")
	}
	c.Redirect(http.StatusSeeOther, back)
}

// Finish ends the match and returns to its competition.
func (mc *MatchController) Finish(c *gin.Context) {
	id := c.Param("id")
	m, err := mc.Service.FinishMatch(c.Request.Context(), id)
	if err != nil {
		setFlash(c, flashFor(err, "Failed to finish match"))
		c.Redirect(http.StatusSeeOther, "/match/"+id)
		return
	}
	c.Redirect(http.StatusSeeOther, "/competition/"+m.CompetitionID)
}

// Live upgrades to a websocket that receives this match's invalidations.
func (mc *MatchController) Live(c *gin.Context) {
	id := c.Param("id")
	detail, err := mc.Service.GetMatch(c.Request.Context(), id)
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	if detail == nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	mc.Hub.ServeWs(c.Writer, c.Request, websocket.MatchTopic(id))
}

// QRCode returns a PNG linking to the match scoreboard.
func (mc *MatchController) QRCode(c *gin.Context) {
	id := c.Param("id")
	detail, err := mc.Service.GetMatch(c.Request.Context(), id)
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	if detail == nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	size := services.DefaultQRCodeSize
	if s, err := strconv.Atoi(c.Query("size")); err == nil && s > 0 && s <= 1024 {
		size = s
	}

	png, err := services.GenerateQRCode(services.MatchURL(mc.ApplicationURL, id), size, mc.QREncoder)
	if err != nil {
		logger.Error.Printf("QRCode: failed to generate for match %s: %v", id, err)
		c.String(http.StatusInternalServerError, "Failed to generate QR code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
