// Package controllers file: controllers/api_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"kabaddi-scoreboard/models"
	"kabaddi-scoreboard/services"
)

// APIController exposes the scoreboard operations as JSON.
type APIController struct {
	Service services.ScoreboardServiceInterface
}

type scoreRequest struct {
	Team  string `json:"team" binding:"required"`
	Score *int   `json:"score" binding:"required"`
}

type pointsRequest struct {
	Team   string `json:"team" binding:"required"`
	Action string `json:"action" binding:"required"`
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ActionResponse{Error: err.Error()})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ActionResponse{Error: "not found"})
}

// CreateCompetition: POST /api/competitions
func (ac *APIController) CreateCompetition(c *gin.Context) {
	var in services.CompetitionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	comp, err := ac.Service.CreateCompetition(c.Request.Context(), in)
	if err != nil {
		c.JSON(failure(err, "Failed to create competition"))
		return
	}
	c.JSON(http.StatusCreated, ActionResponse{Success: true, CompetitionID: comp.ID})
}

// ListCompetitions: GET /api/competitions?limit=N
func (ac *APIController) ListCompetitions(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, ActionResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	list, err := ac.Service.ListCompetitions(c.Request.Context(), limit)
	if err != nil {
		c.JSON(failure(err, "Failed to list competitions"))
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetCompetition: GET /api/competitions/:id
func (ac *APIController) GetCompetition(c *gin.Context) {
	detail, err := ac.Service.GetCompetition(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(failure(err, "Failed to load competition"))
		return
	}
	if detail == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CreateMatch: POST /api/competitions/:id/matches
func (ac *APIController) CreateMatch(c *gin.Context) {
	var in services.MatchInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	m, err := ac.Service.CreateMatch(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		c.JSON(failure(err, "Failed to create match"))
		return
	}
	c.JSON(http.StatusCreated, ActionResponse{Success: true, CompetitionID: m.CompetitionID, MatchID: m.ID})
}

// GetMatch: GET /api/matches/:id
func (ac *APIController) GetMatch(c *gin.Context) {
	detail, err := ac.Service.GetMatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(failure(err, "Failed to load match"))
		return
	}
	if detail == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UpdateScore: POST /api/matches/:id/score
func (ac *APIController) UpdateScore(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	team, err := models.ParseTeam(req.Team)
	if err != nil {
		badRequest(c, err)
		return
	}
	res, err := ac.Service.UpdateScore(c.Request.Context(), c.Param("id"), team, *req.Score)
	if err != nil {
		c.JSON(failure(err, "Failed to update score"))
		return
	}
	c.JSON(http.StatusOK, scoreResponse(res))
}

// AdjustPoints: POST /api/matches/:id/points
func (ac *APIController) AdjustPoints(c *gin.Context) {
	var req pointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	team, err := models.ParseTeam(req.Team)
	if err != nil {
		badRequest(c, err)
		return
	}
	adj, err := models.ParseAdjustment(req.Action)
	if err != nil {
		badRequest(c, err)
		return
	}
	res, err := ac.Service.AdjustScore(c.Request.Context(), c.Param("id"), team, adj)
	if err != nil {
		c.JSON(failure(err, "Failed to update score"))
		return
	}
	c.JSON(http.StatusOK, scoreResponse(res))
}

// FinishMatch: POST /api/matches/:id/finish
func (ac *APIController) FinishMatch(c *gin.Context) {
	m, err := ac.Service.FinishMatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(failure(err, "Failed to finish match"))
		return
	}
	c.JSON(http.StatusOK, ActionResponse{
		Success:       true,
		CompetitionID: m.CompetitionID,
		MatchID:       m.ID,
		Scores:        &m.Scores,
	})
}
