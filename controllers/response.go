// Package controllers file: controllers/response.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"kabaddi-scoreboard/logger"
	"kabaddi-scoreboard/models"
	"kabaddi-scoreboard/services"
)

// ActionResponse is the uniform result of every mutation.
type ActionResponse struct {
	Success       bool           `json:"success"`
	CompetitionID string         `json:"competitionId,omitempty"`
	MatchID       string         `json:"matchId,omitempty"`
	Changed       bool           `json:"changed,omitempty"`
	Locked        bool           `json:"locked,omitempty"`
	Scores        *models.Scores `json:"scores,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// failure builds the response for err; fallback is shown for storage failures.
func failure(err error, fallback string) (int, ActionResponse) {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, ActionResponse{Error: err.Error()}
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, ActionResponse{Error: "not found"}
	default:
		return http.StatusInternalServerError, ActionResponse{Error: fallback}
	}
}

func scoreResponse(res *services.ScoreUpdate) ActionResponse {
	return ActionResponse{
		Success:       true,
		CompetitionID: res.Match.CompetitionID,
		MatchID:       res.Match.ID,
		Changed:       res.Changed,
		Locked:        res.Locked,
		Scores:        &res.Match.Scores,
	}
}

// -------------- flash messages --------------

func setFlash(c *gin.Context, msg string) {
	session := sessions.Default(c)
	session.AddFlash(msg)
	if err := session.Save(); err != nil {
		logger.Error.Printf("setFlash: Error saving session: %v", err)
	}
}

func popFlash(c *gin.Context) string {
	session := sessions.Default(c)
	flashes := session.Flashes()
	if len(flashes) == 0 {
		return ""
	}
	if err := session.Save(); err != nil {
		logger.Error.Printf("popFlash: Error saving session: %v", err)
	}
	msg, _ := flashes[0].(string)
	return msg
}

// flashFor turns a service error into the message shown after a redirect.
func flashFor(err error, fallback string) string {
	switch {
	case errors.Is(err, services.ErrValidation):
		return "Please check the form: " + err.Error()
	case errors.Is(err, services.ErrNotFound):
		return "That record no longer exists."
	default:
		return fallback
	}
}
