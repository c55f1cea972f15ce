// controllers/api_controller_test.go
package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kabaddi-scoreboard/models"
	"kabaddi-scoreboard/services"
)

func apiRouter(t *testing.T, svc *services.MockScoreboardService) *gin.Engine {
	ac := &APIController{Service: svc}
	router := setupTestRouter(t)
	api := router.Group("/api")
	api.POST("/competitions", ac.CreateCompetition)
	api.GET("/competitions", ac.ListCompetitions)
	api.GET("/competitions/:id", ac.GetCompetition)
	api.POST("/competitions/:id/matches", ac.CreateMatch)
	api.GET("/matches/:id", ac.GetMatch)
	api.POST("/matches/:id/score", ac.UpdateScore)
	api.POST("/matches/:id/points", ac.AdjustPoints)
	api.POST("/matches/:id/finish", ac.FinishMatch)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeAction(t *testing.T, w *httptest.ResponseRecorder) ActionResponse {
	t.Helper()
	var resp ActionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAPICreateCompetition(t *testing.T) {
	svc := new(services.MockScoreboardService)
	in := services.CompetitionInput{Name: "Spring Cup", Place: "Court 1", Date: "2024-03-01"}
	svc.On("CreateCompetition", mock.Anything, in).Return(&models.Competition{ID: "c1"}, nil)

	w := doJSON(apiRouter(t, svc), http.MethodPost, "/api/competitions",
		`{"name":"Spring Cup","place":"Court 1","date":"2024-03-01"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeAction(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "c1", resp.CompetitionID)
}

func TestAPICreateCompetition_Invalid(t *testing.T) {
	svc := new(services.MockScoreboardService)
	router := apiRouter(t, svc)

	w := doJSON(router, http.MethodPost, "/api/competitions", `{"name":"Spring Cup"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeAction(t, w)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)

	w = doJSON(router, http.MethodPost, "/api/competitions", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "CreateCompetition", mock.Anything, mock.Anything)
}

func TestAPIListCompetitions(t *testing.T) {
	svc := new(services.MockScoreboardService)
	svc.On("ListCompetitions", mock.Anything, 2).Return([]models.CompetitionSummary{
		{ID: "c2", Name: "Summer League", MatchCount: 1},
		{ID: "c1", Name: "Spring Cup"},
	}, nil)
	router := apiRouter(t, svc)

	w := doJSON(router, http.MethodGet, "/api/competitions?limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.CompetitionSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "c2", list[0].ID)

	w = doJSON(router, http.MethodGet, "/api/competitions?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIGetCompetitionAndMatch_NotFound(t *testing.T) {
	svc := new(services.MockScoreboardService)
	svc.On("GetCompetition", mock.Anything, "nope").Return(nil, nil)
	svc.On("GetMatch", mock.Anything, "nope").Return(nil, nil)
	router := apiRouter(t, svc)

	for _, path := range []string{"/api/competitions/nope", "/api/matches/nope"} {
		w := doJSON(router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		resp := decodeAction(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "not found", resp.Error)
	}
}

func TestAPIGetMatch(t *testing.T) {
	svc := new(services.MockScoreboardService)
	detail := tigersVsWolves(true)
	detail.Competition = &models.CompetitionSummary{ID: "c1", Name: "Spring Cup"}
	svc.On("GetMatch", mock.Anything, "m1").Return(detail, nil)

	w := doJSON(apiRouter(t, svc), http.MethodGet, "/api/matches/m1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Tigers", got["teamAName"])
	assert.Equal(t, true, got["isActive"])
	assert.Equal(t, "Spring Cup", got["competition"].(map[string]any)["name"])
}

func TestAPICreateMatch(t *testing.T) {
	svc := new(services.MockScoreboardService)
	in := services.MatchInput{TeamAName: "Tigers", TeamBName: "Wolves"}
	svc.On("CreateMatch", mock.Anything, "c1", in).Return(&models.Match{ID: "m1", CompetitionID: "c1"}, nil)
	svc.On("CreateMatch", mock.Anything, "ghost", in).Return(nil, fmt.Errorf("%w: competition ghost", services.ErrNotFound))
	router := apiRouter(t, svc)

	w := doJSON(router, http.MethodPost, "/api/competitions/c1/matches", `{"teamAName":"Tigers","teamBName":"Wolves"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeAction(t, w)
	assert.Equal(t, "m1", resp.MatchID)
	assert.Equal(t, "c1", resp.CompetitionID)

	w = doJSON(router, http.MethodPost, "/api/competitions/ghost/matches", `{"teamAName":"Tigers","teamBName":"Wolves"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIUpdateScore(t *testing.T) {
	svc := new(services.MockScoreboardService)
	svc.On("UpdateScore", mock.Anything, "m1", models.TeamA, 0).Return(update(false), nil)
	router := apiRouter(t, svc)

	w := doJSON(router, http.MethodPost, "/api/matches/m1/score", `{"team":"a","score":0}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeAction(t, w)
	assert.True(t, resp.Success)
	assert.True(t, resp.Changed)
	assert.False(t, resp.Locked)
	require.NotNil(t, resp.Scores)
	assert.Equal(t, 7, resp.Scores.TeamA)

	w = doJSON(router, http.MethodPost, "/api/matches/m1/score", `{"team":"A"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/matches/m1/score", `{"team":"C","score":3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIUpdateScore_Locked(t *testing.T) {
	svc := new(services.MockScoreboardService)
	svc.On("UpdateScore", mock.Anything, "m1", models.TeamB, 12).Return(update(true), nil)

	w := doJSON(apiRouter(t, svc), http.MethodPost, "/api/matches/m1/score", `{"team":"B","score":12}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeAction(t, w)
	assert.True(t, resp.Success)
	assert.True(t, resp.Locked)
	assert.False(t, resp.Changed)
}

func TestAPIUpdateScore_ServiceErrors(t *testing.T) {
	svc := new(services.MockScoreboardService)
	svc.On("UpdateScore", mock.Anything, "m1", models.TeamA, -3).
		Return(nil, fmt.Errorf("%w: score must not be negative", services.ErrValidation))
	svc.On("UpdateScore", mock.Anything, "m1", models.TeamA, 4).
		Return(nil, fmt.Errorf("%w: %w", services.ErrStorage, errors.New("disk full")))
	router := apiRouter(t, svc)

	w := doJSON(router, http.MethodPost, "/api/matches/m1/score", `{"team":"A","score":-3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeAction(t, w).Error, "negative")

	w = doJSON(router, http.MethodPost, "/api/matches/m1/score", `{"team":"A","score":4}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to update score", decodeAction(t, w).Error)
}

func TestAPIAdjustPoints(t *testing.T) {
	svc := new(services.MockScoreboardService)
	svc.On("AdjustScore", mock.Anything, "m1", models.TeamB, models.SuperTackle).Return(update(false), nil)
	router := apiRouter(t, svc)

	w := doJSON(router, http.MethodPost, "/api/matches/m1/points", `{"team":"B","action":"superTackle"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeAction(t, w).Success)

	w = doJSON(router, http.MethodPost, "/api/matches/m1/points", `{"team":"B","action":"triple"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "AdjustScore", 1)
}

func TestAPIFinishMatch(t *testing.T) {
	svc := new(services.MockScoreboardService)
	svc.On("FinishMatch", mock.Anything, "m1").Return(&models.Match{ID: "m1", CompetitionID: "c1", Scores: models.Scores{TeamA: 30, TeamB: 28}}, nil)
	svc.On("FinishMatch", mock.Anything, "ghost").Return(nil, services.ErrNotFound)
	router := apiRouter(t, svc)

	w := doJSON(router, http.MethodPost, "/api/matches/m1/finish", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeAction(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "c1", resp.CompetitionID)
	assert.Equal(t, 30, resp.Scores.TeamA)

	w = doJSON(router, http.MethodPost, "/api/matches/ghost/finish", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
