package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kabaddi-scoreboard/models"
)

// Ensure MockScoreboardService implements ScoreboardServiceInterface
var _ ScoreboardServiceInterface = (*MockScoreboardService)(nil)

// MockScoreboardService is a testify mock used by controller tests.
type MockScoreboardService struct {
	mock.Mock
}

func (m *MockScoreboardService) CreateCompetition(ctx context.Context, in CompetitionInput) (*models.Competition, error) {
	args := m.Called(ctx, in)
	c, _ := args.Get(0).(*models.Competition)
	return c, args.Error(1)
}

func (m *MockScoreboardService) GetCompetition(ctx context.Context, id string) (*models.CompetitionDetail, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.CompetitionDetail)
	return c, args.Error(1)
}

func (m *MockScoreboardService) ListCompetitions(ctx context.Context, limit int) ([]models.CompetitionSummary, error) {
	args := m.Called(ctx, limit)
	list, _ := args.Get(0).([]models.CompetitionSummary)
	return list, args.Error(1)
}

func (m *MockScoreboardService) CreateMatch(ctx context.Context, competitionID string, in MatchInput) (*models.Match, error) {
	args := m.Called(ctx, competitionID, in)
	match, _ := args.Get(0).(*models.Match)
	return match, args.Error(1)
}

func (m *MockScoreboardService) GetMatch(ctx context.Context, id string) (*models.MatchDetail, error) {
	args := m.Called(ctx, id)
	match, _ := args.Get(0).(*models.MatchDetail)
	return match, args.Error(1)
}

func (m *MockScoreboardService) UpdateScore(ctx context.Context, matchID string, team models.Team, score int) (*ScoreUpdate, error) {
	args := m.Called(ctx, matchID, team, score)
	res, _ := args.Get(0).(*ScoreUpdate)
	return res, args.Error(1)
}

func (m *MockScoreboardService) AdjustScore(ctx context.Context, matchID string, team models.Team, adj models.Adjustment) (*ScoreUpdate, error) {
	args := m.Called(ctx, matchID, team, adj)
	res, _ := args.Get(0).(*ScoreUpdate)
	return res, args.Error(1)
}

func (m *MockScoreboardService) FinishMatch(ctx context.Context, matchID string) (*models.Match, error) {
	args := m.Called(ctx, matchID)
	match, _ := args.Get(0).(*models.Match)
	return match, args.Error(1)
}
