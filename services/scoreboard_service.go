// Package services: services/scoreboard_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"kabaddi-scoreboard/logger"
	"kabaddi-scoreboard/metrics"
	"kabaddi-scoreboard/models"
	"kabaddi-scoreboard/store"
)

var (
	// ErrValidation marks a request with missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a mutation aimed at an id that does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrStorage marks a failure of the underlying store.
	ErrStorage = errors.New("storage failure")
)

// Metric names.
const (
	MetricCompetitionsCreated = "CompetitionsCreated"
	MetricMatchesCreated      = "MatchesCreated"
	MetricScoreChanges        = "ScoreChanges"
	MetricMatchesFinished     = "MatchesFinished"
)

// CompetitionInput is the payload of create-competition, from a form or JSON.
type CompetitionInput struct {
	Name  string `form:"name" json:"name" yaml:"name" binding:"required"`
	Place string `form:"place" json:"place" yaml:"place" binding:"required"`
	Date  string `form:"date" json:"date" yaml:"date" binding:"required,datetime=2006-01-02"`
}

// MatchInput is the payload of create-match.
type MatchInput struct {
	TeamAName string `form:"teamAName" json:"teamAName" binding:"required"`
	TeamBName string `form:"teamBName" json:"teamBName" binding:"required"`
}

// ScoreUpdate is the outcome of a score change request.
// Locked is set when the match was already finished and nothing was applied.
type ScoreUpdate struct {
	Match   *models.Match
	Changed bool
	Locked  bool
}

// Invalidator is told about every successful mutation so live views can refresh.
type Invalidator interface {
	InvalidateMatch(m *models.Match)
	InvalidateCompetition(competitionID string)
}

// ScoreboardServiceInterface is what the controllers need from the service.
type ScoreboardServiceInterface interface {
	CreateCompetition(ctx context.Context, in CompetitionInput) (*models.Competition, error)
	GetCompetition(ctx context.Context, id string) (*models.CompetitionDetail, error)
	ListCompetitions(ctx context.Context, limit int) ([]models.CompetitionSummary, error)
	CreateMatch(ctx context.Context, competitionID string, in MatchInput) (*models.Match, error)
	GetMatch(ctx context.Context, id string) (*models.MatchDetail, error)
	UpdateScore(ctx context.Context, matchID string, team models.Team, score int) (*ScoreUpdate, error)
	AdjustScore(ctx context.Context, matchID string, team models.Team, adj models.Adjustment) (*ScoreUpdate, error)
	FinishMatch(ctx context.Context, matchID string) (*models.Match, error)
}

// ScoreboardService applies competition and match rules on top of a Store.
type ScoreboardService struct {
	store       store.Store
	clock       clockwork.Clock
	newID       func() string
	invalidator Invalidator
	metrics     metrics.Recorder
}

// Option configures a ScoreboardService.
type Option func(*ScoreboardService)

// WithClock sets the clock used for timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(s *ScoreboardService) { s.clock = c }
}

// WithIDGenerator sets the generator of competition and match ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *ScoreboardService) { s.newID = fn }
}

// WithInvalidator sets who is told about successful mutations.
func WithInvalidator(inv Invalidator) Option {
	return func(s *ScoreboardService) { s.invalidator = inv }
}

// WithMetrics sets the recorder for the operation counters.
func WithMetrics(r metrics.Recorder) Option {
	return func(s *ScoreboardService) { s.metrics = r }
}

// NewScoreboardService creates a service backed by st.
func NewScoreboardService(st store.Store, opts ...Option) *ScoreboardService {
	s := &ScoreboardService{
		store:       st,
		clock:       clockwork.NewRealClock(),
		newID:       uuid.NewString,
		invalidator: nopInvalidator{},
		metrics:     metrics.Noop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// now is truncated to milliseconds so every store round-trips it unchanged.
func (s *ScoreboardService) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Millisecond)
}

// ---------------------- competitions ----------------------

// CreateCompetition validates in and stores a competition with no matches.
func (s *ScoreboardService) CreateCompetition(ctx context.Context, in CompetitionInput) (*models.Competition, error) {
	name, place, date := strings.TrimSpace(in.Name), strings.TrimSpace(in.Place), strings.TrimSpace(in.Date)
	if name == "" || place == "" || date == "" {
		return nil, fmt.Errorf("%w: name, place and date are required", ErrValidation)
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}

	c := models.NewCompetition(s.newID(), name, place, date, s.now())
	if err := s.store.CreateCompetition(ctx, c); err != nil {
		logger.Error.Printf("CreateCompetition: failed to store %q: %v", name, err)
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	logger.Info.Printf("CreateCompetition: created %s (%s, %s)", c.ID, c.Name, c.Date)
	s.metrics.IncCounter(MetricCompetitionsCreated)
	return c, nil
}

// GetCompetition returns the competition with its matches, or nil when id is unknown.
func (s *ScoreboardService) GetCompetition(ctx context.Context, id string) (*models.CompetitionDetail, error) {
	c, err := s.store.GetCompetition(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.Error.Printf("GetCompetition: %s: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	matches, err := s.store.GetMatches(ctx, c.Matches)
	if err != nil {
		logger.Error.Printf("GetCompetition: loading matches of %s: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return models.NewCompetitionDetail(c, matches), nil
}

// ListCompetitions returns summaries newest first; limit <= 0 lists everything.
func (s *ScoreboardService) ListCompetitions(ctx context.Context, limit int) ([]models.CompetitionSummary, error) {
	items, err := s.store.ListCompetitions(ctx, limit)
	if err != nil {
		logger.Error.Printf("ListCompetitions: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	out := make([]models.CompetitionSummary, 0, len(items))
	for i := range items {
		out = append(out, models.NewCompetitionSummary(&items[i]))
	}
	return out, nil
}

// ---------------------- matches ----------------------

// CreateMatch adds an active, scoreless match to the competition.
func (s *ScoreboardService) CreateMatch(ctx context.Context, competitionID string, in MatchInput) (*models.Match, error) {
	teamA, teamB := strings.TrimSpace(in.TeamAName), strings.TrimSpace(in.TeamBName)
	if teamA == "" || teamB == "" {
		return nil, fmt.Errorf("%w: both team names are required", ErrValidation)
	}

	m := models.NewMatch(s.newID(), competitionID, teamA, teamB, s.now())
	if _, err := s.store.CreateMatch(ctx, m); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: competition %s", ErrNotFound, competitionID)
		}
		logger.Error.Printf("CreateMatch: %s in %s: %v", m.ID, competitionID, err)
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	logger.Info.Printf("CreateMatch: %s vs %s (%s) in competition %s", teamA, teamB, m.ID, competitionID)
	s.metrics.IncCounter(MetricMatchesCreated)
	s.invalidator.InvalidateCompetition(competitionID)
	return m, nil
}

// GetMatch returns the match with its competition, or nil when id is unknown.
func (s *ScoreboardService) GetMatch(ctx context.Context, id string) (*models.MatchDetail, error) {
	m, err := s.store.GetMatch(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.Error.Printf("GetMatch: %s: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	c, err := s.store.GetCompetition(ctx, m.CompetitionID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		logger.Error.Printf("GetMatch: competition %s of %s: %v", m.CompetitionID, id, err)
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err != nil {
		logger.Warn.Printf("GetMatch: match %s references missing competition %s", id, m.CompetitionID)
		c = nil
	}
	return models.NewMatchDetail(m, c), nil
}

// UpdateScore sets team's total to an absolute score.
// On a finished match nothing changes and the update reports Locked.
// Negative scores are refused here as ErrValidation; the ledger in
// models.Scores.SetTeamScore accepts any target.
func (s *ScoreboardService) UpdateScore(ctx context.Context, matchID string, team models.Team, score int) (*ScoreUpdate, error) {
	if !team.Valid() {
		return nil, fmt.Errorf("%w: team must be A or B", ErrValidation)
	}
	if score < 0 {
		return nil, fmt.Errorf("%w: score must not be negative", ErrValidation)
	}
	return s.changeScore(ctx, matchID, func(m *models.Match, now time.Time) (bool, error) {
		return m.SetScore(team, score, now)
	})
}

// AdjustScore applies increment, decrement or super tackle to team's total.
func (s *ScoreboardService) AdjustScore(ctx context.Context, matchID string, team models.Team, adj models.Adjustment) (*ScoreUpdate, error) {
	if !team.Valid() {
		return nil, fmt.Errorf("%w: team must be A or B", ErrValidation)
	}
	if _, err := models.ParseAdjustment(string(adj)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s.changeScore(ctx, matchID, func(m *models.Match, now time.Time) (bool, error) {
		return m.Adjust(team, adj, now)
	})
}

// changeScore runs the read-compute-write of a score change in one store transaction.
func (s *ScoreboardService) changeScore(ctx context.Context, matchID string, apply func(*models.Match, time.Time) (bool, error)) (*ScoreUpdate, error) {
	now := s.now()
	locked := false

	m, written, err := s.store.UpdateMatch(ctx, matchID, func(m *models.Match) (bool, error) {
		changed, err := apply(m, now)
		if errors.Is(err, models.ErrMatchFinished) {
			locked = true
			return false, nil
		}
		return changed, err
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	if err != nil {
		logger.Error.Printf("UpdateScore: match %s: %v", matchID, err)
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if locked {
		logger.Warn.Printf("UpdateScore: match %s is finished, score left at %d-%d",
			matchID, m.Scores.TeamA, m.Scores.TeamB)
		return &ScoreUpdate{Match: m, Locked: true}, nil
	}
	if written {
		logger.Debug.Printf("UpdateScore: match %s now %d-%d", matchID, m.Scores.TeamA, m.Scores.TeamB)
		s.metrics.IncCounter(MetricScoreChanges)
		s.invalidator.InvalidateMatch(m)
		s.invalidator.InvalidateCompetition(m.CompetitionID)
	}
	return &ScoreUpdate{Match: m, Changed: written}, nil
}

// FinishMatch locks the match's ledger. Finishing twice is a no-op.
func (s *ScoreboardService) FinishMatch(ctx context.Context, matchID string) (*models.Match, error) {
	now := s.now()
	m, written, err := s.store.UpdateMatch(ctx, matchID, func(m *models.Match) (bool, error) {
		return m.Finish(now), nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	if err != nil {
		logger.Error.Printf("FinishMatch: match %s: %v", matchID, err)
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if written {
		logger.Info.Printf("FinishMatch: match %s ended %d-%d", matchID, m.Scores.TeamA, m.Scores.TeamB)
		s.metrics.IncCounter(MetricMatchesFinished)
		s.invalidator.InvalidateMatch(m)
		s.invalidator.InvalidateCompetition(m.CompetitionID)
	}
	return m, nil
}

type nopInvalidator struct{}

func (nopInvalidator) InvalidateMatch(*models.Match) {}
func (nopInvalidator) InvalidateCompetition(string) {}

var _ ScoreboardServiceInterface = (*ScoreboardService)(nil)
