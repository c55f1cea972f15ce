// File: models/match.go
package models

import "time"

// ------------------------ match model -----------------------

// MatchState is the lifecycle state of a match.
type MatchState string

const (
	MatchActive   MatchState = "active"
	MatchFinished MatchState = "finished"
)

// Match is one scored contest between two teams of a competition.
// Once IsActive is false, Scores never change again.
type Match struct {
	ID            string    `json:"id"`
	CompetitionID string    `json:"competitionId"`
	TeamAName     string    `json:"teamAName"`
	TeamBName     string    `json:"teamBName"`
	Scores        Scores    `json:"scores"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewMatch returns an active match with zero scores and an empty history.
func NewMatch(id, competitionID, teamAName, teamBName string, now time.Time) *Match {
	return &Match{
		ID:            id,
		CompetitionID: competitionID,
		TeamAName:     teamAName,
		TeamBName:     teamBName,
		Scores:        Scores{History: []ScoreEvent{}},
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// State reports whether the match is still being scored.
func (m *Match) State() MatchState {
	if m.IsActive {
		return MatchActive
	}
	return MatchFinished
}

// SetScore sets team's total to target while the match is active.
// It returns ErrMatchFinished, without touching the ledger, once the match is finished.
func (m *Match) SetScore(team Team, target int, now time.Time) (bool, error) {
	if !m.IsActive {
		return false, ErrMatchFinished
	}
	_, changed, err := m.Scores.SetTeamScore(team, target, now)
	if err != nil || !changed {
		return false, err
	}
	m.UpdatedAt = now
	return true, nil
}

// Adjust applies a relative change to team's current total.
func (m *Match) Adjust(team Team, adj Adjustment, now time.Time) (bool, error) {
	return m.SetScore(team, adj.Target(m.Scores.Total(team)), now)
}

// Finish locks the ledger. It reports false when the match was already finished.
func (m *Match) Finish(now time.Time) bool {
	if !m.IsActive {
		return false
	}
	m.IsActive = false
	m.UpdatedAt = now
	return true
}

// TeamName returns the display name of team.
func (m *Match) TeamName(team Team) string {
	if team == TeamB {
		return m.TeamBName
	}
	return m.TeamAName
}

// ShortID is the last four characters of the id, used on match cards.
func (m *Match) ShortID() string {
	if len(m.ID) <= 4 {
		return m.ID
	}
	return m.ID[len(m.ID)-4:]
}
