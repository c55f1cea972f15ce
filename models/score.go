// Package models defines the records kept by the scoreboard and the rules for changing them.
// File: models/score.go
package models

import (
	"fmt"
	"strings"
	"time"
)

// ----------------------- teams -----------------------

// Team selects one side of a match.
type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)

// ParseTeam accepts "A" or "B" in either case.
func ParseTeam(s string) (Team, error) {
	switch Team(strings.ToUpper(strings.TrimSpace(s))) {
	case TeamA:
		return TeamA, nil
	case TeamB:
		return TeamB, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTeam, s)
}

// Valid reports whether t is one of the two teams.
func (t Team) Valid() bool {
	return t == TeamA || t == TeamB
}

// ----------------------- score ledger -----------------------

// ScoreEvent is one entry of a match's point history.
type ScoreEvent struct {
	Team      Team      `json:"team"`
	Points    int       `json:"points"`
	Timestamp time.Time `json:"timestamp"`
}

// Scores holds both running totals and the append-only history they are derived from.
// TeamA always equals the sum of History points for TeamA, and likewise for TeamB.
type Scores struct {
	TeamA   int          `json:"teamA"`
	TeamB   int          `json:"teamB"`
	History []ScoreEvent `json:"history"`
}

// Total returns the running total for team.
func (s *Scores) Total(team Team) int {
	if team == TeamB {
		return s.TeamB
	}
	return s.TeamA
}

// SetTeamScore moves team's total to target and appends the difference to History.
// A target equal to the current total changes nothing and returns false.
func (s *Scores) SetTeamScore(team Team, target int, at time.Time) (ScoreEvent, bool, error) {
	if !team.Valid() {
		return ScoreEvent{}, false, fmt.Errorf("%w: %q", ErrInvalidTeam, team)
	}

	delta := target - s.Total(team)
	if delta == 0 {
		return ScoreEvent{}, false, nil
	}

	if team == TeamA {
		s.TeamA = target
	} else {
		s.TeamB = target
	}

	event := ScoreEvent{Team: team, Points: delta, Timestamp: at}
	s.History = append(s.History, event)
	return event, true, nil
}

// Replay sums History per team. For a consistent ledger the result equals (TeamA, TeamB).
func (s *Scores) Replay() (int, int) {
	var a, b int
	for _, e := range s.History {
		switch e.Team {
		case TeamA:
			a += e.Points
		case TeamB:
			b += e.Points
		}
	}
	return a, b
}

// ----------------------- adjustments -----------------------

// Adjustment is a relative score change expressed over SetTeamScore.
type Adjustment string

const (
	Increment   Adjustment = "increment"
	Decrement   Adjustment = "decrement"
	SuperTackle Adjustment = "superTackle"
)

// SuperTacklePoints is the fixed bonus awarded for a super tackle.
const SuperTacklePoints = 2

// ParseAdjustment maps a form or JSON action name to an Adjustment.
func ParseAdjustment(s string) (Adjustment, error) {
	switch Adjustment(strings.TrimSpace(s)) {
	case Increment:
		return Increment, nil
	case Decrement:
		return Decrement, nil
	case SuperTackle:
		return SuperTackle, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAdjustment, s)
}

// Target returns the absolute score that applying a to current produces.
// Decrement never goes below zero.
func (a Adjustment) Target(current int) int {
	switch a {
	case Increment:
		return current + 1
	case Decrement:
		if current > 0 {
			return current - 1
		}
		return 0
	case SuperTackle:
		return current + SuperTacklePoints
	}
	return current
}
