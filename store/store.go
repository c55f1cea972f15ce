// Package store persists competitions and matches.
// File: store/store.go
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kabaddi-scoreboard/models"
)

var (
	// ErrNotFound is returned when a competition or match id does not resolve.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned when a record with the same id is already stored.
	ErrAlreadyExists = errors.New("record already exists")
)

// MatchMutator edits a match loaded inside a write transaction.
// It returns true when m changed and must be written back.
type MatchMutator func(m *models.Match) (bool, error)

// Store is the persistence contract used by the scoreboard service.
type Store interface {
	CreateCompetition(ctx context.Context, c *models.Competition) error
	GetCompetition(ctx context.Context, id string) (*models.Competition, error)
	// ListCompetitions returns competitions newest first; limit <= 0 returns all.
	ListCompetitions(ctx context.Context, limit int) ([]models.Competition, error)
	CountCompetitions(ctx context.Context) (int, error)

	// CreateMatch stores m and appends its id to the owning competition in one
	// transaction, returning the updated competition.
	CreateMatch(ctx context.Context, m *models.Match) (*models.Competition, error)
	GetMatch(ctx context.Context, id string) (*models.Match, error)
	// GetMatches returns the matches that exist among ids, in ids order.
	GetMatches(ctx context.Context, ids []string) ([]models.Match, error)
	// UpdateMatch runs fn against the stored match inside one transaction.
	// Nothing is written when fn reports no change or fails.
	UpdateMatch(ctx context.Context, id string, fn MatchMutator) (*models.Match, bool, error)

	Close() error
}

// Drivers.
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
)

// Open returns the store selected by driver.
func Open(driver, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverBolt:
		return OpenBolt(path)
	case DriverSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
