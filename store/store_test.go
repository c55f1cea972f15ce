// file: store/store_test.go
package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kabaddi-scoreboard/models"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// forEachDriver runs fn against a fresh store of every backend.
func forEachDriver(t *testing.T, fn func(t *testing.T, s Store)) {
	for _, driver := range []string{DriverBolt, DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			s, err := Open(driver, filepath.Join(t.TempDir(), "scoreboard.db"))
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			fn(t, s)
		})
	}
}

func seedCompetition(t *testing.T, s Store, id string, at time.Time) *models.Competition {
	t.Helper()
	c := models.NewCompetition(id, "Cup "+id, "Court 1", "2024-03-01", at)
	require.NoError(t, s.CreateCompetition(context.Background(), c))
	return c
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("postgres", filepath.Join(t.TempDir(), "x.db"))
	assert.Error(t, err)
}

func TestCompetitionRoundTrip(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		seedCompetition(t, s, "c1", base)

		got, err := s.GetCompetition(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, "Cup c1", got.Name)
		assert.Equal(t, "2024-03-01", got.Date)
		assert.Equal(t, base, got.CreatedAt)
		assert.Empty(t, got.Matches)

		err = s.CreateCompetition(ctx, models.NewCompetition("c1", "Dup", "X", "2024-01-01", base))
		assert.ErrorIs(t, err, ErrAlreadyExists)

		_, err = s.GetCompetition(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListCompetitionsNewestFirst(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		for i := 0; i < 4; i++ {
			seedCompetition(t, s, fmt.Sprintf("c%d", i), base.Add(time.Duration(i)*time.Minute))
		}

		all, err := s.ListCompetitions(ctx, 0)
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, []string{"c3", "c2", "c1", "c0"}, competitionIDs(all))

		top, err := s.ListCompetitions(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"c3", "c2"}, competitionIDs(top))

		n, err := s.CountCompetitions(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	})
}

// Test: match creation attaches the id to its competition exactly once
func TestCreateMatchAttaches(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		seedCompetition(t, s, "c1", base)

		m1 := models.NewMatch("m1", "c1", "Tigers", "Wolves", base.Add(time.Minute))
		c, err := s.CreateMatch(ctx, m1)
		require.NoError(t, err)
		assert.Equal(t, []string{"m1"}, c.Matches)
		assert.Equal(t, base.Add(time.Minute), c.UpdatedAt)

		_, err = s.CreateMatch(ctx, models.NewMatch("m2", "c1", "Bulls", "Bears", base.Add(2*time.Minute)))
		require.NoError(t, err)

		_, err = s.CreateMatch(ctx, m1)
		assert.ErrorIs(t, err, ErrAlreadyExists)

		stored, err := s.GetCompetition(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, []string{"m1", "m2"}, stored.Matches)

		got, err := s.GetMatch(ctx, "m1")
		require.NoError(t, err)
		assert.Equal(t, "c1", got.CompetitionID)
		assert.True(t, got.IsActive)
		assert.Empty(t, got.Scores.History)
	})
}

func TestCreateMatchUnknownCompetition(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		_, err := s.CreateMatch(ctx, models.NewMatch("m1", "nope", "Tigers", "Wolves", base))
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = s.GetMatch(ctx, "m1")
		assert.ErrorIs(t, err, ErrNotFound, "no orphan match is left behind")
	})
}

func TestUpdateMatchAppendsHistory(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		seedCompetition(t, s, "c1", base)
		_, err := s.CreateMatch(ctx, models.NewMatch("m1", "c1", "Tigers", "Wolves", base))
		require.NoError(t, err)

		steps := []struct {
			team   models.Team
			target int
		}{{models.TeamA, 1}, {models.TeamA, 3}, {models.TeamB, 2}}
		for i, step := range steps {
			at := base.Add(time.Duration(i+1) * time.Second)
			_, written, err := s.UpdateMatch(ctx, "m1", func(m *models.Match) (bool, error) {
				return m.SetScore(step.team, step.target, at)
			})
			require.NoError(t, err)
			assert.True(t, written)
		}

		got, err := s.GetMatch(ctx, "m1")
		require.NoError(t, err)
		assert.Equal(t, 3, got.Scores.TeamA)
		assert.Equal(t, 2, got.Scores.TeamB)
		require.Len(t, got.Scores.History, 3)
		assert.Equal(t, models.ScoreEvent{Team: models.TeamB, Points: 2, Timestamp: base.Add(3 * time.Second)}, got.Scores.History[2])
		assert.Equal(t, base.Add(3*time.Second), got.UpdatedAt)
	})
}

func TestUpdateMatchSkipsUnchanged(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		seedCompetition(t, s, "c1", base)
		_, err := s.CreateMatch(ctx, models.NewMatch("m1", "c1", "Tigers", "Wolves", base))
		require.NoError(t, err)

		m, written, err := s.UpdateMatch(ctx, "m1", func(m *models.Match) (bool, error) {
			m.TeamAName = "ignored"
			return false, nil
		})
		require.NoError(t, err)
		assert.False(t, written)
		assert.Equal(t, "m1", m.ID)

		got, err := s.GetMatch(ctx, "m1")
		require.NoError(t, err)
		assert.Equal(t, "Tigers", got.TeamAName)
	})
}

func TestUpdateMatchFinish(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		seedCompetition(t, s, "c1", base)
		_, err := s.CreateMatch(ctx, models.NewMatch("m1", "c1", "Tigers", "Wolves", base))
		require.NoError(t, err)

		_, written, err := s.UpdateMatch(ctx, "m1", func(m *models.Match) (bool, error) {
			return m.Finish(base.Add(time.Hour)), nil
		})
		require.NoError(t, err)
		assert.True(t, written)

		got, err := s.GetMatch(ctx, "m1")
		require.NoError(t, err)
		assert.False(t, got.IsActive)

		_, _, err = s.UpdateMatch(ctx, "missing", func(m *models.Match) (bool, error) { return true, nil })
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGetMatchesSkipsMissing(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		seedCompetition(t, s, "c1", base)
		for _, id := range []string{"m1", "m2"} {
			_, err := s.CreateMatch(ctx, models.NewMatch(id, "c1", "Tigers", "Wolves", base))
			require.NoError(t, err)
		}

		got, err := s.GetMatches(ctx, []string{"m2", "gone", "m1"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "m2", got[0].ID)
		assert.Equal(t, "m1", got[1].ID)
	})
}

func TestCanceledContext(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s Store) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := s.GetCompetition(ctx, "c1")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestUpSection(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE t (id INT);\n-- +migrate Down\nDROP TABLE t;\n"
	assert.Equal(t, "\nCREATE TABLE t (id INT);\n", upSection(content))
	assert.Equal(t, "SELECT 1;", upSection("SELECT 1;"))
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoreboard.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	seedCompetition(t, s, "c1", base)
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	n, err := s.CountCompetitions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func competitionIDs(items []models.Competition) []string {
	ids := make([]string, 0, len(items))
	for _, c := range items {
		ids = append(ids, c.ID)
	}
	return ids
}
