// File: store/bolt.go
package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	bolt "github.com/boltdb/bolt"

	"kabaddi-scoreboard/models"
)

var (
	competitionsBucket = []byte("competitions")
	matchesBucket      = []byte("matches")
	// keys: 8-byte big-endian created-at nanos + 8-byte sequence, value: competition id
	createdIndexBucket = []byte("competitionsByCreated")
)

// BoltStore keeps records as JSON values in a single BoltDB file.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the database file and its buckets.
func OpenBolt(path string) (*BoltStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{competitionsBucket, matchesBucket, createdIndexBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close releases the database file lock.
func (s *BoltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ---------------------- competitions ----------------------

func (s *BoltStore) CreateCompetition(ctx context.Context, c *models.Competition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(competitionsBucket)
		if b.Get([]byte(c.ID)) != nil {
			return ErrAlreadyExists
		}
		if err := putJSON(b, c.ID, c); err != nil {
			return err
		}

		idx := tx.Bucket(createdIndexBucket)
		seq, err := idx.NextSequence()
		if err != nil {
			return err
		}
		return idx.Put(createdKey(c.CreatedAt, seq), []byte(c.ID))
	})
}

func (s *BoltStore) GetCompetition(ctx context.Context, id string) (*models.Competition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var c models.Competition
	err := s.db.View(func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket(competitionsBucket), id, &c)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *BoltStore) ListCompetitions(ctx context.Context, limit int) ([]models.Competition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items := []models.Competition{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(competitionsBucket)
		cur := tx.Bucket(createdIndexBucket).Cursor()
		for k, v := cur.Last(); k != nil; k, v = cur.Prev() {
			if limit > 0 && len(items) >= limit {
				break
			}
			var c models.Competition
			if err := getJSON(b, string(v), &c); err != nil {
				return err
			}
			items = append(items, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *BoltStore) CountCompetitions(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(competitionsBucket).Stats().KeyN
		return nil
	})
	return n, err
}

// ---------------------- matches ----------------------

func (s *BoltStore) CreateMatch(ctx context.Context, m *models.Match) (*models.Competition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var c models.Competition
	err := s.db.Update(func(tx *bolt.Tx) error {
		cb := tx.Bucket(competitionsBucket)
		if err := getJSON(cb, m.CompetitionID, &c); err != nil {
			return err
		}

		mb := tx.Bucket(matchesBucket)
		if mb.Get([]byte(m.ID)) != nil {
			return ErrAlreadyExists
		}
		if err := putJSON(mb, m.ID, m); err != nil {
			return err
		}

		c.AttachMatch(m.ID, m.CreatedAt)
		return putJSON(cb, c.ID, &c)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *BoltStore) GetMatch(ctx context.Context, id string) (*models.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var m models.Match
	err := s.db.View(func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket(matchesBucket), id, &m)
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *BoltStore) GetMatches(ctx context.Context, ids []string) ([]models.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items := make([]models.Match, 0, len(ids))
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(matchesBucket)
		for _, id := range ids {
			var m models.Match
			err := getJSON(b, id, &m)
			if err == ErrNotFound {
				continue
			}
			if err != nil {
				return err
			}
			items = append(items, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *BoltStore) UpdateMatch(ctx context.Context, id string, fn MatchMutator) (*models.Match, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var m models.Match
	written := false

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(matchesBucket)
		if err := getJSON(b, id, &m); err != nil {
			return err
		}
		changed, err := fn(&m)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		written = true
		return putJSON(b, id, &m)
	})
	if err != nil {
		return nil, false, err
	}
	return &m, written, nil
}

// ---------------------- helpers ----------------------

func createdKey(at time.Time, seq uint64) []byte {
	key := make([]byte, 16)
	binary.BigEndian.PutUint64(key[:8], uint64(at.UnixNano()))
	binary.BigEndian.PutUint64(key[8:], seq)
	return key
}

func getJSON(b *bolt.Bucket, id string, v any) error {
	data := b.Get([]byte(id))
	if data == nil {
		return ErrNotFound
	}
	return json.Unmarshal(data, v)
}

func putJSON(b *bolt.Bucket, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put([]byte(id), data)
}

var _ Store = (*BoltStore)(nil)
