// Package services: services/seed.go
package services

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"kabaddi-scoreboard/logger"
	"kabaddi-scoreboard/models"
)

// SeedFile is the YAML fixture format loaded at startup.
//
//	competitions:
//	  - name: Spring Cup
//	    place: Court 1
//	    date: "2024-03-01"
//	    matches:
//	      - teamA: Tigers
//	        teamB: Wolves
//	        scoreA: 3
//	        scoreB: 2
//	        finished: true
type SeedFile struct {
	Competitions []SeedCompetition `yaml:"competitions"`
}

type SeedCompetition struct {
	CompetitionInput `yaml:",inline"`
	Matches          []SeedMatch `yaml:"matches"`
}

type SeedMatch struct {
	TeamA    string `yaml:"teamA"`
	TeamB    string `yaml:"teamB"`
	ScoreA   int    `yaml:"scoreA"`
	ScoreB   int    `yaml:"scoreB"`
	Finished bool   `yaml:"finished"`
}

// LoadSeedFile reads and decodes a fixture file.
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return &seed, nil
}

// Seed creates the fixture's competitions and matches through the normal
// operations, but only when the store holds no competitions yet.
// It returns the number of competitions created.
func (s *ScoreboardService) Seed(ctx context.Context, seed *SeedFile) (int, error) {
	if seed == nil || len(seed.Competitions) == 0 {
		return 0, nil
	}
	n, err := s.store.CountCompetitions(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if n > 0 {
		logger.Info.Printf("Seed: store already has %d competitions, skipping", n)
		return 0, nil
	}

	created := 0
	for _, sc := range seed.Competitions {
		c, err := s.CreateCompetition(ctx, sc.CompetitionInput)
		if err != nil {
			return created, fmt.Errorf("seed competition %q: %w", sc.Name, err)
		}
		created++

		for _, sm := range sc.Matches {
			m, err := s.CreateMatch(ctx, c.ID, MatchInput{TeamAName: sm.TeamA, TeamBName: sm.TeamB})
			if err != nil {
				return created, fmt.Errorf("seed match %s vs %s: %w", sm.TeamA, sm.TeamB, err)
			}
			if _, err := s.UpdateScore(ctx, m.ID, models.TeamA, sm.ScoreA); err != nil {
				return created, err
			}
			if _, err := s.UpdateScore(ctx, m.ID, models.TeamB, sm.ScoreB); err != nil {
				return created, err
			}
			if sm.Finished {
				if _, err := s.FinishMatch(ctx, m.ID); err != nil {
					return created, err
				}
			}
		}
	}

	logger.Info.Printf("Seed: created %d competitions", created)
	return created, nil
}
