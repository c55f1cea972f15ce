// File: models/views.go
package models

import "time"

// ---------------------- read projections ----------------------

// CompetitionSummary is one row of the competition listings.
type CompetitionSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Place      string    `json:"place"`
	Date       string    `json:"date"`
	MatchCount int       `json:"matchCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewCompetitionSummary projects c for a listing.
func NewCompetitionSummary(c *Competition) CompetitionSummary {
	return CompetitionSummary{
		ID:         c.ID,
		Name:       c.Name,
		Place:      c.Place,
		Date:       c.Date,
		MatchCount: len(c.Matches),
		CreatedAt:  c.CreatedAt,
	}
}

// DisplayDate renders Date for pages.
func (s CompetitionSummary) DisplayDate() string {
	return displayDate(s.Date)
}

// CompetitionDetail is a competition with its matches resolved in list order.
type CompetitionDetail struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Place     string    `json:"place"`
	Date      string    `json:"date"`
	Matches   []Match   `json:"matches"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewCompetitionDetail orders matches by c.Matches and drops any that are not attached to c.
func NewCompetitionDetail(c *Competition, matches []Match) *CompetitionDetail {
	byID := make(map[string]Match, len(matches))
	for _, m := range matches {
		if m.CompetitionID == c.ID {
			byID[m.ID] = m
		}
	}

	ordered := make([]Match, 0, len(c.Matches))
	for _, id := range c.Matches {
		if m, ok := byID[id]; ok {
			ordered = append(ordered, m)
		}
	}

	return &CompetitionDetail{
		ID:        c.ID,
		Name:      c.Name,
		Place:     c.Place,
		Date:      c.Date,
		Matches:   ordered,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// DisplayDate renders Date for pages.
func (d *CompetitionDetail) DisplayDate() string {
	return displayDate(d.Date)
}

// MatchDetail is a match with its owning competition resolved.
// Competition is nil when the parent record cannot be found.
type MatchDetail struct {
	Match
	Competition *CompetitionSummary `json:"competition"`
}

// NewMatchDetail pairs m with its competition, which may be nil.
func NewMatchDetail(m *Match, c *Competition) *MatchDetail {
	detail := &MatchDetail{Match: *m}
	if c != nil {
		summary := NewCompetitionSummary(c)
		detail.Competition = &summary
	}
	return detail
}
