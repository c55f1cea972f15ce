// File: models/competition.go
package models

import "time"

// DateLayout is the calendar date format competitions are stored with.
const DateLayout = "2006-01-02"

// ------------------------ competition model -----------------------

// Competition is a named event grouping matches.
// Matches holds match ids in creation order; each belongs to this competition.
type Competition struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Place     string    `json:"place"`
	Date      string    `json:"date"`
	Matches   []string  `json:"matches"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewCompetition returns a competition with an empty match list.
func NewCompetition(id, name, place, date string, now time.Time) *Competition {
	return &Competition{
		ID:        id,
		Name:      name,
		Place:     place,
		Date:      date,
		Matches:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasMatch reports whether matchID is attached.
func (c *Competition) HasMatch(matchID string) bool {
	for _, id := range c.Matches {
		if id == matchID {
			return true
		}
	}
	return false
}

// AttachMatch appends matchID unless it is already attached.
func (c *Competition) AttachMatch(matchID string, now time.Time) bool {
	if c.HasMatch(matchID) {
		return false
	}
	c.Matches = append(c.Matches, matchID)
	c.UpdatedAt = now
	return true
}

// DisplayDate renders Date as "Mar 1, 2024", falling back to the raw value.
func (c *Competition) DisplayDate() string {
	return displayDate(c.Date)
}

func displayDate(raw string) string {
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return raw
	}
	return d.Format("Jan 2, 2006")
}
