// File: models/errors.go
package models

import "errors"

var (
	// ErrInvalidTeam is returned for a team selector other than A or B.
	ErrInvalidTeam = errors.New("invalid team")
	// ErrInvalidAdjustment is returned for an unknown score adjustment.
	ErrInvalidAdjustment = errors.New("invalid score adjustment")
	// ErrMatchFinished is returned when the score of a finished match is changed.
	ErrMatchFinished = errors.New("match finished")
)
