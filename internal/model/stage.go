// Package model defines the core domain types for the reminder engine.
package model

import (
	"errors"
	"fmt"
)

// Stage is one escalation level in the reminder state machine.
// Stages are strictly ordered: FIRST < SECOND < THIRD < FINAL.
type Stage string

const (
	// StageFirst is the gentle pre-due nudge.
	StageFirst Stage = "first"
	// StageSecond is the friendly follow-up once the first reminder went out.
	StageSecond Stage = "second"
	// StageThird is the formal warning.
	StageThird Stage = "third"
	// StageFinal is the terminal notice requiring landlord intervention.
	StageFinal Stage = "final"
)

// ErrUnknownStage indicates a stage string that is not part of the closed set.
var ErrUnknownStage = errors.New("unknown reminder stage")

var stageRank = map[Stage]int{
	StageFirst:  1,
	StageSecond: 2,
	StageThird:  3,
	StageFinal:  4,
}

// ParseStage maps a persisted stage string back to the closed enum.
// Unrecognized values are an error, never passed through.
func ParseStage(s string) (Stage, error) {
	stage := Stage(s)
	if _, ok := stageRank[stage]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStage, s)
	}
	return stage, nil
}

// Valid reports whether the stage is a member of the closed set.
func (s Stage) Valid() bool {
	_, ok := stageRank[s]
	return ok
}

func (s Stage) String() string {
	return string(s)
}
