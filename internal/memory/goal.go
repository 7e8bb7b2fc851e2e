// Package memory implements the agent's episodic memory: goals, the
// iteration-bounded goal memory, the token-budgeted episode window and
// the per-task persistent aggregate.

package memory

import (
	"encoding/json"
	"fmt"
)

// GoalStatus is the lifecycle state of a goal.
type GoalStatus string

const (
	GoalNotStarted GoalStatus = "NOT_STARTED"
	GoalInProgress GoalStatus = "IN_PROGRESS"
	GoalSucceeded  GoalStatus = "SUCCEEDED"
	GoalFailed     GoalStatus = "FAILED"
)

// Finished reports whether the status is terminal.
func (s GoalStatus) Finished() bool {
	return s == GoalSucceeded || s == GoalFailed
}

// MalformedGoalError indicates a goal carried an unknown status string.
type MalformedGoalError struct {
	Status string
}

func (e *MalformedGoalError) Error() string {
	return fmt.Sprintf("malformed goal: unknown status %q", e.Status)
}

// ParseGoalStatus validates a raw status string.
func ParseGoalStatus(raw string) (GoalStatus, error) {
	switch GoalStatus(raw) {
	case GoalNotStarted, GoalInProgress, GoalSucceeded, GoalFailed:
		return GoalStatus(raw), nil
	default:
		return "", &MalformedGoalError{Status: raw}
	}
}

// Goal is one unit of planned work: a description, the single ability that
// achieves it, an explicit completion criterion and a status.
type Goal struct {
	Description         string     `json:"description"`
	Ability             string     `json:"ability"`
	ValidationCondition string     `json:"validation_condition"`
	Status              GoalStatus `json:"status"`
}

// UnmarshalJSON rejects unknown status strings at deserialization time so a
// malformed goal never enters the goal memory.
func (g *Goal) UnmarshalJSON(data []byte) error {
	type alias Goal
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if _, err := ParseGoalStatus(string(raw.Status)); err != nil {
		return err
	}
	*g = Goal(raw)
	return nil
}

// Finished reports whether the goal reached a terminal status.
func (g Goal) Finished() bool {
	return g.Status.Finished()
}

// UpdateStatus overwrites the status unconditionally.
func (g *Goal) UpdateStatus(s GoalStatus) {
	g.Status = s
}

// Render returns the human-readable form used in prompts.
func (g Goal) Render() string {
	return fmt.Sprintf("Description: %s\nAbility: %s\nValidation condition: %s\nStatus: %s",
		g.Description, g.Ability, g.ValidationCondition, g.Status)
}

// AllFinished reports whether every goal reached a terminal status.
// An empty list is vacuously finished.
func AllFinished(goals []Goal) bool {
	for _, g := range goals {
		if !g.Finished() {
			return false
		}
	}
	return true
}

// FirstUnfinished returns the first goal in insertion order that has not
// reached a terminal status, or nil.
func FirstUnfinished(goals []Goal) *Goal {
	for i := range goals {
		if !goals[i].Finished() {
			return &goals[i]
		}
	}
	return nil
}
