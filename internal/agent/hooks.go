package agent

import "log"

// Hook observes control-loop progress. Implementations must be cheap; they
// run inline on the step path.
type Hook interface {
	OnStepStart(taskID, stepID string)
	OnThought(taskID, reasoning string)
	OnObservation(taskID, ability, observation string)
	OnStepEnd(taskID, stepID string, isLast bool)
}

// NopHook ignores everything.
type NopHook struct{}

func (NopHook) OnStepStart(taskID, stepID string)                 {}
func (NopHook) OnThought(taskID, reasoning string)                {}
func (NopHook) OnObservation(taskID, ability, observation string) {}
func (NopHook) OnStepEnd(taskID, stepID string, isLast bool)      {}

// LogHook writes progress to the standard logger.
type LogHook struct{}

func (LogHook) OnStepStart(taskID, stepID string) {
	log.Printf("step %s started for task %s", stepID, taskID)
}

func (LogHook) OnThought(taskID, reasoning string) {
	log.Printf("thought for task %s: %s", taskID, reasoning)
}

func (LogHook) OnObservation(taskID, ability, observation string) {
	log.Printf("observation for task %s from %s: %s", taskID, ability, observation)
}

func (LogHook) OnStepEnd(taskID, stepID string, isLast bool) {
	log.Printf("step %s ended for task %s (last: %v)", stepID, taskID, isLast)
}

// Hooks fans out to several hooks in order.
type Hooks []Hook

func (h Hooks) OnStepStart(taskID, stepID string) {
	for _, hook := range h {
		hook.OnStepStart(taskID, stepID)
	}
}

func (h Hooks) OnThought(taskID, reasoning string) {
	for _, hook := range h {
		hook.OnThought(taskID, reasoning)
	}
}

func (h Hooks) OnObservation(taskID, ability, observation string) {
	for _, hook := range h {
		hook.OnObservation(taskID, ability, observation)
	}
}

func (h Hooks) OnStepEnd(taskID, stepID string, isLast bool) {
	for _, hook := range h {
		hook.OnStepEnd(taskID, stepID, isLast)
	}
}
