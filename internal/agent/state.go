package agent

import "sync"

// Stage is where the control loop currently is within a step.
type Stage string

const (
	StagePlanning      Stage = "PLANNING"
	StageSelectGoal    Stage = "SELECT_GOAL"
	StageVerifyAbility Stage = "VERIFY_ABILITY"
	StageExecute       Stage = "EXECUTE"
	StageRecord        Stage = "RECORD"
)

// Status is the agent's coarse lifecycle state.
type Status string

const (
	StatusWaiting Status = "WAITING"
	StatusActive  Status = "ACTIVE"
	StatusDone    Status = "DONE"
)

// State holds the runtime stage and status. Each field has its own lock so a
// slow reader of one never blocks writers of the other.
type State struct {
	stageMu sync.RWMutex
	stage   Stage

	statusMu sync.RWMutex
	status   Status
}

// NewState starts in PLANNING / WAITING.
func NewState() *State {
	return &State{stage: StagePlanning, status: StatusWaiting}
}

// Stage returns the current stage.
func (s *State) Stage() Stage {
	s.stageMu.RLock()
	defer s.stageMu.RUnlock()
	return s.stage
}

// SetStage updates the current stage.
func (s *State) SetStage(stage Stage) {
	s.stageMu.Lock()
	defer s.stageMu.Unlock()
	s.stage = stage
}

// Status returns the current status.
func (s *State) Status() Status {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

// SetStatus updates the current status.
func (s *State) SetStatus(status Status) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status = status
}
