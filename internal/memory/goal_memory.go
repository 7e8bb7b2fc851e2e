package memory

// GoalMemory holds the current goal list and the iteration counter that
// bounds how many steps a task may take.
type GoalMemory struct {
	goals         []Goal
	maxIterations int
	iterations    int
}

// NewGoalMemory creates a goal memory with the given iteration ceiling.
func NewGoalMemory(maxIterations int) *GoalMemory {
	return &GoalMemory{maxIterations: maxIterations}
}

// Goals returns the current goal list.
func (m *GoalMemory) Goals() []Goal {
	return m.goals
}

// SetGoals replaces the goal list. Empty slices are ignored so a failed
// planning round never wipes existing goals.
func (m *GoalMemory) SetGoals(goals []Goal) {
	if len(goals) == 0 {
		return
	}
	m.goals = goals
}

// MaxIterationsReached increments the iteration counter, then reports whether
// it exceeded the ceiling. Every call consumes one iteration.
func (m *GoalMemory) MaxIterationsReached() bool {
	m.iterations++
	return m.iterations > m.maxIterations
}

// Iterations returns the number of iterations consumed so far.
func (m *GoalMemory) Iterations() int {
	return m.iterations
}

type goalMemoryState struct {
	Goals         []Goal `json:"goals"`
	MaxIterations int    `json:"max_iterations"`
	Iterations    int    `json:"iterations"`
}

func (m *GoalMemory) state() goalMemoryState {
	return goalMemoryState{
		Goals:         m.goals,
		MaxIterations: m.maxIterations,
		Iterations:    m.iterations,
	}
}

func goalMemoryFromState(s goalMemoryState) *GoalMemory {
	return &GoalMemory{
		goals:         s.Goals,
		maxIterations: s.MaxIterations,
		iterations:    s.Iterations,
	}
}
