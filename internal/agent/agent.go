// Package agent runs the control loop: plan, select a goal, verify its
// ability, execute, record. One ExecuteStep call produces exactly one step;
// termination is discovered, never looped over internally.

package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ChamsBouzaiene/aware/internal/ability"
	"github.com/ChamsBouzaiene/aware/internal/behavior"
	"github.com/ChamsBouzaiene/aware/internal/memory"
	"github.com/ChamsBouzaiene/aware/internal/store"
	"github.com/ChamsBouzaiene/aware/internal/workspace"
)

// StepStore is the slice of task/step persistence the loop needs.
type StepStore interface {
	CreateTask(ctx context.Context, input string) (store.Task, error)
	GetTask(ctx context.Context, taskID string) (store.Task, error)
	CreateStep(ctx context.Context, taskID, input string) (store.Step, error)
	UpdateStep(ctx context.Context, step store.Step) error
}

// Config carries the oracle knobs the agent passes down.
type Config struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int
}

// StepResult is what one control-loop pass produced.
type StepResult struct {
	StepID string
	Output string
	IsLast bool
}

// Agent drives a single task session. Concurrent steps against the same
// task are not supported; the episodic memory is single-writer.
type Agent struct {
	cfg       Config
	parser    *behavior.Parser
	memory    *memory.EpisodicMemory
	abilities ability.Registry
	steps     StepStore
	ws        *workspace.Workspace
	state     *State
	hooks     Hooks

	taskStart time.Time
}

// New wires an agent together.
func New(cfg Config, parser *behavior.Parser, mem *memory.EpisodicMemory, abilities ability.Registry, steps StepStore, ws *workspace.Workspace, hooks ...Hook) *Agent {
	return &Agent{
		cfg:       cfg,
		parser:    parser,
		memory:    mem,
		abilities: abilities,
		steps:     steps,
		ws:        ws,
		state:     NewState(),
		hooks:     Hooks(hooks),
		taskStart: time.Now(),
	}
}

// State exposes the runtime stage/status.
func (a *Agent) State() *State {
	return a.state
}

// StartTask records a new task, attaches it to memory and resets the session.
func (a *Agent) StartTask(ctx context.Context, input string) (store.Task, error) {
	task, err := a.steps.CreateTask(ctx, input)
	if err != nil {
		return store.Task{}, err
	}
	if err := a.memory.Reset(ctx); err != nil {
		return store.Task{}, err
	}
	if err := a.memory.SetTask(memory.TaskState{TaskID: task.TaskID, Input: task.Input}); err != nil {
		return store.Task{}, err
	}
	a.state.SetStatus(StatusActive)
	a.taskStart = time.Now()
	preview := task.Input
	if len(preview) > 40 {
		preview = preview[:40] + "..."
	}
	log.Printf("task created: %s input: %s", task.TaskID, preview)
	return task, nil
}

// ExecuteStep runs one control-loop pass for the task. Ability failures and
// unparseable oracle decisions become observations on a completed step, not
// errors; only infrastructure failures (store, transport) return an error.
func (a *Agent) ExecuteStep(ctx context.Context, taskID, input string) (StepResult, error) {
	a.state.SetStage(StagePlanning)

	task, err := a.steps.GetTask(ctx, taskID)
	if err != nil {
		return StepResult{}, err
	}
	step, err := a.steps.CreateStep(ctx, taskID, input)
	if err != nil {
		return StepResult{}, err
	}
	a.hooks.OnStepStart(taskID, step.StepID)

	summary := a.memory.MemoryText()
	directories := a.directories(taskID)
	previousThought := ""
	if t := a.memory.Thought(); t != nil {
		previousThought = t.Render()
	}

	thought, plan, err := a.parser.GetPlan(ctx, behavior.PlanInput{
		Task:            task.Input,
		PreviousThought: previousThought,
		Summary:         summary,
		Abilities:       a.abilities.Catalog(),
		Directories:     directories,
	})
	if thought != nil {
		if err := a.memory.UpdateThought(*thought); err != nil {
			return StepResult{}, err
		}
		a.hooks.OnThought(taskID, thought.Reasoning)
	}
	if err != nil {
		if behavior.IsParseExhausted(err) {
			// The failure still consumes an iteration, so a persistently
			// malformed oracle cannot outlive the ceiling.
			observation := fmt.Sprintf("The planning decision could not be parsed: %v. The next step plans again from memory.", err)
			limit, lerr := a.memory.MaxIterationsReached()
			if lerr != nil {
				return StepResult{}, lerr
			}
			if limit {
				if err := a.memory.AddEpisode(ctx, "", "plan", "", observation); err != nil {
					return StepResult{}, err
				}
				a.hooks.OnObservation(taskID, "plan", observation)
				log.Print("Exiting due to too many iterations.")
				return a.finishStep(ctx, step, "Exiting due to too many iterations.")
			}
			return a.recordFailure(ctx, step, "", "plan", observation)
		}
		return StepResult{}, err
	}
	if err := a.memory.SetGoals(plan.Goals); err != nil {
		return StepResult{}, err
	}

	// Both terminal causes are evaluated every pass; the iteration counter
	// advances exactly once regardless of which one fires.
	goals := a.memory.Goals()
	done := memory.AllFinished(goals)
	limit, err := a.memory.MaxIterationsReached()
	if err != nil {
		return StepResult{}, err
	}
	if done || limit {
		output := "All goals are finished."
		if !done {
			output = "Exiting due to too many iterations."
		}
		log.Print(output)
		return a.finishStep(ctx, step, output)
	}

	a.state.SetStage(StageSelectGoal)
	goal := memory.FirstUnfinished(goals)

	a.state.SetStage(StageVerifyAbility)
	if _, ok := a.abilities.Lookup(goal.Ability); !ok {
		return a.recordFailure(ctx, step, goal.Description, goal.Ability, notFoundObservation(goal.Ability))
	}
	if goal.Status == memory.GoalNotStarted {
		goal.UpdateStatus(memory.GoalInProgress)
		if err := a.memory.SetGoals(goals); err != nil {
			return StepResult{}, err
		}
	}

	a.state.SetStage(StageExecute)
	execThought, execution, err := a.parser.GetExecution(ctx, behavior.ExecutionInput{
		Task:            task.Input,
		Goal:            goal.Render(),
		PreviousThought: previousThought,
		Ability:         a.abilitySignature(goal.Ability),
		Summary:         summary,
		Directories:     directories,
	})
	if execThought != nil {
		if err := a.memory.UpdateThought(*execThought); err != nil {
			return StepResult{}, err
		}
		a.hooks.OnThought(taskID, execThought.Reasoning)
	}
	if err != nil {
		if behavior.IsParseExhausted(err) {
			observation := fmt.Sprintf("The execution decision could not be parsed: %v. The next step plans again from memory.", err)
			return a.recordFailure(ctx, step, goal.Description, goal.Ability, observation)
		}
		return StepResult{}, err
	}

	// The oracle may override the goal's declared ability.
	if _, ok := a.abilities.Lookup(execution.Ability); !ok {
		return a.recordFailure(ctx, step, goal.Description, execution.Ability, notFoundObservation(execution.Ability))
	}

	observation, runErr := a.abilities.Run(ctx, taskID, execution.Ability, execution.Arguments)
	if runErr != nil {
		observation = fmt.Sprintf("Error executing ability %s due to: %v", execution.Ability, runErr)
	}

	a.state.SetStage(StageRecord)
	arguments := fmt.Sprintf("%v", execution.Arguments)
	if err := a.memory.AddEpisode(ctx, goal.Description, execution.Ability, arguments, observation); err != nil {
		return StepResult{}, err
	}
	a.hooks.OnObservation(taskID, execution.Ability, observation)

	step.Status = store.StepCompleted
	step.Output = observation
	step.AdditionalInput = map[string]string{
		"goal":      goal.Description,
		"ability":   execution.Ability,
		"arguments": arguments,
	}
	step.IsLast = execution.Ability == ability.FinishName || execution.IsLast
	if err := a.steps.UpdateStep(ctx, step); err != nil {
		return StepResult{}, err
	}

	if step.IsLast {
		if err := a.memory.SetTaskFinished(); err != nil {
			return StepResult{}, err
		}
		a.state.SetStatus(StatusDone)
		log.Printf("task took %.1f seconds to complete", time.Since(a.taskStart).Seconds())
	}

	a.hooks.OnStepEnd(taskID, step.StepID, step.IsLast)
	return StepResult{StepID: step.StepID, Output: step.Output, IsLast: step.IsLast}, nil
}

// recordFailure stores a failure observation as a completed, non-terminal
// step. Failures become learnable context for the next planning round.
func (a *Agent) recordFailure(ctx context.Context, step store.Step, goal, abilityName, observation string) (StepResult, error) {
	if err := a.memory.AddEpisode(ctx, goal, abilityName, "", observation); err != nil {
		return StepResult{}, err
	}
	a.hooks.OnObservation(step.TaskID, abilityName, observation)

	step.Status = store.StepCompleted
	step.Output = observation
	if err := a.steps.UpdateStep(ctx, step); err != nil {
		return StepResult{}, err
	}
	a.hooks.OnStepEnd(step.TaskID, step.StepID, false)
	return StepResult{StepID: step.StepID, Output: step.Output, IsLast: false}, nil
}

// finishStep completes a terminal step with no ability execution.
func (a *Agent) finishStep(ctx context.Context, step store.Step, output string) (StepResult, error) {
	step.Status = store.StepCompleted
	step.Output = output
	step.IsLast = true
	if err := a.steps.UpdateStep(ctx, step); err != nil {
		return StepResult{}, err
	}
	if err := a.memory.SetTaskFinished(); err != nil {
		return StepResult{}, err
	}
	a.state.SetStatus(StatusDone)
	log.Printf("task took %.1f seconds to complete", time.Since(a.taskStart).Seconds())
	a.hooks.OnStepEnd(step.TaskID, step.StepID, true)
	return StepResult{StepID: step.StepID, Output: output, IsLast: true}, nil
}

func (a *Agent) directories(taskID string) string {
	dirs, err := a.ws.Directories(taskID)
	if err != nil {
		log.Printf("failed to list task workspace: %v", err)
		return ""
	}
	return dirs
}

func (a *Agent) abilitySignature(name string) string {
	if ab, ok := a.abilities.Lookup(name); ok {
		return ab.Signature()
	}
	return name
}

func notFoundObservation(name string) string {
	return fmt.Sprintf("Ability %s not found, verify that it contains only the name of the ability. In case you want to finish the task just set all goal statuses as SUCCEEDED.", name)
}
