// Package store persists tasks and their steps in a local sqlite database.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// StepStatus tracks a step through its lifecycle.
type StepStatus string

const (
	StepCreated   StepStatus = "created"
	StepCompleted StepStatus = "completed"
)

// ErrNotFound is returned when a task or step does not exist.
var ErrNotFound = errors.New("not found")

// Task is one unit of work handed to the agent.
type Task struct {
	TaskID    string
	Input     string
	CreatedAt time.Time
}

// Step is one control-loop pass for a task.
type Step struct {
	StepID          string
	TaskID          string
	Input           string
	Status          StepStatus
	Output          string
	AdditionalInput map[string]string
	IsLast          bool
	CreatedAt       time.Time
}

// DB provides task/step persistence.
type DB struct {
	db *sql.DB
}

// NewDB opens (or creates) the database and initializes the schema.
func NewDB(ctx context.Context, dbPath string) (*DB, error) {
	// WAL mode allows readers alongside the single writer
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't support multiple writers well
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	d := &DB{db: db}
	if err := d.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		task_id    TEXT PRIMARY KEY,
		input      TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS steps (
		step_id          TEXT PRIMARY KEY,
		task_id          TEXT NOT NULL,
		input            TEXT NOT NULL,
		status           TEXT NOT NULL,
		output           TEXT NOT NULL DEFAULT '',
		additional_input TEXT NOT NULL DEFAULT '{}',
		is_last          INTEGER NOT NULL DEFAULT 0,
		created_at       INTEGER NOT NULL,
		FOREIGN KEY (task_id) REFERENCES tasks(task_id)
	);

	CREATE INDEX IF NOT EXISTS idx_steps_task ON steps(task_id, created_at);
	`
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return err
	}
	return nil
}

// CreateTask records a new task and returns it.
func (d *DB) CreateTask(ctx context.Context, input string) (Task, error) {
	task := Task{
		TaskID:    uuid.NewString(),
		Input:     input,
		CreatedAt: time.Now(),
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO tasks (task_id, input, created_at) VALUES (?, ?, ?)`,
		task.TaskID, task.Input, task.CreatedAt.Unix())
	if err != nil {
		return Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// GetTask loads a task by id.
func (d *DB) GetTask(ctx context.Context, taskID string) (Task, error) {
	var task Task
	var createdAt int64
	err := d.db.QueryRowContext(ctx,
		`SELECT task_id, input, created_at FROM tasks WHERE task_id = ?`, taskID).
		Scan(&task.TaskID, &task.Input, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	if err != nil {
		return Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	task.CreatedAt = time.Unix(createdAt, 0)
	return task, nil
}

// CreateStep records a new step for a task and returns it.
func (d *DB) CreateStep(ctx context.Context, taskID, input string) (Step, error) {
	step := Step{
		StepID:          uuid.NewString(),
		TaskID:          taskID,
		Input:           input,
		Status:          StepCreated,
		AdditionalInput: map[string]string{},
		CreatedAt:       time.Now(),
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO steps (step_id, task_id, input, status, additional_input, created_at)
		 VALUES (?, ?, ?, ?, '{}', ?)`,
		step.StepID, step.TaskID, step.Input, step.Status, step.CreatedAt.Unix())
	if err != nil {
		return Step{}, fmt.Errorf("failed to create step: %w", err)
	}
	return step, nil
}

// UpdateStep rewrites a step's mutable fields.
func (d *DB) UpdateStep(ctx context.Context, step Step) error {
	additional, err := json.Marshal(step.AdditionalInput)
	if err != nil {
		return fmt.Errorf("failed to marshal additional input: %w", err)
	}
	isLast := 0
	if step.IsLast {
		isLast = 1
	}
	result, err := d.db.ExecContext(ctx,
		`UPDATE steps SET status = ?, output = ?, additional_input = ?, is_last = ? WHERE step_id = ?`,
		step.Status, step.Output, string(additional), isLast, step.StepID)
	if err != nil {
		return fmt.Errorf("failed to update step: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check step update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("step %s: %w", step.StepID, ErrNotFound)
	}
	return nil
}

// ListSteps returns a task's steps in creation order.
func (d *DB) ListSteps(ctx context.Context, taskID string) ([]Step, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT step_id, task_id, input, status, output, additional_input, is_last, created_at
		 FROM steps WHERE task_id = ? ORDER BY created_at, step_id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list steps: %w", err)
	}
	defer rows.Close()

	var steps []Step
	for rows.Next() {
		var step Step
		var additional string
		var isLast int
		var createdAt int64
		if err := rows.Scan(&step.StepID, &step.TaskID, &step.Input, &step.Status,
			&step.Output, &additional, &isLast, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		if err := json.Unmarshal([]byte(additional), &step.AdditionalInput); err != nil {
			step.AdditionalInput = map[string]string{}
		}
		step.IsLast = isLast != 0
		step.CreatedAt = time.Unix(createdAt, 0)
		steps = append(steps, step)
	}
	return steps, rows.Err()
}
