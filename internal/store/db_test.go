package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTaskRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)

	created, err := db.CreateTask(ctx, "write a poem")
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if created.TaskID == "" {
		t.Fatal("CreateTask() returned an empty id")
	}

	got, err := db.GetTask(ctx, created.TaskID)
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if got.Input != "write a poem" {
		t.Errorf("Got input %q", got.Input)
	}

	_, err = db.GetTask(ctx, "does-not-exist")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetTask() for a missing task error = %v, want ErrNotFound", err)
	}
}

func TestStepLifecycle(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)

	task, err := db.CreateTask(ctx, "do the thing")
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	step, err := db.CreateStep(ctx, task.TaskID, "do the thing")
	if err != nil {
		t.Fatalf("CreateStep() error = %v", err)
	}
	if step.Status != StepCreated {
		t.Errorf("Got status %s, want created", step.Status)
	}

	step.Status = StepCompleted
	step.Output = "observation text"
	step.AdditionalInput = map[string]string{"ability": "read_file"}
	step.IsLast = true
	if err := db.UpdateStep(ctx, step); err != nil {
		t.Fatalf("UpdateStep() error = %v", err)
	}

	steps, err := db.ListSteps(ctx, task.TaskID)
	if err != nil {
		t.Fatalf("ListSteps() error = %v", err)
	}
	if len(steps) != 1 {
		t.Fatalf("Got %d steps, want 1", len(steps))
	}
	got := steps[0]
	if got.Status != StepCompleted || got.Output != "observation text" || !got.IsLast {
		t.Errorf("Got step %+v after update", got)
	}
	if got.AdditionalInput["ability"] != "read_file" {
		t.Errorf("Got additional input %+v", got.AdditionalInput)
	}
}

func TestUpdateMissingStep(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)

	err := db.UpdateStep(ctx, Step{StepID: "missing", Status: StepCompleted})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateStep() for a missing step error = %v, want ErrNotFound", err)
	}
}

func TestListStepsOrder(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)

	task, err := db.CreateTask(ctx, "multi step")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := db.CreateStep(ctx, task.TaskID, "multi step"); err != nil {
			t.Fatal(err)
		}
	}

	steps, err := db.ListSteps(ctx, task.TaskID)
	if err != nil {
		t.Fatalf("ListSteps() error = %v", err)
	}
	if len(steps) != 3 {
		t.Fatalf("Got %d steps, want 3", len(steps))
	}
}
