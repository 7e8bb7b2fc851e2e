package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/ChamsBouzaiene/aware/internal/workspace"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx := context.Background()

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("aware", flag.ExitOnError)
	taskFlag := fs.String("task", "", "The task to execute")
	workdirFlag := fs.String("workdir", "", "Working directory (default: current directory)")
	maxIterFlag := fs.Int("max-iterations", 0, "Iteration ceiling per task (default: 20)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *taskFlag == "" {
		return fmt.Errorf("no task given, use -task")
	}

	env, err := prepareRuntimeEnv(ctx, *workdirFlag, *maxIterFlag)
	if err != nil {
		return err
	}
	defer env.Close()

	task, err := env.Agent.StartTask(ctx, *taskFlag)
	if err != nil {
		return err
	}

	// Record artifacts the abilities create under this task.
	var watcher *workspace.Watcher
	if taskDir, err := env.Workspace.TaskDir(task.TaskID); err == nil {
		if w, err := workspace.NewWatcher(taskDir); err == nil {
			watcher = w
			defer watcher.Close()
		} else {
			log.Printf("artifact watcher disabled: %v", err)
		}
	}

	for {
		result, err := env.Agent.ExecuteStep(ctx, task.TaskID, task.Input)
		if err != nil {
			return err
		}
		if result.IsLast {
			fmt.Println(result.Output)
			break
		}
	}

	if watcher != nil {
		if artifacts := watcher.Artifacts(); len(artifacts) > 0 {
			fmt.Println("\nArtifacts:")
			for _, artifact := range artifacts {
				fmt.Printf("  %s\n", artifact)
			}
		}
	}

	return nil
}
