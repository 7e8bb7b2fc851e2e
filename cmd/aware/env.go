package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ChamsBouzaiene/aware/internal/ability"
	"github.com/ChamsBouzaiene/aware/internal/agent"
	"github.com/ChamsBouzaiene/aware/internal/behavior"
	"github.com/ChamsBouzaiene/aware/internal/config"
	"github.com/ChamsBouzaiene/aware/internal/engine"
	"github.com/ChamsBouzaiene/aware/internal/longterm"
	"github.com/ChamsBouzaiene/aware/internal/memory"
	"github.com/ChamsBouzaiene/aware/internal/providers"
	"github.com/ChamsBouzaiene/aware/internal/store"
	"github.com/ChamsBouzaiene/aware/internal/workspace"
)

type runtimeEnv struct {
	Agent     *agent.Agent
	Workspace *workspace.Workspace

	db       *store.DB
	longterm longterm.Store
}

func (r *runtimeEnv) Close() {
	if r.db != nil {
		r.db.Close()
	}
	if r.longterm != nil {
		r.longterm.Close()
	}
}

func prepareRuntimeEnv(ctx context.Context, workdirFlag string, maxIterations int) (*runtimeEnv, error) {
	workdir := workdirFlag
	if workdir == "" {
		var err error
		workdir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
	}
	absWorkdir, err := filepath.Abs(workdir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	userConfig := loadUserConfig()
	applyConfigToEnv(userConfig)

	dataDir := userConfig.DataDir
	if dataDir == "" {
		dataDir = filepath.Join(absWorkdir, ".aware")
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	llm, model, err := providers.NewLLMClientFromEnv(ctx)
	if err != nil {
		return nil, err
	}
	log.Printf("using model: %s", model)

	db, err := store.NewDB(ctx, filepath.Join(dataDir, "tasks.db"))
	if err != nil {
		return nil, err
	}

	var lt longterm.Store
	bleveStore, err := longterm.NewBleveStore(filepath.Join(dataDir, "longterm.bleve"))
	if err != nil {
		log.Printf("long-term memory disabled: %v", err)
		lt = longterm.Noop{}
	} else {
		lt = bleveStore
	}

	wsDir := userConfig.WorkspaceDir
	if wsDir == "" {
		wsDir = filepath.Join(absWorkdir, "workspace")
	}
	ws, err := workspace.NewWorkspace(wsDir)
	if err != nil {
		db.Close()
		lt.Close()
		return nil, err
	}

	if maxIterations <= 0 {
		maxIterations = userConfig.MaxIterations
	}
	mem, err := memory.Open(filepath.Join(dataDir, "memory"), memory.Options{
		Model:         model,
		MaxIterations: maxIterations,
		LongTerm:      lt,
	})
	if err != nil {
		db.Close()
		lt.Close()
		return nil, err
	}

	cfg := agent.Config{Model: model, Temperature: 0.1, MaxOutputTokens: 4096}
	parser := behavior.NewParser(llm, model, engine.ChatOptions{
		Temperature:     cfg.Temperature,
		MaxOutputTokens: cfg.MaxOutputTokens,
	})
	registry := ability.DefaultRegistry(ws)

	ag := agent.New(cfg, parser, mem, registry, db, ws, agent.LogHook{})

	return &runtimeEnv{
		Agent:     ag,
		Workspace: ws,
		db:        db,
		longterm:  lt,
	}, nil
}

func loadUserConfig() *config.Config {
	manager, err := config.NewManager()
	if err != nil {
		log.Printf("failed to initialize config manager: %v", err)
		return &config.Config{}
	}
	userConfig, err := manager.Load()
	if err != nil {
		log.Printf("failed to load user config: %v", err)
		return &config.Config{}
	}
	if manager.Exists() {
		log.Printf("user config loaded from: %s", manager.GetConfigPath())
	}
	return userConfig
}

// applyConfigToEnv lets the saved config override stale environment values,
// so the provider factory sees the user's actual choices.
func applyConfigToEnv(userConfig *config.Config) {
	if userConfig.LLMProvider != "" {
		os.Setenv("LLM_PROVIDER", userConfig.LLMProvider)
	}
	if userConfig.APIKey == "" {
		return
	}
	switch userConfig.LLMProvider {
	case "openai":
		os.Setenv("OPENAI_API_KEY", userConfig.APIKey)
		if userConfig.Model != "" {
			os.Setenv("OPENAI_MODEL", userConfig.Model)
		}
		if userConfig.BaseURL != "" {
			os.Setenv("OPENAI_BASE_URL", userConfig.BaseURL)
		}
	case "anthropic":
		os.Setenv("ANTHROPIC_API_KEY", userConfig.APIKey)
		if userConfig.Model != "" {
			os.Setenv("ANTHROPIC_MODEL", userConfig.Model)
		}
	case "kimi":
		os.Setenv("KIMI_API_KEY", userConfig.APIKey)
		if userConfig.Model != "" {
			os.Setenv("KIMI_MODEL", userConfig.Model)
		}
	}
}
