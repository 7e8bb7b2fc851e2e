package ability

import (
	"context"
	"fmt"

	"github.com/ChamsBouzaiene/aware/internal/workspace"
)

// NewReadFileAbility reads a file from the task workspace.
func NewReadFileAbility(ws *workspace.Workspace) Ability {
	return Ability{
		Name:        "read_file",
		Description: "Read the contents of a file in the task workspace.",
		SchemaJSON: `{
			"type": "object",
			"required": ["file_path"],
			"properties": {
				"file_path": {
					"type": "string",
					"description": "Path of the file to read, relative to the task workspace."
				}
			}
		}`,
		Retryable: true,
		Fn: func(ctx context.Context, taskID string, args map[string]any) (string, error) {
			path, _ := args["file_path"].(string)
			data, err := ws.Read(taskID, path)
			if err != nil {
				return "", err
			}
			return string(data), nil
		},
	}
}

// NewWriteFileAbility writes a file into the task workspace.
func NewWriteFileAbility(ws *workspace.Workspace) Ability {
	return Ability{
		Name:        "write_file",
		Description: "Write content to a file in the task workspace, creating it if needed.",
		SchemaJSON: `{
			"type": "object",
			"required": ["file_path", "content"],
			"properties": {
				"file_path": {
					"type": "string",
					"description": "Path of the file to write, relative to the task workspace."
				},
				"content": {
					"type": "string",
					"description": "The full content to write."
				}
			}
		}`,
		Retryable: false,
		Fn: func(ctx context.Context, taskID string, args map[string]any) (string, error) {
			path, _ := args["file_path"].(string)
			content, _ := args["content"].(string)
			if err := ws.Write(taskID, path, []byte(content)); err != nil {
				return "", err
			}
			return fmt.Sprintf("Wrote %d bytes to %s", len(content), path), nil
		},
	}
}

// NewListFilesAbility lists a directory in the task workspace.
func NewListFilesAbility(ws *workspace.Workspace) Ability {
	return Ability{
		Name:        "list_files",
		Description: "List the entries of a directory in the task workspace.",
		SchemaJSON: `{
			"type": "object",
			"properties": {
				"path": {
					"type": "string",
					"description": "Directory to list, relative to the task workspace. Defaults to the workspace root."
				}
			}
		}`,
		Retryable: true,
		Fn: func(ctx context.Context, taskID string, args map[string]any) (string, error) {
			path, _ := args["path"].(string)
			if path == "" {
				path = "."
			}
			names, err := ws.List(taskID, path)
			if err != nil {
				return "", err
			}
			if len(names) == 0 {
				return "The directory is empty.", nil
			}
			out := ""
			for _, name := range names {
				if out != "" {
					out += "\n"
				}
				out += name
			}
			return out, nil
		},
	}
}

// DefaultRegistry builds the built-in ability set over a workspace.
func DefaultRegistry(ws *workspace.Workspace) Registry {
	reg := make(Registry)
	reg.Register(NewFinishAbility())
	reg.Register(NewReadFileAbility(ws))
	reg.Register(NewWriteFileAbility(ws))
	reg.Register(NewListFilesAbility(ws))
	return reg
}
