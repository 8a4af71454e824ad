package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/flowlinehq/flowline/pkg/log"
	"github.com/flowlinehq/flowline/pkg/models"
	cli "github.com/urfave/cli/v3"
)

// NewRunCommand executes a single workflow definition from a JSON file.
func NewRunCommand() *cli.Command {
	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Execute a workflow definition once and print the run result",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "workflow",
				Aliases:  []string{"w"},
				Usage:    "Path to a workflow JSON file",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "trigger-data",
				Aliases: []string{"t"},
				Usage:   "Path to a JSON file with the trigger payload",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("flowline-run")

			workflow, err := loadWorkflow(command.String("workflow"))
			if err != nil {
				return err
			}

			var triggerData map[string]any
			if path := command.String("trigger-data"); path != "" {
				triggerData, err = loadTriggerData(path)
				if err != nil {
					return err
				}
			}

			store, err := newPersistence("")
			if err != nil {
				return err
			}

			bus := newEventBus(logger)
			defer func() {
				if err := bus.Close(); err != nil {
					logger.Error("Failed to close event bus", "error", err)
				}
			}()

			reg := newRegistry(logger, store, false)
			eng := newEngine(logger, reg, bus)

			result, err := eng.Run(ctx, workflow, triggerData)
			if err != nil {
				return fmt.Errorf("failed to run workflow: %w", err)
			}

			encoded, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}

			fmt.Println(string(encoded))

			if !result.Success {
				return fmt.Errorf("workflow run failed: %s", result.Message)
			}

			return nil
		},
	}
}

func loadWorkflow(path string) (*models.Workflow, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file: %w", err)
	}

	var workflow models.Workflow
	if err := json.Unmarshal(body, &workflow); err != nil {
		return nil, fmt.Errorf("failed to parse workflow file: %w", err)
	}

	if err := workflow.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workflow: %w", err)
	}

	return &workflow, nil
}

func loadTriggerData(path string) (map[string]any, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trigger data file: %w", err)
	}

	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse trigger data file: %w", err)
	}

	return data, nil
}
