package main

import (
	"context"
	"time"

	"github.com/flowlinehq/flowline/pkg/log"
	"github.com/flowlinehq/flowline/pkg/protocol"
	"github.com/flowlinehq/flowline/pkg/resume"
	"github.com/flowlinehq/flowline/pkg/services"
	"github.com/flowlinehq/flowline/pkg/web"
	"github.com/gofiber/fiber/v3"
	cli "github.com/urfave/cli/v3"
)

// NewServeCommand starts the workflow API with the resume poller.
func NewServeCommand() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the workflow API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "Listen address",
				Value:   ":8080",
				Sources: cli.EnvVars("FLOWLINE_ADDR"),
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "Directory for file persistence (in-memory store when empty)",
				Sources: cli.EnvVars("FLOWLINE_DATA_DIR"),
			},
			&cli.DurationFlag{
				Name:    "resume-interval",
				Usage:   "Poll interval for resuming suspended runs",
				Value:   30 * time.Second,
				Sources: cli.EnvVars("FLOWLINE_RESUME_INTERVAL"),
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
			logger := log.WithModule("flowline-serve")

			dataDir := command.String("data-dir")

			store, err := newPersistence(dataDir)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(ctx); err != nil {
					logger.Error("Failed to close persistence", "error", err)
				}
			}()

			bus := newEventBus(logger)
			defer func() {
				if err := bus.Close(); err != nil {
					logger.Error("Failed to close event bus", "error", err)
				}
			}()

			// Durable waits only make sense when checkpoints survive the
			// process, so they ride on file persistence.
			reg := newRegistry(logger, store, dataDir != "")
			eng := newEngine(logger, reg, bus)

			if dataDir != "" {
				poller := resume.NewPoller(store, eng, protocol.SystemClock{}, command.Duration("resume-interval"), logger)
				go func() {
					if err := poller.Start(ctx); err != nil && ctx.Err() == nil {
						logger.Error("Resume poller stopped", "error", err)
					}
				}()
			}

			workflowService := services.NewWorkflow(store)
			executionService := services.NewExecution(eng, store)

			app := fiber.New()
			web.NewAPIHandlers(workflowService, executionService).RegisterRoutes(app)

			logger.Info("Starting API server", "addr", command.String("addr"))

			return app.Listen(command.String("addr"))
		},
	}
}
