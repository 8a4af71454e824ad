package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/flowlinehq/flowline/pkg/engine"
	"github.com/flowlinehq/flowline/pkg/eventbus"
	"github.com/flowlinehq/flowline/pkg/models"
	"github.com/flowlinehq/flowline/pkg/persistence"
	"github.com/flowlinehq/flowline/pkg/persistence/file"
	"github.com/flowlinehq/flowline/pkg/persistence/memory"
	"github.com/flowlinehq/flowline/pkg/protocol"
	"github.com/flowlinehq/flowline/pkg/registry"
	"github.com/flowlinehq/flowline/pkg/resume"
	conditionstep "github.com/flowlinehq/flowline/pkg/steps/condition"
	"github.com/flowlinehq/flowline/pkg/steps/dbquery"
	"github.com/flowlinehq/flowline/pkg/steps/noop"
	"github.com/flowlinehq/flowline/pkg/steps/sendemail"
	waitstep "github.com/flowlinehq/flowline/pkg/steps/wait"
	"github.com/flowlinehq/flowline/pkg/transport"
)

// durableWaitThreshold is the wait duration above which a run checkpoints
// instead of sleeping in-process.
const durableWaitThreshold = time.Minute

// newPersistence selects the persistence backend: a data directory path
// enables the file store, an empty path the in-memory store.
func newPersistence(dataDir string) (persistence.Persistence, error) {
	if dataDir == "" {
		return memory.NewStore(), nil
	}

	store, err := file.NewPersistence(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file persistence: %w", err)
	}

	return store, nil
}

// newRegistry wires every built-in step executor. Durable waits are used
// when a store is provided; otherwise waits sleep in-process.
func newRegistry(logger *slog.Logger, store persistence.Persistence, durableWaits bool) *registry.Registry {
	clock := protocol.SystemClock{}

	var suspender protocol.Suspender = protocol.SleepSuspender{}
	if durableWaits {
		suspender = resume.NewCheckpointSuspender(store, clock, durableWaitThreshold)
	}

	reg := registry.NewRegistry(logger)
	reg.Register(conditionstep.NewFactory())
	reg.Register(conditionstep.NewFilterFactory())
	reg.Register(waitstep.NewFactory(clock, suspender))
	reg.Register(sendemail.NewFactory(transport.NewLogEmailTransport(logger)))
	reg.Register(dbquery.NewFactory(store, transport.NewPostgresRunner()))
	reg.Register(noop.NewFactory(models.StepKindAPIRequest))
	reg.Register(noop.NewFactory(models.StepKindCustomCode))
	reg.Register(noop.NewFactory(models.StepKindAppAction))
	reg.Register(noop.NewFactory(models.StepKindEnd))

	return reg
}

// newEventBus creates the in-process lifecycle event bus and a subscriber
// that logs every event.
func newEventBus(logger *slog.Logger) *eventbus.WatermillEventBus {
	return eventbus.NewGoChannelEventBus(watermill.NewSlogLogger(logger))
}

func newEngine(logger *slog.Logger, reg *registry.Registry, bus eventbus.EventBus) *engine.Engine {
	return engine.New(reg, bus, logger)
}
