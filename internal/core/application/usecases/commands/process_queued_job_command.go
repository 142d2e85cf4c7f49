package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrProcessQueuedJobCommandIsNotConstructed = errors.New(
	"ProcessQueuedJobCommand must be created via NewProcessQueuedJobCommand constructor",
)

// ProcessQueuedJobCommand represents one worker tick over the import queue:
// sweep stale claims, claim the next runnable job and run it within the tick
// budget. The command carries no data; each tick discovers its work itself.
type ProcessQueuedJobCommand struct {
	guard guard.ConstructorGuard
}

// NewProcessQueuedJobCommand creates a command for one worker tick.
func NewProcessQueuedJobCommand() ProcessQueuedJobCommand {
	return ProcessQueuedJobCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
// Returns ErrProcessQueuedJobCommandIsNotConstructed if validation fails.
func (c ProcessQueuedJobCommand) Validate() error {
	return c.guard.Validate(ErrProcessQueuedJobCommandIsNotConstructed)
}
