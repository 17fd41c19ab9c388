package workflows

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/workflow"
)

// workflowTicks drives verification countdowns with durable workflow
// timers. Each Start runs one coroutine; stop cancels it.
type workflowTicks struct {
	ctx workflow.Context
}

func (t workflowTicks) Start(interval time.Duration, onTick func()) func() {
	ctx, cancel := workflow.WithCancel(t.ctx)
	workflow.Go(ctx, func(ctx workflow.Context) {
		for {
			if err := workflow.Sleep(ctx, interval); err != nil {
				return // cancelled
			}
			onTick()
		}
	})
	return cancel
}

// sideEffectIDs generates IDs through workflow.SideEffect so replays see the
// same values. An undecodable value panics: the workflow task fails and is
// retried.
func sideEffectIDs(ctx workflow.Context) func() string {
	return func() string {
		var id string
		encoded := workflow.SideEffect(ctx, func(workflow.Context) interface{} {
			return uuid.NewString()
		})
		if err := encoded.Get(&id); err != nil || id == "" {
			panic(fmt.Sprintf("decode generated ID: %v", err))
		}
		return id
	}
}
