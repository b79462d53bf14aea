package stage

import (
	"context"

	"outloud/internal/queue"
)

// Handler is implemented by each pipeline stage. Prepare validates inputs
// and records the processing transition; Execute performs the work and
// mutates the item to its next stage. Both may be re-entered after a crash,
// so implementations check for existing artifacts before redoing work.
type Handler interface {
	Prepare(context.Context, *queue.Item) error
	Execute(context.Context, *queue.Item) error
	HealthCheck(context.Context) Health
}
