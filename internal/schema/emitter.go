package schema

import "context"

// StatusEvent is one progress notification for a single tool call.
// The host UI shows Description while the call runs; Hidden events are
// removed once the overall chat completion finishes, Done marks the
// terminal event for the call.
type StatusEvent struct {
	Description string `json:"description"`
	Done        bool   `json:"done"`
	Hidden      bool   `json:"hidden"`
}

// Emitter is the host-supplied progress sink. Emit is fire-and-forget:
// callers must never let an Emit failure abort the operation being
// reported on. A nil Emitter is valid everywhere and means "no sink".
type Emitter interface {
	Emit(ctx context.Context, ev StatusEvent) error
}
