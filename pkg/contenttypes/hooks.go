package contenttypes

import (
	"context"
	"log/slog"
)

// Hooks are the handlers a Host dispatches at its lifecycle events.
// Handlers of one event run in order until one fails or sets StopChain.

// Event names a host lifecycle phase.
type Event string

const (
	// EventStartup fires before any other plugin code runs.
	EventStartup Event = "startup"
	// EventInit fires once the host is ready to accept registrations.
	EventInit Event = "init"
	// EventPreQuery fires before every listing query.
	EventPreQuery Event = "pre_query"
)

// Events lists every lifecycle event in firing order.
var Events = []Event{EventStartup, EventInit, EventPreQuery}

// Hooks defines all available lifecycle hooks
type Hooks struct {
	Startup  []StartupHook
	Init     []InitHook
	PreQuery []PreQueryHook

	// Error hooks
	OnError []ErrorHook
}

// HookContext carries information through the hook chain
type HookContext struct {
	Context   context.Context
	Event     Event
	Metadata  map[string]interface{} // Custom metadata passed between hooks
	StopChain bool                   // Set to true to stop processing remaining hooks
}

// NewHookContext creates a new hook context
func NewHookContext(ctx context.Context, event Event) *HookContext {
	return &HookContext{
		Context:  ctx,
		Event:    event,
		Metadata: make(map[string]interface{}),
	}
}

// StartupHook is called at EventStartup
type StartupHook func(hctx *HookContext) error

// InitHook is called at EventInit
type InitHook func(hctx *HookContext) error

// PreQueryHook is called at EventPreQuery with the query about to run
type PreQueryHook func(hctx *HookContext, q Query) error

// ErrorHook is called when a hook fails
type ErrorHook func(hctx *HookContext, err error)

// Merge appends other's handlers after h's.
func (h *Hooks) Merge(other *Hooks) {
	if other == nil {
		return
	}
	h.Startup = append(h.Startup, other.Startup...)
	h.Init = append(h.Init, other.Init...)
	h.PreQuery = append(h.PreQuery, other.PreQuery...)
	h.OnError = append(h.OnError, other.OnError...)
}

// Count returns how many handlers are attached to event.
func (h *Hooks) Count(event Event) int {
	switch event {
	case EventStartup:
		return len(h.Startup)
	case EventInit:
		return len(h.Init)
	case EventPreQuery:
		return len(h.PreQuery)
	}
	return 0
}

// RunStartup runs all Startup hooks
func (h *Hooks) RunStartup(ctx context.Context) error {
	if len(h.Startup) == 0 {
		return nil
	}

	hctx := NewHookContext(ctx, EventStartup)
	for _, hook := range h.Startup {
		if err := hook(hctx); err != nil {
			h.runOnError(hctx, err)
			return err
		}
		if hctx.StopChain {
			break
		}
	}
	return nil
}

// RunInit runs all Init hooks
func (h *Hooks) RunInit(ctx context.Context) error {
	if len(h.Init) == 0 {
		return nil
	}

	hctx := NewHookContext(ctx, EventInit)
	for _, hook := range h.Init {
		if err := hook(hctx); err != nil {
			h.runOnError(hctx, err)
			return err
		}
		if hctx.StopChain {
			break
		}
	}
	return nil
}

// RunPreQuery runs all PreQuery hooks against q
func (h *Hooks) RunPreQuery(ctx context.Context, q Query) error {
	if len(h.PreQuery) == 0 {
		return nil
	}

	hctx := NewHookContext(ctx, EventPreQuery)
	for _, hook := range h.PreQuery {
		if err := hook(hctx, q); err != nil {
			h.runOnError(hctx, err)
			return err
		}
		if hctx.StopChain {
			break
		}
	}
	return nil
}

func (h *Hooks) runOnError(hctx *HookContext, err error) {
	for _, hook := range h.OnError {
		hook(hctx, err)
	}
}

// LoggingHooks logs every lifecycle event at debug level.
func LoggingHooks(logger *slog.Logger) *Hooks {
	return &Hooks{
		Startup: []StartupHook{
			func(hctx *HookContext) error {
				logger.Debug("lifecycle event", "event", hctx.Event)
				return nil
			},
		},
		Init: []InitHook{
			func(hctx *HookContext) error {
				logger.Debug("lifecycle event", "event", hctx.Event)
				return nil
			},
		},
		PreQuery: []PreQueryHook{
			func(hctx *HookContext, q Query) error {
				logger.Debug("lifecycle event", "event", hctx.Event,
					"main", q.IsMainQuery(), "admin", q.IsAdmin(), "page_size", q.PageSize())
				return nil
			},
		},
		OnError: []ErrorHook{
			func(hctx *HookContext, err error) {
				logger.Error("lifecycle hook failed", "event", hctx.Event, "error", err)
			},
		},
	}
}
