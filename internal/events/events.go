// Package events dispatches viewer notifications to handlers registered per
// event kind. Dispatch is synchronous on the caller's goroutine.
package events

import "sync"

// Kind identifies a class of event
type Kind int

const (
	// RenderRequested is fired whenever the view or the overlay changed
	RenderRequested Kind = iota
	// ErrorReported carries a recoverable failure in Event.Err
	ErrorReported
	// EnableChanged carries Event.Action and Event.Enabled
	EnableChanged
	// ImageChanged carries the new image index in Event.Index
	ImageChanged
	// LatticeChanged is fired when a lattice model is set or cleared
	LatticeChanged
	// IndexerStartRequested asks the indexer owner to start it
	IndexerStartRequested
	// IndexerStopRequested asks the indexer owner to stop it
	IndexerStopRequested
	// IndexerRerunRequested asks the indexer owner to run it again
	IndexerRerunRequested
	// RefineStepRequested asks the refinement owner for one step
	RefineStepRequested
	// RefineSequenceRequested asks the refinement owner for a full sequence
	RefineSequenceRequested
)

func (k Kind) String() string {
	switch k {
	case RenderRequested:
		return "RenderRequested"
	case ErrorReported:
		return "ErrorReported"
	case EnableChanged:
		return "EnableChanged"
	case ImageChanged:
		return "ImageChanged"
	case LatticeChanged:
		return "LatticeChanged"
	case IndexerStartRequested:
		return "IndexerStartRequested"
	case IndexerStopRequested:
		return "IndexerStopRequested"
	case IndexerRerunRequested:
		return "IndexerRerunRequested"
	case RefineStepRequested:
		return "RefineStepRequested"
	case RefineSequenceRequested:
		return "RefineSequenceRequested"
	default:
		return "Unknown"
	}
}

// Action names a command whose availability is signalled outward
type Action string

const (
	First              Action = "first"
	Prev               Action = "prev"
	Next               Action = "next"
	Last               Action = "last"
	RefineStep         Action = "refine-step"
	RefineSequence     Action = "refine-sequence"
	ExtractIntensities Action = "extract-intensities"
	SaveReflections    Action = "save-reflections"
	IndexerStart       Action = "indexer-start"
	IndexerStop        Action = "indexer-stop"
	IndexerRerun       Action = "indexer-rerun"
)

// Event is a single notification. Only the fields documented for its Kind
// are set.
type Event struct {
	Kind    Kind
	Err     error
	Action  Action
	Enabled bool
	Index   int
}

// Handler receives events
type Handler func(Event)

// Bus holds the registered handlers
type Bus struct {
	mu       sync.Mutex
	handlers map[Kind][]Handler
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{handlers: make(map[Kind][]Handler)}
}

// On registers h for events of kind k. Handlers run in registration order.
func (b *Bus) On(k Kind, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[k] = append(b.handlers[k], h)
}

// Emit delivers e to the handlers of e.Kind. A nil bus discards the event.
func (b *Bus) Emit(e Event) {
	if b == nil {
		return
	}
	b.mu.Lock()
	handlers := append([]Handler(nil), b.handlers[e.Kind]...)
	b.mu.Unlock()

	for _, h := range handlers {
		h(e)
	}
}

// RequestRender emits RenderRequested
func (b *Bus) RequestRender() {
	b.Emit(Event{Kind: RenderRequested})
}

// ReportError emits ErrorReported for err
func (b *Bus) ReportError(err error) {
	b.Emit(Event{Kind: ErrorReported, Err: err})
}

// SetEnabled emits EnableChanged for action
func (b *Bus) SetEnabled(action Action, enabled bool) {
	b.Emit(Event{Kind: EnableChanged, Action: action, Enabled: enabled})
}
