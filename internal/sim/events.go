package sim

type EventType int

const (
	EventRunStarted EventType = iota
	EventScoreSample
	EventPursuerSpawned
	EventRunOver
)

type Event struct {
	Type    EventType
	Tick    int
	Score   int        // floor of the accumulated score at emission
	X, Z    float64    // spawn position for EventPursuerSpawned
	Outcome RunOutcome // set for EventRunOver
}

type EventHandler func(Event)

type EventBus struct {
	handlers map[EventType][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}
