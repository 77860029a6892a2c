package sim

// EventKind identifies a controller state change.
type EventKind int

const (
	EventStarted EventKind = iota
	EventFuelExhausted
	EventAnomaly
	EventLanded
	EventCrashed
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventFuelExhausted:
		return "fuel_exhausted"
	case EventAnomaly:
		return "anomaly"
	case EventLanded:
		return "landed"
	case EventCrashed:
		return "crashed"
	default:
		return "unknown"
	}
}

// Event describes a state change. Level is the level the attempt was played at.
// Altitude is the snapped touchdown altitude on landed/crashed events.
type Event struct {
	Kind     EventKind
	Level    int
	Outcome  Outcome
	Impact   Impact
	Altitude float64
	Fuel     float64
	Reason   string
}

// Listener receives controller events after the transition has been applied.
type Listener func(Event)
