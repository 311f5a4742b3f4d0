package relay

// State is the flow-control state of the scheduler.
//
//	from      event                           to
//	Priming   ring full at wait               Full
//	Draining  ring full at wait               Full
//	Full      ring no longer full at wait     Draining
//	Priming   block ingested                  Priming
//	Draining  block ingested                  Priming
//	Draining  emission empties the ring       Draining
//	Full      emission empties the ring       Draining
//
// Ingestion never happens in Full; emission never happens in Priming.
type State int

const (
	// Priming accepts input but emits nothing. Initial state.
	Priming State = iota
	// Draining emits the oldest block on every iteration while accepting input.
	Draining
	// Full refuses input until emission frees a slot.
	Full
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Priming:
		return "priming"
	case Draining:
		return "draining"
	case Full:
		return "full"
	default:
		return "unknown"
	}
}
