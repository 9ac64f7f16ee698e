package model

type EventKind int

const (
	EventBrake EventKind = iota
	EventLift
	EventPower
)

func (k EventKind) String() string {
	switch k {
	case EventBrake:
		return "brake"
	case EventLift:
		return "lift"
	case EventPower:
		return "power"
	default:
		return "unknown"
	}
}

// ReferenceEvent marks a detected driving transition on a lap.
type ReferenceEvent struct {
	Kind        EventKind `json:"kind"`
	LapFraction float64   `json:"lapFraction"`
}
