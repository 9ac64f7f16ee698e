package model

// FallbackTrackLengthMeters is assumed when a lap carries no usable
// distance channel.
const FallbackTrackLengthMeters = 5000.0

// LapSegment is one contiguous lap [Start,End) of a TelemetryLog with its
// per-channel arrays. Segments are derived per analysis and never stored.
type LapSegment struct {
	Start int `json:"start"`
	End   int `json:"end"`

	LapFraction   []float64 `json:"lapFraction"` // normalized to unit scale
	LapDistance   []float64 `json:"lapDistance"`
	Throttle      []float64 `json:"throttle"`
	Brake         []float64 `json:"brake"`
	Speed         []float64 `json:"speed"`
	SteeringAngle []float64 `json:"steeringAngle"`
	Gear          []float64 `json:"gear"` // rounded to whole gears at extraction

	TrackLengthMeters float64 `json:"trackLengthMeters"`
}

func (s *LapSegment) Len() int { return len(s.LapFraction) }
