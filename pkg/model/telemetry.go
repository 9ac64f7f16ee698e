package model

// TelemetrySample holds one tick of decoded capture data. Channels absent
// from the capture stay at 0.
type TelemetrySample struct {
	LapFraction   float64 `json:"lapFraction"` // raw, may still be percentage scaled
	LapDistance   float64 `json:"lapDistance"` // unit: m
	Throttle      float64 `json:"throttle"`    // 0..1
	Brake         float64 `json:"brake"`       // 0..1
	Speed         float64 `json:"speed"`       // unit: m/s
	SteeringAngle float64 `json:"steeringAngle"` // unit: rad
	Gear          float64 `json:"gear"`        // may be fractional before rounding
	SessionTime   float64 `json:"sessionTime"` // unit: s
}

// TelemetryLog is the ordered sample sequence of one capture. It is created
// once by the decoder and not modified afterwards.
type TelemetryLog struct {
	Samples    []TelemetrySample `json:"samples"`
	TickRateHz int               `json:"tickRateHz"`
	Source     string            `json:"source"`
}

func (t *TelemetryLog) RowCount() int { return len(t.Samples) }
