package model

// BrakePointDelta compares one reference brake point against the nearest
// candidate brake point, both converted to meters on their own track
// length.
type BrakePointDelta struct {
	ReferenceMeters float64 `json:"referenceMeters"`
	CandidateMeters float64 `json:"candidateMeters"`
	DeltaMeters     float64 `json:"deltaMeters"`
}

// ComparisonReport holds per-channel RMSE values over the shared fraction
// grid plus the matched brake points.
type ComparisonReport struct {
	GridSize     int     `json:"gridSize"`
	ThrottleRMSE float64 `json:"throttleRmse"`
	BrakeRMSE    float64 `json:"brakeRmse"`
	SpeedRMSE    float64 `json:"speedRmse"`
	SteeringRMSE float64 `json:"steeringRmse"`
	GearRMSE     float64 `json:"gearRmse"`

	BrakePoints []BrakePointDelta `json:"brakePoints"`
}
