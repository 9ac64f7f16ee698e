// Package comparison aligns two laps onto a shared fraction grid and
// reports per-channel error metrics plus brake-point deltas.
package comparison

import (
	"math"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/nishizumi-racing/lapcompare/pkg/analysis/events"
	"github.com/nishizumi-racing/lapcompare/pkg/analysis/resample"
	"github.com/nishizumi-racing/lapcompare/pkg/model"
)

const (
	maxGridPoints  = 1500
	maxBrakeEvents = 20
)

type Engine struct {
	detectorCfg events.Config
	maxGrid     int
	maxEvents   int
}

type EngineOption func(*Engine)

func WithDetectorConfig(cfg events.Config) EngineOption {
	return func(e *Engine) {
		e.detectorCfg = cfg
	}
}

func WithMaxGridPoints(n int) EngineOption {
	return func(e *Engine) {
		e.maxGrid = n
	}
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		detectorCfg: events.DefaultConfig(),
		maxGrid:     maxGridPoints,
		maxEvents:   maxBrakeEvents,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compare resamples both laps onto a grid drawn from the reference lap's
// own fractions and reports per-channel RMSE (candidate minus reference)
// plus the matched brake points. Degenerate laps produce a zeroed report,
// never an error.
func (e *Engine) Compare(ref, cand *model.LapSegment) *model.ComparisonReport {
	grid := FractionGrid(ref, e.maxGrid)
	return &model.ComparisonReport{
		GridSize:     len(grid),
		ThrottleRMSE: channelRMSE(grid, ref.LapFraction, ref.Throttle, cand.LapFraction, cand.Throttle),
		BrakeRMSE:    channelRMSE(grid, ref.LapFraction, ref.Brake, cand.LapFraction, cand.Brake),
		SpeedRMSE:    channelRMSE(grid, ref.LapFraction, ref.Speed, cand.LapFraction, cand.Speed),
		SteeringRMSE: channelRMSE(grid, ref.LapFraction, ref.SteeringAngle, cand.LapFraction, cand.SteeringAngle),
		GearRMSE:     channelRMSE(grid, ref.LapFraction, ref.Gear, cand.LapFraction, cand.Gear),
		BrakePoints:  e.brakeDeltas(ref, cand),
	}
}

// FractionGrid picks min(len, maxPoints) fractions from the segment's own
// fraction values at evenly spaced logical indices.
func FractionGrid(seg *model.LapSegment, maxPoints int) []float64 {
	n := seg.Len()
	if n == 0 {
		return nil
	}
	size := n
	if size > maxPoints {
		size = maxPoints
	}
	grid := make([]float64, size)
	for k := range grid {
		idx := int(math.Floor(float64(k) / float64(size) * float64(n-1)))
		grid[k] = seg.LapFraction[idx]
	}
	return grid
}

func channelRMSE(grid, refX, refY, candX, candY []float64) float64 {
	if len(grid) == 0 {
		return 0
	}
	diffs := make([]float64, len(grid))
	for i, fraction := range grid {
		diffs[i] = resample.Interp(candX, candY, fraction) -
			resample.Interp(refX, refY, fraction)
	}
	floats.Mul(diffs, diffs)
	return math.Sqrt(stat.Mean(diffs, nil))
}

// brakeDeltas matches the first maxEvents reference brake points against
// the nearest candidate brake point each (first seen wins on ties) and
// converts fractions to meters on each lap's own track length.
func (e *Engine) brakeDeltas(ref, cand *model.LapSegment) []model.BrakePointDelta {
	onlyBrakes := func(ev model.ReferenceEvent, _ int) bool { return ev.Kind == model.EventBrake }
	refBrakes := lo.Filter(events.Detect(ref, e.detectorCfg), onlyBrakes)
	candBrakes := lo.Filter(events.Detect(cand, e.detectorCfg), onlyBrakes)

	out := []model.BrakePointDelta{}
	if len(refBrakes) == 0 || len(candBrakes) == 0 {
		return out
	}
	if len(refBrakes) > e.maxEvents {
		refBrakes = refBrakes[:e.maxEvents]
	}
	for _, rb := range refBrakes {
		nearest := candBrakes[0]
		bestDist := math.Abs(nearest.LapFraction - rb.LapFraction)
		for _, cb := range candBrakes[1:] {
			if d := math.Abs(cb.LapFraction - rb.LapFraction); d < bestDist {
				nearest, bestDist = cb, d
			}
		}
		refMeters := rb.LapFraction * ref.TrackLengthMeters
		candMeters := nearest.LapFraction * cand.TrackLengthMeters
		out = append(out, model.BrakePointDelta{
			ReferenceMeters: refMeters,
			CandidateMeters: candMeters,
			DeltaMeters:     candMeters - refMeters,
		})
	}
	return out
}
