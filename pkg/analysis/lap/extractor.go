// Package lap segments telemetry logs into laps and tracks the best lap of
// a live sample feed.
package lap

import (
	"math"

	"github.com/samber/lo"

	"github.com/nishizumi-racing/lapcompare/pkg/model"
)

const (
	// wrapThreshold: a backward fraction jump larger than this marks the
	// wraparound from near 1.0 to near 0.0.
	wrapThreshold = 0.5
	// percentageScaleCutoff: raw fractions above this are percentage
	// scaled. Slight sensor overshoot above 1.0 stays unit scaled.
	percentageScaleCutoff = 1.5
)

// NormalizeFraction converts a raw lap fraction to unit scale.
func NormalizeFraction(p float64) float64 {
	if p > percentageScaleCutoff {
		return p / 100
	}
	return p
}

type segment struct {
	start, end int
}

func (s segment) length() int { return s.end - s.start }

// ExtractBestLap segments the log at lap-fraction wraparounds and returns
// the segment with the most samples (first wins on ties). A log without
// any wraparound yields a single segment covering the whole log.
func ExtractBestLap(tlog *model.TelemetryLog) *model.LapSegment {
	fractions := lo.Map(tlog.Samples,
		func(s model.TelemetrySample, _ int) float64 { return NormalizeFraction(s.LapFraction) })
	segs := segments(fractions)
	best := lo.MaxBy(segs, func(a, b segment) bool { return a.length() > b.length() })
	return buildSegment(tlog, fractions, best)
}

func segments(fractions []float64) []segment {
	segs := make([]segment, 0, 4)
	start := 0
	for i := 1; i < len(fractions); i++ {
		if fractions[i] < fractions[i-1]-wrapThreshold {
			segs = append(segs, segment{start: start, end: i})
			start = i
		}
	}
	return append(segs, segment{start: start, end: len(fractions)})
}

func buildSegment(tlog *model.TelemetryLog, fractions []float64, sel segment) *model.LapSegment {
	n := sel.length()
	seg := &model.LapSegment{
		Start:             sel.start,
		End:               sel.end,
		LapFraction:       make([]float64, n),
		LapDistance:       make([]float64, n),
		Throttle:          make([]float64, n),
		Brake:             make([]float64, n),
		Speed:             make([]float64, n),
		SteeringAngle:     make([]float64, n),
		Gear:              make([]float64, n),
		TrackLengthMeters: model.FallbackTrackLengthMeters,
	}
	for i := 0; i < n; i++ {
		s := tlog.Samples[sel.start+i]
		seg.LapFraction[i] = fractions[sel.start+i]
		seg.LapDistance[i] = s.LapDistance
		seg.Throttle[i] = s.Throttle
		seg.Brake[i] = s.Brake
		seg.Speed[i] = s.Speed
		seg.SteeringAngle[i] = s.SteeringAngle
		seg.Gear[i] = math.Round(s.Gear)
	}
	if n > 0 {
		if maxDist := lo.Max(seg.LapDistance); maxDist > 0 {
			seg.TrackLengthMeters = maxDist
		}
	}
	return seg
}
