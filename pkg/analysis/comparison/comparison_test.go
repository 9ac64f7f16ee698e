package comparison

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nishizumi-racing/lapcompare/pkg/model"
)

// syntheticLap builds a lap with one brake application starting at the
// given sample index.
func syntheticLap(n, brakeStart int, trackLength float64) *model.LapSegment {
	seg := &model.LapSegment{
		End:               n,
		LapFraction:       make([]float64, n),
		LapDistance:       make([]float64, n),
		Throttle:          make([]float64, n),
		Brake:             make([]float64, n),
		Speed:             make([]float64, n),
		SteeringAngle:     make([]float64, n),
		Gear:              make([]float64, n),
		TrackLengthMeters: trackLength,
	}
	for i := 0; i < n; i++ {
		seg.LapFraction[i] = float64(i) / float64(n-1)
		seg.Throttle[i] = 0.8
		seg.Speed[i] = 50
		seg.SteeringAngle[i] = 0.1
		seg.Gear[i] = 3
		if i >= brakeStart && i < brakeStart+20 {
			seg.Brake[i] = 0.5
			seg.Throttle[i] = 0
		}
	}
	return seg
}

func TestCompare_IdenticalLaps(t *testing.T) {
	ref := syntheticLap(300, 100, 4000)
	cand := syntheticLap(300, 100, 4000)
	report := NewEngine().Compare(ref, cand)

	refMeters := ref.LapFraction[100] * 4000
	want := &model.ComparisonReport{
		GridSize: 300,
		BrakePoints: []model.BrakePointDelta{
			{ReferenceMeters: refMeters, CandidateMeters: refMeters, DeltaMeters: 0},
		},
	}
	assert.Empty(t, cmp.Diff(want, report))
}

func TestCompare_BrakePointShift(t *testing.T) {
	ref := syntheticLap(300, 100, 4000)
	cand := syntheticLap(300, 110, 4000)
	report := NewEngine().Compare(ref, cand)

	require.Len(t, report.BrakePoints, 1)
	bp := report.BrakePoints[0]
	wantDelta := (cand.LapFraction[110] - ref.LapFraction[100]) * 4000
	assert.InDelta(t, ref.LapFraction[100]*4000, bp.ReferenceMeters, 1e-9)
	assert.InDelta(t, cand.LapFraction[110]*4000, bp.CandidateMeters, 1e-9)
	assert.InDelta(t, wantDelta, bp.DeltaMeters, 1e-9)
	assert.Greater(t, bp.DeltaMeters, 0.0)

	// the shifted brake trace also shows up in the channel errors
	assert.Greater(t, report.BrakeRMSE, 0.0)
	assert.Greater(t, report.ThrottleRMSE, 0.0)
}

func TestCompare_MetersUseEachLapsOwnTrackLength(t *testing.T) {
	ref := syntheticLap(300, 100, 4000)
	cand := syntheticLap(300, 100, 5000)
	report := NewEngine().Compare(ref, cand)

	require.Len(t, report.BrakePoints, 1)
	bp := report.BrakePoints[0]
	assert.InDelta(t, ref.LapFraction[100]*4000, bp.ReferenceMeters, 1e-9)
	assert.InDelta(t, cand.LapFraction[100]*5000, bp.CandidateMeters, 1e-9)
}

func TestCompare_ConstantOffsetRMSE(t *testing.T) {
	ref := syntheticLap(300, 100, 4000)
	cand := syntheticLap(300, 100, 4000)
	for i := range cand.Speed {
		cand.Speed[i] += 2 // constant 2 m/s offset
	}
	report := NewEngine().Compare(ref, cand)
	assert.InDelta(t, 2.0, report.SpeedRMSE, 1e-9)
}

func TestCompare_GridCappedAt1500(t *testing.T) {
	ref := syntheticLap(2000, 100, 4000)
	cand := syntheticLap(2000, 100, 4000)
	report := NewEngine().Compare(ref, cand)
	assert.Equal(t, 1500, report.GridSize)
}

func TestCompare_EmptyLaps(t *testing.T) {
	empty := &model.LapSegment{TrackLengthMeters: model.FallbackTrackLengthMeters}
	report := NewEngine().Compare(empty, empty)
	assert.Equal(t, 0, report.GridSize)
	assert.Equal(t, 0.0, report.ThrottleRMSE)
	assert.Empty(t, report.BrakePoints)
}

func TestCompare_NoCandidateBrakes(t *testing.T) {
	ref := syntheticLap(300, 100, 4000)
	cand := syntheticLap(300, 100, 4000)
	for i := range cand.Brake {
		cand.Brake[i] = 0
	}
	report := NewEngine().Compare(ref, cand)
	assert.Empty(t, report.BrakePoints)
}

func TestCompare_BrakeEventsTruncated(t *testing.T) {
	// 26 brake applications, only the first 20 reference points matched
	n := 1080
	seg := &model.LapSegment{
		End:               n,
		LapFraction:       make([]float64, n),
		Throttle:          make([]float64, n),
		Brake:             make([]float64, n),
		Speed:             make([]float64, n),
		SteeringAngle:     make([]float64, n),
		Gear:              make([]float64, n),
		TrackLengthMeters: 4000,
	}
	for i := 0; i < n; i++ {
		seg.LapFraction[i] = float64(i) / float64(n-1)
		if i%40 < 5 {
			seg.Brake[i] = 0.5
		}
	}
	report := NewEngine().Compare(seg, seg)
	assert.Len(t, report.BrakePoints, 20)
}

func TestFractionGrid(t *testing.T) {
	seg := &model.LapSegment{LapFraction: make([]float64, 10)}
	for i := range seg.LapFraction {
		seg.LapFraction[i] = float64(i) / 9
	}
	grid := FractionGrid(seg, 4)
	require.Len(t, grid, 4)
	// logical indices floor(k/4*9) = 0, 2, 4, 6
	assert.Equal(t, seg.LapFraction[0], grid[0])
	assert.Equal(t, seg.LapFraction[2], grid[1])
	assert.Equal(t, seg.LapFraction[4], grid[2])
	assert.Equal(t, seg.LapFraction[6], grid[3])

	assert.Len(t, FractionGrid(seg, 100), 10)
	assert.Nil(t, FractionGrid(&model.LapSegment{}, 4))
}

func TestWithMaxGridPoints(t *testing.T) {
	ref := syntheticLap(300, 100, 4000)
	report := NewEngine(WithMaxGridPoints(50)).Compare(ref, ref)
	assert.Equal(t, 50, report.GridSize)
	assert.False(t, math.IsNaN(report.ThrottleRMSE))
}
