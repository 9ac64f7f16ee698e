package cues

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nishizumi-racing/lapcompare/pkg/model"
)

func brakeAt(fraction float64) []model.ReferenceEvent {
	return []model.ReferenceEvent{{Kind: model.EventBrake, LapFraction: fraction}}
}

func TestScheduler_MetersStageSequence(t *testing.T) {
	// event at 500m on a 1000m track; at 25 m/s the windows are 50m/25m
	s := NewScheduler(brakeAt(0.5), 1000)

	assert.Empty(t, s.Update(0.30, 25))

	cues := s.Update(0.455, 25)
	require.Len(t, cues, 1)
	assert.Equal(t, StageApproachA, cues[0].Stage)
	assert.Equal(t, model.EventBrake, cues[0].Kind)
	assert.InDelta(t, 45.0, cues[0].Distance, 1e-9)

	cues = s.Update(0.48, 25)
	require.Len(t, cues, 1)
	assert.Equal(t, StageApproachB, cues[0].Stage)
	assert.InDelta(t, 20.0, cues[0].Distance, 1e-9)

	// the event point was passed between ticks, the final cue is forced
	cues = s.Update(0.501, 25)
	require.Len(t, cues, 1)
	assert.Equal(t, StageFinal, cues[0].Stage)

	// nothing fires twice within the same lap
	assert.Empty(t, s.Update(0.6, 25))
}

func TestScheduler_ResetsOnLapWrap(t *testing.T) {
	s := NewScheduler(brakeAt(0.5), 1000)
	require.Len(t, s.Update(0.455, 25), 1)
	assert.Empty(t, s.Update(0.6, 25))

	// wraparound starts a fresh lap, stages re-arm
	assert.Empty(t, s.Update(0.05, 25))
	cues := s.Update(0.455, 25)
	require.Len(t, cues, 1)
	assert.Equal(t, StageApproachA, cues[0].Stage)
}

func TestScheduler_FinalOffsetFiresDirectly(t *testing.T) {
	s := NewScheduler(brakeAt(0.5), 1000, WithFinalOffset(5))
	// first tick already inside the final window, only the final cue fires
	cues := s.Update(0.496, 25)
	require.Len(t, cues, 1)
	assert.Equal(t, StageFinal, cues[0].Stage)
	assert.InDelta(t, 4.0, cues[0].Distance, 1e-9)
}

func TestScheduler_ApproachSecondsOption(t *testing.T) {
	s := NewScheduler(brakeAt(0.5), 1000, WithApproachSeconds(4, 2))
	// at 25 m/s the A window grows to 100m
	cues := s.Update(0.41, 25)
	require.Len(t, cues, 1)
	assert.Equal(t, StageApproachA, cues[0].Stage)
}

func TestScheduler_FractionModeWithoutTrackLength(t *testing.T) {
	s := NewScheduler(brakeAt(0.5), 0)

	assert.Empty(t, s.Update(0.4, 0))

	cues := s.Update(0.485, 0)
	require.Len(t, cues, 1)
	assert.Equal(t, StageApproachA, cues[0].Stage)
	assert.InDelta(t, 0.015, cues[0].Distance, 1e-9)

	cues = s.Update(0.495, 0)
	require.Len(t, cues, 1)
	assert.Equal(t, StageApproachB, cues[0].Stage)

	cues = s.Update(0.505, 0)
	require.Len(t, cues, 1)
	assert.Equal(t, StageFinal, cues[0].Stage)
}

func TestScheduler_FractionModeDirectFinal(t *testing.T) {
	s := NewScheduler(brakeAt(0.5), 0)
	// first tick lands inside the final window, no forced pass needed
	cues := s.Update(0.4995, 0)
	require.Len(t, cues, 1)
	assert.Equal(t, StageFinal, cues[0].Stage)
	assert.InDelta(t, 0.0005, cues[0].Distance, 1e-9)
}

func TestScheduler_NoEvents(t *testing.T) {
	s := NewScheduler(nil, 1000)
	assert.Empty(t, s.Update(0.5, 25))
}

func TestScheduler_MultipleEventsTrackedIndependently(t *testing.T) {
	evts := []model.ReferenceEvent{
		{Kind: model.EventBrake, LapFraction: 0.3},
		{Kind: model.EventLift, LapFraction: 0.7},
	}
	s := NewScheduler(evts, 1000)

	cues := s.Update(0.26, 25)
	require.Len(t, cues, 1)
	assert.Equal(t, 0, cues[0].EventIndex)
	assert.Equal(t, model.EventBrake, cues[0].Kind)

	cues = s.Update(0.66, 25)
	require.Len(t, cues, 1)
	assert.Equal(t, 1, cues[0].EventIndex)
	assert.Equal(t, model.EventLift, cues[0].Kind)
}

func TestNextBrakeDistance(t *testing.T) {
	evts := []model.ReferenceEvent{
		{Kind: model.EventBrake, LapFraction: 0.5},
		{Kind: model.EventLift, LapFraction: 0.6},
	}
	s := NewScheduler(evts, 1000)

	d, ok := s.NextBrakeDistance(0.4)
	require.True(t, ok)
	assert.InDelta(t, 100.0, d, 1e-9)

	// past the event, the distance wraps forward around the lap
	d, ok = s.NextBrakeDistance(0.6)
	require.True(t, ok)
	assert.InDelta(t, 900.0, d, 1e-9)

	_, ok = NewScheduler(evts, 0).NextBrakeDistance(0.4)
	assert.False(t, ok)

	_, ok = NewScheduler(nil, 1000).NextBrakeDistance(0.4)
	assert.False(t, ok)
}

func TestApproachDistances(t *testing.T) {
	a, b := approachDistances(0, 2, 1)
	assert.Equal(t, 50.0, a) // falls back to the assumed approach speed
	assert.Equal(t, 25.0, b)

	a, b = approachDistances(1, 2, 1)
	assert.Equal(t, 2.0, a)
	assert.Equal(t, 1.0, b)

	// B stays strictly inside A
	a, b = approachDistances(0.4, 2, 1)
	assert.Less(t, b, a)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "approach-a", StageApproachA.String())
	assert.Equal(t, "approach-b", StageApproachB.String())
	assert.Equal(t, "final", StageFinal.String())
}
