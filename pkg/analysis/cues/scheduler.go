// Package cues schedules approach cues for a reference lap's events
// against a live position feed.
package cues

import (
	"math"

	"github.com/nishizumi-racing/lapcompare/pkg/model"
)

type Stage int

const (
	StageApproachA Stage = iota // early warning
	StageApproachB              // close warning
	StageFinal                  // at the event point
)

func (s Stage) String() string {
	switch s {
	case StageApproachA:
		return "approach-a"
	case StageApproachB:
		return "approach-b"
	case StageFinal:
		return "final"
	default:
		return "unknown"
	}
}

// Cue is one scheduling decision for an upcoming reference event.
type Cue struct {
	EventIndex int
	Kind       model.EventKind
	Stage      Stage
	// Distance to the event: meters, or fraction of a lap in
	// percentage mode.
	Distance float64
}

const (
	DefaultApproachASeconds = 2.0
	DefaultApproachBSeconds = 1.0
	// DefaultApproachSpeed is assumed when no live speed is available.
	DefaultApproachSpeed = 25.0 // unit: m/s

	// fallback windows when no usable track length exists
	pctApproachA = 0.02
	pctApproachB = 0.01
	pctFinal     = 0.001
)

// Scheduler fires each stage at most once per event and lap. State resets
// on the lap-fraction wraparound.
type Scheduler struct {
	events      []model.ReferenceEvent
	trackLength float64
	approachA   float64 // unit: s
	approachB   float64 // unit: s
	finalOffset float64 // unit: m

	fired    map[int]map[Stage]bool
	lastDist map[int]float64
	lastFrac float64
	hasLast  bool
}

type SchedulerOption func(*Scheduler)

func WithApproachSeconds(a, b float64) SchedulerOption {
	return func(s *Scheduler) {
		s.approachA = a
		s.approachB = b
	}
}

// WithFinalOffset moves the final cue the given meters before the event
// point.
func WithFinalOffset(meters float64) SchedulerOption {
	return func(s *Scheduler) {
		s.finalOffset = meters
	}
}

func NewScheduler(
	evts []model.ReferenceEvent,
	trackLengthMeters float64,
	opts ...SchedulerOption,
) *Scheduler {
	s := &Scheduler{
		events:      evts,
		trackLength: trackLengthMeters,
		approachA:   DefaultApproachASeconds,
		approachB:   DefaultApproachBSeconds,
		fired:       map[int]map[Stage]bool{},
		lastDist:    map[int]float64{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Update consumes one live position and returns the cues that fired. With
// a usable track length the approach windows scale with the current speed;
// otherwise fixed lap-fraction windows apply.
func (s *Scheduler) Update(lapFraction, speed float64) []Cue {
	if s.hasLast && lapFraction < s.lastFrac-0.5 {
		s.resetLap()
	}
	s.lastFrac = lapFraction
	s.hasLast = true
	if len(s.events) == 0 {
		return nil
	}

	var cues []Cue
	if s.trackLength > 1 {
		windowA, windowB := approachDistances(speed, s.approachA, s.approachB)
		current := lapFraction * s.trackLength
		for idx, ev := range s.events {
			dist := forwardMod(ev.LapFraction*s.trackLength-current, s.trackLength)
			cues = append(cues, s.stageCues(idx, ev, dist, windowA, windowB, s.finalOffset)...)
			// the event point was passed between two ticks
			if last, ok := s.lastDist[idx]; ok && last <= windowB && dist > last {
				cues = append(cues, s.forceFinal(idx, ev)...)
			}
			s.lastDist[idx] = dist
		}
		return cues
	}
	for idx, ev := range s.events {
		dist := forwardMod(ev.LapFraction-lapFraction, 1.0)
		cues = append(cues, s.stageCues(idx, ev, dist, pctApproachA, pctApproachB, pctFinal)...)
		if last, ok := s.lastDist[idx]; ok && last <= pctApproachB && dist > last {
			cues = append(cues, s.forceFinal(idx, ev)...)
		}
		s.lastDist[idx] = dist
	}
	return cues
}

// NextBrakeDistance returns the meters to the closest upcoming brake
// event, false when no track length or brake events are available.
func (s *Scheduler) NextBrakeDistance(lapFraction float64) (float64, bool) {
	if s.trackLength <= 1 {
		return 0, false
	}
	current := lapFraction * s.trackLength
	best := math.Inf(1)
	found := false
	for _, ev := range s.events {
		if ev.Kind != model.EventBrake {
			continue
		}
		d := forwardMod(ev.LapFraction*s.trackLength-current, s.trackLength)
		if d < best {
			best = d
			found = true
		}
	}
	return best, found
}

func (s *Scheduler) stageCues(idx int, ev model.ReferenceEvent, dist, windowA, windowB, finalAt float64) []Cue {
	state := s.fired[idx]
	if state == nil {
		state = map[Stage]bool{}
		s.fired[idx] = state
	}
	var out []Cue
	if !state[StageApproachA] && dist <= windowA && dist > windowB {
		state[StageApproachA] = true
		out = append(out, Cue{EventIndex: idx, Kind: ev.Kind, Stage: StageApproachA, Distance: dist})
	}
	if !state[StageApproachB] && dist <= windowB && dist > finalAt {
		state[StageApproachA] = true
		state[StageApproachB] = true
		out = append(out, Cue{EventIndex: idx, Kind: ev.Kind, Stage: StageApproachB, Distance: dist})
	}
	if !state[StageFinal] && dist <= finalAt {
		state[StageApproachA] = true
		state[StageApproachB] = true
		state[StageFinal] = true
		out = append(out, Cue{EventIndex: idx, Kind: ev.Kind, Stage: StageFinal, Distance: dist})
	}
	return out
}

func (s *Scheduler) forceFinal(idx int, ev model.ReferenceEvent) []Cue {
	state := s.fired[idx]
	if state == nil || state[StageFinal] {
		return nil
	}
	state[StageFinal] = true
	return []Cue{{EventIndex: idx, Kind: ev.Kind, Stage: StageFinal, Distance: 0}}
}

func (s *Scheduler) resetLap() {
	s.fired = map[int]map[Stage]bool{}
	s.lastDist = map[int]float64{}
}

// approachDistances translates the approach timing into meters so cues
// scale with speed. Window B stays strictly inside window A.
func approachDistances(speed, aSeconds, bSeconds float64) (float64, float64) {
	if speed <= 0 {
		speed = DefaultApproachSpeed
	}
	windowA := math.Max(1.0, speed*aSeconds)
	windowB := math.Max(0.5, speed*bSeconds)
	if windowB >= windowA {
		windowB = math.Max(0.5, windowA*0.5)
	}
	return windowA, windowB
}

func forwardMod(v, m float64) float64 {
	d := math.Mod(v, m)
	if d < 0 {
		d += m
	}
	return d
}
