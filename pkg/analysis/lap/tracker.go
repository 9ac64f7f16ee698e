package lap

import (
	"math"

	"github.com/nishizumi-racing/lapcompare/log"
	"github.com/nishizumi-racing/lapcompare/pkg/model"
)

const (
	defaultBufferCapacity = 8000
	minLapSamples         = 100
	minLapDuration        = 20.0
	maxLapDuration        = 300.0
	wrapHighFraction      = 0.95
	wrapLowFraction       = 0.05
)

// LiveSample is one tick of an append-style live feed. A nil LapFraction
// or SessionTime marks the tick as undefined; such ticks are ignored.
type LiveSample struct {
	LapFraction *float64
	SessionTime *float64
	Throttle    float64
	Brake       float64
}

type trackedSample struct {
	fraction float64
	throttle float64
	brake    float64
}

type bestLap struct {
	samples   []trackedSample
	startTime float64
	endTime   float64
}

func (b *bestLap) duration() float64 { return b.endTime - b.startTime }

// Tracker incrementally detects lap completion on a live sample feed and
// keeps the fastest valid lap seen so far. A tracker instance belongs to a
// single stream: Ingest must not run concurrently with reads; the caller
// serializes access.
type Tracker struct {
	buf     *ring
	start   float64
	last    float64
	hasLast bool
	started bool
	best    *bestLap
	l       *log.Logger
}

type TrackerOption func(*Tracker)

// WithCapacity bounds the in-progress lap buffer (drop-oldest).
func WithCapacity(n int) TrackerOption {
	return func(t *Tracker) {
		t.buf = newRing(n)
	}
}

func WithLogger(l *log.Logger) TrackerOption {
	return func(t *Tracker) {
		t.l = l
	}
}

func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		buf: newRing(defaultBufferCapacity),
		l:   log.Default().Named("tracker"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Ingest consumes one live sample. Lap completion is detected on the
// wraparound from above 0.95 to below 0.05; the just-completed buffer
// becomes the new best lap when it has enough samples, a plausible
// duration, and beats the current best.
func (t *Tracker) Ingest(s LiveSample) {
	if s.LapFraction == nil || s.SessionTime == nil {
		return
	}
	fraction := clampUnit(*s.LapFraction)
	now := *s.SessionTime
	if !t.started {
		t.start = now
		t.started = true
	}
	if t.hasLast && t.last > wrapHighFraction && fraction < wrapLowFraction {
		t.completeLap(now)
	}
	t.buf.push(trackedSample{fraction: fraction, throttle: s.Throttle, brake: s.Brake})
	t.last = fraction
	t.hasLast = true
}

func (t *Tracker) completeLap(now float64) {
	duration := now - t.start
	count := t.buf.len()
	accept := count >= minLapSamples &&
		duration >= minLapDuration && duration <= maxLapDuration &&
		(t.best == nil || duration < t.best.duration())
	if accept {
		t.best = &bestLap{samples: t.buf.snapshot(), startTime: t.start, endTime: now}
		t.l.Info("new best lap",
			log.Float64("duration", duration), log.Int("samples", count))
	} else {
		t.l.Debug("lap discarded",
			log.Float64("duration", duration), log.Int("samples", count))
	}
	t.buf.reset()
	t.start = now
}

// BestLap returns the fastest lap seen so far or nil. The live feed only
// carries fraction/throttle/brake, so the remaining channels are
// zero-filled of equal length and the track length uses the fallback.
func (t *Tracker) BestLap() *model.LapSegment {
	if t.best == nil {
		return nil
	}
	n := len(t.best.samples)
	seg := &model.LapSegment{
		End:               n,
		LapFraction:       make([]float64, n),
		LapDistance:       make([]float64, n),
		Throttle:          make([]float64, n),
		Brake:             make([]float64, n),
		Speed:             make([]float64, n),
		SteeringAngle:     make([]float64, n),
		Gear:              make([]float64, n),
		TrackLengthMeters: model.FallbackTrackLengthMeters,
	}
	for i, s := range t.best.samples {
		seg.LapFraction[i] = s.fraction
		seg.Throttle[i] = s.throttle
		seg.Brake[i] = s.brake
	}
	return seg
}

// BestLapDuration reports the duration of the best lap, if any.
func (t *Tracker) BestLapDuration() (float64, bool) {
	if t.best == nil {
		return 0, false
	}
	return t.best.duration(), true
}

// NearestSample returns the throttle/brake pair of the best-lap sample
// closest to the given fraction (first seen wins on exact ties).
func (t *Tracker) NearestSample(fraction float64) (throttle, brake float64, ok bool) {
	if t.best == nil {
		return 0, 0, false
	}
	query := clampUnit(fraction)
	bestIdx := 0
	bestDist := math.Inf(1)
	for i, s := range t.best.samples {
		if d := math.Abs(s.fraction - query); d < bestDist {
			bestIdx, bestDist = i, d
		}
	}
	nearest := t.best.samples[bestIdx]
	return nearest.throttle, nearest.brake, true
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
