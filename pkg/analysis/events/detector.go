// Package events derives braking, lift and power-on transitions from a
// lap's throttle and brake channels.
package events

import "github.com/nishizumi-racing/lapcompare/pkg/model"

// Config holds the detector thresholds. The brake-release and lift-exit
// thresholds derive from the on-thresholds to give the state machine
// hysteresis.
type Config struct {
	BrakeThreshold float64 // braking starts at or above this
	LiftThreshold  float64 // throttle below this counts as a lift
	PowerThreshold float64 // throttle at or above this counts as power-on
}

func DefaultConfig() Config {
	return Config{
		BrakeThreshold: 0.10,
		LiftThreshold:  0.20,
		PowerThreshold: 0.70,
	}
}

func (c Config) brakeOff() float64 { return c.BrakeThreshold * 0.5 }
func (c Config) liftExit() float64 { return c.LiftThreshold * 1.2 }

// Detect scans consecutive sample pairs of a lap and emits events in
// traversal order (ascending lap fraction for a well-formed lap).
//
//nolint:gocognit // transition rules are clearer in one pass
func Detect(seg *model.LapSegment, cfg Config) []model.ReferenceEvent {
	evts := []model.ReferenceEvent{}
	braking := false
	lifting := false
	for i := 1; i < seg.Len(); i++ {
		brake := seg.Brake[i]
		throttle := seg.Throttle[i]
		prevBrake := seg.Brake[i-1]
		prevThrottle := seg.Throttle[i-1]

		if !braking && prevBrake < cfg.BrakeThreshold && brake >= cfg.BrakeThreshold {
			evts = append(evts,
				model.ReferenceEvent{Kind: model.EventBrake, LapFraction: seg.LapFraction[i]})
			braking = true
			lifting = false
		}
		if braking && brake < cfg.brakeOff() {
			braking = false
		}
		if !braking && !lifting &&
			prevThrottle >= cfg.LiftThreshold && throttle < cfg.LiftThreshold &&
			brake < cfg.BrakeThreshold {
			evts = append(evts,
				model.ReferenceEvent{Kind: model.EventLift, LapFraction: seg.LapFraction[i]})
			lifting = true
		}
		if lifting && throttle > cfg.liftExit() {
			lifting = false
		}
		if (braking || lifting) &&
			prevThrottle < cfg.PowerThreshold && throttle >= cfg.PowerThreshold {
			evts = append(evts,
				model.ReferenceEvent{Kind: model.EventPower, LapFraction: seg.LapFraction[i]})
		}
	}
	return evts
}
