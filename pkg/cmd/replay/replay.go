package replay

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	otlpruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"

	"github.com/nishizumi-racing/lapcompare/log"
	"github.com/nishizumi-racing/lapcompare/pkg/analysis/cues"
	"github.com/nishizumi-racing/lapcompare/pkg/analysis/events"
	"github.com/nishizumi-racing/lapcompare/pkg/analysis/lap"
	"github.com/nishizumi-racing/lapcompare/pkg/config"
	"github.com/nishizumi-racing/lapcompare/pkg/ibt"
	"github.com/nishizumi-racing/lapcompare/pkg/utils"
)

func NewReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <capture-ibt>",
		Short: "replays a capture through the live lap tracker",
		Long: `Feeds the rows of a capture into the streaming lap tracker as if they
arrived live. With --reference, approach cues are scheduled against the
reference capture's best lap while replaying.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), args[0])
		},
	}
	cmd.Flags().IntVar(&config.Speed, "speed", 0,
		"replay speed (0 means: go as fast as possible)")
	cmd.Flags().StringVar(&config.Reference, "reference", "",
		"reference capture whose best lap drives approach cues")
	cmd.Flags().StringVar(&config.TrackLength, "track-length", "",
		"track length override for cue distances (e.g. \"4.3 km\")")
	cmd.Flags().BoolVar(&config.EnableTelemetry, "enable-telemetry", false,
		"enables telemetry")
	cmd.Flags().StringVar(&config.TelemetryEndpoint, "telemetry-endpoint",
		"localhost:4317",
		"endpoint that receives open telemetry data")
	return cmd
}

//nolint:funlen // sequential replay flow
func runReplay(ctx context.Context, path string) error {
	tlog, err := ibt.DecodeFile(path)
	if err != nil {
		return err
	}
	l := log.Default().Named("replay")
	sessionID := uuid.New().String()
	l.Info("replaying capture",
		log.String("session", sessionID),
		log.String("source", tlog.Source),
		log.Int("frames", tlog.RowCount()),
		log.Int("tickRate", tlog.TickRateHz))

	if config.EnableTelemetry {
		l.Info("enabling telemetry")
		telemetry, terr := config.SetupTelemetry(ctx)
		if terr != nil {
			l.Warn("could not setup telemetry", log.ErrorField(terr))
		} else {
			defer telemetry.Shutdown()
			if rerr := otlpruntime.Start(); rerr != nil {
				l.Warn("could not start runtime metrics", log.ErrorField(rerr))
			}
		}
	}
	meter := otel.Meter("lapcompare/replay")
	samplesIngested, _ := meter.Int64Counter("replay.samples.ingested")
	cuesFired, _ := meter.Int64Counter("replay.cues.fired")

	scheduler, err := buildCueScheduler()
	if err != nil {
		return err
	}

	tracker := lap.NewTracker(lap.WithLogger(l.Named("tracker")))
	var pace time.Duration
	if config.Speed > 0 && tlog.TickRateHz > 0 {
		pace = time.Second / time.Duration(tlog.TickRateHz*config.Speed)
	}
	for i := range tlog.Samples {
		s := &tlog.Samples[i]
		fraction := lap.NormalizeFraction(s.LapFraction)
		sessionTime := s.SessionTime
		tracker.Ingest(lap.LiveSample{
			LapFraction: &fraction,
			SessionTime: &sessionTime,
			Throttle:    s.Throttle,
			Brake:       s.Brake,
		})
		samplesIngested.Add(ctx, 1)
		if scheduler != nil {
			for _, c := range scheduler.Update(fraction, s.Speed) {
				cuesFired.Add(ctx, 1)
				l.Info("cue",
					log.String("kind", c.Kind.String()),
					log.String("stage", c.Stage.String()),
					log.Int("event", c.EventIndex),
					log.Float64("distance", c.Distance))
			}
		}
		if pace > 0 {
			time.Sleep(pace)
		}
	}

	if best := tracker.BestLap(); best != nil {
		duration, _ := tracker.BestLapDuration()
		l.Info("best lap",
			log.Float64("duration", duration),
			log.Int("samples", best.Len()))
	} else {
		l.Info("no complete lap detected")
	}
	return nil
}

func buildCueScheduler() (*cues.Scheduler, error) {
	if config.Reference == "" {
		return nil, nil
	}
	refLog, err := ibt.DecodeFile(config.Reference)
	if err != nil {
		return nil, err
	}
	refLap := lap.ExtractBestLap(refLog)
	evts := events.Detect(refLap, events.Config{
		BrakeThreshold: config.BrakeThreshold,
		LiftThreshold:  config.LiftThreshold,
		PowerThreshold: config.PowerThreshold,
	})
	trackLength := refLap.TrackLengthMeters
	if v, ok := utils.ParseTrackLengthMeters(config.TrackLength); ok {
		trackLength = v
	}
	return cues.NewScheduler(evts, trackLength), nil
}
