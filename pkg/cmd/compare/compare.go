package compare

import (
	"fmt"
	"io"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/nishizumi-racing/lapcompare/log"
	"github.com/nishizumi-racing/lapcompare/pkg/analysis/comparison"
	"github.com/nishizumi-racing/lapcompare/pkg/analysis/events"
	"github.com/nishizumi-racing/lapcompare/pkg/analysis/lap"
	"github.com/nishizumi-racing/lapcompare/pkg/config"
	"github.com/nishizumi-racing/lapcompare/pkg/ibt"
	"github.com/nishizumi-racing/lapcompare/pkg/model"
)

func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <reference-ibt> <candidate-ibt>",
		Short: "compares the best lap of a candidate capture against a reference capture",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args[0], args[1])
		},
	}
	cmd.Flags().StringVarP(&config.OutputFormat,
		"output",
		"o",
		"text",
		"report output format (text, json)")
	return cmd
}

func runCompare(cmd *cobra.Command, refPath, candPath string) error {
	refLog, err := ibt.DecodeFile(refPath)
	if err != nil {
		return err
	}
	candLog, err := ibt.DecodeFile(candPath)
	if err != nil {
		return err
	}

	refLap := lap.ExtractBestLap(refLog)
	candLap := lap.ExtractBestLap(candLog)
	log.Debug("laps extracted",
		log.Int("refSamples", refLap.Len()),
		log.Int("candSamples", candLap.Len()),
		log.Float64("refTrackLength", refLap.TrackLengthMeters))

	engine := comparison.NewEngine(comparison.WithDetectorConfig(detectorConfig()))
	report := engine.Compare(refLap, candLap)

	out := cmd.OutOrStdout()
	if config.OutputFormat == "json" {
		fmt.Fprintln(out, oj.JSON(report, 2))
		return nil
	}
	printReport(out, refLog, candLog, report)
	return nil
}

func detectorConfig() events.Config {
	return events.Config{
		BrakeThreshold: config.BrakeThreshold,
		LiftThreshold:  config.LiftThreshold,
		PowerThreshold: config.PowerThreshold,
	}
}

func printReport(w io.Writer, refLog, candLog *model.TelemetryLog, r *model.ComparisonReport) {
	fmt.Fprintf(w, "reference: %s (%d frames @ %d Hz)\n",
		refLog.Source, refLog.RowCount(), refLog.TickRateHz)
	fmt.Fprintf(w, "candidate: %s (%d frames @ %d Hz)\n",
		candLog.Source, candLog.RowCount(), candLog.TickRateHz)
	fmt.Fprintf(w, "RMSE throttle: %.4f\n", r.ThrottleRMSE)
	fmt.Fprintf(w, "RMSE brake:    %.4f\n", r.BrakeRMSE)
	fmt.Fprintf(w, "RMSE speed:    %.2f m/s\n", r.SpeedRMSE)
	fmt.Fprintf(w, "RMSE steering: %.4f rad\n", r.SteeringRMSE)
	fmt.Fprintf(w, "RMSE gear:     %.2f\n", r.GearRMSE)
	if len(r.BrakePoints) == 0 {
		fmt.Fprintln(w, "no brake events detected in reference lap")
		return
	}
	for i, bp := range r.BrakePoints {
		fmt.Fprintf(w, "%d. brake @ %.1fm | candidate %.1fm | Δ %+.1fm\n",
			i+1, bp.ReferenceMeters, bp.CandidateMeters, bp.DeltaMeters)
	}
}
