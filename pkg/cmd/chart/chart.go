package chart

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/nishizumi-racing/lapcompare/log"
	"github.com/nishizumi-racing/lapcompare/pkg/analysis/comparison"
	"github.com/nishizumi-racing/lapcompare/pkg/analysis/lap"
	"github.com/nishizumi-racing/lapcompare/pkg/analysis/resample"
	"github.com/nishizumi-racing/lapcompare/pkg/ibt"
	"github.com/nishizumi-racing/lapcompare/pkg/model"
)

const chartGridPoints = 1500

var outFile string

func NewChartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart <reference-ibt> <candidate-ibt>",
		Short: "renders reference vs candidate lap traces to an HTML file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChart(args[0], args[1])
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "traces.html", "output HTML file")
	return cmd
}

func runChart(refPath, candPath string) error {
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
	grid := comparison.FractionGrid(refLap, chartGridPoints)

	page := components.NewPage()
	page.AddCharts(
		channelLine("Throttle", grid, refLap, candLap,
			func(s *model.LapSegment) []float64 { return s.Throttle }),
		channelLine("Brake", grid, refLap, candLap,
			func(s *model.LapSegment) []float64 { return s.Brake }),
		channelLine("Speed (m/s)", grid, refLap, candLap,
			func(s *model.LapSegment) []float64 { return s.Speed }),
	)

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		return err
	}
	log.Info("chart written", log.String("file", outFile), log.Int("gridPoints", len(grid)))
	return nil
}

//nolint:whitespace // can't make both editor and linter happy
func channelLine(
	title string,
	grid []float64,
	ref, cand *model.LapSegment,
	channel func(*model.LapSegment) []float64,
) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "320px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "over lap fraction"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	xs := make([]string, len(grid))
	refData := make([]opts.LineData, len(grid))
	candData := make([]opts.LineData, len(grid))
	for i, fraction := range grid {
		xs[i] = fmt.Sprintf("%.3f", fraction)
		refData[i] = opts.LineData{Value: resample.Interp(ref.LapFraction, channel(ref), fraction)}
		candData[i] = opts.LineData{Value: resample.Interp(cand.LapFraction, channel(cand), fraction)}
	}
	line.SetXAxis(xs).
		AddSeries("reference", refData).
		AddSeries("candidate", candData)
	return line
}
