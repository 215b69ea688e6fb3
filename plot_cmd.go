package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgnsrekt/voicegen/internal/chart"
	"github.com/dgnsrekt/voicegen/internal/export"
	"github.com/dgnsrekt/voicegen/voice"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	plotInput     string
	plotNoReflect bool
	plotWidth     int
	plotHeight    int

	plotCmd = &cobra.Command{
		Use:   "plot",
		Short: "Chart a pitch track in the terminal",
		Long: paragraph(fmt.Sprintf("\n%s a freshly generated track, or one read with --input. "+
			"Every other sample is mirrored below the axis unless --no-reflect is set.", keyword("Chart"))),
		Example: paragraph("voicegen plot -c female\nvoicegen plot --input take.csv --no-reflect"),
		Args:    cobra.NoArgs,
		RunE:    runPlot,
	}
)

func runPlot(cmd *cobra.Command, _ []string) error {
	cfg, err := trackConfig()
	if err != nil {
		return err
	}

	var samples []voice.Sample
	if plotInput != "" {
		samples, err = export.ReadFile(expandPath(plotInput))
		if err != nil {
			return err
		}
	} else {
		samples = voice.New(cfg, voice.WithTraceWriter(cmd.ErrOrStderr())).Samples()
	}

	opts := plotOptions(cfg, plotInput, !plotNoReflect)
	opts.Width = chartWidth(cmd)
	opts.Height = plotHeight
	_, err = fmt.Fprint(cmd.OutOrStdout(), chart.Render(voice.Values(samples), opts))
	return err
}

// plotOptions labels the chart with the track settings. Files carry no
// settings, so they are labelled with their name and scaled to their data.
func plotOptions(cfg voice.Config, input string, reflect bool) chart.Options {
	opts := chart.ForConfig(cfg, reflect)
	if input != "" {
		opts.Title = "Voice Frequency: " + filepath.Base(input)
		opts.Info = nil
		opts.Min, opts.Max = 0, 0
	}
	return opts
}

// chartWidth picks the number of columns: the flag if set, otherwise the
// terminal width capped at 120, otherwise 80.
func chartWidth(cmd *cobra.Command) int {
	const labels = 10
	if cmd.Flags().Changed("width") && plotWidth > 0 {
		return plotWidth
	}
	width := 80
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = min(w, 120)
		}
	}
	return max(width-labels, 1)
}

func init() {
	plotCmd.Flags().StringVarP(&plotInput, "input", "i", "", "chart a track file instead of generating one")
	plotCmd.Flags().BoolVar(&plotNoReflect, "no-reflect", false, "draw samples as-is instead of mirroring every other one")
	plotCmd.Flags().IntVarP(&plotWidth, "width", "w", 0, "chart width in columns (default: terminal width)")
	plotCmd.Flags().IntVar(&plotHeight, "height", chart.DefaultHeight, "chart height in rows")
}
