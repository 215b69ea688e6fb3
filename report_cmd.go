package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dgnsrekt/voicegen/internal/export"
	"github.com/dgnsrekt/voicegen/internal/report"
	"github.com/dgnsrekt/voicegen/voice"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	reportRaw         bool
	reportInput       string
	reportThreshold   float64
	reportMaxSegments int
	reportWidth       uint

	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Summarise a pitch track as markdown",
		Long: paragraph(fmt.Sprintf("\n%s a track, or read one with --input, and describe it: configuration, statistics and every segment. "+
			"The markdown is rendered for the terminal unless --raw is set.", keyword("Generate"))),
		Example: paragraph("voicegen report -d 1200 --seed 3\nvoicegen report --raw > report.md\nvoicegen report --input take.csv"),
		Args:    cobra.NoArgs,
		RunE:    runReport,
	}
)

// validateStyle checks if the style is a default style, if not, checks that
// the custom style exists.
func validateStyle(style string) error {
	if !report.ValidStyle(style) {
		style = expandPath(style)
		if _, err := os.Stat(style); errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("specified style does not exist: %s", style)
		} else if err != nil {
			return fmt.Errorf("unable to stat file: %w", err)
		}
	}
	return nil
}

func runReport(cmd *cobra.Command, _ []string) error {
	var track report.Track
	if reportInput != "" {
		path := expandPath(reportInput)
		samples, err := export.ReadFile(path)
		if err != nil {
			return err
		}
		track = report.FromSamples(filepath.Base(path), samples, reportThreshold)
	} else {
		cfg, err := trackConfig()
		if err != nil {
			return err
		}
		track = report.FromSynthesizer(voice.New(cfg, voice.WithTraceWriter(cmd.ErrOrStderr())))
	}

	md := report.Markdown(track, report.Options{MaxSegments: reportMaxSegments})
	if reportRaw {
		_, err := fmt.Fprint(cmd.OutOrStdout(), md)
		return err
	}

	style := viper.GetString("style")
	if err := validateStyle(style); err != nil {
		return err
	}

	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	// We want to use a special no-TTY style, when stdout is not a terminal
	// and there was no specific style passed by arg
	if !isTerminal && !cmd.Flags().Changed("style") {
		style = "notty"
	}

	width := reportWidth
	if !cmd.Flags().Changed("width") {
		width = 80
		if isTerminal {
			if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				width = uint(min(w, 120)) //nolint:gosec
			}
		}
	}

	out, err := report.Render(md, int(width), expandPath(style)) //nolint:gosec
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

func init() {
	reportCmd.Flags().BoolVar(&reportRaw, "raw", false, "print markdown without rendering it")
	reportCmd.Flags().StringVarP(&reportInput, "input", "i", "", "describe a track file instead of generating one")
	reportCmd.Flags().Float64Var(&reportThreshold, "threshold", voice.DefaultThreshold, "pitch in Hz separating talking from silence in --input tracks")
	reportCmd.Flags().IntVar(&reportMaxSegments, "max-segments", 20, "limit the segment table (0 lists all)")
	reportCmd.Flags().UintVarP(&reportWidth, "width", "w", 0, "word-wrap at width")
	reportCmd.Flags().StringP("style", "s", "auto", "style name or JSON path")
	_ = viper.BindPFlag("style", reportCmd.Flags().Lookup("style"))
}
