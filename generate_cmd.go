package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/voicegen/internal/export"
	"github.com/dgnsrekt/voicegen/voice"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	generateOutput string
	generateStats  bool

	generateCmd = &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate a pitch track",
		Long: paragraph(fmt.Sprintf("\n%s a pitch track and write it as CSV, JSON or YAML. "+
			"Without --output the track goes to stdout; a .zst suffix compresses the file.", keyword("Generate"))),
		Example: paragraph("voicegen generate -d 600 -c female\nvoicegen generate --seed 7 -o ~/tracks/take.json.zst"),
		Args:    cobra.NoArgs,
		RunE:    runGenerate,
	}
)

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := trackConfig()
	if err != nil {
		return err
	}

	toStdout := generateOutput == ""
	s := voice.New(cfg, voice.WithTraceWriter(traceWriter(cmd, toStdout)))
	log.Debug("Generated track", "ticks", s.Len(), "category", cfg.Category, "segments", len(s.Segments()))

	if toStdout {
		f, err := export.ParseFormat(viper.GetString("format"))
		if err != nil {
			return err
		}
		if err := export.Write(cmd.OutOrStdout(), s.Samples(), f); err != nil {
			return fmt.Errorf("unable to write track: %w", err)
		}
	} else {
		path := expandPath(generateOutput)
		n, err := export.WriteFile(path, s.Samples())
		if err != nil {
			return fmt.Errorf("unable to write track: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s ticks to %s (%s)\n",
			humanize.Comma(int64(s.Len())), keyword(path), humanize.Bytes(uint64(n))) //nolint:gosec
	}

	if generateStats {
		printStats(cmd.ErrOrStderr(), voice.Summarize(s))
	}
	return nil
}

// traceWriter keeps segment records out of the way of data written to
// stdout.
func traceWriter(cmd *cobra.Command, dataOnStdout bool) io.Writer {
	if dataOnStdout {
		return cmd.ErrOrStderr()
	}
	return cmd.OutOrStdout()
}

func printStats(w io.Writer, st voice.Stats) {
	rows := [][2]string{
		{"ticks", humanize.Comma(int64(st.Ticks))},
		{"talking segments", fmt.Sprintf("%d (mean %.1f ticks)", st.TalkingSegments, st.MeanTalkingLength)},
		{"silent segments", fmt.Sprintf("%d (mean %.1f ticks)", st.SilentSegments, st.MeanSilentLength)},
		{"talking ratio", fmt.Sprintf("%.0f%%", st.TalkingRatio*100)},
		{"pitch", fmt.Sprintf("%.1f Hz ± %.1f", st.PitchMean, st.PitchSD)},
		{"max noise", fmt.Sprintf("%g", st.MaxNoise)},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s %s\n", faint(fmt.Sprintf("%-17s", r[0])), r[1])
	}
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "write the track to a file; format follows the extension")
	generateCmd.Flags().StringP("format", "f", "csv", "stdout format: csv, json or yaml")
	generateCmd.Flags().BoolVar(&generateStats, "stats", false, "print track statistics to stderr")
	_ = viper.BindPFlag("format", generateCmd.Flags().Lookup("format"))
}
