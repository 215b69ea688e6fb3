package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/dgnsrekt/voicegen/internal/audio"
	"github.com/dgnsrekt/voicegen/internal/audio/device"
	"github.com/dgnsrekt/voicegen/ui"
	"github.com/dgnsrekt/voicegen/voice"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	watchSpeed float64
	watchLoop  bool
	watchAudio bool

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Watch a pitch track live",
		Long: paragraph(fmt.Sprintf("\n%s a track tick by tick: a gauge of the current pitch, "+
			"the talking or silent state and a scrolling history of the track.", keyword("Follow"))),
		Example: paragraph("voicegen watch -c female --audio\nvoicegen watch --speed 4 --loop"),
		Args:    cobra.NoArgs,
		RunE:    runWatch,
	}
)

func runWatch(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("watch needs an interactive terminal")
	}

	trackCfg, err := trackConfig()
	if err != nil {
		return err
	}
	// The trace would scribble over the alt screen.
	trackCfg.Verbose = false

	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %w", err)
	}
	if cmd.Flags().Changed("speed") {
		cfg.Speed = watchSpeed
	}
	if cmd.Flags().Changed("loop") {
		cfg.Loop = watchLoop
	}

	s := voice.New(trackCfg)
	var opts []ui.Option
	if watchAudio {
		acfg, err := audio.LoadConfig()
		if err != nil {
			return err
		}
		player, err := device.New(acfg)
		if err != nil {
			return err
		}
		defer func() { _ = player.Close() }()
		opts = append(opts, ui.WithAudio(player, renderCached(s.Samples(), acfg), acfg.SampleRate))
	}

	if _, err := ui.NewProgram(cfg, s, opts...).Run(); err != nil {
		return fmt.Errorf("error during program run: %w", err)
	}
	return nil
}

func init() {
	watchCmd.Flags().Float64Var(&watchSpeed, "speed", 1, "playback speed multiplier")
	watchCmd.Flags().BoolVar(&watchLoop, "loop", false, "restart the track when it ends")
	watchCmd.Flags().BoolVarP(&watchAudio, "audio", "a", false, "play the track while watching (--speed is ignored)")
}
