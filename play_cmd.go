package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/voicegen/internal/audio"
	"github.com/dgnsrekt/voicegen/internal/audio/device"
	"github.com/dgnsrekt/voicegen/internal/cache"
	"github.com/dgnsrekt/voicegen/internal/export"
	"github.com/dgnsrekt/voicegen/voice"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	playInput   string
	playNoCache bool

	playCmd = &cobra.Command{
		Use:   "play",
		Short: "Listen to a pitch track",
		Long: paragraph(fmt.Sprintf("\n%s a track through the audio device: talking ticks become tones at the sampled pitch, "+
			"silent ticks a faint hiss. Audio settings come from VOICEGEN_AUDIO_* variables.", keyword("Play"))),
		Example: paragraph("voicegen play -c female -d 100\nVOICEGEN_AUDIO_VOLUME=0.2 voicegen play --input take.csv"),
		Args:    cobra.NoArgs,
		RunE:    runPlay,
	}
)

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := trackConfig()
	if err != nil {
		return err
	}
	acfg, err := audio.LoadConfig()
	if err != nil {
		return err
	}

	var samples []voice.Sample
	if playInput != "" {
		if samples, err = export.ReadFile(expandPath(playInput)); err != nil {
			return err
		}
	} else {
		samples = voice.New(cfg, voice.WithTraceWriter(cmd.OutOrStdout())).Samples()
	}
	if len(samples) == 0 {
		return audio.ErrEmptyTrack
	}

	pcm := renderCached(samples, acfg)
	length := audio.Duration(len(pcm), acfg.SampleRate)
	log.Debug("Rendered track", "ticks", len(samples), "bytes", len(pcm), "length", length)

	player, err := device.New(acfg)
	if err != nil {
		return err
	}
	defer func() { _ = player.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Playing %s of audio %s\n", keyword(length.String()), faint("(ctrl+c to stop)"))
	if err := audio.PlayTrack(ctx, player, pcm); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// renderCached renders samples, reusing audio cached by an earlier run.
// Cache failures only cost a fresh render.
func renderCached(samples []voice.Sample, acfg audio.Config) []byte {
	if playNoCache {
		return audio.Render(samples, acfg)
	}
	dir, err := audioCacheDir()
	if err != nil {
		return audio.Render(samples, acfg)
	}
	dc, err := cache.Open(dir, viper.GetInt64("cache_size"))
	if err != nil {
		log.Debug("Audio cache unavailable", "err", err)
		return audio.Render(samples, acfg)
	}
	defer func() { _ = dc.Close() }()

	key := cache.Key(samples, acfg)
	if pcm, ok := dc.Get(key); ok {
		log.Debug("Audio cache hit", "key", key[:12])
		return pcm
	}
	pcm := audio.Render(samples, acfg)
	if err := dc.Put(key, pcm); err != nil {
		log.Debug("Unable to cache audio", "err", err)
	}
	st := dc.Stats()
	log.Debug("Audio cache", "items", st.Items, "size", humanize.Bytes(uint64(st.Size)), "evictions", st.Evictions) //nolint:gosec
	return pcm
}

func init() {
	playCmd.Flags().StringVarP(&playInput, "input", "i", "", "play a track file instead of generating one")
	playCmd.Flags().BoolVar(&playNoCache, "no-cache", false, "always render audio instead of reusing cached audio")
}
