// Package main provides the entry point for the voicegen CLI application.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/voicegen/internal/cache"
	"github.com/dgnsrekt/voicegen/voice"
	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "voicegen",
		Short: "Synthesize voice pitch tracks",
		Long: paragraph(
			fmt.Sprintf("\nSynthesize %s: talking and silent segments sampled every tenth of a second.", keyword("voice pitch tracks")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("config") {
				viper.SetConfigFile(expandPath(configFile))
				if err := viper.ReadInConfig(); err != nil {
					return fmt.Errorf("unable to read config file: %w", err)
				}
			}
			return setupLog(debug)
		},
	}
)

// trackConfig builds the synthesizer configuration from flags, environment
// and the config file.
func trackConfig() (voice.Config, error) {
	cfg := voice.Config{
		Duration:    viper.GetInt("duration"),
		Category:    resolveCategory(viper.GetString("category")),
		Noise:       viper.GetFloat64("noise"),
		TunePitch:   viper.GetFloat64("tune_pitch"),
		TunePitchSD: viper.GetFloat64("tune_pitch_sd"),
		Verbose:     viper.GetBool("verbose"),
		Seed:        viper.GetUint64("seed"),
	}
	if err := cfg.Validate(); err != nil {
		return voice.Config{}, err
	}
	return cfg, nil
}

// resolveCategory parses a category name. Unknown names fall back to the
// default the synthesizer uses and are reported with the closest match.
func resolveCategory(name string) voice.Category {
	c, ok := voice.ParseCategory(name)
	if ok {
		return c
	}

	if matches := fuzzy.Find(strings.ToLower(name), voice.CategoryNames()); len(matches) > 0 {
		log.Warn("Unknown category", "category", name, "using", c, "did you mean", matches[0].Str)
	} else {
		log.Warn("Unknown category", "category", name, "using", c)
	}
	return c
}

// categoryChoices lists the canonical category names for flag help.
func categoryChoices() string {
	var names []string
	for _, c := range voice.Categories() {
		names = append(names, c.String())
	}
	return strings.Join(names, " or ")
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	p, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return p
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_ = closeLog()
		os.Exit(1)
	}
	_ = closeLog()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	def := voice.DefaultConfig()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	flags.BoolVar(&debug, "debug", false, "write debug logs to the log file")
	flags.IntP("duration", "d", def.Duration, "track length in ticks of 1/10 second")
	flags.StringP("category", "c", def.Category.String(), "speaker category ("+categoryChoices()+")")
	flags.Float64P("noise", "n", def.Noise, "background noise amplitude")
	flags.Float64("tune-pitch", def.TunePitch, "offset added to the category pitch mean")
	flags.Float64("tune-pitch-sd", def.TunePitchSD, "offset added to the category pitch standard deviation")
	flags.BoolP("verbose", "v", def.Verbose, "print one line per talking or silent segment")
	flags.Uint64("seed", def.Seed, "random seed (0 picks one at random)")

	// Config bindings
	_ = viper.BindPFlag("duration", flags.Lookup("duration"))
	_ = viper.BindPFlag("category", flags.Lookup("category"))
	_ = viper.BindPFlag("noise", flags.Lookup("noise"))
	_ = viper.BindPFlag("tune_pitch", flags.Lookup("tune-pitch"))
	_ = viper.BindPFlag("tune_pitch_sd", flags.Lookup("tune-pitch-sd"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("seed", flags.Lookup("seed"))

	viper.SetDefault("duration", def.Duration)
	viper.SetDefault("category", def.Category.String())
	viper.SetDefault("noise", def.Noise)
	viper.SetDefault("tune_pitch", def.TunePitch)
	viper.SetDefault("tune_pitch_sd", def.TunePitchSD)
	viper.SetDefault("verbose", def.Verbose)
	viper.SetDefault("seed", def.Seed)
	viper.SetDefault("format", "csv")
	viper.SetDefault("style", "auto")
	viper.SetDefault("cache_size", cache.DefaultCapacity)

	rootCmd.AddCommand(generateCmd, plotCmd, reportCmd, playCmd, watchCmd, batchCmd, configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "voicegen")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "voicegen")}, dirs...)
	}

	if c := os.Getenv("VOICEGEN_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("voicegen")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("voicegen")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
		return
	}

	configFile = filepath.Join(dirs[0], "voicegen.yml")
}
