// Package cli implements the demoplayer command line.
package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/llehouerou/demoplayer/internal/config"
	"github.com/llehouerou/demoplayer/internal/errmsg"
)

// options holds the flag values shared by the commands.
type options struct {
	configPath       string
	audioLanguage    string
	subtitleLanguage string
	logLevel         string
	iconStyle        string
	metricsAddr      string
	noMPRIS          bool
	notify           bool
	suspended        bool
	dismissOnEnd     bool
	startAt          time.Duration
	probeTimeout     time.Duration
}

var opts options

var errNoStream = errors.New("no stream given and none remembered")

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Read configuration from this file only")
	pf.StringVarP(&opts.audioLanguage, "audio-lang", "a", "", "Preferred audio language, e.g. en")
	pf.StringVarP(&opts.subtitleLanguage, "subtitle-lang", "s", "", "Preferred subtitle language; empty keeps subtitles off")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&opts.iconStyle, "icons", "", "Icon set: nerd, unicode or none")

	f := rootCmd.Flags()
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	f.BoolVar(&opts.noMPRIS, "no-mpris", false, "Do not register desktop media controls")
	f.BoolVar(&opts.notify, "notify", false, "Show desktop notifications on failures and finished streams")
	f.BoolVar(&opts.suspended, "suspended", false, "Start with playback suspended")
	f.BoolVar(&opts.dismissOnEnd, "dismiss-on-end", false, "Quit when the stream ends")
	f.DurationVar(&opts.startAt, "start", 0, "Start position, e.g. 1m30s (default: resume where the stream stopped)")

	lo.Must0(rootCmd.RegisterFlagCompletionFunc("log-level", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"nerd", "unicode", "none"}, cobra.ShellCompDirectiveNoFileComp
	}))
}

var rootCmd = &cobra.Command{
	Use:          "demoplayer [path]",
	Short:        "Play a local media file or stream in the terminal",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		var path string
		if len(args) > 0 {
			path = args[0]
		}
		return runPlayer(cmd.Context(), cfg, path)
	},
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies the flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}
	applyFlags(cmd, cfg)
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("audio-lang") {
		cfg.Playback.AudioLanguage = opts.audioLanguage
	}
	if changed("subtitle-lang") {
		cfg.Playback.SubtitleLanguage = opts.subtitleLanguage
	}
	if changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if changed("icons") {
		cfg.Icons = opts.iconStyle
	}
	if changed("metrics-addr") {
		cfg.Metrics.Addr = opts.metricsAddr
	}
	if changed("no-mpris") {
		cfg.MPRIS.Enabled = lo.ToPtr(!opts.noMPRIS)
	}
	if changed("notify") {
		cfg.Notify.Enabled = opts.notify
	}
	if changed("suspended") {
		cfg.Playback.Suspended = opts.suspended
	}
	if changed("dismiss-on-end") {
		cfg.Playback.DismissOnEnd = opts.dismissOnEnd
	}
}
