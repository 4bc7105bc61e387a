package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/demoplayer/internal/adapter"
	"github.com/llehouerou/demoplayer/internal/dispatch"
	"github.com/llehouerou/demoplayer/internal/errmsg"
	"github.com/llehouerou/demoplayer/internal/logging"
	"github.com/llehouerou/demoplayer/internal/player"
)

const defaultProbeTimeout = 10 * time.Second

var errProbeTimeout = errors.New("stream did not become ready in time")

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().DurationVar(&opts.probeTimeout, "timeout", defaultProbeTimeout, "Give up after this long")
}

var probeCmd = &cobra.Command{
	Use:   "probe <path>",
	Short: "Load a stream without playing it and print its tracks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := logging.New(cfg.LogLevel(), cfg.Log.File)
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpLogOpen, err))
		}
		defer func() { _ = logger.Sync() }()

		ctx, cancel := context.WithTimeout(cmd.Context(), opts.probeTimeout)
		defer cancel()

		res, err := probe(ctx, args[0], cfg.Playback.AudioLanguage, cfg.Playback.SubtitleLanguage, logger)
		if err != nil {
			return errors.New(errmsg.FormatWith(errmsg.OpStreamProbe, args[0], err))
		}
		printProbe(cmd.OutOrStdout(), res)
		return nil
	},
}

// probeResult is what a probe learned about a stream.
type probeResult struct {
	Path      string
	Duration  float64
	Audio     []adapter.MediaOption
	Subtitles []adapter.MediaOption
	// Selected options, nil when none.
	CurrentAudio    *adapter.MediaOption
	CurrentSubtitle *adapter.MediaOption
}

// readyObserver closes the queue once the load settles.
type readyObserver struct {
	adapter.NopObserver
	queue *dispatch.Queue
	state adapter.State
	err   error
}

func (o *readyObserver) OnStateChanged(_, to adapter.State) {
	switch to {
	case adapter.StateReadyToPlay, adapter.StateFailed:
		o.state = to
		o.queue.Close()
	default:
	}
}

func (o *readyObserver) OnError(err error) { o.err = err }

// probe loads path through the adapter on a private queue, without audio
// output, and reports the derived tracks.
func probe(ctx context.Context, path, audioLang, subtitleLang string, logger *zap.Logger) (*probeResult, error) {
	q := dispatch.NewQueue()
	post := func(fn func()) { q.Post(fn) }

	eng := player.New(post, player.WithoutOutput(), player.WithLogger(logger.Named("player")))
	defer eng.Close()

	obs := &readyObserver{queue: q}
	p := adapter.New(eng, dispatch.NewScheduler(post),
		adapter.WithLogger(logger.Named("adapter")),
		adapter.WithPreselectedLanguages(audioLang, subtitleLang))
	defer p.Close()
	p.SetObserver(obs)
	p.SetSuspendedByPolicy(true)

	var loadErr error
	q.Post(func() {
		if loadErr = p.Load(path); loadErr != nil {
			q.Close()
		}
	})

	err := q.Run(ctx)
	q.Close()
	switch {
	case loadErr != nil:
		return nil, loadErr
	case errors.Is(err, context.DeadlineExceeded):
		return nil, errProbeTimeout
	case err != nil:
		return nil, err
	case obs.state == adapter.StateFailed:
		return nil, obs.err
	}

	res := &probeResult{
		Path:      path,
		Duration:  p.DurationSeconds(),
		Audio:     p.AudioOptions(),
		Subtitles: p.SubtitleOptions(),
	}
	if opt, ok := p.CurrentAudioOption(); ok {
		res.CurrentAudio = &opt
	}
	if opt, ok := p.CurrentSubtitleOption(); ok {
		res.CurrentSubtitle = &opt
	}
	return res, nil
}

func printProbe(w io.Writer, res *probeResult) {
	dur := time.Duration(res.Duration * float64(time.Second)).Round(time.Millisecond)
	_, _ = fmt.Fprintf(w, "%-10s %s\n", "path", res.Path)
	_, _ = fmt.Fprintf(w, "%-10s %s\n", "duration", dur)
	_, _ = fmt.Fprintf(w, "%-10s %s\n", "audio", optionList(res.Audio, res.CurrentAudio))
	_, _ = fmt.Fprintf(w, "%-10s %s\n", "subtitles", optionList(res.Subtitles, res.CurrentSubtitle))
}

// optionList renders options with the selected one starred.
func optionList(options []adapter.MediaOption, current *adapter.MediaOption) string {
	if len(options) == 0 {
		return "none"
	}
	return strings.Join(lo.Map(options, func(o adapter.MediaOption, _ int) string {
		if current != nil && o.Equal(*current) {
			return o.String() + " *"
		}
		return o.String()
	}), ", ")
}
