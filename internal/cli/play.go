package cli

import (
	"context"
	"errors"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/llehouerou/demoplayer/internal/adapter"
	"github.com/llehouerou/demoplayer/internal/config"
	"github.com/llehouerou/demoplayer/internal/dispatch"
	"github.com/llehouerou/demoplayer/internal/errmsg"
	"github.com/llehouerou/demoplayer/internal/icons"
	"github.com/llehouerou/demoplayer/internal/logging"
	"github.com/llehouerou/demoplayer/internal/metrics"
	"github.com/llehouerou/demoplayer/internal/mpris"
	"github.com/llehouerou/demoplayer/internal/notify"
	"github.com/llehouerou/demoplayer/internal/player"
	"github.com/llehouerou/demoplayer/internal/state"
	"github.com/llehouerou/demoplayer/internal/stderr"
	"github.com/llehouerou/demoplayer/internal/ui/playerview"
)

// recentLimit bounds the history searched for a resume position.
const recentLimit = 20

func runPlayer(ctx context.Context, cfg *config.Config, path string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger, err := logging.New(cfg.LogLevel(), cfg.Log.File)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpLogOpen, err))
	}
	defer func() { _ = logger.Sync() }()

	icons.Init(cfg.IconStyle())

	// The audio backend writes to fd 2 behind the UI's back.
	if err := stderr.Start(func(line string) {
		logger.Warn("stderr", zap.String("line", line))
	}); err != nil {
		logger.Warn("capturing stderr", zap.Error(err))
	}
	defer stderr.Stop()

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	if path == "" {
		path = lastStream(store, logger)
		if path == "" {
			return errNoStream
		}
	}

	audio, subtitle := preferredLanguages(cfg, store, logger)
	startAt := resumePosition(store, path, logger)
	if rootCmd.Flags().Changed("start") {
		startAt = opts.startAt.Seconds()
	}

	// prog is set before Run, and nothing posts before Run starts the
	// first load.
	var prog *tea.Program
	post := playerview.Poster(func(msg tea.Msg) { prog.Send(msg) })

	events := adapter.NewEventQueue()
	var observer adapter.Observer = events
	if cfg.HasMetrics() {
		reg := prometheus.NewRegistry()
		observer = metrics.NewObserver(reg, events)
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, reg, logger); err != nil {
				logger.Warn(errmsg.Format(errmsg.OpMetricsServe, err))
			}
		}()
	}

	eng := player.New(post, player.WithLogger(logger.Named("player")))
	p := adapter.New(eng, dispatch.NewScheduler(post),
		adapter.WithLogger(logger.Named("adapter")),
		adapter.WithPollInterval(cfg.PollInterval()),
		adapter.WithPreselectedLanguages(audio, subtitle))
	p.SetObserver(observer)
	p.SetSuspendedByPolicy(cfg.Playback.Suspended)

	viewOpts := []playerview.Option{
		playerview.WithVolume(eng),
		playerview.WithLogger(logger.Named("ui")),
	}
	if store != nil {
		viewOpts = append(viewOpts, playerview.WithStore(store))
	}
	if cfg.Notify.Enabled {
		if n, err := notify.New(); err == nil {
			viewOpts = append(viewOpts, playerview.WithNotifier(notify.NewReporter(n)))
		}
	}
	model := playerview.New(p, events, playerview.Config{
		Path:            path,
		SkipInterval:    cfg.SkipInterval(),
		ScrubRate:       cfg.ScrubRate(),
		ControlsTimeout: cfg.ControlsTimeout(),
		DismissOnEnd:    cfg.Playback.DismissOnEnd,
		StartAt:         startAt,
	}, viewOpts...)

	prog = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if cfg.MPRISEnabled() {
		srv := startMPRIS(ctx, prog, p, eng, logger)
		if srv != nil {
			defer srv.Close()
		}
	}

	_, runErr := prog.Run()
	cancel()

	// The event loop is gone; this goroutine owns the adapter now.
	p.Close()
	eng.Close()

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return errors.New(errmsg.Format(errmsg.OpStreamPlay, runErr))
	}
	if err := model.Err(); err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpStreamPlay, path, err))
	}
	return nil
}

// startMPRIS exposes the adapter on the session bus. Handlers run on D-Bus
// goroutines and hop onto the event loop to touch the adapter.
func startMPRIS(
	ctx context.Context,
	prog *tea.Program,
	p *adapter.Adapter,
	eng *player.Engine,
	logger *zap.Logger,
) *mpris.Server {
	post := func(fn func()) bool {
		prog.Send(playerview.TaskMsg(fn))
		return ctx.Err() == nil
	}
	ctrl := mpris.ControllerFunc(func(fn func()) error {
		return dispatch.Invoke(ctx, post, fn)
	})
	srv, err := mpris.New(mpris.NewBridge(ctrl, p, eng), logger.Named("mpris"))
	if err != nil {
		logger.Warn(errmsg.Format(errmsg.OpMPRISStart, err))
		return nil
	}
	return srv
}

// openStore opens the state database. Playback works without it.
func openStore(cfg *config.Config, logger *zap.Logger) state.Interface {
	m, err := state.Open(cfg.State.DBPath)
	if err != nil {
		logger.Warn(errmsg.Format(errmsg.OpStateOpen, err))
		return nil
	}
	return m
}

func lastStream(store state.Interface, logger *zap.Logger) string {
	if store == nil {
		return ""
	}
	last, err := store.GetLastStream()
	if err != nil {
		logger.Warn("reading last stream", zap.Error(err))
		return ""
	}
	if last == nil {
		return ""
	}
	if _, err := os.Stat(last.Path); err != nil && !isRemote(last.Path) {
		logger.Info("last stream is gone", zap.String("path", last.Path))
		return ""
	}
	return last.Path
}

// preferredLanguages returns the stored language preferences, overridden by
// the configured ones when set.
func preferredLanguages(cfg *config.Config, store state.Interface, logger *zap.Logger) (audio, subtitle string) {
	if store != nil {
		langs, err := store.GetLanguages()
		if err != nil {
			logger.Warn(errmsg.Format(errmsg.OpPreferencesLoad, err))
		} else if langs != nil {
			audio, subtitle = langs.Audio, langs.Subtitle
		}
	}
	if cfg.Playback.AudioLanguage != "" {
		audio = cfg.Playback.AudioLanguage
	}
	if cfg.Playback.SubtitleLanguage != "" {
		subtitle = cfg.Playback.SubtitleLanguage
	}
	return audio, subtitle
}

// resumePosition returns where path stopped last time, or 0.
func resumePosition(store state.Interface, path string, logger *zap.Logger) float64 {
	if store == nil {
		return 0
	}
	recent, err := store.RecentStreams(recentLimit)
	if err != nil {
		logger.Warn("reading recent streams", zap.Error(err))
		return 0
	}
	s, ok := lo.Find(recent, func(s state.StreamState) bool { return s.Path == path })
	if !ok {
		return 0
	}
	return s.Position
}

func isRemote(path string) bool {
	return strings.Contains(path, "://")
}
