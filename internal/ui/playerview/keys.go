package playerview

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/llehouerou/demoplayer/internal/adapter"
	"github.com/llehouerou/demoplayer/internal/keymap"
	"github.com/llehouerou/demoplayer/internal/state"
)

// handleKey dispatches a key press. Any key brings the controls back.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	show := m.showControls()

	action := m.keys.Resolve(msg.String())
	if action != keymap.ActionScrubBack &&
		action != keymap.ActionScrubForward &&
		action != "" {
		m.endScrub()
	}

	switch action {
	case keymap.ActionQuit:
		m.quitting = true
		m.player.RequestDismiss(false)
	case keymap.ActionHelp:
		m.showHelp = !m.showHelp
	case keymap.ActionPlayPause:
		m.togglePlayback()
	case keymap.ActionSkipBack:
		m.player.SkipBy(-m.cfg.SkipInterval.Seconds())
	case keymap.ActionSkipForward:
		m.player.SkipBy(m.cfg.SkipInterval.Seconds())
	case keymap.ActionScrubBack:
		m.scrub(-m.cfg.ScrubStep.Seconds())
	case keymap.ActionScrubForward:
		m.scrub(m.cfg.ScrubStep.Seconds())
	case keymap.ActionCommitSeek:
		// endScrub already ran
	case keymap.ActionRetry:
		m.retry()
	case keymap.ActionToggleSuspend:
		m.toggleSuspend()
	case keymap.ActionVolumeUp:
		m.stepVolume(volumeStep)
	case keymap.ActionVolumeDown:
		m.stepVolume(-volumeStep)
	case keymap.ActionCycleAudio:
		m.cycleAudio()
	case keymap.ActionCycleSubtitle:
		m.cycleSubtitle()
	case keymap.ActionClearSubtitle:
		m.selectSubtitle(nil)
	}
	return show
}

// togglePlayback restarts a finished stream from the beginning, otherwise
// it flips between running and paused.
func (m *Model) togglePlayback() {
	switch m.player.State() {
	case adapter.StateUndefined:
		return
	case adapter.StateFinished:
		m.ended = false
		m.player.Seek(0, false)
		return
	default:
		m.player.Toggle()
	}
}

// scrub moves the pending scrub target and sends it to the adapter as a
// continuous seek, at most ScrubRate times per second.
func (m *Model) scrub(delta float64) {
	if m.player.State() == adapter.StateUndefined {
		return
	}
	if !m.scrubbing {
		m.scrubbing = true
		m.scrubTarget = m.player.PositionSeconds()
	}
	m.scrubTarget = min(max(m.scrubTarget+delta, 0), m.player.DurationSeconds())

	if !m.scrubLimiter.Allow() {
		m.scrubPending = true
		return
	}
	m.scrubPending = false
	m.player.Seek(m.scrubTarget, true)
}

// endScrub sends the last target, if it was throttled, and commits the
// gesture.
func (m *Model) endScrub() {
	if !m.scrubbing {
		return
	}
	if m.scrubPending {
		m.player.Seek(m.scrubTarget, true)
	}
	m.player.CommitSeek()
	m.scrubbing = false
	m.scrubPending = false
}

// retry reloads the stream and resumes where it stopped.
func (m *Model) retry() {
	if m.lastErr == nil && m.player.State() != adapter.StateFailed {
		return
	}
	if m.position > 0 {
		m.cfg.StartAt = m.position
	}
	m.load()
}

// toggleSuspend emulates the app going to the background and back.
func (m *Model) toggleSuspend() {
	if m.player.IsSuspendedByPolicy() {
		m.player.SetSuspendedByPolicy(false)
		if m.player.Intent() == adapter.IntentSuspended {
			m.player.Resume()
		}
		return
	}
	m.player.SetSuspendedByPolicy(true)
	if m.player.Intent() == adapter.IntentRunning {
		m.player.Suspend()
	}
}

func (m *Model) stepVolume(delta float64) {
	if m.volume == nil {
		return
	}
	m.volume.SetVolume(m.volume.Volume() + delta)
}

// cycleAudio selects the next audio option and makes its language sticky.
func (m *Model) cycleAudio() {
	opts := m.player.AudioOptions()
	if len(opts) < 2 {
		return
	}
	next := opts[0]
	if cur, ok := m.player.CurrentAudioOption(); ok {
		i := slices.IndexFunc(opts, cur.Equal)
		next = opts[(i+1)%len(opts)]
	}
	m.player.SetCurrentAudioOption(&next)
	m.player.SetPreselectedAudioLanguage(optionLanguage(next))
	m.saveLanguages()
}

// cycleSubtitle walks the subtitle options, with "off" after the last one.
func (m *Model) cycleSubtitle() {
	opts := m.player.SubtitleOptions()
	if len(opts) == 0 {
		return
	}
	cur, ok := m.player.CurrentSubtitleOption()
	if !ok {
		m.selectSubtitle(&opts[0])
		return
	}
	i := slices.IndexFunc(opts, cur.Equal)
	if i < 0 || i+1 >= len(opts) {
		m.selectSubtitle(nil)
		return
	}
	m.selectSubtitle(&opts[i+1])
}

func (m *Model) selectSubtitle(opt *adapter.MediaOption) {
	m.player.SetCurrentSubtitleOption(opt)
	lang := ""
	if opt != nil {
		lang = optionLanguage(*opt)
	}
	m.player.SetPreselectedSubtitleLanguage(lang)
	m.saveLanguages()
}

func (m *Model) saveLanguages() {
	if m.store == nil {
		return
	}
	m.store.SaveLanguages(state.Languages{
		Audio:    m.player.PreselectedAudioLanguage(),
		Subtitle: m.player.PreselectedSubtitleLanguage(),
	})
	m.logger.Debug("languages saved",
		zap.String("audio", m.player.PreselectedAudioLanguage()),
		zap.String("subtitle", m.player.PreselectedSubtitleLanguage()))
}

// optionLanguage is the language remembered for opt.
func optionLanguage(opt adapter.MediaOption) string {
	if opt.LanguageCode != "" {
		return opt.LanguageCode
	}
	return opt.Identifier
}
