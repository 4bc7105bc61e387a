package playerview

import (
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/llehouerou/demoplayer/internal/adapter"
	"github.com/llehouerou/demoplayer/internal/errmsg"
	"github.com/llehouerou/demoplayer/internal/mpris"
	"github.com/llehouerou/demoplayer/internal/state"
)

// processEvents drains the adapter's events. Handling an event may produce
// more, so it loops until the queue is empty.
func (m *Model) processEvents() tea.Cmd {
	var cmds []tea.Cmd
	for m.events.Len() > 0 {
		for _, ev := range m.events.Drain() {
			if cmd := m.handleEvent(ev); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleEvent(ev adapter.Event) tea.Cmd {
	switch ev := ev.(type) {
	case adapter.StateChange:
		if ev.Current == adapter.StateReadyToPlay {
			m.applyStartAt()
		}
	case adapter.ErrorEvent:
		m.lastErr = ev.Err
		return tea.Batch(m.showControls(), m.notifyFailed(ev.Err))
	case adapter.ReachedEnd:
		m.ended = true
		cmd := m.notifyFinished()
		if m.cfg.DismissOnEnd {
			m.player.RequestDismiss(true)
		}
		return tea.Batch(m.showControls(), cmd)
	case adapter.PositionChange:
		m.position = ev.Seconds
	case adapter.DismissRequest:
		m.saveStream()
		m.quitting = true
		return tea.Quit
	}
	return nil
}

// applyStartAt seeks to the resume position the first time the stream is
// ready. Positions near the end start over.
func (m *Model) applyStartAt() {
	if m.startApplied {
		return
	}
	m.startApplied = true
	at := m.cfg.StartAt
	if at <= 0 || at >= m.player.DurationSeconds()-resumeMargin {
		return
	}
	m.logger.Debug("resuming", zap.Float64("seconds", at))
	m.player.Seek(at, false)
}

// saveStream records where playback stopped. A finished stream restarts
// from the beginning next time.
func (m *Model) saveStream() {
	if m.store == nil || m.cfg.Path == "" {
		return
	}
	pos := m.position
	if m.ended {
		pos = 0
	}
	err := m.store.SaveStream(state.StreamState{
		Path:     m.cfg.Path,
		Position: pos,
		OpenedAt: time.Now(),
	})
	if err != nil {
		m.logger.Warn(errmsg.FormatWith(errmsg.OpLastStreamSave, m.cfg.Path, err))
	}
}

// notifyFailed sends the failure notification off the event loop, since
// the session bus call may block.
func (m *Model) notifyFailed(err error) tea.Cmd {
	if m.notifier == nil {
		return nil
	}
	r, path, logger := m.notifier, m.cfg.Path, m.logger
	return func() tea.Msg {
		if err := r.Failed(path, err); err != nil {
			logger.Debug("desktop notification", zap.Error(err))
		}
		return nil
	}
}

func (m *Model) notifyFinished() tea.Cmd {
	if m.notifier == nil {
		return nil
	}
	title := filepath.Base(m.cfg.Path)
	if m.info != nil && m.info.Title != "" {
		title = m.info.Title
	}
	r, path, logger := m.notifier, m.cfg.Path, m.logger
	return func() tea.Msg {
		if err := r.Finished(title, mpris.FindArt(path)); err != nil {
			logger.Debug("desktop notification", zap.Error(err))
		}
		return nil
	}
}
