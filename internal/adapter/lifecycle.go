package adapter

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Load replaces the current item with the resource at path and starts
// playback. Bare filesystem paths are accepted and turned into file URLs.
//
// Address errors are returned immediately and leave the adapter untouched.
// Everything else is reported later through the observer.
func (a *Adapter) Load(path string) error {
	u, err := parseStreamURL(path)
	if err != nil {
		return err
	}
	item, err := a.engine.NewItem(u)
	if err != nil {
		return fmt.Errorf("creating item for %q: %w", path, err)
	}

	a.setState(StateLoading)
	a.optionsApplied = false
	a.continuousSeek = false
	a.clearOptions()

	a.detach()
	a.item = item
	a.cancelItem = item.Observe(a.handleSignal)
	a.engine.ReplaceCurrentItem(item)
	a.path = path

	a.logger.Info("loading stream",
		zap.String("path", path),
		zap.Stringer("item", item.ID()))

	a.Resume()
	return nil
}

// Stop detaches the current item and returns to StateUndefined. The adapter
// can load again afterwards.
func (a *Adapter) Stop() {
	a.setState(StateUndefined)
	a.clearOptions()
	a.optionsApplied = false
	a.continuousSeek = false
	a.stopPolling()

	// Unsubscribe before the engine lets go of the item.
	a.detach()
	a.engine.ReplaceCurrentItem(nil)
	a.path = ""
}

// RequestDismiss stops playback and asks the host to close the player.
func (a *Adapter) RequestDismiss(animated bool) {
	a.Stop()
	a.observer.OnRequestedDismiss(animated)
}

func (a *Adapter) detach() {
	if a.cancelItem != nil {
		a.cancelItem()
		a.cancelItem = nil
	}
	a.item = nil
}

// parseStreamURL turns path into an address the engine can open.
func parseStreamURL(path string) (*url.URL, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrNoStreamURL)
	}
	if !strings.Contains(path, "://") {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrNoStreamURL, path, err)
		}
		return &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}, nil
	}
	u, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrNoStreamURL, path, err)
	}
	if u.Scheme == "" || (u.Host == "" && u.Path == "" && u.Opaque == "") {
		return nil, fmt.Errorf("%w: %q", ErrNoStreamURL, path)
	}
	return u, nil
}
