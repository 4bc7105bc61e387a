// Package notify reports playback outcomes as desktop notifications.
package notify

import (
	"fmt"
	"path/filepath"
	"sync"
)

const appName = "demoplayer"

// Urgency represents notification priority levels per freedesktop spec.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // summary, required
	Body       string  // supports basic markup
	Icon       string  // image path or icon name
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification
	Urgency    Urgency // Low, Normal, Critical
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID. Returns 0 and nil
	// error if notifications are unavailable.
	Notify(n Notification) (uint32, error)
	// Close closes a notification by ID.
	Close(id uint32) error
}

const (
	failedTimeout   = -1
	finishedTimeout = 5000
)

// Reporter turns playback outcomes into notifications. Only one is shown at
// a time: each new notification replaces the previous one. Methods may
// block on the session bus and are safe for concurrent use.
type Reporter struct {
	notifier Notifier

	mu     sync.Mutex
	lastID uint32
}

// NewReporter creates a reporter sending through n.
func NewReporter(n Notifier) *Reporter {
	return &Reporter{notifier: n}
}

// Failed reports that the stream at path stopped with err.
func (r *Reporter) Failed(path string, err error) error {
	return r.send(Notification{
		Title:   "Playback failed",
		Body:    fmt.Sprintf("%s: %v", displayName(path), err),
		Icon:    "dialog-error",
		Timeout: failedTimeout,
		Urgency: UrgencyCritical,
	})
}

// Finished reports that title played to its end. icon may be empty.
func (r *Reporter) Finished(title, icon string) error {
	if icon == "" {
		icon = "media-playback-stop"
	}
	return r.send(Notification{
		Title:   "Finished",
		Body:    title,
		Icon:    icon,
		Timeout: finishedTimeout,
		Urgency: UrgencyLow,
	})
}

// Dismiss closes the notification currently shown, if any.
func (r *Reporter) Dismiss() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastID == 0 {
		return nil
	}
	id := r.lastID
	r.lastID = 0
	return r.notifier.Close(id)
}

func (r *Reporter) send(n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ReplacesID = r.lastID
	id, err := r.notifier.Notify(n)
	if err != nil {
		return err
	}
	r.lastID = id
	return nil
}

func displayName(path string) string {
	if path == "" {
		return "stream"
	}
	return filepath.Base(path)
}
