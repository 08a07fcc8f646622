// Package reminders notifies the user once about each reminder whose time
// has come.
package reminders

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"quill/internal/schedule"
	"quill/internal/service"
	"quill/internal/storage"
)

// DefaultInterval is how often Run checks for due reminders.
const DefaultInterval = 30 * time.Second

// Source lists the reminders to watch.
type Source interface {
	ListReminders(ctx context.Context) ([]service.Reminder, error)
}

// Notifier shows a reminder to the user.
type Notifier interface {
	Notify(r service.Reminder)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(r service.Reminder)

// Notify implements Notifier.
func (f NotifierFunc) Notify(r service.Reminder) { f(r) }

// Poller fires due reminders. Fired note ids are persisted so a reminder is
// shown at most once per profile, across runs.
type Poller struct {
	source Source
	notify Notifier
	fired  *storage.Slot[[]string]
	log    *zap.Logger
	now    func() time.Time
}

// NewPoller returns a Poller that remembers fired reminders in kv.
func NewPoller(source Source, notify Notifier, kv storage.Store, log *zap.Logger) *Poller {
	return &Poller{
		source: source,
		notify: notify,
		fired:  storage.NewSlot[[]string](kv, storage.KeyTriggeredReminders),
		log:    log,
		now:    time.Now,
	}
}

// Check fires every due reminder not fired before and returns how many fired.
func (p *Poller) Check(ctx context.Context) (int, error) {
	list, err := p.source.ListReminders(ctx)
	if err != nil {
		return 0, err
	}

	fired, _, err := p.fired.Load()
	if err != nil {
		p.log.Warn("failed to load fired reminders", zap.Error(err))
		fired = nil
	}

	now := p.now()
	count := 0
	for _, r := range list {
		if r.At.IsZero() || slices.Contains(fired, r.NoteID) {
			continue
		}
		if now.Before(r.At) {
			continue
		}

		p.notify.Notify(r)
		count++

		fired = append(fired, r.NoteID)
		if err := p.fired.Save(fired); err != nil {
			return count, err
		}
	}
	return count, nil
}

// Run checks immediately and then every interval until ctx is cancelled or
// the handle is stopped. Check failures are logged and retried next tick.
func (p *Poller) Run(ctx context.Context, interval time.Duration) *schedule.Handle {
	return schedule.Every(ctx, interval, func(ctx context.Context) {
		n, err := p.Check(ctx)
		if err != nil {
			p.log.Warn("reminder check failed", zap.Error(err))
			return
		}
		if n > 0 {
			p.log.Debug("reminders fired", zap.Int("count", n))
		}
	}, schedule.Immediately())
}
