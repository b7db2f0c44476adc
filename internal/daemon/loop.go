// Package daemon polls the headset battery and publishes it in the tray.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/looplab/fsm"

	"github.com/shelepuginivan/headset-tray/internal/battery"
	"github.com/shelepuginivan/headset-tray/internal/icon"
	"github.com/shelepuginivan/headset-tray/internal/log"
	"github.com/shelepuginivan/headset-tray/systray"
)

// PollInterval is the interval between two polls of the headset.
const PollInterval = 500 * time.Millisecond

// Loop states.
const (
	StateIdle    = "idle"
	StatePolling = "polling"
)

// Loop events.
const (
	// EventPoll starts querying the headset.
	EventPoll = "poll"
	// EventSettle finishes the query, successful or not.
	EventSettle = "settle"
)

// Source returns the current battery reading.
type Source interface {
	Battery(ctx context.Context) (battery.Reading, error)
}

// Publisher is notified when the published snapshot changes.
type Publisher interface {
	Refresh() error
}

// Snapshot is the state published in the tray. It is never modified after
// it is stored.
type Snapshot struct {
	Reading battery.Reading
	Icon    *systray.Icon
}

// Config configures [Loop].
type Config struct {
	// Source of battery readings. Required.
	Source Source

	// Renderer of icons, usually an [icon.Cache]. Required.
	Renderer icon.Renderer

	// Interval between polls. Defaults to [PollInterval].
	Interval time.Duration

	// Retries is the number of additional attempts of a failed poll.
	Retries int

	// RetryInterval is the initial delay between attempts of a failed poll.
	// Defaults to 100ms.
	RetryInterval time.Duration

	// Logger defaults to the package-level logger.
	Logger log.Logger
}

// Loop polls [Source] on a fixed interval and publishes changed readings.
type Loop struct {
	source        Source
	renderer      icon.Renderer
	interval      time.Duration
	retries       int
	retryInterval time.Duration
	logger        log.Logger

	fsm      *fsm.FSM
	snapshot atomic.Pointer[Snapshot]
}

// NewLoop returns a new [Loop].
func NewLoop(cfg Config) (*Loop, error) {
	if cfg.Source == nil {
		return nil, errors.New("daemon: source is required")
	}

	if cfg.Renderer == nil {
		return nil, errors.New("daemon: renderer is required")
	}

	if cfg.Retries < 0 {
		return nil, fmt.Errorf("daemon: negative retries %d", cfg.Retries)
	}

	if cfg.Interval <= 0 {
		cfg.Interval = PollInterval
	}

	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 100 * time.Millisecond
	}

	if cfg.Logger == nil {
		cfg.Logger = log.WithName("daemon")
	}

	l := &Loop{
		source:        cfg.Source,
		renderer:      cfg.Renderer,
		interval:      cfg.Interval,
		retries:       cfg.Retries,
		retryInterval: cfg.RetryInterval,
		logger:        cfg.Logger,
	}

	events := fsm.Events{
		{Name: EventPoll, Src: []string{StateIdle}, Dst: StatePolling},
		{Name: EventSettle, Src: []string{StatePolling}, Dst: StateIdle},
	}

	callbacks := fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			l.logger.Debug("Loop state changed", "from", e.Src, "to", e.Dst)
		},
	}

	l.fsm = fsm.NewFSM(StateIdle, events, callbacks)

	return l, nil
}

// State returns the current state of the loop.
func (l *Loop) State() string {
	return l.fsm.Current()
}

// Snapshot returns the published snapshot, or nil before [Loop.Init].
func (l *Loop) Snapshot() *Snapshot {
	return l.snapshot.Load()
}

// Init performs the first poll and stores the initial snapshot. If the
// headset cannot be queried, the initial reading is unavailable with level 0.
//
// Render errors are returned.
func (l *Loop) Init(ctx context.Context) error {
	reading, err := l.poll(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		l.logger.Warn("Failed to query headset, starting as unavailable", "error", err)
		reading = battery.Reading{Status: battery.Unavailable, Level: 0}
	}

	_, err = l.store(reading)
	return err
}

// Run polls the headset until ctx is cancelled and notifies pub whenever the
// published reading changes. Calls [Loop.Init] first if it has not been
// called yet.
//
// Run returns nil when ctx is cancelled and an error if an icon cannot be
// rendered.
func (l *Loop) Run(ctx context.Context, pub Publisher) error {
	if l.Snapshot() == nil {
		if err := l.Init(ctx); err != nil {
			return ignoreCanceled(ctx, err)
		}
	}

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Info("Polling headset", "interval", l.interval)

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Polling stopped")
			return nil
		case <-ticker.C:
			if err := l.Tick(ctx, pub); err != nil {
				return ignoreCanceled(ctx, err)
			}
		}
	}
}

// Tick polls the headset once. If the reading differs from the published
// one, the snapshot is replaced and pub is notified. If polling fails, the
// published snapshot is kept.
//
// Only render errors and cancellation of ctx are returned.
func (l *Loop) Tick(ctx context.Context, pub Publisher) error {
	if err := l.fsm.Event(ctx, EventPoll); err != nil {
		return fmt.Errorf("tick: %w", err)
	}

	reading, pollErr := l.poll(ctx)

	if err := l.fsm.Event(context.WithoutCancel(ctx), EventSettle); err != nil {
		return fmt.Errorf("tick: %w", err)
	}

	if pollErr != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		l.logger.Warn("Failed to query headset, keeping last known state", "error", pollErr)
		return nil
	}

	changed, err := l.store(reading)
	if err != nil || !changed {
		return err
	}

	l.logger.Debug("Battery reading changed", "reading", reading.String())

	if pub != nil {
		if err := pub.Refresh(); err != nil {
			l.logger.Warn("Failed to notify tray", "error", err)
		}
	}

	return nil
}

// poll queries the source, retrying failed attempts with exponential
// backoff.
func (l *Loop) poll(ctx context.Context) (battery.Reading, error) {
	var reading battery.Reading

	operation := func() error {
		r, err := l.source.Battery(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}

			return err
		}

		reading = r
		return nil
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = l.retryInterval
	exp.MaxInterval = l.interval

	b := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(l.retries)), ctx)

	notify := func(err error, next time.Duration) {
		l.logger.Debug("Retrying headset query", "error", err, "after", next)
	}

	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		return battery.Reading{}, err
	}

	return reading, nil
}

// store renders the reading and publishes it, unless it equals the
// published one.
func (l *Loop) store(reading battery.Reading) (bool, error) {
	if current := l.snapshot.Load(); current != nil && current.Reading == reading {
		return false, nil
	}

	ico, err := l.renderer.Render(reading)
	if err != nil {
		return false, fmt.Errorf("publish %v: %w", reading, err)
	}

	l.snapshot.Store(&Snapshot{Reading: reading, Icon: ico})

	return true, nil
}

func ignoreCanceled(ctx context.Context, err error) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}

	return err
}
