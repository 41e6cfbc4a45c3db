// Package poller re-fetches a backend resource on a fixed interval for as long
// as a viewer stays connected.
package poller

import (
	"context"
	"log/slog"
	"time"
)

const (
	EventError          = "error"
	EventSessionExpired = "session-expired"
)

type Event struct {
	Name string
	Data any
}

// FetchFunc loads one snapshot. A zero Event means there is nothing new to send.
type FetchFunc func(ctx context.Context) (Event, error)

type Poller struct {
	Interval time.Duration
	Fetch    FetchFunc
	// IsFatal reports errors that end the stream, e.g. a rejected session.
	IsFatal func(error) bool
	// Describe turns a fetch error into the text shown to the viewer.
	Describe func(error) string
	// Redirect is where the viewer goes after a fatal error. Defaults to /login.
	Redirect string
}

// Run fetches immediately and then on every tick, without backoff or jitter,
// until ctx is cancelled. Non-fatal fetch errors are emitted and polling goes on.
func (p *Poller) Run(ctx context.Context, emit func(Event) error) error {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		if err := p.poll(ctx, emit); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (p *Poller) poll(ctx context.Context, emit func(Event) error) error {
	ev, err := p.Fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		if p.IsFatal != nil && p.IsFatal(err) {
			_ = emit(Event{Name: EventSessionExpired, Data: map[string]string{"redirect": p.redirect()}})
			return err
		}
		slog.WarnContext(ctx, "Poll failed", "error", err)
		return emit(Event{Name: EventError, Data: map[string]string{"message": p.describe(err)}})
	}
	if ev.Name == "" {
		return nil
	}
	return emit(ev)
}

func (p *Poller) redirect() string {
	if p.Redirect != "" {
		return p.Redirect
	}
	return "/login"
}

func (p *Poller) describe(err error) string {
	if p.Describe != nil {
		return p.Describe(err)
	}
	return "Refresh failed, retrying."
}
