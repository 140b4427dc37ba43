package driver

import (
	"context"
	"log"
	"time"

	"idlerpg/internal/app/save"
	"idlerpg/internal/app/session"
	"idlerpg/internal/domain/idle"
)

const (
	DefaultInterval = 100 * time.Millisecond
	// maxStep bounds a single tick after the process was suspended.
	maxStep = time.Hour
)

type Saver interface {
	Save(ctx context.Context) (save.Response, error)
}

// Loop is the fixed-rate driver. It feeds measured wall-clock deltas to the
// engine and autosaves on its own cadence.
type Loop struct {
	Session       *session.Session
	Saver         Saver
	Interval      time.Duration
	AutosaveEvery time.Duration
	Now           func() time.Time
}

// Run ticks until ctx is cancelled, then saves once more.
func (l Loop) Run(ctx context.Context) error {
	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	nowFn := l.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := nowFn()
	lastSave := last
	for {
		select {
		case <-ctx.Done():
			l.save(context.WithoutCancel(ctx))
			return nil
		case <-ticker.C:
			now := nowFn()
			l.Step(now.Sub(last))
			last = now
			if l.AutosaveEvery > 0 && now.Sub(lastSave) >= l.AutosaveEvery {
				lastSave = now
				l.save(ctx)
			}
		}
	}
}

// Step advances the session by delta.
func (l Loop) Step(delta time.Duration) {
	if delta <= 0 {
		return
	}
	if delta > maxStep {
		delta = maxStep
	}
	_ = l.Session.Do(func(e *idle.Engine) error {
		e.Tick(delta)
		return nil
	})
}

func (l Loop) save(ctx context.Context) {
	if l.Saver == nil {
		return
	}
	if _, err := l.Saver.Save(ctx); err != nil {
		log.Printf("autosave failed: %v", err)
	}
}
