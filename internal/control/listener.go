// File: internal/control/listener.go
// Description: Background listener translating raw key events into control
// flag changes. The OS-level hook lives behind KeySource; this package only
// applies the terminate/pause rules.
package control

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Default listener settings. PageUp terminates, PageDown toggles pause, and
// repeated toggles inside the debounce window are dropped.
const (
	DefaultTerminateKey  = "page up"
	DefaultPauseKey      = "page down"
	DefaultPauseDebounce = 400 * time.Millisecond
)

// KeyEvent is one raw keyboard signal. Keypad marks events that originate
// from the numeric keypad's alternate mapping of the same logical key
// (NumLock off turns keypad 9/3 into PageUp/PageDown); those must not drive
// the controls.
type KeyEvent struct {
	Name   string
	Down   bool
	Keypad bool
}

// KeySource supplies raw key events. Implementations wrap an OS hook; tests
// feed a channel directly.
type KeySource interface {
	Events() <-chan KeyEvent
}

// ListenerConfig tunes the listener's key bindings and debounce.
type ListenerConfig struct {
	TerminateKey  string
	PauseKey      string
	PauseDebounce time.Duration
}

func (cfg ListenerConfig) withDefaults() ListenerConfig {
	if cfg.TerminateKey == "" {
		cfg.TerminateKey = DefaultTerminateKey
	}
	if cfg.PauseKey == "" {
		cfg.PauseKey = DefaultPauseKey
	}
	if cfg.PauseDebounce <= 0 {
		cfg.PauseDebounce = DefaultPauseDebounce
	}
	return cfg
}

// Listener consumes a KeySource and writes into a Controller. It holds no
// state beyond the timestamp of the last pause toggle.
type Listener struct {
	ctl        *Controller
	src        KeySource
	cfg        ListenerConfig
	log        *zap.Logger
	lastToggle time.Time
}

// NewListener wires a key source to a controller.
func NewListener(ctl *Controller, src KeySource, cfg ListenerConfig, log *zap.Logger) *Listener {
	return &Listener{
		ctl: ctl,
		src: src,
		cfg: cfg.withDefaults(),
		log: log.Named("keys"),
	}
}

// Run processes events until the context ends or termination is observed,
// at which point the listener detaches. A slow tick covers the case where
// terminate is set by another producer while no keys arrive.
func (l *Listener) Run(ctx context.Context) error {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	l.log.Info("control keys active",
		zap.String("terminate", l.cfg.TerminateKey),
		zap.String("pause", l.cfg.PauseKey))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.ctl.Terminated() {
				l.log.Debug("terminate observed, key listener detaching")
				return nil
			}
		case ev, ok := <-l.src.Events():
			if !ok {
				return nil
			}
			l.handle(ev)
			if l.ctl.Terminated() {
				l.log.Debug("terminate observed, key listener detaching")
				return nil
			}
		}
	}
}

func (l *Listener) handle(ev KeyEvent) {
	// Only physical key-down events drive the controls; keypad aliases of
	// the same logical keys are ignored.
	if !ev.Down || ev.Keypad {
		return
	}
	switch normalizeKey(ev.Name) {
	case normalizeKey(l.cfg.TerminateKey):
		l.ctl.SetTerminate(true)
	case normalizeKey(l.cfg.PauseKey):
		now := time.Now()
		if now.Sub(l.lastToggle) < l.cfg.PauseDebounce {
			return
		}
		l.lastToggle = now
		l.ctl.TogglePause()
	}
}

// normalizeKey makes "Page Up", "pageup" and "page up" compare equal.
func normalizeKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "")
}

// ChanKeySource is a KeySource backed by a plain channel, used by tests and
// by adapters that already deliver events on a channel.
type ChanKeySource chan KeyEvent

func (s ChanKeySource) Events() <-chan KeyEvent { return s }
