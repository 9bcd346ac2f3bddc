// File: internal/control/listener_test.go
package control

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestListener(t *testing.T, cfg ListenerConfig) (*Controller, ChanKeySource, chan error) {
	t.Helper()
	ctl := newTestController()
	src := make(ChanKeySource, 16)
	errCh := make(chan error, 1)

	ctx, cancel := context.WithCancel(context.Background())
	l := NewListener(ctl, src, cfg, zap.NewNop())
	go func() { errCh <- l.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-errCh:
		case <-time.After(time.Second):
			t.Error("listener did not stop")
		}
	})
	return ctl, src, errCh
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestListenerTerminateKey(t *testing.T) {
	ctl, src, errCh := newTestListener(t, ListenerConfig{})

	src <- KeyEvent{Name: "page up", Down: true}
	waitFor(t, ctl.Terminated, "terminate key did not set the flag")

	// The listener detaches once terminate is observed.
	select {
	case err := <-errCh:
		require.NoError(t, err)
		errCh <- nil // keep cleanup happy
	case <-time.After(time.Second):
		t.Fatal("listener did not detach after terminate")
	}
}

func TestListenerIgnoresKeypadAliases(t *testing.T) {
	ctl, src, _ := newTestListener(t, ListenerConfig{})

	src <- KeyEvent{Name: "page up", Down: true, Keypad: true}
	src <- KeyEvent{Name: "page down", Down: true, Keypad: true}
	time.Sleep(30 * time.Millisecond)

	assert.False(t, ctl.Terminated(), "keypad PageUp must not terminate")
	assert.False(t, ctl.Paused(), "keypad PageDown must not toggle pause")
}

func TestListenerIgnoresKeyUpAndOtherKeys(t *testing.T) {
	ctl, src, _ := newTestListener(t, ListenerConfig{})

	src <- KeyEvent{Name: "page up", Down: false}
	src <- KeyEvent{Name: "a", Down: true}
	src <- KeyEvent{Name: "escape", Down: true}
	time.Sleep(30 * time.Millisecond)

	assert.False(t, ctl.Terminated())
	assert.False(t, ctl.Paused())
}

func TestListenerPauseToggleWithDebounce(t *testing.T) {
	ctl, src, _ := newTestListener(t, ListenerConfig{PauseDebounce: 100 * time.Millisecond})

	src <- KeyEvent{Name: "page down", Down: true}
	waitFor(t, ctl.Paused, "pause key did not toggle")

	// A repeat inside the debounce window is dropped.
	src <- KeyEvent{Name: "page down", Down: true}
	time.Sleep(30 * time.Millisecond)
	assert.True(t, ctl.Paused(), "debounced repeat must not toggle back")

	// After the window the toggle works again.
	time.Sleep(100 * time.Millisecond)
	src <- KeyEvent{Name: "page down", Down: true}
	waitFor(t, func() bool { return !ctl.Paused() }, "pause key did not toggle back")
}

func TestListenerKeyNameNormalization(t *testing.T) {
	ctl, src, _ := newTestListener(t, ListenerConfig{})

	src <- KeyEvent{Name: "PageUp", Down: true}
	waitFor(t, ctl.Terminated, "normalized key name should match")
}

func TestListenerStopsOnExternalTerminate(t *testing.T) {
	ctl, _, errCh := newTestListener(t, ListenerConfig{})

	// Terminate arrives from another producer (control plane); the slow
	// tick must still notice and detach.
	ctl.SetTerminate(true)
	select {
	case err := <-errCh:
		require.NoError(t, err)
		errCh <- nil
	case <-time.After(time.Second):
		t.Fatal("listener did not detach on externally-set terminate")
	}
}
