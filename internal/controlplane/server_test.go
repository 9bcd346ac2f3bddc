// File: internal/controlplane/server_test.go
package controlplane

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/nullmantle/pixelpilot/internal/config"
	"github.com/nullmantle/pixelpilot/internal/control"
	"github.com/nullmantle/pixelpilot/internal/itemdb"
	"github.com/nullmantle/pixelpilot/internal/params"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testItemDump = `{
  "440": {"id": 440, "name": "Iron ore", "tradeable_on_ge": true, "linked_id_item": null, "linked_id_placeholder": 23063},
  "453": {"id": 453, "name": "Coal", "tradeable_on_ge": true, "linked_id_item": null, "linked_id_placeholder": 23307},
  "449": {"id": 449, "name": "Adamantite ore", "tradeable_on_ge": true, "linked_id_item": null, "linked_id_placeholder": 23299}
}`

type testProfile struct {
	OreName    string             `cfg:"ore_name"`
	MineDelay  params.Span        `cfg:"mine_delay"`
	BankTile   params.Color       `cfg:"bank_tile"`
	DropChance float64            `cfg:"drop_chance"`
	Breaks     params.BreakConfig `cfg:"breaks"`
}

func (p *testProfile) BreakSettings() params.BreakConfig { return p.Breaks }

func newTestServer(t *testing.T, opts ...control.Option) (*Server, *control.Controller) {
	t.Helper()
	ctrl := control.New(zap.NewNop(), opts...)
	items, err := itemdb.Parse([]byte(testItemDump), zap.NewNop())
	require.NoError(t, err)

	cfg := config.APIConfig{
		Enabled:         true,
		ListenAddr:      "127.0.0.1:0",
		WriteRateLimit:  100,
		WriteRateBurst:  100,
		ShutdownTimeout: time.Second,
	}
	return New(cfg, ctrl, items, zap.NewNop()), ctrl
}

func doJSON(t *testing.T, h http.Handler, method, path string, body []byte) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

func TestStatusEndpoint(t *testing.T) {
	srv, ctrl := newTestServer(t)
	router := srv.routes()

	rec, payload := doJSON(t, router, http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, srv.SessionID(), payload["session"])
	assert.Equal(t, true, payload["running"])
	assert.Equal(t, false, payload["paused"])
	assert.Equal(t, false, payload["break"])

	ctrl.SetPause(true)
	ctrl.SetTerminate(true)
	_, payload = doJSON(t, router, http.MethodGet, "/api/status", nil)
	assert.Equal(t, false, payload["running"])
	assert.Equal(t, true, payload["paused"])
}

func TestRuntimeEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	rec, payload := doJSON(t, srv.routes(), http.MethodGet, "/api/runtime", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.GreaterOrEqual(t, payload["runtime_seconds"].(float64), 0.0)
	assert.Regexp(t, `^\d{2}:\d{2}:\d{2}$`, payload["formatted"])
	_, err := time.Parse(time.RFC3339, payload["started_at"].(string))
	assert.NoError(t, err)
}

func TestControlToggles(t *testing.T) {
	srv, ctrl := newTestServer(t)
	router := srv.routes()

	t.Run("terminate defaults to set", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodPost, "/api/control/terminate", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, payload["terminate"])
		assert.True(t, ctrl.Terminated())
	})

	t.Run("explicit clear", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodPost, "/api/control/terminate", []byte(`{"value": false}`))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, payload["terminate"])
		assert.False(t, ctrl.Terminated())
	})

	t.Run("pause set and read back", func(t *testing.T) {
		rec, _ := doJSON(t, router, http.MethodPost, "/api/control/pause", []byte(`{"value": true}`))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, ctrl.Paused())

		_, payload := doJSON(t, router, http.MethodGet, "/api/control/pause", nil)
		assert.Equal(t, true, payload["pause"])
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodPost, "/api/control/pause", []byte(`{not json`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, payload["error"], "malformed")
	})
}

func TestProposeBreakEndpoint(t *testing.T) {
	breaks := params.BreakConfig{
		Duration: params.Span{Min: 1, Max: 2},
		Chance:   1.0,
	}
	srv, ctrl := newTestServer(t, control.WithBreaks(breaks))

	rec, payload := doJSON(t, srv.routes(), http.MethodPost, "/api/control/break", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["break"])
	assert.True(t, ctrl.OnBreak())
}

func TestWriteRateLimit(t *testing.T) {
	ctrl := control.New(zap.NewNop())
	cfg := config.APIConfig{
		Enabled:         true,
		ListenAddr:      "127.0.0.1:0",
		WriteRateLimit:  1,
		WriteRateBurst:  1,
		ShutdownTimeout: time.Second,
	}
	srv := New(cfg, ctrl, nil, zap.NewNop())
	router := srv.routes()

	rec, _ := doJSON(t, router, http.MethodPost, "/api/control/pause", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, payload := doJSON(t, router, http.MethodPost, "/api/control/pause", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, payload["error"], "too many")

	// Reads are never throttled.
	rec, _ = doJSON(t, router, http.MethodGet, "/api/status", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestConfigEndpoints(t *testing.T) {
	srv, ctrl := newTestServer(t)
	router := srv.routes()

	t.Run("404 without a profile", func(t *testing.T) {
		rec, _ := doJSON(t, router, http.MethodGet, "/api/config", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		rec, _ = doJSON(t, router, http.MethodPost, "/api/config", []byte(`{}`))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	profile := &testProfile{
		OreName:    "Iron ore",
		MineDelay:  params.Span{Min: 0.2, Max: 0.9},
		BankTile:   params.MustColor(255, 0, 255),
		DropChance: 0.1,
	}
	srv.SetProfile(profile)

	t.Run("export reflects the live profile", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodGet, "/api/config", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Iron ore", payload["ore_name"])
		assert.Equal(t, 0.1, payload["drop_chance"])
		delay, ok := payload["mine_delay"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Range", delay["type"])
	})

	t.Run("import mutates the profile", func(t *testing.T) {
		body := []byte(`{"ore_name": "Coal", "drop_chance": 0.5}`)
		rec, payload := doJSON(t, router, http.MethodPost, "/api/config", body)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Coal", payload["ore_name"])
		assert.Equal(t, "Coal", profile.OreName)
		assert.Equal(t, 0.5, profile.DropChance)
	})

	t.Run("imported breaks reach the controller", func(t *testing.T) {
		ctrl.ProposeBreak()
		require.False(t, ctrl.OnBreak(), "no descriptor configured at startup")

		body := []byte(`{"breaks": {"type": "BreakCfg", "value": {"break_duration": {"type": "Range", "value": [30, 60]}, "break_chance": 1.0}}}`)
		rec, _ := doJSON(t, router, http.MethodPost, "/api/config", body)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1.0, profile.Breaks.Chance)

		ctrl.ProposeBreak()
		assert.True(t, ctrl.OnBreak())
	})

	t.Run("bad field rejected without mutation", func(t *testing.T) {
		before := profile.OreName
		rec, payload := doJSON(t, router, http.MethodPost, "/api/config", []byte(`{"no_such_field": 1}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, payload["error"], "no_such_field")
		assert.Equal(t, before, profile.OreName)
	})
}

func TestItemSearchEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.routes()

	t.Run("missing query", func(t *testing.T) {
		rec, _ := doJSON(t, router, http.MethodGet, "/api/items/search", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("search returns ranked matches", func(t *testing.T) {
		rec, payload := doJSON(t, router, http.MethodGet, "/api/items/search?q=ore", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		results, ok := payload["results"].([]any)
		require.True(t, ok)
		require.NotEmpty(t, results)
		first := results[0].(map[string]any)
		assert.Contains(t, first, "id")
		assert.Contains(t, first, "name")
	})

	t.Run("limit caps results", func(t *testing.T) {
		_, payload := doJSON(t, router, http.MethodGet, "/api/items/search?q=ore&limit=1", nil)
		results := payload["results"].([]any)
		assert.Len(t, results, 1)
	})

	t.Run("bad limit rejected", func(t *testing.T) {
		rec, _ := doJSON(t, router, http.MethodGet, "/api/items/search?q=ore&limit=zero", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no database", func(t *testing.T) {
		ctrl := control.New(zap.NewNop())
		cfg := config.APIConfig{ListenAddr: "127.0.0.1:0", WriteRateLimit: 1, WriteRateBurst: 1, ShutdownTimeout: time.Second}
		bare := New(cfg, ctrl, nil, zap.NewNop())
		rec, _ := doJSON(t, bare.routes(), http.MethodGet, "/api/items/search?q=ore", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRunShutsDownOnCancel(t *testing.T) {
	srv, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	// Give the listener a moment to come up, then cancel.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down after context cancellation")
	}
}

func TestFormatRuntime(t *testing.T) {
	assert.Equal(t, "00:00:00", formatRuntime(0))
	assert.Equal(t, "00:01:05", formatRuntime(65*time.Second))
	assert.Equal(t, "02:30:00", formatRuntime(150*time.Minute))
	assert.Equal(t, "27:00:00", formatRuntime(27*time.Hour))
}
