package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fcurrie/led-shine-golang/internal/config"
	"github.com/fcurrie/led-shine-golang/internal/state"
)

func newTestServer() (*Server, *state.Store) {
	store := state.NewStore()
	cfg := config.DefaultConfig()
	return NewServer(store, cfg), store
}

func TestUpdateRequiresToken(t *testing.T) {
	s, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/update", strings.NewReader(`{"colour": 50}`))
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing token: status %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/update", strings.NewReader(`{"colour": 50}`))
	req.Header.Set("X-API-Token", "wrong")
	w = httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token: status %d, want 401", w.Code)
	}
}

func TestUpdateAppliesCommand(t *testing.T) {
	s, store := newTestServer()

	body := `{"mode": "custom", "elementColor": "ff0000", "geometry": "square"}`
	req := httptest.NewRequest(http.MethodPost, "/update", strings.NewReader(body))
	req.Header.Set("X-API-Token", "1234567890")
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %q", w.Code, w.Body.String())
	}
	if w.Body.String() != "OK" {
		t.Errorf("body = %q, want OK", w.Body.String())
	}

	target, _ := store.Target()
	if target.Mode != state.ModeCustom || target.Geometry != state.GeometrySquare {
		t.Errorf("command not applied: %+v", target)
	}
	if target.ElementColor != (state.RGB{1, 0, 0}) {
		t.Errorf("element color = %v", target.ElementColor)
	}
}

func TestUpdateRejectsBadInput(t *testing.T) {
	s, _ := newTestServer()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed", `{not json`, "Invalid JSON"},
		{"empty object", `{}`, "No valid fields"},
		{"unknown fields only", `{"brightness": 5}`, "No valid fields"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/update", strings.NewReader(tt.body))
		req.Header.Set("X-API-Token", "1234567890")
		w := httptest.NewRecorder()
		s.srv.Handler.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", tt.name, w.Code)
		}
		if got := strings.TrimSpace(w.Body.String()); got != tt.want {
			t.Errorf("%s: body %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestUpdateRejectsGet(t *testing.T) {
	s, _ := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/update", nil)
	req.Header.Set("X-API-Token", "1234567890")
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status %d, want 405", w.Code)
	}
}

func TestStatusReportsLiveState(t *testing.T) {
	s, store := newTestServer()

	if err := store.Apply(state.Command{Segments: []float64{10, 20, 30}}); err != nil {
		t.Fatal(err)
	}
	store.Step(0.05)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}

	var got statusPayload
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Segments) != state.SegmentCount {
		t.Errorf("segments len = %d, want %d", len(got.Segments), state.SegmentCount)
	}
	if got.Mode != state.ModeHeat {
		t.Errorf("mode = %q, want heat", got.Mode)
	}
	if got.Geometry != "ring" {
		t.Errorf("geometry = %q, want ring", got.Geometry)
	}
	if got.Quiet {
		t.Error("quiet must stay false while blanking is disabled")
	}
	if got.Age < 0 || got.Age > 1 {
		t.Errorf("age = %v, want fresh", got.Age)
	}
}

func TestStatusQuietFollowsBlankInterval(t *testing.T) {
	store := state.NewStore()
	cfg := config.DefaultConfig()
	cfg.Render.BlankInterval = 5
	s := NewServer(store, cfg)

	// The store starts with an aged timestamp, so with blanking enabled
	// the display is already quiet.
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)

	var got statusPayload
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if !got.Quiet {
		t.Error("quiet = false, want true for stale data with blanking on")
	}
}

func TestConfigEndpoint(t *testing.T) {
	s, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/config", nil)
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)

	var got map[string]float64
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	want := map[string]float64{
		"width":         192,
		"height":        64,
		"segments":      10,
		"blankInterval": 0,
		"animStep":      40,
		"targetFps":     40,
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)

	var got struct {
		OK     bool `json:"ok"`
		Uptime int  `json:"uptime"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if !got.OK {
		t.Error("ok = false")
	}
	if got.Uptime < 0 {
		t.Errorf("uptime = %d", got.Uptime)
	}
}

func TestPreflightAndCORS(t *testing.T) {
	s, _ := newTestServer()

	req := httptest.NewRequest(http.MethodOptions, "/update", nil)
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow-origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(got, "X-API-Token") {
		t.Errorf("allow-headers = %q", got)
	}

	// Normal responses carry the headers too.
	req = httptest.NewRequest(http.MethodGet, "/status", nil)
	w = httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("status allow-origin = %q", got)
	}
}

func TestWebsocketStreamsStatus(t *testing.T) {
	s, _ := newTestServer()
	ts := httptest.NewServer(s.srv.Handler)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var got statusPayload
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Geometry != "ring" || len(got.Segments) != state.SegmentCount {
		t.Errorf("unexpected payload: %+v", got)
	}
}
