package wsbridge

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/phanxgames/orbit"
)

var (
	_ orbit.Renderer    = (*Bridge)(nil)
	_ orbit.AssetLoader = (*Bridge)(nil)
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return msg
}

func TestBridgeReplaysLastState(t *testing.T) {
	b := New(nil)
	if err := b.Apply(orbit.RendererState{Seq: 3, AssetURL: "a.glb", Target: orbit.Orbit(90, 75, 110)}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	srv := httptest.NewServer(b.Mux())
	defer srv.Close()

	conn := dial(t, srv)
	msg := readMessage(t, conn)
	if msg.Type != "state" || msg.State == nil {
		t.Fatalf("msg = %+v, want state", msg)
	}
	if msg.State.Seq != 3 || msg.State.Target != orbit.Orbit(90, 75, 110) {
		t.Errorf("state = %+v", *msg.State)
	}
}

func TestBridgeBroadcastsInOrder(t *testing.T) {
	b := New(nil)
	srv := httptest.NewServer(b.Mux())
	defer srv.Close()

	conn := dial(t, srv)
	deadline := time.Now().Add(2 * time.Second)
	for b.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if b.ClientCount() != 1 {
		t.Fatalf("ClientCount = %d, want 1", b.ClientCount())
	}

	for seq := uint64(1); seq <= 3; seq++ {
		if err := b.Apply(orbit.RendererState{Seq: seq}); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}
	for want := uint64(1); want <= 3; want++ {
		msg := readMessage(t, conn)
		if msg.State == nil || msg.State.Seq != want {
			t.Fatalf("got %+v, want seq %d", msg, want)
		}
	}
}

func TestBridgeForwardsClientMessages(t *testing.T) {
	got := make(chan ClientMessage, 1)
	b := New(func(m ClientMessage) { got <- m })
	srv := httptest.NewServer(b.Mux())
	defer srv.Close()

	conn := dial(t, srv)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"scroll","offset":850,"at":1000}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case m := <-got:
		if m.Type != "scroll" || m.Offset != 850 || m.At != 1000 {
			t.Errorf("message = %+v", m)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler not called")
	}
}

func TestServePage(t *testing.T) {
	srv := httptest.NewServer(New(nil).Mux())
	defer srv.Close()

	res, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), "<model-viewer") {
		t.Error("page does not embed model-viewer")
	}

	res404, err := http.Get(srv.URL + "/nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	res404.Body.Close()
	if res404.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", res404.StatusCode)
	}
}

func TestRendererEvent(t *testing.T) {
	tests := []struct {
		name string
		msg  ClientMessage
		ok   bool
		kind orbit.RendererEventKind
	}{
		{"progress", ClientMessage{Type: "progress", Progress: 0.5}, true, orbit.RendererProgress},
		{"load", ClientMessage{Type: "load"}, true, orbit.RendererLoad},
		{"error", ClientMessage{Type: "error"}, true, orbit.RendererError},
		{"input", ClientMessage{Type: "scroll"}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := tt.msg.RendererEvent()
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && ev.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", ev.Kind, tt.kind)
			}
			if ok && tt.kind == orbit.RendererError && ev.Err == nil {
				t.Error("error event without Err")
			}
		})
	}
}

type fakeFetcher struct {
	model orbit.Model
}

func (f fakeFetcher) GetModel(ctx context.Context, shortID string) (orbit.Model, error) {
	return f.model, nil
}

func TestRouteDrivesSession(t *testing.T) {
	ctx := context.Background()
	s, err := orbit.OpenSession(ctx, fakeFetcher{orbit.Model{ShortID: "abc", URL: "a.glb"}}, "abc", orbit.SessionOptions{
		Viewport: orbit.Rect{Width: 800, Height: 600},
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	var applied []orbit.RendererState
	s.Attach(orbit.RendererFunc(func(st orbit.RendererState) error {
		applied = append(applied, st)
		return nil
	}))

	base := time.UnixMilli(10_000)
	steps := []ClientMessage{
		{Type: "progress", Progress: 0.4},
		{Type: "load", AR: boolPtr(true)},
		{Type: "scroll", Offset: 850, At: 10_100},
		{Type: "tab", Index: 2, At: 10_200},
		{Type: "scroll", Offset: 0, At: 10_150}, // stale
	}
	for _, m := range steps {
		if err := Route(ctx, s, m, base); err != nil {
			t.Fatalf("route %s: %v", m.Type, err)
		}
	}

	if got := s.Controller().ActiveSection(); got != 2 {
		t.Errorf("ActiveSection = %d, want 2", got)
	}
	if ar, known := s.ARSupported(); !known || !ar {
		t.Errorf("ARSupported = %v, %v", ar, known)
	}
	if len(applied) == 0 || applied[len(applied)-1].Target != orbit.Orbit(180, 75, 110) {
		t.Errorf("last applied state = %+v", applied)
	}

	if err := Route(ctx, s, ClientMessage{Type: "bogus"}, base); err == nil {
		t.Error("expected error for unknown type")
	}
	if err := Route(ctx, s, ClientMessage{Type: "pointer", Phase: "sideways"}, base); err == nil {
		t.Error("expected error for unknown phase")
	}
}

func boolPtr(b bool) *bool { return &b }

func TestBridgeSendsAssetBeforeLoad(t *testing.T) {
	ctx := context.Background()
	s, err := orbit.OpenSession(ctx, fakeFetcher{orbit.Model{ShortID: "abc", URL: "chair.glb"}}, "abc", orbit.SessionOptions{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	b := New(nil)
	s.Attach(b)
	srv := httptest.NewServer(b.Mux())
	defer srv.Close()

	conn := dial(t, srv)
	msg := readMessage(t, conn)
	if msg.Type != "asset" || msg.Src != "chair.glb" {
		t.Fatalf("first message = %+v, want asset chair.glb", msg)
	}
	if s.Controller().Ready() || s.Controller().PendingCount() == 0 {
		t.Fatalf("camera state sent before load: ready=%v pending=%d", s.Controller().Ready(), s.Controller().PendingCount())
	}

	if err := Route(ctx, s, ClientMessage{Type: "load"}, time.Now()); err != nil {
		t.Fatalf("route load: %v", err)
	}
	msg = readMessage(t, conn)
	if msg.Type != "state" || msg.State == nil || msg.State.AssetURL != "chair.glb" {
		t.Fatalf("after load = %+v, want state", msg)
	}

	// A page that connects later gets the asset ahead of the camera state.
	late := dial(t, srv)
	if msg := readMessage(t, late); msg.Type != "asset" {
		t.Errorf("late page first message = %s, want asset", msg.Type)
	}
	if msg := readMessage(t, late); msg.Type != "state" {
		t.Errorf("late page second message = %s, want state", msg.Type)
	}
}
