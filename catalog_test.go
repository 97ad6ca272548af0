package orbit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientGetModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/models/abc" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent")
		}
		io.WriteString(w, `{
			"shortId": "abc", "url": "https://cdn.example/chair.glb", "name": "Chair",
			"views": 12, "likes": 3, "qty": 10, "sold": 4,
			"info": {"tl": "Oak", "br": "Linen"},
			"pointers": {"tl": {"x": 40, "y": 20}},
			"sections": [
				{"label": "Seat", "orbit": "45deg 60deg 90%", "annotation": "Hand woven"},
				{"label": "Free"}
			]
		}`)
	}))
	defer srv.Close()

	m, err := NewClient(srv.URL+"/api/", nil).GetModel(context.Background(), "abc")
	if err != nil {
		t.Fatalf("GetModel: %v", err)
	}
	if m.Name != "Chair" || m.Views != 12 || m.Likes != 3 || m.Qty != 10 || m.Sold != 4 {
		t.Errorf("model = %+v", m)
	}
	if ann := m.Info.Annotations(); ann[TopLeft] != "Oak" || ann[BottomRight] != "Linen" || ann[TopRight] != "" {
		t.Errorf("annotations = %q", ann)
	}
	if a := m.Pointers.Anchors(); a[TopLeft] != (Vec2{X: 40, Y: 20}) || a[TopRight] != DefaultAnchors[TopRight] {
		t.Errorf("anchors = %+v", a)
	}

	secs := SectionsFromModel(m)
	if len(secs) != 2 {
		t.Fatalf("sections = %d", len(secs))
	}
	if secs[0].Target != Orbit(45, 60, 90) || secs[0].Annotation != "Hand woven" {
		t.Errorf("section 0 = %+v", secs[0])
	}
	if !secs[1].Target.Auto {
		t.Errorf("section without orbit = %s, want auto", secs[1].Target)
	}
}

func TestClientNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such model", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).GetModel(context.Background(), "zzz")
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Body != "no such model" {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).GetModel(context.Background(), "abc")
	if err == nil || IsNotFound(err) {
		t.Fatalf("err = %v, want non-404 API error", err)
	}
}

func TestClientRequiresID(t *testing.T) {
	if _, err := NewClient("", nil).GetModel(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestClientCounters(t *testing.T) {
	type call struct {
		method, path string
		change       int
	}
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := call{method: r.Method, path: r.URL.Path}
		if strings.HasSuffix(r.URL.Path, "/like") {
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			var body struct {
				Change int `json:"change"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode body: %v", err)
			}
			c.change = body.Change
		}
		calls = append(calls, c)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx := context.Background()
	client := NewClient(srv.URL, nil)
	if err := client.IncrementView(ctx, "abc"); err != nil {
		t.Fatalf("IncrementView: %v", err)
	}
	if err := client.ChangeLikes(ctx, "abc", 1); err != nil {
		t.Fatalf("ChangeLikes(+1): %v", err)
	}
	if err := client.ChangeLikes(ctx, "abc", -1); err != nil {
		t.Fatalf("ChangeLikes(-1): %v", err)
	}
	if err := client.ChangeLikes(ctx, "abc", 2); err == nil {
		t.Error("ChangeLikes(2) accepted")
	}

	want := []call{
		{http.MethodPost, "/models/abc/view", 0},
		{http.MethodPost, "/models/abc/like", 1},
		{http.MethodPost, "/models/abc/like", -1},
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %+v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %+v, want %+v", i, calls[i], want[i])
		}
	}
}

func TestClientListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"shortId":"a"},{"shortId":"b"}]`)
	}))
	defer srv.Close()

	models, err := NewClient(srv.URL, nil).ListModels(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(models) != 2 || models[1].ShortID != "b" {
		t.Errorf("models = %+v", models)
	}
}

func TestParseShortID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/view/abc123", "abc123"},
		{"/view/abc123/", "abc123"},
		{"https://shop.example/view/xyz?ref=1", "xyz"},
		{"abc", "abc"},
		{"/view/", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ParseShortID(tt.in); got != tt.want {
			t.Errorf("ParseShortID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
