// Package wsbridge drives a browser-hosted model viewer over a websocket.
// The Bridge is an orbit.Renderer: every state the controller emits is
// broadcast to connected pages, and page events (renderer lifecycle,
// pointer, scroll and tab input) come back as ClientMessage values.
package wsbridge

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/phanxgames/orbit"
)

// Message is sent from the bridge to connected pages.
type Message struct {
	Type     string               `json:"type"` // "asset", "state", "overlay" or "counters"
	Src      string               `json:"src,omitempty"`
	State    *orbit.RendererState `json:"state,omitempty"`
	Overlay  *orbit.OverlayLayout `json:"overlay,omitempty"`
	Counters *orbit.Counters      `json:"counters,omitempty"`
}

// Handler receives page messages. It is called from connection goroutines;
// callers that drive a Session must hand messages to a single loop.
type Handler func(msg ClientMessage)

// Bridge broadcasts renderer state to websocket clients.
type Bridge struct {
	upgrader websocket.Upgrader
	handler  Handler

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	last    map[string][]byte // latest payload per message type
}

// New creates a bridge. handler may be nil to ignore page messages.
func New(handler Handler) *Bridge {
	return &Bridge{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		handler: handler,
		clients: make(map[*websocket.Conn]bool),
		last:    make(map[string][]byte),
	}
}

// LoadAsset implements orbit.AssetLoader. Pages start fetching the model
// on this message and answer with progress and load events.
func (b *Bridge) LoadAsset(assetURL string) error {
	return b.Publish(Message{Type: "asset", Src: assetURL})
}

// Apply implements orbit.Renderer. With no page connected the state is kept
// and sent to the next page that connects.
func (b *Bridge) Apply(state orbit.RendererState) error {
	return b.Publish(Message{Type: "state", State: &state})
}

// Publish broadcasts msg to every connected page and remembers it for pages
// that connect later.
func (b *Bridge) Publish(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", msg.Type, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.last[msg.Type] = data
	for client := range b.clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("wsbridge: write error: %v", err)
			client.Close()
			delete(b.clients, client)
		}
	}
	return nil
}

// ClientCount returns the number of connected pages.
func (b *Bridge) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// replayOrder lists the remembered message types sent to a new page. The
// asset goes first so the page can start loading.
var replayOrder = []string{"asset", "state", "overlay", "counters"}

// ServeHTTP upgrades the request to a websocket, replays the latest state,
// then reads page messages until the connection closes.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("wsbridge: upgrade error: %v", err)
		return
	}

	b.mu.Lock()
	b.clients[conn] = true
	for _, typ := range replayOrder {
		if data, ok := b.last[typ]; ok {
			_ = conn.WriteMessage(websocket.TextMessage, data)
		}
	}
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.clients, conn)
		b.mu.Unlock()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("wsbridge: bad client message: %v", err)
			continue
		}
		if b.handler != nil {
			b.handler(msg)
		}
	}
}

// Mux returns a handler serving the viewer page at "/" and the websocket
// at "/ws".
func (b *Bridge) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", b)
	mux.HandleFunc("/", servePage)
	return mux
}
