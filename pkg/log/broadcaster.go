package log

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// writeWait bounds how long a slow monitor client may hold up a broadcast.
const writeWait = 100 * time.Millisecond

// Broadcaster streams protocol events as JSON to connected websocket clients.
// Clients that fail a write are dropped.
type Broadcaster struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}

	// writeMu serializes writes; a websocket allows one writer at a time.
	writeMu sync.Mutex
}

// NewBroadcaster creates a Broadcaster with no clients.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the request to a websocket and registers the client.
// It returns when the client goes away.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	b.add(conn)

	// Drain reads so control frames are processed and closes are noticed.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			b.remove(conn)
			return
		}
	}
}

// Clients returns the number of connected clients.
func (b *Broadcaster) Clients() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Log sends the event to every client.
func (b *Broadcaster) Log(event Event) {
	b.mu.Lock()
	clients := make([]*websocket.Conn, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.Unlock()

	if len(clients) == 0 {
		return
	}

	view := NewView(event)
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	for _, c := range clients {
		_ = c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteJSON(view); err != nil {
			b.remove(c)
		}
	}
}

// Close disconnects every client.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for c := range b.clients {
		c.Close()
		delete(b.clients, c)
	}
}

func (b *Broadcaster) add(c *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[c] = struct{}{}
}

func (b *Broadcaster) remove(c *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		c.Close()
	}
}

// View is the JSON form of an Event with enumerations spelled out.
type View struct {
	Timestamp    time.Time        `json:"timestamp"`
	ConnectionID string           `json:"connection_id,omitempty"`
	Direction    string           `json:"direction"`
	Layer        string           `json:"layer"`
	Category     string           `json:"category"`
	PeerAddr     string           `json:"peer_addr,omitempty"`
	Message      *MessageEvent    `json:"message,omitempty"`
	StateChange  *StateChangeView `json:"state_change,omitempty"`
	Timer        *TimerView       `json:"timer,omitempty"`
	Error        *ErrorEventData  `json:"error,omitempty"`
}

// StateChangeView is the JSON form of a StateChangeEvent.
type StateChangeView struct {
	Entity   string `json:"entity"`
	OldState string `json:"old_state,omitempty"`
	NewState string `json:"new_state"`
	Reason   string `json:"reason,omitempty"`
}

// TimerView is the JSON form of a TimerEvent.
type TimerView struct {
	Purpose  string `json:"purpose"`
	Action   string `json:"action"`
	Handle   string `json:"handle"`
	Duration string `json:"duration,omitempty"`
}

// NewView converts event to its JSON form.
func NewView(event Event) View {
	v := View{
		Timestamp:    event.Timestamp,
		ConnectionID: event.ConnectionID,
		Direction:    event.Direction.String(),
		Layer:        event.Layer.String(),
		Category:     event.Category.String(),
		PeerAddr:     event.PeerAddr,
		Message:      event.Message,
		Error:        event.Error,
	}
	if sc := event.StateChange; sc != nil {
		v.StateChange = &StateChangeView{
			Entity:   sc.Entity.String(),
			OldState: sc.OldState,
			NewState: sc.NewState,
			Reason:   sc.Reason,
		}
	}
	if tm := event.Timer; tm != nil {
		v.Timer = &TimerView{
			Purpose: tm.Purpose,
			Action:  tm.Action.String(),
			Handle:  tm.Handle,
		}
		if tm.Duration != nil {
			v.Timer.Duration = tm.Duration.String()
		}
	}
	return v
}

// Compile-time interface satisfaction checks.
var (
	_ Logger       = (*Broadcaster)(nil)
	_ http.Handler = (*Broadcaster)(nil)
)
