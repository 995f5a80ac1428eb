package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func u16(v uint16) *uint16 { return &v }

func sampleEvents(base time.Time) []Event {
	d := 5 * time.Second
	return []Event{
		{
			Timestamp: base,
			Direction: DirectionIn,
			Layer:     LayerEngine,
			Category:  CategoryMessage,
			Message:   &MessageEvent{Name: "DATABASE_REGISTERED", Detail: "success=true"},
		},
		{
			Timestamp:    base.Add(time.Second),
			ConnectionID: "sess-1",
			Direction:    DirectionInternal,
			Layer:        LayerApp,
			Category:     CategoryState,
			StateChange: &StateChangeEvent{
				Entity:   StateEntityLifecycle,
				OldState: "FAST_ADVERTISING",
				NewState: "CONNECTED",
			},
		},
		{
			Timestamp:    base.Add(2 * time.Second),
			ConnectionID: "sess-1",
			Direction:    DirectionInternal,
			Layer:        LayerTimer,
			Category:     CategoryTimer,
			Timer:        &TimerEvent{Purpose: "CONN_PARAMS", Action: TimerArmed, Handle: "#1", Duration: &d},
		},
		{
			Timestamp:    base.Add(3 * time.Second),
			ConnectionID: "sess-1",
			Direction:    DirectionOut,
			Layer:        LayerEngine,
			Category:     CategoryMessage,
			Message:      &MessageEvent{Name: "RESPOND_ACCESS", Handle: u16(0x0003), Status: "SUCCESS", Payload: []byte("CSR")},
		},
	}
}

func TestEncodeDecodeEvent(t *testing.T) {
	for _, ev := range sampleEvents(time.Now()) {
		data, err := EncodeEvent(ev)
		if err != nil {
			t.Fatalf("EncodeEvent failed: %v", err)
		}
		got, err := DecodeEvent(data)
		if err != nil {
			t.Fatalf("DecodeEvent failed: %v", err)
		}
		if !got.Timestamp.Equal(ev.Timestamp) {
			t.Errorf("Timestamp: got %v, want %v", got.Timestamp, ev.Timestamp)
		}
		if got.Category != ev.Category {
			t.Errorf("Category: got %v, want %v", got.Category, ev.Category)
		}
	}
}

func TestFileLoggerAndReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.hlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	base := time.Now()
	for _, ev := range sampleEvents(base) {
		logger.Log(ev)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close returned %v", err)
	}
	logger.Log(Event{})
	if logger.Dropped() != 0 {
		t.Errorf("Dropped: got %d, want 0", logger.Dropped())
	}

	all, err := ReadAll(path, Filter{})
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("ReadAll: got %d events, want 4", len(all))
	}
	if all[3].Message == nil || *all[3].Message.Handle != 0x0003 {
		t.Errorf("message handle not preserved: %+v", all[3].Message)
	}
	if all[2].Timer == nil || *all[2].Timer.Duration != 5*time.Second {
		t.Errorf("timer duration not preserved: %+v", all[2].Timer)
	}

	out := DirectionOut
	timers := CategoryTimer
	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"connection", Filter{ConnectionID: "sess-1"}, 3},
		{"direction", Filter{Direction: &out}, 1},
		{"category", Filter{Category: &timers}, 1},
		{"name", Filter{Name: "DATABASE_REGISTERED"}, 1},
		{"time", Filter{TimeStart: ptrTime(base.Add(time.Second)), TimeEnd: ptrTime(base.Add(3 * time.Second))}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadAll(path, tt.filter)
			if err != nil {
				t.Fatalf("ReadAll failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d events, want %d", len(got), tt.want)
			}
		})
	}
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestReaderMissingFile(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "missing.hlog"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, want not-exist error", err)
	}
}

func TestReaderEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.hlog")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next: got %v, want io.EOF", err)
	}
}

func TestReaderTruncatedTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cut.hlog")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	for _, ev := range sampleEvents(time.Now()) {
		logger.Log(ev)
	}
	if logger.Written() != 4 {
		t.Errorf("Written: got %d, want 4", logger.Written())
	}
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data[:len(data)-3], 0644); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()
	n := 0
	for {
		_, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		n++
	}
	if n != 3 {
		t.Errorf("got %d complete events, want 3", n)
	}
	if !r.Truncated() {
		t.Error("Truncated: got false, want true")
	}
}

type captureLogger struct {
	events []Event
}

func (c *captureLogger) Log(ev Event) { c.events = append(c.events, ev) }

func TestMultiLogger(t *testing.T) {
	a, b := &captureLogger{}, &captureLogger{}
	m := NewMultiLogger(a, nil, b, NoopLogger{})
	m.Log(Event{Category: CategoryError})
	if len(a.events) != 1 || len(b.events) != 1 {
		t.Errorf("events not fanned out: %d, %d", len(a.events), len(b.events))
	}
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	adapter := NewSlogAdapter(logger)

	for _, ev := range sampleEvents(time.Now()) {
		adapter.Log(ev)
	}
	code := 11
	adapter.Log(Event{Category: CategoryError, Error: &ErrorEventData{Layer: LayerApp, Message: "fatal", Code: &code}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if entry["new_state"] != "CONNECTED" {
		t.Errorf("new_state: got %v, want CONNECTED", entry["new_state"])
	}
	if entry["conn_id"] != "sess-1" {
		t.Errorf("conn_id: got %v, want sess-1", entry["conn_id"])
	}

	if err := json.Unmarshal([]byte(lines[2]), &entry); err != nil {
		t.Fatal(err)
	}
	if entry["action"] != "ARMED" || entry["purpose"] != "CONN_PARAMS" {
		t.Errorf("timer attrs: got %v", entry)
	}

	if err := json.Unmarshal([]byte(lines[4]), &entry); err != nil {
		t.Fatal(err)
	}
	if entry["error_code"] != float64(11) {
		t.Errorf("error_code: got %v, want 11", entry["error_code"])
	}
}

func TestBroadcaster(t *testing.T) {
	b := NewBroadcaster()
	srv := httptest.NewServer(b)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for b.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client was not registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	ev := sampleEvents(time.Now())[2]
	b.Log(ev)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var view View
	if err := conn.ReadJSON(&view); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if view.Category != "TIMER" || view.Timer == nil || view.Timer.Action != "ARMED" {
		t.Errorf("unexpected view: %+v", view)
	}
	if view.Timer.Duration != "5s" {
		t.Errorf("Duration: got %q, want 5s", view.Timer.Duration)
	}

	b.Close()
	if b.Clients() != 0 {
		t.Errorf("Clients after Close: got %d", b.Clients())
	}
}

func TestEnumStrings(t *testing.T) {
	if DirectionInternal.String() != "INTERNAL" || LayerTimer.String() != "TIMER" {
		t.Error("unexpected enum names")
	}
	if TimerStale.String() != "STALE" || StateEntityNegotiation.String() != "NEGOTIATION" {
		t.Error("unexpected enum names")
	}
	if Category(42).String() != "UNKNOWN" {
		t.Error("unknown category should be UNKNOWN")
	}
}
