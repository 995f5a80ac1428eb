package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/htp-ble/htp-go/pkg/log"
)

func u16(v uint16) *uint16 { return &v }

var base = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

const session = "5f0c3b9e-1d2a-4c8b-9e7f-0a1b2c3d4e5f"

func sampleEvents() []log.Event {
	armed := 30 * time.Second
	return []log.Event{
		{
			Timestamp: base,
			Direction: log.DirectionInternal,
			Layer:     log.LayerApp,
			Category:  log.CategoryState,
			StateChange: &log.StateChangeEvent{
				Entity:   log.StateEntityLifecycle,
				NewState: "INIT",
				Reason:   "boot",
			},
		},
		{
			Timestamp: base.Add(10 * time.Millisecond),
			Direction: log.DirectionInternal,
			Layer:     log.LayerTimer,
			Category:  log.CategoryTimer,
			Timer:     &log.TimerEvent{Purpose: "advertising", Action: log.TimerArmed, Handle: "1", Duration: &armed},
		},
		{
			Timestamp:    base.Add(2 * time.Second),
			ConnectionID: session,
			PeerAddr:     "AB:CD:EF:00:00:01/public",
			Direction:    log.DirectionIn,
			Layer:        log.LayerEngine,
			Category:     log.CategoryMessage,
			Message:      &log.MessageEvent{Name: "ATTRIBUTE_ACCESS", Handle: u16(0x0003), Detail: "read offset=0"},
		},
		{
			Timestamp:    base.Add(2*time.Second + time.Millisecond),
			ConnectionID: session,
			PeerAddr:     "AB:CD:EF:00:00:01/public",
			Direction:    log.DirectionOut,
			Layer:        log.LayerEngine,
			Category:     log.CategoryMessage,
			Message:      &log.MessageEvent{Name: "ACCESS_RESPONSE", Handle: u16(0x0003), Status: "SUCCESS", Payload: []byte("Thermo")},
		},
		{
			Timestamp: base.Add(3 * time.Second),
			Direction: log.DirectionInternal,
			Layer:     log.LayerApp,
			Category:  log.CategoryError,
			Error:     &log.ErrorEventData{Layer: log.LayerApp, Message: "boom", Context: "nvm-write"},
		},
	}
}

func writeLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "device.log")
	fl, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, ev := range sampleEvents() {
		fl.Log(ev)
	}
	if err := fl.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFormatMessageEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[3])
	output := buf.String()

	for _, want := range []string{
		"2026-03-02T09:30:02.001000Z",
		"[conn:5f0c3b9e]",
		"OUT",
		"ENGINE",
		"ACCESS_RESPONSE",
		"Handle: 0x0003",
		"Status: SUCCESS",
		"Payload: 546865726d6f",
		"Peer: AB:CD:EF:00:00:01/public",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestFormatStateAndTimerEvents(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[0])
	formatEvent(&buf, sampleEvents()[1])
	output := buf.String()

	if !strings.Contains(output, "[conn:-]") {
		t.Errorf("expected placeholder connection ID, got: %s", output)
	}
	if !strings.Contains(output, "-> INIT") || !strings.Contains(output, "Reason: boot") {
		t.Errorf("expected state details, got: %s", output)
	}
	if !strings.Contains(output, "advertising ARMED (handle 1) for 30s") {
		t.Errorf("expected timer details, got: %s", output)
	}
}

func TestRunViewFilters(t *testing.T) {
	path := writeLog(t)

	dir := log.DirectionOut
	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{Direction: &dir}, &buf); err != nil {
		t.Fatal(err)
	}
	output := buf.String()
	if !strings.Contains(output, "ACCESS_RESPONSE") {
		t.Errorf("expected outgoing response, got: %s", output)
	}
	if strings.Contains(output, "ATTRIBUTE_ACCESS") || strings.Contains(output, "INIT") {
		t.Errorf("expected only outgoing events, got: %s", output)
	}

	buf.Reset()
	if err := RunView(path, ViewFilter{Name: "ATTRIBUTE_ACCESS"}, &buf); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), "[conn:"); got != 1 {
		t.Errorf("expected 1 event, got %d", got)
	}
}

func TestParseFlags(t *testing.T) {
	if l, err := ParseLayerFlag("ENGINE"); err != nil || l != log.LayerEngine {
		t.Errorf("ParseLayerFlag(ENGINE) = %v, %v", l, err)
	}
	if _, err := ParseLayerFlag("wire"); err == nil {
		t.Error("expected error for unknown layer")
	}
	if d, err := ParseDirectionFlag("internal"); err != nil || d != log.DirectionInternal {
		t.Errorf("ParseDirectionFlag(internal) = %v, %v", d, err)
	}
	if c, err := ParseCategoryFlag("timer"); err != nil || c != log.CategoryTimer {
		t.Errorf("ParseCategoryFlag(timer) = %v, %v", c, err)
	}
	if _, err := ParseCategoryFlag("snapshot"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestCollectStats(t *testing.T) {
	stats, err := Collect(writeLog(t))
	if err != nil {
		t.Fatal(err)
	}

	if stats.TotalEvents != 5 {
		t.Errorf("TotalEvents = %d, want 5", stats.TotalEvents)
	}
	if stats.EventsByLayer[log.LayerEngine] != 2 {
		t.Errorf("engine events = %d, want 2", stats.EventsByLayer[log.LayerEngine])
	}
	if stats.Messages["ACCESS_RESPONSE"] != 1 {
		t.Errorf("ACCESS_RESPONSE count = %d, want 1", stats.Messages["ACCESS_RESPONSE"])
	}
	if stats.States["INIT"] != 1 {
		t.Errorf("INIT count = %d, want 1", stats.States["INIT"])
	}
	if len(stats.Connections) != 1 {
		t.Fatalf("connections = %d, want 1", len(stats.Connections))
	}
	conn := stats.Connections[session]
	if conn.Events != 2 || conn.Peer != "AB:CD:EF:00:00:01/public" {
		t.Errorf("connection stats = %+v", conn)
	}
	if len(stats.Errors) != 1 || stats.Errors[0] != "nvm-write" {
		t.Errorf("errors = %v", stats.Errors)
	}
	if got := stats.TimeRange.End.Sub(stats.TimeRange.Start); got != 3*time.Second {
		t.Errorf("time range = %s, want 3s", got)
	}
}

func TestRunStatsOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := RunStats(writeLog(t), &buf); err != nil {
		t.Fatal(err)
	}
	output := buf.String()
	for _, want := range []string{"Total Events: 5", "Connections: 1", "[5f0c3b9e] 2 events", "Errors: 1"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestRunStatsEmptyLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.log")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestExportJSONL(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.jsonl")
	if err := RunExport(writeLog(t), "jsonl", out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}

	var v log.View
	if err := json.Unmarshal([]byte(lines[1]), &v); err != nil {
		t.Fatal(err)
	}
	if v.Layer != "TIMER" || v.Timer == nil || v.Timer.Action != "ARMED" || v.Timer.Duration != "30s" {
		t.Errorf("unexpected view: %+v", v)
	}
}

func TestExportCSV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.csv")
	if err := RunExport(writeLog(t), "csv", out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected header and 5 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "timestamp,connection_id") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "->INIT") {
		t.Errorf("expected state detail, got: %s", lines[1])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	if err := RunExport(writeLog(t), "xml", ""); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRunFilter(t *testing.T) {
	out := filepath.Join(t.TempDir(), "filtered.log")
	n, err := RunFilter(writeLog(t), FilterOptions{Output: out, ConnID: session, Direction: "in"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("filtered %d events, want 1", n)
	}

	events, err := log.ReadAll(out, log.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Message == nil || events[0].Message.Name != "ATTRIBUTE_ACCESS" {
		t.Errorf("unexpected filtered events: %+v", events)
	}
}

func TestRunFilterBadTime(t *testing.T) {
	out := filepath.Join(t.TempDir(), "filtered.log")
	if _, err := RunFilter(writeLog(t), FilterOptions{Output: out, TimeStart: "yesterday"}); err == nil {
		t.Error("expected error for bad time")
	}
}
