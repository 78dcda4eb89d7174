package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopeStage, true},
		{LevelPhase, ScopeSubgraph, false},
		{LevelDetail, ScopeSubgraph, true},
		{LevelDebug, ScopeSubgraph, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestStreamTracerSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	run := Begin(tr, ScopeDriver, "compose", 0)
	stage := Begin(tr, ScopeStage, "validate", run.ID())
	sub := Begin(tr, ScopeSubgraph, "subgraph:billing", stage.ID())
	sub.End("")
	stage.WithExtra("subgraphs", "2").End("")
	run.End("completed")

	out := buf.String()
	if strings.Contains(out, "subgraph:billing") {
		t.Errorf("subgraph span leaked at phase level:\n%s", out)
	}
	if got := strings.Count(out, "\n"); got != 4 {
		t.Errorf("expected 4 lines, got %d:\n%s", got, out)
	}
	if !strings.Contains(out, "{subgraphs=2}") || !strings.Contains(out, "(completed)") {
		t.Errorf("missing extra or detail:\n%s", out)
	}
}

func TestRingTracerWraps(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d"} {
		Point(ring, ScopeStage, name, "", 0)
	}
	snap := ring.Snapshot()
	if len(snap) != 3 || snap[0].Name != "b" || snap[2].Name != "d" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatNDJSON); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 3 {
		t.Fatalf("expected 3 NDJSON lines, got %d", got)
	}
}

func TestNewPicksRing(t *testing.T) {
	tr, err := New(Config{Level: LevelDetail, Mode: ModeBoth, Output: &bytes.Buffer{}, RingSize: 8})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := RingOf(tr); !ok {
		t.Fatal("expected a ring behind ModeBoth")
	}

	off, err := New(Config{Level: LevelOff})
	if err != nil || off.Enabled() {
		t.Fatalf("LevelOff must give a disabled tracer, got %v %v", off, err)
	}
}

func TestContextRoundTrip(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("empty context must yield Nop")
	}
	ring := NewRingTracer(4, LevelDebug)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Fatal("tracer not carried by context")
	}
}

func TestStartNestsUnderContextSpan(t *testing.T) {
	ring := NewRingTracer(16, LevelDetail)
	ctx := WithTracer(context.Background(), ring)

	ctx, outer := Start(ctx, ScopeStage, "validate")
	_, inner := Start(ctx, ScopeSubgraph, "subgraph:a")
	inner.End("")
	outer.End("")

	events := ring.Snapshot()
	if len(events) != 4 {
		t.Fatalf("got %d events", len(events))
	}
	if events[1].Name != "subgraph:a" || events[1].ParentID != outer.ID() {
		t.Fatalf("inner span not nested: %+v", events[1])
	}
	if CurrentSpan(ctx).SpanID != outer.ID() {
		t.Fatal("Start must record the span in the returned context")
	}
}

func TestStartDisabledKeepsContext(t *testing.T) {
	ctx := context.Background()
	got, span := Start(ctx, ScopeStage, "validate")
	if got != ctx {
		t.Fatal("disabled Start must return the same context")
	}
	if span.End("") != 0 || span.ID() != 0 {
		t.Fatal("disabled span must be a no-op")
	}
}

func TestHeartbeat(t *testing.T) {
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Fatal("heartbeat on Nop must be nil")
	}
	var nilBeat *Heartbeat
	nilBeat.Stop()

	ring := NewRingTracer(64, LevelPhase)
	h := StartHeartbeat(ring, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(ring.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()

	events := ring.Snapshot()
	if len(events) == 0 {
		t.Fatal("no heartbeat emitted")
	}
	if events[0].Kind != KindHeartbeat || events[0].Detail != "#1" || events[0].Extra["uptime"] == "" {
		t.Fatalf("unexpected heartbeat %+v", events[0])
	}
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]Format{
		"trace.ndjson": FormatNDJSON,
		"trace.jsonl":  FormatNDJSON,
		"trace.txt":    FormatText,
		"":             FormatText,
	}
	for path, want := range tests {
		if got := FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q) = %d, want %d", path, got, want)
		}
	}
}

func TestGoroutineID(t *testing.T) {
	self := goroutineID()
	if self == 0 {
		t.Fatal("goroutineID returned 0")
	}
	other := make(chan uint64)
	go func() { other <- goroutineID() }()
	if id := <-other; id == self || id == 0 {
		t.Fatalf("goroutine ids: self %d, other %d", self, id)
	}
}
