package observ

import (
	"strings"
	"sync"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	end := tm.Track("parse")
	end("2 files")
	idx := tm.Begin("bind")
	tm.End(idx, "")
	tm.End(99, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(r.Phases))
	}
	if r.Phases[0].Name != "parse" || r.Phases[0].Note != "2 files" {
		t.Fatalf("unexpected first phase: %+v", r.Phases[0])
	}
	s := tm.Summary()
	if !strings.Contains(s, "parse") || !strings.Contains(s, "total") {
		t.Fatalf("summary missing rows:\n%s", s)
	}
}

func TestTimerConcurrent(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Track("load")("")
		}()
	}
	wg.Wait()
	if got := len(tm.Report().Phases); got != 16 {
		t.Fatalf("expected 16 phases, got %d", got)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.Track("x")("")
	if len(tm.Report().Phases) != 0 {
		t.Fatalf("nil timer must report nothing")
	}
}
