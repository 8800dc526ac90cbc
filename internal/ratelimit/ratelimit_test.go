package ratelimit

import (
	"sync"
	"testing"
	"time"
)

// fixedClock returns a now func backed by a mutable time value.
func fixedClock(start time.Time) (*time.Time, func() time.Time) {
	t := start
	return &t, func() time.Time { return t }
}

func TestAdmitWithinBudget(t *testing.T) {
	l := New(3, time.Minute)
	for i := 0; i < 3; i++ {
		d := l.Admit()
		if !d.Allowed {
			t.Fatalf("call %d: expected allowed", i)
		}
		if d.Remaining != 3-i-1 {
			t.Errorf("call %d: expected remaining %d, got %d", i, 3-i-1, d.Remaining)
		}
	}
}

func TestAdmitDeniesOverBudget(t *testing.T) {
	l := New(2, time.Minute)
	l.Admit()
	l.Admit()
	d := l.Admit()
	if d.Allowed {
		t.Fatal("expected denial after budget exhausted")
	}
	if d.Remaining != 0 {
		t.Errorf("expected remaining 0, got %d", d.Remaining)
	}
}

func TestDenialRetryAfter(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock, now := fixedClock(start)
	l := New(1, time.Minute)
	l.now = now

	l.Admit()
	*clock = start.Add(20 * time.Second)

	d := l.Admit()
	if d.Allowed {
		t.Fatal("expected denial")
	}
	if d.RetryAfter != 40*time.Second {
		t.Errorf("expected retry_after 40s, got %s", d.RetryAfter)
	}
}

func TestDeniedCallsDoNotConsumeSlots(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock, now := fixedClock(start)
	l := New(1, time.Minute)
	l.now = now

	l.Admit()
	// Retry storm: denials must not extend the window.
	for i := 0; i < 50; i++ {
		*clock = start.Add(time.Duration(i) * time.Second)
		if d := l.Admit(); d.Allowed {
			t.Fatalf("retry %d: expected denial", i)
		}
	}

	*clock = start.Add(61 * time.Second)
	if d := l.Admit(); !d.Allowed {
		t.Error("expected admission after original call left the window")
	}
}

func TestWindowEviction(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock, now := fixedClock(start)
	l := New(2, time.Minute)
	l.now = now

	l.Admit()
	*clock = start.Add(30 * time.Second)
	l.Admit()

	*clock = start.Add(61 * time.Second)
	d := l.Admit()
	if !d.Allowed {
		t.Fatal("expected admission after first call expired")
	}
	if d.Remaining != 0 {
		t.Errorf("expected remaining 0, got %d", d.Remaining)
	}
}

func TestRemainingDoesNotCharge(t *testing.T) {
	l := New(1, time.Minute)
	for i := 0; i < 5; i++ {
		if r := l.Remaining(); r != 1 {
			t.Fatalf("probe %d: expected remaining 1, got %d", i, r)
		}
	}
	if d := l.Admit(); !d.Allowed {
		t.Error("expected admission after probes")
	}
}

func TestConcurrentAdmitExactlyOne(t *testing.T) {
	l := New(1, time.Minute)

	const callers = 32
	var wg sync.WaitGroup
	allowed := make(chan bool, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed <- l.Admit().Allowed
		}()
	}
	wg.Wait()
	close(allowed)

	count := 0
	for a := range allowed {
		if a {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly 1 admission, got %d", count)
	}
}

// --- Budget / Set tests ---

func TestBudgetActive(t *testing.T) {
	if (Budget{}).Active() {
		t.Error("expected zero budget inactive")
	}
	if (Budget{MaxCalls: 10}).Active() {
		t.Error("expected budget without window inactive")
	}
	if !(Budget{MaxCalls: 10, Window: time.Minute}).Active() {
		t.Error("expected configured budget active")
	}
}

func TestSetGlobalDenialShortCircuits(t *testing.T) {
	s := NewSet(
		Budget{MaxCalls: 1, Window: time.Minute},
		map[string]Budget{"write": {MaxCalls: 5, Window: time.Minute}},
	)

	if d := s.Admit("write"); !d.Allowed {
		t.Fatal("first call should be admitted")
	}
	if d := s.Admit("write"); d.Allowed {
		t.Fatal("second call should hit global limit")
	}
	// Global denial must not have charged the per-op limiter.
	if r := s.perOp["write"].Remaining(); r != 4 {
		t.Errorf("expected per-op remaining 4, got %d", r)
	}
}

func TestSetPerOperationLimit(t *testing.T) {
	s := NewSet(
		Budget{MaxCalls: 100, Window: time.Minute},
		map[string]Budget{"share": {MaxCalls: 1, Window: time.Minute}},
	)

	if d := s.Admit("share"); !d.Allowed {
		t.Fatal("first share should be admitted")
	}
	if d := s.Admit("share"); d.Allowed {
		t.Fatal("second share should hit per-op limit")
	}
	if d := s.Admit("read"); !d.Allowed {
		t.Error("unlimited operation should still be admitted")
	}
}

func TestSetNoLimits(t *testing.T) {
	s := NewSet(Budget{}, nil)
	for i := 0; i < 1000; i++ {
		if d := s.Admit("anything"); !d.Allowed {
			t.Fatalf("call %d: expected admission with no limits", i)
		}
	}
}
