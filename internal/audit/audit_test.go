package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRecordAndQuery(t *testing.T) {
	l := NewLog(10)
	l.Record(Entry{Method: "get_sheet_data", Outcome: OutcomeSuccess, CorrelationID: "c1"})
	l.Record(Entry{Method: "update_cells", Outcome: OutcomeFailure, Category: "validation", CorrelationID: "c2"})

	all := l.Query("", 0)
	if len(all) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(all))
	}
	if all[0].Method != "get_sheet_data" || all[1].Method != "update_cells" {
		t.Error("expected chronological order")
	}
	if all[0].Timestamp == "" {
		t.Error("expected timestamp stamped on record")
	}
}

func TestQueryCategoryFilter(t *testing.T) {
	l := NewLog(10)
	l.Record(Entry{Method: "a", Outcome: OutcomeFailure, Category: "validation"})
	l.Record(Entry{Method: "b", Outcome: OutcomeFailure, Category: "rate_limited"})
	l.Record(Entry{Method: "c", Outcome: OutcomeFailure, Category: "validation"})

	got := l.Query("validation", 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 validation entries, got %d", len(got))
	}
	if got[0].Method != "a" || got[1].Method != "c" {
		t.Error("expected filtered entries in order")
	}
}

func TestQueryLimitKeepsMostRecent(t *testing.T) {
	l := NewLog(10)
	for i := 0; i < 5; i++ {
		l.Record(Entry{Method: fmt.Sprintf("m%d", i), Outcome: OutcomeSuccess})
	}
	got := l.Query("", 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Method != "m3" || got[1].Method != "m4" {
		t.Errorf("expected the two most recent, got %s %s", got[0].Method, got[1].Method)
	}
}

func TestRingWraparound(t *testing.T) {
	l := NewLog(3)
	for i := 0; i < 7; i++ {
		l.Record(Entry{Method: fmt.Sprintf("m%d", i), Outcome: OutcomeSuccess})
	}
	if l.Len() != 3 {
		t.Fatalf("expected 3 retained, got %d", l.Len())
	}
	got := l.Query("", 0)
	if got[0].Method != "m4" || got[2].Method != "m6" {
		t.Errorf("expected oldest dropped, got %s..%s", got[0].Method, got[2].Method)
	}
}

func TestDefaultRetention(t *testing.T) {
	l := NewLog(0)
	if len(l.entries) != DefaultRetention {
		t.Errorf("expected default retention %d, got %d", DefaultRetention, len(l.entries))
	}
}

func TestSinkChain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	s, err := OpenSink(path)
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}

	now := time.Now().UTC().Format(TimestampFormat)
	for i := 0; i < 3; i++ {
		e := Entry{
			Timestamp:     now,
			Method:        fmt.Sprintf("m%d", i),
			Outcome:       OutcomeSuccess,
			CorrelationID: fmt.Sprintf("c%d", i),
		}
		if err := s.Write(e); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}
	s.Close()

	res := Verify(path)
	if !res.Valid {
		t.Fatalf("expected valid chain: %s (line %d)", res.Error, res.ErrorLine)
	}
	if res.Lines != 3 {
		t.Errorf("expected 3 lines, got %d", res.Lines)
	}
}

func TestSinkReopenContinuesChain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	s, _ := OpenSink(path)
	s.Write(Entry{Timestamp: "2025-01-01T00:00:00.000Z", Method: "first", Outcome: OutcomeSuccess})
	s.Close()

	s2, err := OpenSink(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	s2.Write(Entry{Timestamp: "2025-01-01T00:00:01.000Z", Method: "second", Outcome: OutcomeSuccess})
	s2.Close()

	res := Verify(path)
	if !res.Valid {
		t.Fatalf("expected intact chain across reopen: %s", res.Error)
	}
	if res.Lines != 2 {
		t.Errorf("expected 2 lines, got %d", res.Lines)
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	s, _ := OpenSink(path)
	s.Write(Entry{Timestamp: "2025-01-01T00:00:00.000Z", Method: "a", Outcome: OutcomeSuccess})
	s.Write(Entry{Timestamp: "2025-01-01T00:00:01.000Z", Method: "b", Outcome: OutcomeSuccess})
	s.Close()

	data, _ := os.ReadFile(path)
	tampered := []byte(string(data[:20]) + "X" + string(data[21:]))
	os.WriteFile(path, tampered, 0600)

	res := Verify(path)
	if res.Valid {
		t.Fatal("expected tampering detected")
	}
	if res.ErrorLine != 2 {
		t.Errorf("expected break reported at line 2, got %d", res.ErrorLine)
	}
	// The diagnostic names the broken entry and both hashes.
	if !strings.Contains(res.Error, "(b)") || !strings.Contains(res.Error, "expected sha256:") {
		t.Errorf("expected entry and hash in diagnostic, got %q", res.Error)
	}
}

func TestLogWithSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	s, _ := OpenSink(path)
	l := NewLog(5).WithSink(s)

	l.Record(Entry{Method: "get_sheet_data", Outcome: OutcomeSuccess, CorrelationID: "c1"})
	s.Close()

	entries, err := Tail(path, "", 0)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(entries) != 1 || entries[0].Method != "get_sheet_data" {
		t.Errorf("expected sink to carry the entry, got %+v", entries)
	}
}

func TestTailFilterAndLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	s, _ := OpenSink(path)
	for i := 0; i < 4; i++ {
		cat := "validation"
		if i%2 == 1 {
			cat = "internal"
		}
		s.Write(Entry{Timestamp: "2025-01-01T00:00:00.000Z", Method: fmt.Sprintf("m%d", i), Outcome: OutcomeFailure, Category: cat})
	}
	s.Close()

	got, err := Tail(path, "validation", 1)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(got) != 1 || got[0].Method != "m2" {
		t.Errorf("expected most recent validation entry m2, got %+v", got)
	}
}
