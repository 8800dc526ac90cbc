package validate

import (
	"strings"
	"testing"
)

func TestSpreadsheetIDValid(t *testing.T) {
	id := "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"
	if !SpreadsheetID(id) {
		t.Errorf("expected valid: %q", id)
	}
}

func TestSpreadsheetIDLength(t *testing.T) {
	if SpreadsheetID("short") {
		t.Error("expected reject: too short")
	}
	if SpreadsheetID(strings.Repeat("a", 101)) {
		t.Error("expected reject: too long")
	}
	if !SpreadsheetID(strings.Repeat("a", 20)) {
		t.Error("expected accept: exactly 20 chars")
	}
	if !SpreadsheetID(strings.Repeat("a", 100)) {
		t.Error("expected accept: exactly 100 chars")
	}
}

func TestSpreadsheetIDDangerousChars(t *testing.T) {
	base := strings.Repeat("a", 30)
	for _, c := range []string{"<", ">", "\"", "'", "&", "\x00", "\r", "\n"} {
		if SpreadsheetID(base + c) {
			t.Errorf("expected reject for char %q", c)
		}
	}
}

func TestSheetName(t *testing.T) {
	if !SheetName("Sheet1") {
		t.Error("expected accept: Sheet1")
	}
	if !SheetName("Q3 Forecast") {
		t.Error("expected accept: name with space")
	}
	if SheetName("") {
		t.Error("expected reject: empty")
	}
	if SheetName(strings.Repeat("a", 101)) {
		t.Error("expected reject: too long")
	}
	for _, c := range []string{"[", "]", "*", "?", ":", "\\", "/", "\x00"} {
		if SheetName("bad" + c + "name") {
			t.Errorf("expected reject for char %q", c)
		}
	}
}

func TestRange(t *testing.T) {
	valid := []string{"A1", "A1:B2", "Sheet1!A1", "Sheet1!A1:C10", "AA10:AB20", "My_Sheet!B2"}
	for _, r := range valid {
		if !Range(r) {
			t.Errorf("expected accept: %q", r)
		}
	}
	invalid := []string{"", "1A", "A1:B", "Sheet 1!A1", "A1:B2:C3", "a1", "A1;B2"}
	for _, r := range invalid {
		if Range(r) {
			t.Errorf("expected reject: %q", r)
		}
	}
}

func TestEmail(t *testing.T) {
	if !Email("user@example.com") {
		t.Error("expected accept: user@example.com")
	}
	if !Email("first.last+tag@sub.domain.org") {
		t.Error("expected accept: tagged address")
	}
	for _, e := range []string{"", "user", "user@", "@example.com", "user@example", "user @example.com"} {
		if Email(e) {
			t.Errorf("expected reject: %q", e)
		}
	}
}

func TestCheckKinds(t *testing.T) {
	id := strings.Repeat("x", 44)
	cases := []struct {
		kind  Kind
		value any
		want  bool
	}{
		{KindSpreadsheetID, id, true},
		{KindSpreadsheetID, 42, false},
		{KindSheetName, "Sheet1", true},
		{KindSheetName, "bad[name]", false},
		{KindRange, "A1:B2", true},
		{KindRange, "nope", false},
		{KindEmail, "a@b.co", true},
		{KindString, "hello", true},
		{KindString, "", false},
		{KindString, nil, false},
		{KindInt, 3, true},
		{KindInt, float64(3), true},
		{KindInt, float64(3.5), false},
		{KindInt, "3", false},
		{KindAny, map[string]any{"k": "v"}, true},
		{KindAny, nil, true},
		{Kind("bogus"), "x", false},
	}
	for _, c := range cases {
		if got := Check(c.kind, c.value); got != c.want {
			t.Errorf("Check(%s, %v): expected %v, got %v", c.kind, c.value, c.want, got)
		}
	}
}
