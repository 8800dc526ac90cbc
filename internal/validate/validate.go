// Package validate holds the pure identifier predicates the gateway
// applies to request arguments before any backend call is attempted.
package validate

import (
	"regexp"
	"strings"
)

// Kind names a validation rule a parameter can declare.
type Kind string

const (
	KindSpreadsheetID Kind = "spreadsheet_id"
	KindSheetName     Kind = "sheet_name"
	KindRange         Kind = "range"
	KindEmail         Kind = "email"
	KindString        Kind = "string" // any non-empty string
	KindInt           Kind = "int"
	KindAny           Kind = "any"
)

// Spec describes one parameter of an operation.
type Spec struct {
	Required bool
	Kind     Kind
}

var (
	// Sheet!A1 or Sheet!A1:B2 or A1:B2; the sheet token matches the
	// identifiers the backend accepts in unquoted A1 references.
	rangeRe = regexp.MustCompile(`^([A-Za-z0-9_]+!)?[A-Z]+[0-9]+(:[A-Z]+[0-9]+)?$`)
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// SpreadsheetID reports whether id looks like a backend document ID:
// 20-100 chars, none of the characters that could smuggle markup or
// header injection into a URL or log line.
func SpreadsheetID(id string) bool {
	if len(id) < 20 || len(id) > 100 {
		return false
	}
	return !strings.ContainsAny(id, "<>\"'&\x00\r\n")
}

// SheetName reports whether name is a legal sheet tab name:
// 1-100 chars, none of the characters the backend reserves.
func SheetName(name string) bool {
	if len(name) < 1 || len(name) > 100 {
		return false
	}
	return !strings.ContainsAny(name, "[]*?:\\/\x00")
}

// Range reports whether s is a well-formed A1-notation range,
// optionally prefixed with a sheet token.
func Range(s string) bool {
	return rangeRe.MatchString(s)
}

// Email reports whether s has a plausible local@domain.tld shape.
func Email(s string) bool {
	return emailRe.MatchString(s)
}

// Check applies the rule named by kind to a raw argument value.
// String-shaped kinds reject non-string values outright.
func Check(kind Kind, value any) bool {
	switch kind {
	case KindSpreadsheetID:
		s, ok := value.(string)
		return ok && SpreadsheetID(s)
	case KindSheetName:
		s, ok := value.(string)
		return ok && SheetName(s)
	case KindRange:
		s, ok := value.(string)
		return ok && Range(s)
	case KindEmail:
		s, ok := value.(string)
		return ok && Email(s)
	case KindString:
		s, ok := value.(string)
		return ok && s != ""
	case KindInt:
		switch v := value.(type) {
		case int:
			return true
		case int64:
			return true
		case float64:
			// JSON numbers arrive as float64.
			return v == float64(int64(v))
		default:
			return false
		}
	case KindAny:
		return true
	default:
		return false
	}
}
