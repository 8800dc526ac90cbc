package audit

// Outcome is the recorded result of one gateway call.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Entry is one immutable audit record. Args holds the sanitized
// argument summary only — raw arguments never enter the audit path.
// All fields are scalars or a flat map so json.Marshal order stays
// deterministic for the hash-chained file sink.
type Entry struct {
	Timestamp     string         `json:"ts"`
	Method        string         `json:"method"`
	Outcome       Outcome        `json:"outcome"`
	Category      string         `json:"category,omitempty"`
	Detail        string         `json:"detail,omitempty"`
	CorrelationID string         `json:"correlation_id"`
	Args          map[string]any `json:"args,omitempty"`
	PrevHash      string         `json:"prev_hash,omitempty"`
}
