// Package gateway is the tool invocation pipeline: it resolves a
// method against the registry, enforces validation and rate-limit
// admission, executes the operation against the shared session, and
// shapes every failure through the classifier before it can reach a
// caller. Stage order is normative: validation runs before admission
// is charged, so a malformed request never consumes a limiter slot.
package gateway

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/sheetgate/sheetgate/internal/audit"
	"github.com/sheetgate/sheetgate/internal/classify"
	"github.com/sheetgate/sheetgate/internal/ratelimit"
	"github.com/sheetgate/sheetgate/internal/registry"
	"github.com/sheetgate/sheetgate/internal/sanitize"
	"github.com/sheetgate/sheetgate/internal/session"
	"github.com/sheetgate/sheetgate/internal/validate"
)

// Request is one inbound tool invocation.
type Request struct {
	Method        string         `json:"method"`
	Arguments     map[string]any `json:"arguments"`
	CorrelationID string         `json:"correlation_id"`
}

// Response is the well-formed result of every invocation. Exactly one
// of Payload or Error is set.
type Response struct {
	Success bool              `json:"success"`
	Payload any               `json:"payload,omitempty"`
	Error   *classify.Failure `json:"error,omitempty"`
}

// Gateway owns the registry, limiters, and audit log for its process
// lifetime, and borrows the session from bootstrap.
type Gateway struct {
	registry *registry.Registry
	limits   *ratelimit.Set
	auditLog *audit.Log
	sess     *session.Session
	strict   bool
}

// Config assembles a gateway from its owned collaborators.
type Config struct {
	Registry *registry.Registry
	Limits   *ratelimit.Set
	Audit    *audit.Log
	Session  *session.Session
	// Strict rejects arguments not named in the operation's parameter
	// spec. Non-strict mode passes them through to the handler.
	Strict bool
}

// New creates a gateway. The session is borrowed: the gateway never
// closes or recreates it.
func New(cfg Config) *Gateway {
	return &Gateway{
		registry: cfg.Registry,
		limits:   cfg.Limits,
		auditLog: cfg.Audit,
		sess:     cfg.Session,
		strict:   cfg.Strict,
	}
}

// Handle runs one request through the admission pipeline.
func (g *Gateway) Handle(ctx context.Context, req Request) Response {
	if req.Method == "" {
		return g.fail(req, classify.ValidationFailure("method"))
	}

	// 1. Resolve before anything else so an unknown method is cheap.
	desc, err := g.registry.Resolve(req.Method)
	if err != nil {
		return g.fail(req, classify.NotFoundFailure(req.Method))
	}

	// 2. Validate before charging admission: a structurally invalid
	// request must not consume a slot for a call that will never be
	// attempted.
	if param, ok := g.validateArgs(desc, req.Arguments); !ok {
		return g.fail(req, classify.ValidationFailure(param))
	}

	// 3. Admission: global limiter first, then per-operation.
	if d := g.limits.Admit(req.Method); !d.Allowed {
		return g.fail(req, classify.RateLimitFailure(d.RetryAfter))
	}

	// 4. The handler gets the original arguments; sanitization
	// protects the audit trail, not business logic.
	payload, opErr := desc.Handler(ctx, g.sess, req.Arguments)
	if opErr != nil {
		return g.fail(req, classify.Error(opErr))
	}

	g.record(req, audit.Entry{
		Method:  req.Method,
		Outcome: audit.OutcomeSuccess,
	})
	return Response{Success: true, Payload: payload}
}

// validateArgs checks required presence and per-kind validity.
// Parameters are checked in sorted order so the named offender is
// deterministic when several are bad.
func (g *Gateway) validateArgs(desc *registry.Descriptor, args map[string]any) (string, bool) {
	names := make([]string, 0, len(desc.Params))
	for name := range desc.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := desc.Params[name]
		value, present := args[name]
		if !present {
			if spec.Required {
				return name, false
			}
			continue
		}
		if !validate.Check(spec.Kind, value) {
			return name, false
		}
	}

	if g.strict {
		for name := range args {
			if _, known := desc.Params[name]; !known {
				return name, false
			}
		}
	}
	return "", true
}

// fail records the failure and returns a well-formed error response.
func (g *Gateway) fail(req Request, f *classify.Failure) Response {
	g.record(req, audit.Entry{
		Method:   req.Method,
		Outcome:  audit.OutcomeFailure,
		Category: string(f.Category),
		Detail:   f.Raw,
	})
	return Response{Success: false, Error: f}
}

// record appends the audit entry with the sanitized argument summary.
// Audit is best-effort: a panic here must never cost the caller its
// response.
func (g *Gateway) record(req Request, e audit.Entry) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "audit record failed: %v\n", r)
		}
	}()
	e.CorrelationID = req.CorrelationID
	e.Args = sanitize.Arguments(req.Arguments)
	g.auditLog.Record(e)
}

// Audit exposes the gateway's audit log for the query surface.
func (g *Gateway) Audit() *audit.Log {
	return g.auditLog
}
