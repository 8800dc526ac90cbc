package ratelimit

import "time"

// Budget defines one limiter's admission budget.
// A zero MaxCalls or Window means no limit.
type Budget struct {
	MaxCalls int           `yaml:"max_calls"`
	Window   time.Duration `yaml:"window"`
}

// Active returns true if the budget imposes a limit.
func (b Budget) Active() bool {
	return b.MaxCalls > 0 && b.Window > 0
}

// Set holds the global limiter plus optional per-operation limiters.
type Set struct {
	global *Limiter
	perOp  map[string]*Limiter
}

// NewSet builds a limiter set from budgets. Operations without an
// active budget get no per-operation limiter.
func NewSet(global Budget, perOp map[string]Budget) *Set {
	s := &Set{perOp: make(map[string]*Limiter)}
	if global.Active() {
		s.global = New(global.MaxCalls, global.Window)
	}
	for name, b := range perOp {
		if b.Active() {
			s.perOp[name] = New(b.MaxCalls, b.Window)
		}
	}
	return s
}

// Admit checks the global limiter, then the operation's limiter if one
// exists. The first denial wins; a global denial does not charge the
// per-operation limiter.
func (s *Set) Admit(operation string) Decision {
	if s.global != nil {
		if d := s.global.Admit(); !d.Allowed {
			return d
		}
	}
	if l, ok := s.perOp[operation]; ok {
		if d := l.Admit(); !d.Allowed {
			return d
		}
	}
	return Decision{Allowed: true, Remaining: s.remaining(operation)}
}

func (s *Set) remaining(operation string) int {
	r := -1
	if s.global != nil {
		r = s.global.Remaining()
	}
	if l, ok := s.perOp[operation]; ok {
		if or := l.Remaining(); r < 0 || or < r {
			r = or
		}
	}
	if r < 0 {
		return 0
	}
	return r
}
