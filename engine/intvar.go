// Package engine - integer decision variables.
//
// IntVar narrows monotonically: SetMin/SetMax only ever shrink [min,max].
// Narrowing to an empty range fails the Session instead of mutating, so a
// failed attempt can always be rolled back to a consistent state.
package engine

import "fmt"

// IntVar is a named integer decision variable with inclusive [min,max]
// bounds. All narrowing is recorded on the owning Session's trail.
type IntVar struct {
	s        *Session
	name     string
	min, max int64
	onRange  []Demon
	onBound  []Demon
}

// NewIntVar registers a fresh variable [min,max] on the Session.
// The name may be empty for scratch variables; anonymous variables are
// excluded from snapshot persistence (the assignment layer logs and skips
// them on Save).
func (s *Session) NewIntVar(name string, min, max int64) *IntVar {
	if min > max {
		panic(fmt.Sprintf("engine: variable %q created with empty domain [%d,%d]", name, min, max))
	}
	v := &IntVar{s: s, name: name, min: min, max: max}
	s.ints = append(s.ints, v)

	return v
}

// Name returns the variable's unique name.
func (v *IntVar) Name() string { return v.name }

// Session returns the owning Session.
func (v *IntVar) Session() *Session { return v.s }

// Min returns the current lower bound.
func (v *IntVar) Min() int64 { return v.min }

// Max returns the current upper bound.
func (v *IntVar) Max() int64 { return v.max }

// Bound reports whether the domain collapsed to a single value.
func (v *IntVar) Bound() bool { return v.min == v.max }

// Value returns the bound value. Calling Value on an unbound variable
// panics: the caller must check Bound first.
func (v *IntVar) Value() int64 {
	if v.min != v.max {
		panic(fmt.Sprintf("engine: Value on unbound variable %q [%d,%d]", v.name, v.min, v.max))
	}

	return v.min
}

// SetMin raises the lower bound to m. Raising past max fails the Session
// and leaves the variable untouched. A non-narrowing call is a no-op.
func (v *IntVar) SetMin(m int64) {
	if v.s.failed || m <= v.min {
		return
	}
	if m > v.max {
		v.s.Fail()

		return
	}
	v.s.record(&v.min, m)
	v.fire()
}

// SetMax lowers the upper bound to m. Lowering past min fails the Session
// and leaves the variable untouched. A non-narrowing call is a no-op.
func (v *IntVar) SetMax(m int64) {
	if v.s.failed || m >= v.max {
		return
	}
	if m < v.min {
		v.s.Fail()

		return
	}
	v.s.record(&v.max, m)
	v.fire()
}

// SetRange narrows the domain to its intersection with [min,max].
func (v *IntVar) SetRange(min, max int64) {
	v.SetMin(min)
	v.SetMax(max)
}

// SetValue binds the variable to val, failing the Session when val lies
// outside the current domain.
func (v *IntVar) SetValue(val int64) {
	v.SetRange(val, val)
}

// WhenRange attaches a demon fired after any bound change on this variable.
func (v *IntVar) WhenRange(d Demon) {
	v.onRange = append(v.onRange, d)
}

// WhenBound attaches a demon fired when the variable becomes bound.
func (v *IntVar) WhenBound(d Demon) {
	v.onBound = append(v.onBound, d)
}

// fire runs range demons, then bound demons if the domain is now a singleton.
// Demons registered during firing are picked up on the next narrowing, not
// this one.
func (v *IntVar) fire() {
	var i int
	for i = 0; i < len(v.onRange); i++ {
		if v.s.failed {
			return
		}
		v.onRange[i]()
	}
	if v.min != v.max {
		return
	}
	for i = 0; i < len(v.onBound); i++ {
		if v.s.failed {
			return
		}
		v.onBound[i]()
	}
}
