// Package engine - interval decision variables.
//
// An IntervalVar models an optional activity with start, duration and end
// ranges plus a performed status in {0,1}:
//
//	performed ∈ [1,1] - mandatory (must be performed)
//	performed ∈ [0,0] - excluded  (cannot be performed)
//	performed ∈ [0,1] - optional  (undecided)
//
// Invariant: once the interval is excluded, its start/duration/end carry no
// meaning and reading them panics - consumers must check MayBePerformed first.
package engine

import "fmt"

// IntervalVar is a named optional activity. All narrowing is recorded on the
// owning Session's trail, exactly as for IntVar.
type IntervalVar struct {
	s    *Session
	name string

	startMin, startMax int64
	durMin, durMax     int64
	endMin, endMax     int64
	perfMin, perfMax   int64

	onRange []Demon
}

// NewIntervalVar registers a fresh optional interval on the Session with the
// given start and duration ranges; the end range derives from them.
// As with IntVar, an empty name marks a scratch interval excluded from
// snapshot persistence.
func (s *Session) NewIntervalVar(name string, startMin, startMax, durMin, durMax int64) *IntervalVar {
	if startMin > startMax || durMin > durMax {
		panic(fmt.Sprintf("engine: interval %q created with empty ranges", name))
	}
	v := &IntervalVar{
		s:        s,
		name:     name,
		startMin: startMin, startMax: startMax,
		durMin: durMin, durMax: durMax,
		endMin: startMin + durMin, endMax: startMax + durMax,
		perfMin: 0, perfMax: 1,
	}
	s.intervals = append(s.intervals, v)

	return v
}

// Name returns the interval's unique name.
func (v *IntervalVar) Name() string { return v.name }

// Session returns the owning Session.
func (v *IntervalVar) Session() *Session { return v.s }

// MayBePerformed reports whether performing the interval is still possible.
func (v *IntervalVar) MayBePerformed() bool { return v.perfMax == 1 }

// MustBePerformed reports whether the interval is mandatory.
func (v *IntervalVar) MustBePerformed() bool { return v.perfMin == 1 }

// CannotBePerformed reports whether the interval is excluded.
func (v *IntervalVar) CannotBePerformed() bool { return v.perfMax == 0 }

// PerformedMin returns the lower performed bound (0 or 1).
func (v *IntervalVar) PerformedMin() int64 { return v.perfMin }

// PerformedMax returns the upper performed bound (0 or 1).
func (v *IntervalVar) PerformedMax() int64 { return v.perfMax }

// SetPerformedRange narrows the performed status. Narrowing to an empty
// range fails the Session.
func (v *IntervalVar) SetPerformedRange(min, max int64) {
	if v.s.failed {
		return
	}
	if min < v.perfMin {
		min = v.perfMin
	}
	if max > v.perfMax {
		max = v.perfMax
	}
	if min > max {
		v.s.Fail()

		return
	}
	if min > v.perfMin {
		v.s.record(&v.perfMin, min)
		v.fire()
	}
	if v.s.failed {
		return
	}
	if max < v.perfMax {
		v.s.record(&v.perfMax, max)
		v.fire()
	}
}

// guard panics when a temporal accessor is used on an excluded interval.
func (v *IntervalVar) guard(what string) {
	if v.perfMax == 0 {
		panic(fmt.Sprintf("engine: %s on excluded interval %q", what, v.name))
	}
}

// StartMin returns the earliest start. Panics when the interval is excluded.
func (v *IntervalVar) StartMin() int64 { v.guard("StartMin"); return v.startMin }

// StartMax returns the latest start. Panics when the interval is excluded.
func (v *IntervalVar) StartMax() int64 { v.guard("StartMax"); return v.startMax }

// DurationMin returns the shortest duration. Panics when the interval is excluded.
func (v *IntervalVar) DurationMin() int64 { v.guard("DurationMin"); return v.durMin }

// DurationMax returns the longest duration. Panics when the interval is excluded.
func (v *IntervalVar) DurationMax() int64 { v.guard("DurationMax"); return v.durMax }

// EndMin returns the earliest end. Panics when the interval is excluded.
func (v *IntervalVar) EndMin() int64 { v.guard("EndMin"); return v.endMin }

// EndMax returns the latest end. Panics when the interval is excluded.
func (v *IntervalVar) EndMax() int64 { v.guard("EndMax"); return v.endMax }

// SetStartRange narrows the start range; empty intersection fails the Session.
func (v *IntervalVar) SetStartRange(min, max int64) {
	v.narrow(&v.startMin, &v.startMax, min, max)
}

// SetDurationRange narrows the duration range; empty intersection fails the Session.
func (v *IntervalVar) SetDurationRange(min, max int64) {
	v.narrow(&v.durMin, &v.durMax, min, max)
}

// SetEndRange narrows the end range; empty intersection fails the Session.
func (v *IntervalVar) SetEndRange(min, max int64) {
	v.narrow(&v.endMin, &v.endMax, min, max)
}

// WhenRange attaches a demon fired after any narrowing of this interval.
func (v *IntervalVar) WhenRange(d Demon) {
	v.onRange = append(v.onRange, d)
}

// narrow intersects [lo,hi] with [min,max], trailing each moved bound.
func (v *IntervalVar) narrow(lo, hi *int64, min, max int64) {
	if v.s.failed {
		return
	}
	if min < *lo {
		min = *lo
	}
	if max > *hi {
		max = *hi
	}
	if min > max {
		v.s.Fail()

		return
	}
	if min > *lo {
		v.s.record(lo, min)
		v.fire()
	}
	if v.s.failed {
		return
	}
	if max < *hi {
		v.s.record(hi, max)
		v.fire()
	}
}

func (v *IntervalVar) fire() {
	var i int
	for i = 0; i < len(v.onRange); i++ {
		if v.s.failed {
			return
		}
		v.onRange[i]()
	}
}
