// Package assignment provides the solution container of the local-search
// layer: ordered, named collections of scalar and interval variable elements
// plus at most one designated objective element.
//
// An Assignment serves three roles:
//
//	snapshot - Store() copies live variable bounds into the elements;
//	delta    - a sparse Assignment holding only the variables one
//	           neighbor changes (built by the operator base);
//	restore  - Restore() pushes recorded bounds back onto the variables.
//
// Lookup of a variable that was never added is a fatal precondition
// violation (panic) - callers that cannot rule out absence check Contains
// first. Duplicate insertion is not rejected at the API level; persistence
// logs and skips duplicate names instead.
//
// Concurrency: not safe for concurrent use; the local-search layer is
// single-threaded by contract.
package assignment

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/lvlsearch/engine"
)

// Option configures an Assignment at construction.
type Option func(*Assignment)

// WithLogger routes persistence warnings to l instead of slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *Assignment) { a.log = l }
}

// Assignment is an insertion-order-preserving container of scalar elements,
// interval elements and an optional objective element.
type Assignment struct {
	ints      []*Element
	intervals []*IntervalElement
	objective *Element

	intIndex      map[*engine.IntVar]int
	intervalIndex map[*engine.IntervalVar]int

	log *slog.Logger
}

// New creates an empty Assignment.
func New(opts ...Option) *Assignment {
	a := &Assignment{
		intIndex:      make(map[*engine.IntVar]int),
		intervalIndex: make(map[*engine.IntervalVar]int),
		log:           slog.Default(),
	}
	var opt Option
	for _, opt = range opts {
		opt(a)
	}

	return a
}

// Add appends an element for v and returns a live reference to it. Adding a
// variable already present returns the existing element instead of growing
// the container.
func (a *Assignment) Add(v *engine.IntVar) *Element {
	if idx, ok := a.intIndex[v]; ok {
		return a.ints[idx]
	}

	return a.FastAdd(v)
}

// FastAdd appends an element for v without the duplicate lookup Add
// performs. The caller guarantees v is not already present.
func (a *Assignment) FastAdd(v *engine.IntVar) *Element {
	e := &Element{v: v, min: v.Min(), max: v.Max(), active: true}
	a.ints = append(a.ints, e)
	if _, ok := a.intIndex[v]; !ok {
		a.intIndex[v] = len(a.ints) - 1
	}

	return e
}

// AddInterval appends an interval element for v, returning the existing one
// when v is already present.
func (a *Assignment) AddInterval(v *engine.IntervalVar) *IntervalElement {
	if idx, ok := a.intervalIndex[v]; ok {
		return a.intervals[idx]
	}

	return a.FastAddInterval(v)
}

// FastAddInterval appends an interval element for v without duplicate
// bookkeeping. The caller guarantees v is not already present.
func (a *Assignment) FastAddInterval(v *engine.IntervalVar) *IntervalElement {
	e := &IntervalElement{v: v, perfMin: 0, perfMax: 1, active: true}
	e.Store()
	a.intervals = append(a.intervals, e)
	if _, ok := a.intervalIndex[v]; !ok {
		a.intervalIndex[v] = len(a.intervals) - 1
	}

	return e
}

// Contains reports whether v has an element in this Assignment.
func (a *Assignment) Contains(v *engine.IntVar) bool {
	_, ok := a.intIndex[v]

	return ok
}

// ContainsInterval reports whether v has an interval element in this Assignment.
func (a *Assignment) ContainsInterval(v *engine.IntervalVar) bool {
	_, ok := a.intervalIndex[v]

	return ok
}

// Element returns the element recorded for v. Looking up a variable that was
// never added is a caller bug and panics; check Contains when absence is
// possible.
func (a *Assignment) Element(v *engine.IntVar) *Element {
	idx, ok := a.intIndex[v]
	if !ok {
		panic(fmt.Sprintf("assignment: variable %q not in assignment", v.Name()))
	}

	return a.ints[idx]
}

// MutableElement is Element; both return live references. It exists so call
// sites can state the intent to mutate.
func (a *Assignment) MutableElement(v *engine.IntVar) *Element {
	return a.Element(v)
}

// IntervalElement returns the interval element recorded for v; absence panics.
func (a *Assignment) IntervalElement(v *engine.IntervalVar) *IntervalElement {
	idx, ok := a.intervalIndex[v]
	if !ok {
		panic(fmt.Sprintf("assignment: interval %q not in assignment", v.Name()))
	}

	return a.intervals[idx]
}

// NumElements returns the number of scalar elements.
func (a *Assignment) NumElements() int { return len(a.ints) }

// ElementAt returns the i-th scalar element in insertion order.
func (a *Assignment) ElementAt(i int) *Element { return a.ints[i] }

// NumIntervals returns the number of interval elements.
func (a *Assignment) NumIntervals() int { return len(a.intervals) }

// IntervalAt returns the i-th interval element in insertion order.
func (a *Assignment) IntervalAt(i int) *IntervalElement { return a.intervals[i] }

// Empty reports whether the Assignment holds no elements and no objective.
func (a *Assignment) Empty() bool {
	return len(a.ints) == 0 && len(a.intervals) == 0 && a.objective == nil
}

// AddObjective designates v as the objective. Registering a second objective
// is a caller bug and panics.
func (a *Assignment) AddObjective(v *engine.IntVar) *Element {
	if a.objective != nil {
		panic("assignment: objective already registered")
	}
	a.objective = &Element{v: v, min: v.Min(), max: v.Max(), active: true}

	return a.objective
}

// HasObjective reports whether an objective element is registered.
func (a *Assignment) HasObjective() bool { return a.objective != nil }

// Objective returns the objective element; absence panics.
func (a *Assignment) Objective() *Element {
	if a.objective == nil {
		panic("assignment: no objective registered")
	}

	return a.objective
}

// ObjectiveValue returns the recorded objective value; absence panics.
func (a *Assignment) ObjectiveValue() int64 { return a.Objective().Value() }

// Store copies live variable bounds into every element, objective included.
func (a *Assignment) Store() {
	if a.objective != nil {
		a.objective.Store()
	}
	var e *Element
	for _, e = range a.ints {
		e.Store()
	}
	var ie *IntervalElement
	for _, ie = range a.intervals {
		ie.Store()
	}
}

// Restore pushes recorded bounds back onto the variables: scalars first
// (objective first among them), then intervals. Inactive elements are
// skipped - they are excluded from solving.
func (a *Assignment) Restore() {
	if a.objective != nil && a.objective.active {
		a.objective.Restore()
	}
	var e *Element
	for _, e = range a.ints {
		if e.active {
			e.Restore()
		}
	}
	var ie *IntervalElement
	for _, ie = range a.intervals {
		if ie.active {
			ie.Restore()
		}
	}
}

// Copy merges other's recorded values into this Assignment: every element of
// other whose variable is present here overwrites the local recorded state.
// Objective range and activation are copied only when both containers
// declare an objective. Elements of other absent here are ignored.
func (a *Assignment) Copy(other *Assignment) {
	var e *Element
	for _, e = range other.ints {
		if idx, ok := a.intIndex[e.v]; ok {
			a.ints[idx].copyFrom(e)
		}
	}
	var ie *IntervalElement
	for _, ie = range other.intervals {
		if idx, ok := a.intervalIndex[ie.v]; ok {
			a.intervals[idx].copyFrom(ie)
		}
	}
	if a.objective != nil && other.objective != nil {
		a.objective.copyFrom(other.objective)
	}
}

// Clear removes every element and the objective, keeping allocated capacity
// for reuse. Deltas are cleared once per neighbor, so this is a hot path.
func (a *Assignment) Clear() {
	a.ints = a.ints[:0]
	a.intervals = a.intervals[:0]
	a.objective = nil
	clear(a.intIndex)
	clear(a.intervalIndex)
}

// Clone deep-copies all elements and the objective. The referenced decision
// variables are shared, not copied.
func (a *Assignment) Clone() *Assignment {
	c := New(WithLogger(a.log))
	var e *Element
	for _, e = range a.ints {
		ne := c.FastAdd(e.v)
		ne.copyFrom(e)
	}
	var ie *IntervalElement
	for _, ie = range a.intervals {
		ne := c.FastAddInterval(ie.v)
		ne.copyFrom(ie)
	}
	if a.objective != nil {
		no := c.AddObjective(a.objective.v)
		no.copyFrom(a.objective)
	}

	return c
}
