// Package assignment - per-variable elements.
//
// An element pairs a reference to an engine decision variable with a
// recorded copy of its bounds plus an active flag. Elements are the unit of
// both full solution snapshots and sparse deltas: a snapshot holds one
// element per model variable, a delta holds elements only for the variables
// one neighbor touches.
//
// Inactive elements keep their storage but are excluded from solving and
// printing; deactivation is how large-neighborhood deltas mark relaxed
// variables.
package assignment

import "github.com/katalvlaran/lvlsearch/engine"

// Element records (min,max,active) for one scalar decision variable.
type Element struct {
	v        *engine.IntVar
	min, max int64
	active   bool
}

// Var returns the referenced decision variable.
func (e *Element) Var() *engine.IntVar { return e.v }

// Min returns the recorded lower bound.
func (e *Element) Min() int64 { return e.min }

// Max returns the recorded upper bound.
func (e *Element) Max() int64 { return e.max }

// Bound reports whether the recorded range is a single value.
func (e *Element) Bound() bool { return e.min == e.max }

// Value returns the recorded lower bound; for a bound element this is the
// recorded value. Callers needing single-value semantics check Bound first.
func (e *Element) Value() int64 { return e.min }

// SetMin overwrites the recorded lower bound.
func (e *Element) SetMin(m int64) { e.min = m }

// SetMax overwrites the recorded upper bound.
func (e *Element) SetMax(m int64) { e.max = m }

// SetRange overwrites the recorded range.
func (e *Element) SetRange(min, max int64) { e.min, e.max = min, max }

// SetValue collapses the recorded range to a single value.
func (e *Element) SetValue(v int64) { e.min, e.max = v, v }

// Activate marks the element as participating in solving and printing.
func (e *Element) Activate() { e.active = true }

// Deactivate excludes the element from solving and printing. Storage and the
// recorded range survive deactivation.
func (e *Element) Deactivate() { e.active = false }

// Activated reports whether the element participates in solving.
func (e *Element) Activated() bool { return e.active }

// Store copies the live bounds of the referenced variable into the element.
func (e *Element) Store() {
	e.min = e.v.Min()
	e.max = e.v.Max()
}

// Restore narrows the referenced variable to the recorded range. With a
// narrowing engine the operation is idempotent: a second Restore without an
// intervening Store is a no-op.
func (e *Element) Restore() {
	e.v.SetRange(e.min, e.max)
}

// copyFrom takes the recorded state of src; the variable reference stays.
func (e *Element) copyFrom(src *Element) {
	e.min, e.max, e.active = src.min, src.max, src.active
}

// IntervalElement records the three temporal ranges, the performed range and
// the active flag for one interval decision variable.
//
// Invariant: when PerformedMax()==0 the temporal fields are meaningless and
// are neither stored from nor restored onto the variable.
type IntervalElement struct {
	v                  *engine.IntervalVar
	startMin, startMax int64
	durMin, durMax     int64
	endMin, endMax     int64
	perfMin, perfMax   int64
	active             bool
}

// Var returns the referenced interval variable.
func (e *IntervalElement) Var() *engine.IntervalVar { return e.v }

// StartMin returns the recorded earliest start.
func (e *IntervalElement) StartMin() int64 { return e.startMin }

// StartMax returns the recorded latest start.
func (e *IntervalElement) StartMax() int64 { return e.startMax }

// DurationMin returns the recorded shortest duration.
func (e *IntervalElement) DurationMin() int64 { return e.durMin }

// DurationMax returns the recorded longest duration.
func (e *IntervalElement) DurationMax() int64 { return e.durMax }

// EndMin returns the recorded earliest end.
func (e *IntervalElement) EndMin() int64 { return e.endMin }

// EndMax returns the recorded latest end.
func (e *IntervalElement) EndMax() int64 { return e.endMax }

// PerformedMin returns the recorded lower performed bound.
func (e *IntervalElement) PerformedMin() int64 { return e.perfMin }

// PerformedMax returns the recorded upper performed bound.
func (e *IntervalElement) PerformedMax() int64 { return e.perfMax }

// SetStartRange overwrites the recorded start range.
func (e *IntervalElement) SetStartRange(min, max int64) { e.startMin, e.startMax = min, max }

// SetDurationRange overwrites the recorded duration range.
func (e *IntervalElement) SetDurationRange(min, max int64) { e.durMin, e.durMax = min, max }

// SetEndRange overwrites the recorded end range.
func (e *IntervalElement) SetEndRange(min, max int64) { e.endMin, e.endMax = min, max }

// SetPerformedRange overwrites the recorded performed range.
func (e *IntervalElement) SetPerformedRange(min, max int64) { e.perfMin, e.perfMax = min, max }

// Activate marks the element as participating in solving and printing.
func (e *IntervalElement) Activate() { e.active = true }

// Deactivate excludes the element from solving and printing.
func (e *IntervalElement) Deactivate() { e.active = false }

// Activated reports whether the element participates in solving.
func (e *IntervalElement) Activated() bool { return e.active }

// Store copies the live state of the referenced interval into the element.
// Temporal ranges of an excluded interval are not read (they carry no
// meaning); the recorded copies keep their previous content.
func (e *IntervalElement) Store() {
	e.perfMin = e.v.PerformedMin()
	e.perfMax = e.v.PerformedMax()
	if e.perfMax == 0 {
		return
	}
	e.startMin, e.startMax = e.v.StartMin(), e.v.StartMax()
	e.durMin, e.durMax = e.v.DurationMin(), e.v.DurationMax()
	e.endMin, e.endMax = e.v.EndMin(), e.v.EndMax()
}

// Restore pushes the recorded state back onto the interval. The performed
// range is fixed first; temporal ranges follow only when the interval is not
// excluded, per the interval invariant.
func (e *IntervalElement) Restore() {
	e.v.SetPerformedRange(e.perfMin, e.perfMax)
	if e.perfMax == 0 || !e.v.MayBePerformed() {
		return
	}
	e.v.SetStartRange(e.startMin, e.startMax)
	e.v.SetDurationRange(e.durMin, e.durMax)
	e.v.SetEndRange(e.endMin, e.endMax)
}

// copyFrom takes the recorded state of src; the variable reference stays.
func (e *IntervalElement) copyFrom(src *IntervalElement) {
	e.startMin, e.startMax = src.startMin, src.startMax
	e.durMin, e.durMax = src.durMin, src.durMax
	e.endMin, e.endMax = src.endMin, src.endMax
	e.perfMin, e.perfMax = src.perfMin, src.perfMax
	e.active = src.active
}
