// Package operators - value-changing neighborhood.
//
// ChangeValue walks the variable array in order and, per variable, proposes
// the value computed by a pluggable pure function of (index, currentValue).
// A function signalling "no further modification" for an index advances the
// walk; the neighborhood is exhausted after the last variable.
package operators

import (
	"github.com/katalvlaran/lvlsearch/assignment"
	"github.com/katalvlaran/lvlsearch/engine"
)

// NextValueFn proposes a replacement value for index given its synchronized
// value. Returning ok=false signals no further modification for this index.
// The function must be pure: same arguments, same answer.
type NextValueFn func(index int, value int64) (next int64, ok bool)

// ChangeValue is the value-changing operator specialization.
type ChangeValue struct {
	*Base
	next  NextValueFn
	index int
}

// NewChangeValue builds a ChangeValue operator over vars driven by fn.
func NewChangeValue(vars []*engine.IntVar, fn NextValueFn) *ChangeValue {
	if fn == nil {
		panic("operators: nil NextValueFn")
	}

	return &ChangeValue{Base: NewBase(vars, false), next: fn}
}

// Start synchronizes to the snapshot and rewinds the walk to the first
// variable, re-arming an exhausted neighborhood.
func (c *ChangeValue) Start(snapshot *assignment.Assignment) {
	c.Synchronize(snapshot)
	c.index = 0
}

// MakeNextNeighbor proposes the next single-variable change. Inactive
// indices and proposals that round-trip to the synchronized value are
// skipped; false means the walk passed the last variable.
func (c *ChangeValue) MakeNextNeighbor(delta, deltadelta *assignment.Assignment) bool {
	c.RevertChanges(true)
	for c.index < c.Size() {
		i := c.index
		c.index++
		if !c.Activated(i) {
			continue
		}
		v, ok := c.next(i, c.Value(i))
		if !ok {
			continue
		}
		c.ClearDeltaMarks()
		c.SetValue(i, v)
		c.ApplyChanges(delta, deltadelta)
		if delta.Empty() {
			// Proposal equals the synchronized value: not a neighbor.
			c.RevertChanges(true)

			continue
		}

		return true
	}

	return false
}
