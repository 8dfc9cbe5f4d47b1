// Package operators provides the local-search operator framework: a base
// that tracks a fixed ordered set of decision variables, their values at the
// last synchronization, and the indices changed since - and turns a set of
// changed indices into a sparse assignment delta plus a delta-of-the-delta.
//
// Lifecycle (per operator instance, single-threaded):
//
//	Start(snapshot)            - synchronize values/oldValues, clear tracking
//	MakeNextNeighbor(d, dd)    - advance to the next neighbor; false = exhausted
//	RevertChanges(incremental) - restore scratch values to the synchronized ones
//
// After Start, values == oldValues == snapshot values and the changed-index
// list is empty. ApplyChanges drops spurious touches: an index whose final
// value round-trips to the synchronized value never reaches the delta.
//
// Design:
//   - Scratch state (values/oldValues/bitsets) is operator-private until
//     ApplyChanges publishes it into the delta containers.
//   - No hidden allocations on the neighbor hot path: change lists and
//     bitsets are reused across neighbors.
package operators

import (
	"fmt"

	"github.com/katalvlaran/lvlsearch/assignment"
	"github.com/katalvlaran/lvlsearch/engine"
)

// Operator is the neighbor-generation contract consumed by the search loop.
//
// Start synchronizes the operator to a solution snapshot and re-arms an
// exhausted neighborhood. MakeNextNeighbor materializes the next neighbor
// into delta (full touched set) and deltadelta (touched since the previous
// neighbor), returning false when the neighborhood is exhausted for the
// current synchronized solution.
type Operator interface {
	Start(snapshot *assignment.Assignment)
	MakeNextNeighbor(delta, deltadelta *assignment.Assignment) bool
}

// bitset is a fixed-size dense bit vector sized once per operator.
type bitset struct {
	words []uint64
}

func newBitset(n int) bitset {
	return bitset{words: make([]uint64, (n+63)/64)}
}

func (b bitset) has(i int) bool { return b.words[i/64]>>(uint(i)%64)&1 == 1 }
func (b bitset) set(i int)      { b.words[i/64] |= 1 << (uint(i) % 64) }
func (b bitset) unset(i int)    { b.words[i/64] &^= 1 << (uint(i) % 64) }
func (b bitset) reset()         { clear(b.words) }

// Base is the state every local-search operator layers on: current scratch
// values, values at last synchronization, activation bitsets for
// deactivation-based neighborhoods, and the changed-index bookkeeping that
// ApplyChanges turns into deltas.
type Base struct {
	vars      []*engine.IntVar
	values    []int64
	oldValues []int64

	activated    bitset
	wasActivated bitset

	changes      []int
	changed      bitset
	deltaChanges []int
	deltaChanged bitset

	incremental bool
}

// NewBase allocates operator state over a fixed variable array. incremental
// declares whether the operator supports incremental revert (only
// delta-marked indices are restored between neighbors).
func NewBase(vars []*engine.IntVar, incremental bool) *Base {
	n := len(vars)
	if n == 0 {
		panic("operators: empty variable array")
	}

	return &Base{
		vars:         vars,
		values:       make([]int64, n),
		oldValues:    make([]int64, n),
		activated:    newBitset(n),
		wasActivated: newBitset(n),
		changed:      newBitset(n),
		deltaChanged: newBitset(n),
		incremental:  incremental,
	}
}

// Size returns the number of tracked variables.
func (b *Base) Size() int { return len(b.vars) }

// Var returns the i-th tracked variable.
func (b *Base) Var(i int) *engine.IntVar { return b.vars[i] }

// Value returns the current scratch value of index i.
func (b *Base) Value(i int) int64 { return b.values[i] }

// OldValue returns the value of index i at the last synchronization.
func (b *Base) OldValue(i int) int64 { return b.oldValues[i] }

// Activated reports whether index i currently participates in the neighbor.
func (b *Base) Activated(i int) bool { return b.activated.has(i) }

// IsIncremental reports whether the operator claims incremental support.
func (b *Base) IsIncremental() bool { return b.incremental }

// Synchronize loads values and activation from the snapshot, mirrors them
// into the old-state arrays and clears all change tracking. Every tracked
// variable must have a bound element in the snapshot; a missing variable is
// a caller bug surfaced by the assignment lookup.
func (b *Base) Synchronize(snapshot *assignment.Assignment) {
	var i int
	for i = 0; i < len(b.vars); i++ {
		e := snapshot.Element(b.vars[i])
		if !e.Bound() {
			panic(fmt.Sprintf("operators: unbound element %q in snapshot", b.vars[i].Name()))
		}
		b.values[i] = e.Value()
		b.oldValues[i] = b.values[i]
		if e.Activated() {
			b.activated.set(i)
			b.wasActivated.set(i)
		} else {
			b.activated.unset(i)
			b.wasActivated.unset(i)
		}
	}
	b.changes = b.changes[:0]
	b.changed.reset()
	b.deltaChanges = b.deltaChanges[:0]
	b.deltaChanged.reset()
}

// SetValue records a scratch change of index i to v. The synchronized value
// was captured wholesale at Start, so the first write needs no extra
// bookkeeping beyond marking the index touched.
func (b *Base) SetValue(i int, v int64) {
	b.values[i] = v
	b.markChanged(i)
}

// Activate re-includes index i in the neighbor under construction.
func (b *Base) Activate(i int) {
	b.activated.set(i)
	b.markChanged(i)
}

// Deactivate excludes index i from the neighbor under construction; used by
// neighborhoods that relax variable subsets (large neighborhood search).
func (b *Base) Deactivate(i int) {
	b.activated.unset(i)
	b.markChanged(i)
}

// markChanged tracks i in both the since-Start and since-last-neighbor sets.
func (b *Base) markChanged(i int) {
	if !b.changed.has(i) {
		b.changed.set(i)
		b.changes = append(b.changes, i)
	}
	if !b.deltaChanged.has(i) {
		b.deltaChanged.set(i)
		b.deltaChanges = append(b.deltaChanges, i)
	}
}

// ClearDeltaMarks forgets the since-last-neighbor set; called by operators
// at the start of each neighbor so deltadelta covers exactly one move.
func (b *Base) ClearDeltaMarks() {
	b.deltaChanges = b.deltaChanges[:0]
	b.deltaChanged.reset()
}

// dirty reports whether index i genuinely differs from the synchronized
// state - either by value or by activation.
func (b *Base) dirty(i int) bool {
	return b.values[i] != b.oldValues[i] || b.activated.has(i) != b.wasActivated.has(i)
}

// ApplyChanges materializes the touched indices into the two delta
// containers: delta receives every index changed since Start whose final
// state differs from the synchronized one, deltadelta only those touched
// since the previous neighbor. Spurious touches that round-tripped back to
// the synchronized value are dropped from both.
//
// Complexity: O(|changes|).
func (b *Base) ApplyChanges(delta, deltadelta *assignment.Assignment) {
	delta.Clear()
	deltadelta.Clear()
	var i int
	for _, i = range b.changes {
		if !b.dirty(i) {
			continue
		}
		e := delta.FastAdd(b.vars[i])
		e.SetValue(b.values[i])
		if !b.activated.has(i) {
			e.Deactivate()
		}
		if b.deltaChanged.has(i) {
			de := deltadelta.FastAdd(b.vars[i])
			de.SetValue(b.values[i])
			if !b.activated.has(i) {
				de.Deactivate()
			}
		}
	}
}

// RevertChanges restores scratch state to the synchronized values. When
// incremental is requested and the operator claims incremental support, only
// indices touched since the previous neighbor are restored; otherwise every
// touched index is restored and the change list is cleared.
func (b *Base) RevertChanges(incremental bool) {
	var i int
	if incremental && b.incremental {
		for _, i = range b.deltaChanges {
			b.restore(i)
		}
		// Compact the since-Start list so a re-touch of a restored index is
		// tracked afresh instead of duplicated.
		kept := b.changes[:0]
		for _, i = range b.changes {
			if b.changed.has(i) {
				kept = append(kept, i)
			}
		}
		b.changes = kept
		b.deltaChanges = b.deltaChanges[:0]
		b.deltaChanged.reset()

		return
	}
	for _, i = range b.changes {
		b.restore(i)
	}
	b.changes = b.changes[:0]
	b.changed.reset()
	b.deltaChanges = b.deltaChanges[:0]
	b.deltaChanged.reset()
}

// restore resets one index to its synchronized value and activation.
func (b *Base) restore(i int) {
	b.values[i] = b.oldValues[i]
	if b.wasActivated.has(i) {
		b.activated.set(i)
	} else {
		b.activated.unset(i)
	}
	b.changed.unset(i)
}
