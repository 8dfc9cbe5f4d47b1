// Package operators - fragment-based large neighborhood search.
//
// FragmentLNS repeatedly asks a generator for a set of variable indices to
// relax. Each accepted fragment becomes one neighbor: all fragment variables
// deactivated, no other change. Re-optimization of the relaxed variables is
// the engine's nested bounded sub-search, wired by the orchestration layer;
// this operator only marks the relaxation.
package operators

import (
	"github.com/katalvlaran/lvlsearch/assignment"
	"github.com/katalvlaran/lvlsearch/engine"
)

// FragmentFn yields the next set of variable indices to relax together.
// Returning ok=false signals the fragment stream is exhausted for the
// current synchronized solution.
type FragmentFn func() (fragment []int, ok bool)

// FragmentLNS is the deactivation-based LNS operator specialization.
type FragmentLNS struct {
	*Base
	nextFragment FragmentFn
}

// NewFragmentLNS builds a fragment-relaxing operator over vars driven by gen.
func NewFragmentLNS(vars []*engine.IntVar, gen FragmentFn) *FragmentLNS {
	if gen == nil {
		panic("operators: nil FragmentFn")
	}

	return &FragmentLNS{Base: NewBase(vars, false), nextFragment: gen}
}

// Start synchronizes to the snapshot. Generators that depend on the snapshot
// (e.g. per-route fragments) recompute their state in their own Start
// wrapper before delegating here.
func (f *FragmentLNS) Start(snapshot *assignment.Assignment) {
	f.Synchronize(snapshot)
}

// MakeNextNeighbor deactivates the next fragment. Fragments with no
// currently-active index are skipped; false means the generator is done.
func (f *FragmentLNS) MakeNextNeighbor(delta, deltadelta *assignment.Assignment) bool {
	f.RevertChanges(true)
	for {
		frag, ok := f.nextFragment()
		if !ok {
			return false
		}
		f.ClearDeltaMarks()
		relaxed := false
		var i int
		for _, i = range frag {
			if i >= 0 && i < f.Size() && f.Activated(i) {
				f.Deactivate(i)
				relaxed = true
			}
		}
		if !relaxed {
			f.RevertChanges(true)

			continue
		}
		f.ApplyChanges(delta, deltadelta)

		return true
	}
}
