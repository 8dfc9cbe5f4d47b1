// Package paths - concrete path neighborhoods.
//
// Each operator is a thin MakeNeighbor hook over the surgery primitives; the
// enumeration machinery (cursor odometer, retry-on-invalid, delta
// materialization) lives in PathOperator.
//
// Arity and cursor roles:
//
//	Relocate  - 2: (node before the moved chain, insertion point)
//	TwoOpt    - 2: (node before the reversed chain, last node of the chain)
//	Exchange  - 2: (predecessor of first swapped node, predecessor of second)
//	Cross     - 2: (last kept node of first route, last kept node of second)
//	MakeActiveOperator   - 1 cursor (insertion point) x inactive-node radix
//	MakeInactiveOperator - 1: (node before the deactivated node)
package paths

import "github.com/katalvlaran/lvlsearch/engine"

// Relocate moves a chain of fixed length after another node, within or
// across routes.
type Relocate struct {
	*PathOperator
	chainLength int
}

// NewRelocate builds a relocate neighborhood moving chains of chainLength
// consecutive nodes. chainLength < 1 is a caller bug.
func NewRelocate(nexts []*engine.IntVar, chainLength int) *Relocate {
	if chainLength < 1 {
		panic("paths: relocate chain length must be >= 1")
	}
	r := &Relocate{chainLength: chainLength}
	r.PathOperator = NewPathOperator(nexts, Config{
		Arity:        2,
		InitPosition: true,
		MakeNeighbor: r.neighbor,
	})

	return r
}

func (r *Relocate) neighbor() bool {
	before := r.BaseNode(0)
	chainEnd := before
	var i int
	for i = 0; i < r.chainLength; i++ {
		chainEnd = r.Next(chainEnd)
		if r.IsPathEnd(chainEnd) {
			return false
		}
	}

	return r.MoveChain(before, chainEnd, r.BaseNode(1))
}

// TwoOpt reverses the chain between its two cursors on one route.
type TwoOpt struct {
	*PathOperator
}

// NewTwoOpt builds the 2-opt reversal neighborhood.
func NewTwoOpt(nexts []*engine.IntVar) *TwoOpt {
	t := &TwoOpt{}
	t.PathOperator = NewPathOperator(nexts, Config{
		Arity:        2,
		InitPosition: true,
		MakeNeighbor: t.neighbor,
	})

	return t
}

func (t *TwoOpt) neighbor() bool {
	if t.StartNode(0) != t.StartNode(1) {
		return false
	}
	before := t.BaseNode(0)
	last := t.BaseNode(1)
	if before == last {
		return false
	}
	var chainLast int

	return t.ReverseChain(before, t.Next(last), &chainLast)
}

// Exchange swaps the successors of its two cursors, within or across routes.
type Exchange struct {
	*PathOperator
}

// NewExchange builds the node-exchange neighborhood.
func NewExchange(nexts []*engine.IntVar) *Exchange {
	e := &Exchange{}
	e.PathOperator = NewPathOperator(nexts, Config{
		Arity:        2,
		InitPosition: true,
		MakeNeighbor: e.neighbor,
	})

	return e
}

func (e *Exchange) neighbor() bool {
	p0, p1 := e.BaseNode(0), e.BaseNode(1)
	if p0 == p1 {
		return false
	}
	n0, n1 := e.Next(p0), e.Next(p1)
	if e.IsPathEnd(n0) || e.IsPathEnd(n1) || n0 == n1 {
		return false
	}
	// Adjacent pairs reduce to a single-node move.
	if p1 == n0 {
		return e.MoveChain(p0, n0, n1)
	}
	if p0 == n1 {
		return e.MoveChain(p1, n1, n0)
	}

	after0, after1 := e.Next(n0), e.Next(n1)
	e.SetNext(p0, n1)
	e.SetNext(n1, after0)
	e.SetNext(p1, n0)
	e.SetNext(n0, after1)

	return true
}

// Cross exchanges the tails of two distinct routes after its two cursors.
type Cross struct {
	*PathOperator
}

// NewCross builds the tail-exchange neighborhood.
func NewCross(nexts []*engine.IntVar) *Cross {
	c := &Cross{}
	c.PathOperator = NewPathOperator(nexts, Config{
		Arity:        2,
		InitPosition: true,
		MakeNeighbor: c.neighbor,
	})

	return c
}

func (c *Cross) neighbor() bool {
	if c.StartNode(0) == c.StartNode(1) {
		return false
	}
	b0, b1 := c.BaseNode(0), c.BaseNode(1)
	t0, t1 := c.Next(b0), c.Next(b1)
	// Swapping two empty tails changes nothing.
	if c.IsPathEnd(t0) && c.IsPathEnd(t1) {
		return false
	}
	c.SetNext(b0, t1)
	c.SetNext(b1, t0)

	return true
}

// MakeActiveOperator inserts one currently inactive node after the cursor,
// trying every (inactive node, insertion point) pair.
type MakeActiveOperator struct {
	*PathOperator
}

// NewMakeActiveOperator builds the node-activation neighborhood.
func NewMakeActiveOperator(nexts []*engine.IntVar) *MakeActiveOperator {
	m := &MakeActiveOperator{}
	m.PathOperator = NewPathOperator(nexts, Config{
		Arity:        1,
		InitPosition: true,
		MakeNeighbor: m.neighbor,
		OnStart:      m.onStart,
	})

	return m
}

func (m *MakeActiveOperator) onStart() {
	m.SetExtraRadix(len(m.InactiveNodes()))
}

func (m *MakeActiveOperator) neighbor() bool {
	inactive := m.InactiveNodes()
	if m.ExtraPos() >= len(inactive) {
		return false
	}

	return m.MakeActive(inactive[m.ExtraPos()], m.BaseNode(0))
}

// MakeInactiveOperator removes the single node after the cursor from its
// route, leaving it inactive.
type MakeInactiveOperator struct {
	*PathOperator
}

// NewMakeInactiveOperator builds the node-deactivation neighborhood.
func NewMakeInactiveOperator(nexts []*engine.IntVar) *MakeInactiveOperator {
	m := &MakeInactiveOperator{}
	m.PathOperator = NewPathOperator(nexts, Config{
		Arity:        1,
		InitPosition: true,
		MakeNeighbor: m.neighbor,
	})

	return m
}

func (m *MakeInactiveOperator) neighbor() bool {
	before := m.BaseNode(0)
	target := m.Next(before)
	if m.IsPathEnd(target) {
		return false
	}

	return m.MakeChainInactive(before, target)
}
