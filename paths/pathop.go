// Package paths specializes the operator base for successor-linked routes:
// each tracked variable holds the index of the node physically following it,
// a value of index >= the node count is a path-end sentinel, and an inactive
// node points at itself. The package provides validating path-surgery
// primitives (chain move, chain reversal, activation, deactivation) and a
// systematic enumeration of base-node tuples across all routes that yields
// one neighbor per call.
//
// Node model:
//
//	next(i) == j, j < n  - node j physically follows node i
//	next(i) >= n         - node i is the last node of its route
//	next(i) == i         - node i is inactive (on no route)
//
// The successor chain from any path start reaches a sentinel in at most n
// steps; acyclicity is enforced by the propagation engine and assumed here
// (walks still carry step guards so a malformed scratch state cannot hang
// the enumeration).
//
// Design:
//   - Primitives validate first and mutate only on success: a false return
//     leaves the scratch state untouched.
//   - All mutation flows through the operator base's change-tracked SetValue,
//     so ApplyChanges sees every touched successor.
//   - Enumeration is a mixed-radix counter over (baseNodes, basePaths) with
//     per-operator cursor arity; failed neighbor hooks advance the counter
//     and retry instead of reporting an empty neighbor.
package paths

import (
	"github.com/katalvlaran/lvlsearch/assignment"
	"github.com/katalvlaran/lvlsearch/engine"
	"github.com/katalvlaran/lvlsearch/operators"
)

// Config declares the shape of one concrete path operator.
type Config struct {
	// Arity is the number of enumeration cursors (base nodes).
	Arity int

	// InitPosition, when true, resets the cursors to the start of their
	// routes on every Start; when false, cursor positions persist across
	// synchronizations (multi-pass neighborhoods).
	InitPosition bool

	// MakeNeighbor is the per-operator hook: it reads cursor positions via
	// BaseNode/StartNode, issues primitive calls, and reports whether a
	// valid neighbor was built.
	MakeNeighbor func() bool

	// OnStart, when non-nil, runs after the operator recomputed route
	// structure on synchronization (e.g. to size an extra cursor radix).
	OnStart func()
}

// PathOperator layers route state and cursor enumeration on the operator
// base. Concrete neighborhoods embed it and supply Config.MakeNeighbor.
type PathOperator struct {
	*operators.Base

	arity        int
	initPosition bool
	makeNeighbor func() bool
	onStart      func()

	pathStarts []int
	routeOf    []int // node -> index into pathStarts, -1 when on no route
	inactive   []int // nodes on no route, ascending

	baseNodes []int
	basePaths []int

	extra    int // extra odometer radix beyond the cursors (0 = none)
	extraPos int

	chain   []int // scratch for primitive walks
	hasPred []bool

	done    bool
	started bool
}

// NewPathOperator builds a path operator over the successor variables.
// A non-positive arity or a nil MakeNeighbor hook is a caller bug.
func NewPathOperator(nexts []*engine.IntVar, cfg Config) *PathOperator {
	if cfg.Arity <= 0 {
		panic("paths: operator arity must be positive")
	}
	if cfg.MakeNeighbor == nil {
		panic("paths: nil MakeNeighbor hook")
	}
	n := len(nexts)

	return &PathOperator{
		Base:         operators.NewBase(nexts, false),
		arity:        cfg.Arity,
		initPosition: cfg.InitPosition,
		makeNeighbor: cfg.MakeNeighbor,
		onStart:      cfg.OnStart,
		routeOf:      make([]int, n),
		baseNodes:    make([]int, cfg.Arity),
		basePaths:    make([]int, cfg.Arity),
		hasPred:      make([]bool, n),
	}
}

// Next returns the current scratch successor of node.
func (p *PathOperator) Next(node int) int { return int(p.Value(node)) }

// OldNext returns the successor of node at the last synchronization.
func (p *PathOperator) OldNext(node int) int { return int(p.OldValue(node)) }

// SetNext records a scratch successor change through the operator base.
func (p *PathOperator) SetNext(node, succ int) { p.SetValue(node, int64(succ)) }

// Prev returns the node whose scratch successor is node, or ok=false for a
// route start, an inactive node or a sentinel.
//
// Complexity: O(n) scan; primitives do not use it on their hot path.
func (p *PathOperator) Prev(node int) (prev int, ok bool) {
	var i int
	for i = 0; i < p.Size(); i++ {
		if i != node && p.Next(i) == node {
			return i, true
		}
	}

	return 0, false
}

// IsPathEnd reports whether index denotes an end-of-route sentinel.
func (p *PathOperator) IsPathEnd(index int) bool { return index >= p.Size() }

// IsInactive reports whether node is currently on no route.
func (p *PathOperator) IsInactive(node int) bool {
	return !p.IsPathEnd(node) && p.Next(node) == node
}

// BaseNode returns the current position of cursor c.
func (p *PathOperator) BaseNode(c int) int { return p.baseNodes[c] }

// StartNode returns the first node of the route cursor c sits on.
func (p *PathOperator) StartNode(c int) int { return p.pathStarts[p.basePaths[c]] }

// PathStarts returns the route start nodes recomputed at the last Start.
func (p *PathOperator) PathStarts() []int { return p.pathStarts }

// InactiveNodes returns the nodes on no route at the last Start, ascending.
func (p *PathOperator) InactiveNodes() []int { return p.inactive }

// ExtraPos returns the current position of the extra odometer radix.
func (p *PathOperator) ExtraPos() int { return p.extraPos }

// SetExtraRadix declares an extra odometer radix of size n, slower than all
// cursors. Intended for OnStart hooks (e.g. one position per inactive node).
func (p *PathOperator) SetExtraRadix(n int) {
	p.extra = n
	p.extraPos = 0
	if p.extra > 0 && len(p.pathStarts) > 0 {
		p.done = false
	}
}

// Start synchronizes to the snapshot, recomputes route structure (path
// starts, route membership, inactive nodes) and re-arms the enumeration.
// Cursor positions reset or persist according to Config.InitPosition.
func (p *PathOperator) Start(snapshot *assignment.Assignment) {
	p.Synchronize(snapshot)
	p.computeRoutes()
	p.done = len(p.pathStarts) == 0
	if p.initPosition || !p.started {
		p.rewindAll()
	} else {
		p.reanchorCursors()
	}
	p.extraPos = 0
	if p.onStart != nil {
		p.onStart()
	}
	p.started = true
}

// MakeNextNeighbor builds the next neighbor into delta/deltadelta. A failed
// or spurious hook advances the cursor combination and retries; false means
// no valid combination remains for the current synchronized solution.
func (p *PathOperator) MakeNextNeighbor(delta, deltadelta *assignment.Assignment) bool {
	for {
		// Previous neighbor's scratch (accepted or not) is operator-private;
		// drop it before attempting the next combination.
		p.RevertChanges(false)
		if p.done {
			return false
		}
		p.ClearDeltaMarks()
		ok := p.makeNeighbor()
		if !p.increment() {
			p.done = true
		}
		if ok {
			p.ApplyChanges(delta, deltadelta)
			if !delta.Empty() {
				return true
			}
		}
		if p.done {
			p.RevertChanges(false)

			return false
		}
	}
}

// computeRoutes rebuilds pathStarts, routeOf and the inactive list from the
// synchronized successors. A path start is an active node with no
// predecessor.
//
// Complexity: O(n + total route length).
func (p *PathOperator) computeRoutes() {
	n := p.Size()
	clear(p.hasPred)
	p.pathStarts = p.pathStarts[:0]
	p.inactive = p.inactive[:0]

	var i int
	for i = 0; i < n; i++ {
		p.routeOf[i] = -1
		nxt := p.OldNext(i)
		if nxt == i {
			p.inactive = append(p.inactive, i)

			continue
		}
		if nxt < n {
			p.hasPred[nxt] = true
		}
	}
	for i = 0; i < n; i++ {
		if p.OldNext(i) != i && !p.hasPred[i] {
			p.pathStarts = append(p.pathStarts, i)
		}
	}

	// Route membership, one walk per route.
	var pi, node, steps int
	for pi = range p.pathStarts {
		node = p.pathStarts[pi]
		for steps = 0; node < n && steps <= n; steps++ {
			p.routeOf[node] = pi
			node = p.OldNext(node)
		}
	}
}

// rewindAll parks every cursor on the first node of the first route.
func (p *PathOperator) rewindAll() {
	if len(p.pathStarts) == 0 {
		return
	}
	var c int
	for c = 0; c < p.arity; c++ {
		p.rewindCursor(c)
	}
}

// rewindCursor parks cursor c on the first node of the first route.
func (p *PathOperator) rewindCursor(c int) {
	p.basePaths[c] = 0
	p.baseNodes[c] = p.pathStarts[0]
}

// reanchorCursors keeps persistent cursors on their nodes when those nodes
// are still routed, rewinding only the ones whose node left all routes.
func (p *PathOperator) reanchorCursors() {
	if len(p.pathStarts) == 0 {
		return
	}
	var c int
	for c = 0; c < p.arity; c++ {
		node := p.baseNodes[c]
		if node >= 0 && node < p.Size() && p.routeOf[node] >= 0 {
			p.basePaths[c] = p.routeOf[node]
		} else {
			p.rewindCursor(c)
		}
	}
}

// increment advances the mixed-radix counter: cursor arity-1 fastest, then
// lower cursors, then the extra radix. Returns false on exhaustion.
func (p *PathOperator) increment() bool {
	var c, j int
	for c = p.arity - 1; c >= 0; c-- {
		if p.advanceCursor(c) {
			for j = c + 1; j < p.arity; j++ {
				p.rewindCursor(j)
			}

			return true
		}
	}
	if p.extraPos+1 < p.extra {
		p.extraPos++
		p.rewindAll()

		return true
	}

	return false
}

// advanceCursor moves cursor c one node along its route, hopping to the next
// route's start at a path end. Returns false when the cursor exhausted the
// last route (carry).
func (p *PathOperator) advanceCursor(c int) bool {
	nxt := p.OldNext(p.baseNodes[c])
	if !p.IsPathEnd(nxt) {
		p.baseNodes[c] = nxt

		return true
	}
	if p.basePaths[c]+1 < len(p.pathStarts) {
		p.basePaths[c]++
		p.baseNodes[c] = p.pathStarts[p.basePaths[c]]

		return true
	}

	return false
}
