// Package paths - path-surgery primitives.
//
// Every primitive validates its arguments against the current scratch state
// first and mutates only when the whole operation can succeed: a false
// return guarantees no successor variable was touched. Malformed arguments
// (destination inside the moved chain, degenerate reversal bounds) are a
// routine "this neighbor is invalid" outcome, not an error.
package paths

// MoveChain detaches the chain strictly after before up to and including
// chainEnd, and reinserts it immediately after dest.
//
// Fails (no-op) when:
//   - any argument is a path-end sentinel or an inactive node,
//   - chainEnd is not downstream of before on the same route,
//   - dest lies inside the moved chain (chainEnd included),
//   - dest == before (the move would change nothing).
//
// Complexity: O(chain length) validation walk, three successor writes.
func (p *PathOperator) MoveChain(before, chainEnd, dest int) bool {
	if p.IsPathEnd(before) || p.IsPathEnd(chainEnd) || p.IsPathEnd(dest) {
		return false
	}
	if p.IsInactive(before) || p.IsInactive(dest) {
		return false
	}
	if dest == before || dest == chainEnd {
		return false
	}

	// Walk next(before) .. chainEnd, rejecting a dest sitting inside the
	// chain. The walk is read-only; mutation starts only after it succeeds.
	cur := p.Next(before)
	steps := 0
	for cur != chainEnd {
		if p.IsPathEnd(cur) || cur == dest || steps > p.Size() {
			return false
		}
		cur = p.Next(cur)
		steps++
	}

	chainStart := p.Next(before)
	afterChain := p.Next(chainEnd)
	afterDest := p.Next(dest)

	p.SetNext(before, afterChain)
	p.SetNext(dest, chainStart)
	p.SetNext(chainEnd, afterDest)

	return true
}

// ReverseChain reverses, in place, the chain strictly between before and
// afterChainEnd, rewriting all interior successor links. On success the
// first node of the original interior (now its last) is stored in chainLast.
//
// Fails (no-op) when the interior is degenerate - empty or a single node -
// or when afterChainEnd is not downstream of before.
//
// Complexity: O(chain length).
func (p *PathOperator) ReverseChain(before, afterChainEnd int, chainLast *int) bool {
	if p.IsPathEnd(before) || p.IsInactive(before) || before == afterChainEnd {
		return false
	}

	p.chain = p.chain[:0]
	cur := p.Next(before)
	for cur != afterChainEnd {
		if p.IsPathEnd(cur) || len(p.chain) > p.Size() {
			return false
		}
		p.chain = append(p.chain, cur)
		cur = p.Next(cur)
	}
	if len(p.chain) < 2 {
		return false
	}

	k := len(p.chain)
	p.SetNext(before, p.chain[k-1])
	var i int
	for i = k - 1; i > 0; i-- {
		p.SetNext(p.chain[i], p.chain[i-1])
	}
	p.SetNext(p.chain[0], afterChainEnd)
	*chainLast = p.chain[0]

	return true
}

// MakeActive reactivates a currently inactive node and splices it in
// immediately after dest.
//
// Fails (no-op) when node is not inactive, or dest is a sentinel, inactive,
// or the node itself.
func (p *PathOperator) MakeActive(node, dest int) bool {
	if p.IsPathEnd(node) || !p.IsInactive(node) {
		return false
	}
	if p.IsPathEnd(dest) || p.IsInactive(dest) || dest == node {
		return false
	}

	afterDest := p.Next(dest)
	p.SetNext(dest, node)
	p.SetNext(node, afterDest)

	return true
}

// MakeChainInactive deactivates every node of the chain strictly after
// before up to and including chainEnd, collapsing the successor link of
// before to skip them while preserving route connectivity.
//
// Fails (no-op) when before is a sentinel or inactive, or chainEnd is not
// downstream of before.
//
// Complexity: O(chain length).
func (p *PathOperator) MakeChainInactive(before, chainEnd int) bool {
	if p.IsPathEnd(before) || p.IsInactive(before) || p.IsPathEnd(chainEnd) {
		return false
	}

	p.chain = p.chain[:0]
	cur := p.Next(before)
	for {
		if p.IsPathEnd(cur) || len(p.chain) > p.Size() {
			return false
		}
		p.chain = append(p.chain, cur)
		if cur == chainEnd {
			break
		}
		cur = p.Next(cur)
	}

	p.SetNext(before, p.Next(chainEnd))
	var node int
	for _, node = range p.chain {
		p.SetNext(node, node)
	}

	return true
}
