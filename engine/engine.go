// Package engine provides the minimal decision-variable surface consumed by
// the local-search layer: integer and interval variables with narrowing
// bounds, demon callbacks fired on bound changes, and a Session-owned trail
// with explicit checkpoint/rollback.
//
// The engine is deliberately small. It is not a complete propagation engine:
// it offers exactly the primitives the operators, filters and orchestration
// need - reversible scalar assignment, demon registration, and scoped
// rollback of everything narrowed since a checkpoint.
//
// This file declares the Session, the trail, and the sentinel errors.
//
// Errors:
//
//	ErrBadCheckpoint  - Rollback called with a checkpoint this Session never issued.
//
// Concurrency: single-threaded by design. A Session and all of its variables
// must be driven from one goroutine; no locks are taken internally.
package engine

import "errors"

// ErrBadCheckpoint indicates Rollback received a checkpoint outside the trail.
var ErrBadCheckpoint = errors.New("engine: checkpoint out of range")

// Demon is a callback fired synchronously after a successful narrowing of the
// variable it is attached to. Demons run in registration order and must not
// block; they may narrow further variables and may call Session.Fail.
type Demon func()

// Checkpoint marks a position in the Session trail. Rolling back to a
// checkpoint undoes every narrowing recorded after it was taken.
type Checkpoint int

// reversal is one trail entry: a scalar location and the value it held
// before the narrowing that recorded it.
type reversal struct {
	loc *int64
	old int64
}

// Session owns decision variables and the reversible trail shared by all of
// them. It is the unit of scoped allocation: variables registered on a
// Session live as long as the Session, and every narrowing applied through
// them is undone by Rollback.
type Session struct {
	ints      []*IntVar
	intervals []*IntervalVar
	trail     []reversal
	failed    bool
}

// NewSession creates an empty Session with no variables and an empty trail.
func NewSession() *Session {
	return &Session{}
}

// Checkpoint records the current trail position. The returned value stays
// valid until a Rollback to an earlier checkpoint discards it.
//
// Complexity: O(1).
func (s *Session) Checkpoint() Checkpoint {
	return Checkpoint(len(s.trail))
}

// Rollback restores every scalar recorded on the trail after cp, newest
// first, clears the failed flag, and truncates the trail back to cp.
// A checkpoint the Session never issued panics: that is a caller bug,
// not a data condition.
//
// Complexity: O(k) for k narrowings since cp.
func (s *Session) Rollback(cp Checkpoint) {
	if cp < 0 || int(cp) > len(s.trail) {
		panic(ErrBadCheckpoint)
	}
	// Undo newest-first so repeated narrowings of one location land on the
	// oldest recorded value.
	var i int
	for i = len(s.trail) - 1; i >= int(cp); i-- {
		*s.trail[i].loc = s.trail[i].old
	}
	s.trail = s.trail[:cp]
	s.failed = false
}

// Fail marks the current attempt as contradicted. Narrowings on a failed
// Session become no-ops until the next Rollback clears the flag.
func (s *Session) Fail() {
	s.failed = true
}

// Failed reports whether the current attempt has been contradicted.
func (s *Session) Failed() bool {
	return s.failed
}

// record pushes one reversible scalar assignment onto the trail and applies it.
func (s *Session) record(loc *int64, val int64) {
	s.trail = append(s.trail, reversal{loc: loc, old: *loc})
	*loc = val
}
