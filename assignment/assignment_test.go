// Package assignment_test covers the solution container: element bookkeeping,
// store/restore round trips, deep copies and objective handling.
package assignment_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvlsearch/assignment"
	"github.com/katalvlaran/lvlsearch/engine"
)

// -----------------------------------------------------------------------------
// 1) Adding elements and duplicate handling.
// -----------------------------------------------------------------------------

func TestAssignment_AddReturnsExistingOnDuplicate(t *testing.T) {
	s := engine.NewSession()
	x := s.NewIntVar("x", 0, 10)
	a := assignment.New()

	e1 := a.Add(x)
	e2 := a.Add(x)
	require.Same(t, e1, e2)
	require.Equal(t, 1, a.NumElements())
	require.True(t, a.Contains(x))
}

func TestAssignment_ElementPanicsOnAbsentVar(t *testing.T) {
	s := engine.NewSession()
	x := s.NewIntVar("x", 0, 10)
	a := assignment.New()

	require.Panics(t, func() { a.Element(x) })
	a.Add(x)
	require.NotPanics(t, func() { a.Element(x) })
}

func TestAssignment_Empty(t *testing.T) {
	a := assignment.New()
	require.True(t, a.Empty())

	s := engine.NewSession()
	a.Add(s.NewIntVar("x", 0, 1))
	require.False(t, a.Empty())
	a.Clear()
	require.True(t, a.Empty())
	require.Equal(t, 0, a.NumElements())
}

// -----------------------------------------------------------------------------
// 2) Store / Restore semantics.
// -----------------------------------------------------------------------------

func TestAssignment_StoreCapturesCurrentDomains(t *testing.T) {
	s := engine.NewSession()
	x := s.NewIntVar("x", 0, 10)
	a := assignment.New()
	a.Add(x)

	x.SetValue(4)
	a.Store()

	e := a.Element(x)
	require.True(t, e.Bound())
	require.Equal(t, int64(4), e.Value())
}

func TestAssignment_RestoreNarrowsVariables(t *testing.T) {
	s := engine.NewSession()
	x := s.NewIntVar("x", 0, 10)
	a := assignment.New()
	a.Add(x).SetValue(7)

	a.Restore()
	require.Equal(t, int64(7), x.Value())
	require.False(t, s.Failed())
}

func TestAssignment_RestoreIsIdempotent(t *testing.T) {
	s := engine.NewSession()
	x := s.NewIntVar("x", 0, 10)
	y := s.NewIntVar("y", -3, 3)
	a := assignment.New()
	a.Add(x).SetValue(2)
	a.Add(y).SetRange(0, 1)

	a.Restore()
	a.Restore() // second application narrows nothing
	require.Equal(t, int64(2), x.Value())
	require.Equal(t, int64(0), y.Min())
	require.Equal(t, int64(1), y.Max())
	require.False(t, s.Failed())
}

func TestAssignment_RestoreSkipsDeactivatedElements(t *testing.T) {
	s := engine.NewSession()
	x := s.NewIntVar("x", 0, 10)
	a := assignment.New()
	e := a.Add(x)
	e.SetValue(9)
	e.Deactivate()

	a.Restore()
	require.False(t, x.Bound(), "deactivated element must not narrow its variable")
}

func TestAssignment_RestoreConflictFailsSession(t *testing.T) {
	s := engine.NewSession()
	x := s.NewIntVar("x", 0, 10)
	a := assignment.New()
	a.Add(x).SetValue(4)

	x.SetValue(5) // already bound elsewhere
	a.Restore()
	require.True(t, s.Failed())
}

// -----------------------------------------------------------------------------
// 3) Copy, Clone and objective.
// -----------------------------------------------------------------------------

func TestAssignment_CopyOverwritesSharedVars(t *testing.T) {
	s := engine.NewSession()
	x := s.NewIntVar("x", 0, 10)
	y := s.NewIntVar("y", 0, 10)

	dst := assignment.New()
	dst.Add(x).SetValue(1)
	dst.Add(y).SetValue(2)

	src := assignment.New()
	src.Add(x).SetValue(8)

	dst.Copy(src)
	require.Equal(t, int64(8), dst.Element(x).Value())
	require.Equal(t, int64(2), dst.Element(y).Value(), "vars absent from src stay put")
}

func TestAssignment_CloneIsDeep(t *testing.T) {
	s := engine.NewSession()
	x := s.NewIntVar("x", 0, 10)
	a := assignment.New()
	a.Add(x).SetValue(3)

	c := a.Clone()
	c.Element(x).SetValue(9)
	require.Equal(t, int64(3), a.Element(x).Value())
	require.Equal(t, int64(9), c.Element(x).Value())
	require.Same(t, x, c.Element(x).Var(), "clone shares the underlying variables")
}

func TestAssignment_ObjectiveSingleton(t *testing.T) {
	s := engine.NewSession()
	cost := s.NewIntVar("cost", 0, 1000)
	a := assignment.New()

	require.False(t, a.HasObjective())
	a.AddObjective(cost)
	require.True(t, a.HasObjective())
	require.Panics(t, func() { a.AddObjective(s.NewIntVar("other", 0, 1)) })

	a.Objective().SetValue(42)
	require.Equal(t, int64(42), a.ObjectiveValue())
}

// -----------------------------------------------------------------------------
// 4) Interval elements.
// -----------------------------------------------------------------------------

func TestAssignment_IntervalStoreRestoreRoundTrip(t *testing.T) {
	s := engine.NewSession()
	iv := s.NewIntervalVar("task", 0, 20, 3, 5)
	a := assignment.New()
	a.AddInterval(iv)

	iv.SetStartRange(4, 9)
	iv.SetPerformedRange(1, 1)
	a.Store()

	e := a.IntervalElement(iv)
	require.Equal(t, int64(4), e.StartMin())
	require.Equal(t, int64(9), e.StartMax())
	require.Equal(t, int64(1), e.PerformedMin())

	a.Restore()
	require.Equal(t, int64(4), iv.StartMin())
	require.False(t, s.Failed())
}

func TestAssignment_IntervalStoreOfExcludedSkipsTemporal(t *testing.T) {
	s := engine.NewSession()
	iv := s.NewIntervalVar("task", 0, 20, 3, 5)
	a := assignment.New()
	a.AddInterval(iv)

	iv.SetPerformedRange(0, 0)
	require.NotPanics(t, func() { a.Store() })

	e := a.IntervalElement(iv)
	require.Equal(t, int64(0), e.PerformedMax())
}

func TestAssignment_IntervalRestoreOfExcludedSkipsTemporal(t *testing.T) {
	s := engine.NewSession()
	iv := s.NewIntervalVar("task", 0, 20, 3, 5)
	a := assignment.New()
	e := a.AddInterval(iv)
	e.SetPerformedRange(0, 0)
	e.SetStartRange(4, 9)

	require.NotPanics(t, func() { a.Restore() })
	require.False(t, iv.MayBePerformed())
}
