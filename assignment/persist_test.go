package assignment_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvlsearch/assignment"
	"github.com/katalvlaran/lvlsearch/engine"
)

// -----------------------------------------------------------------------------
// 1) Round trips.
// -----------------------------------------------------------------------------

func TestPersist_ScalarRoundTrip(t *testing.T) {
	s := engine.NewSession()
	x := s.NewIntVar("x", 0, 10)
	y := s.NewIntVar("y", -5, 5)

	a := assignment.New()
	a.Add(x).SetValue(4)
	e := a.Add(y)
	e.SetRange(-1, 2)
	e.Deactivate()

	path := filepath.Join(t.TempDir(), "snap.yaml")
	require.NoError(t, a.Save(path))

	b := assignment.New()
	b.Add(x)
	b.Add(y)
	require.NoError(t, b.Load(path))

	require.Equal(t, int64(4), b.Element(x).Value())
	require.Equal(t, int64(-1), b.Element(y).Min())
	require.Equal(t, int64(2), b.Element(y).Max())
	require.False(t, b.Element(y).Activated())
}

func TestPersist_IntervalRoundTrip(t *testing.T) {
	s := engine.NewSession()
	iv := s.NewIntervalVar("task", 0, 20, 3, 5)

	a := assignment.New()
	e := a.AddInterval(iv)
	e.SetStartRange(4, 9)
	e.SetDurationRange(3, 3)
	e.SetEndRange(7, 12)
	e.SetPerformedRange(1, 1)

	path := filepath.Join(t.TempDir(), "snap.yaml")
	require.NoError(t, a.Save(path))

	b := assignment.New()
	b.AddInterval(iv)
	require.NoError(t, b.Load(path))

	got := b.IntervalElement(iv)
	require.Equal(t, int64(4), got.StartMin())
	require.Equal(t, int64(9), got.StartMax())
	require.Equal(t, int64(3), got.DurationMin())
	require.Equal(t, int64(12), got.EndMax())
	require.Equal(t, int64(1), got.PerformedMin())
}

func TestPersist_ObjectiveRoundTrip(t *testing.T) {
	s := engine.NewSession()
	cost := s.NewIntVar("cost", 0, 1000)

	a := assignment.New()
	a.AddObjective(cost).SetValue(77)

	path := filepath.Join(t.TempDir(), "snap.yaml")
	require.NoError(t, a.Save(path))

	b := assignment.New()
	b.AddObjective(cost)
	require.NoError(t, b.Load(path))
	require.Equal(t, int64(77), b.ObjectiveValue())
}

// -----------------------------------------------------------------------------
// 2) Tolerant loading.
// -----------------------------------------------------------------------------

func TestPersist_LoadReordersByName(t *testing.T) {
	s := engine.NewSession()
	x := s.NewIntVar("x", 0, 10)
	y := s.NewIntVar("y", 0, 10)

	a := assignment.New()
	a.Add(x).SetValue(1)
	a.Add(y).SetValue(2)

	path := filepath.Join(t.TempDir(), "snap.yaml")
	require.NoError(t, a.Save(path))

	// A container declaring the same vars in the opposite order.
	b := assignment.New()
	b.Add(y)
	b.Add(x)
	require.NoError(t, b.Load(path))
	require.Equal(t, int64(1), b.Element(x).Value())
	require.Equal(t, int64(2), b.Element(y).Value())
}

func TestPersist_LoadSkipsUnknownNames(t *testing.T) {
	s := engine.NewSession()
	x := s.NewIntVar("x", 0, 10)
	gone := s.NewIntVar("retired", 0, 10)

	a := assignment.New()
	a.Add(x).SetValue(5)
	a.Add(gone).SetValue(9)

	path := filepath.Join(t.TempDir(), "snap.yaml")
	require.NoError(t, a.Save(path))

	b := assignment.New()
	b.Add(x)
	require.NoError(t, b.Load(path), "unknown names must not fail the load")
	require.Equal(t, int64(5), b.Element(x).Value())
}

func TestPersist_SaveSkipsUnnamedAndDuplicateElements(t *testing.T) {
	s := engine.NewSession()
	anon := s.NewIntVar("", 0, 10)
	d1 := s.NewIntVar("twin", 0, 10)
	d2 := s.NewIntVar("twin", 0, 10)
	x := s.NewIntVar("x", 0, 10)

	a := assignment.New()
	a.Add(anon).SetValue(1)
	a.Add(d1).SetValue(2)
	a.Add(d2).SetValue(3)
	a.Add(x).SetValue(4)

	path := filepath.Join(t.TempDir(), "snap.yaml")
	require.NoError(t, a.Save(path))

	b := assignment.New()
	b.Add(d1)
	b.Add(x)
	require.NoError(t, b.Load(path))
	require.Equal(t, int64(2), b.Element(d1).Value(), "first twin wins")
	require.Equal(t, int64(4), b.Element(x).Value())
}

// -----------------------------------------------------------------------------
// 3) Failure modes leave the container untouched.
// -----------------------------------------------------------------------------

func TestPersist_LoadMissingFile(t *testing.T) {
	s := engine.NewSession()
	x := s.NewIntVar("x", 0, 10)
	a := assignment.New()
	a.Add(x).SetValue(6)

	err := a.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, assignment.ErrLoad)
	require.Equal(t, int64(6), a.Element(x).Value())
}

func TestPersist_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml: ["), 0o644))

	s := engine.NewSession()
	x := s.NewIntVar("x", 0, 10)
	a := assignment.New()
	a.Add(x).SetValue(6)

	err := a.Load(path)
	require.ErrorIs(t, err, assignment.ErrLoad)
	require.Equal(t, int64(6), a.Element(x).Value())
}

func TestPersist_SaveUnwritablePath(t *testing.T) {
	a := assignment.New()
	err := a.Save(filepath.Join(t.TempDir(), "no", "such", "dir", "snap.yaml"))
	require.ErrorIs(t, err, assignment.ErrSave)
}
