// Package assignment - solution snapshot persistence.
//
// A snapshot is a YAML record keyed by variable name: per scalar element
// (name,min,max,active), per interval element the three temporal ranges plus
// the performed range and the active flag, and one optional objective record.
//
// Loading is tolerant by design: unknown names are skipped with a log line,
// never failing the whole load - snapshots routinely outlive model revisions.
// Only a missing or corrupt file is an error, and in that case the container
// is left unmodified.
//
// Errors:
//
//	ErrLoad - file missing/unreadable or record not parseable.
//	ErrSave - record not writable.
package assignment

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Sentinel errors for snapshot persistence.
var (
	// ErrLoad indicates the snapshot file is missing, unreadable or corrupt.
	ErrLoad = errors.New("assignment: cannot load snapshot")

	// ErrSave indicates the snapshot file could not be written.
	ErrSave = errors.New("assignment: cannot save snapshot")
)

// intRecord is the persisted form of one scalar element.
type intRecord struct {
	Name   string `yaml:"name"`
	Min    int64  `yaml:"min"`
	Max    int64  `yaml:"max"`
	Active bool   `yaml:"active"`
}

// intervalRecord is the persisted form of one interval element.
type intervalRecord struct {
	Name         string `yaml:"name"`
	StartMin     int64  `yaml:"start_min"`
	StartMax     int64  `yaml:"start_max"`
	DurationMin  int64  `yaml:"duration_min"`
	DurationMax  int64  `yaml:"duration_max"`
	EndMin       int64  `yaml:"end_min"`
	EndMax       int64  `yaml:"end_max"`
	PerformedMin int64  `yaml:"performed_min"`
	PerformedMax int64  `yaml:"performed_max"`
	Active       bool   `yaml:"active"`
}

// snapshotRecord is the on-disk layout of a full solution snapshot.
type snapshotRecord struct {
	IntVars      []intRecord      `yaml:"int_vars,omitempty"`
	IntervalVars []intervalRecord `yaml:"interval_vars,omitempty"`
	Objective    *intRecord       `yaml:"objective,omitempty"`
}

// Save serializes the Assignment to path. Elements with an empty variable
// name are not persisted (a warning is logged; the assignment itself is not
// modified for them), and elements duplicating an already-persisted name are
// logged and skipped.
//
// Complexity: O(n) over the element count.
func (a *Assignment) Save(path string) error {
	rec := snapshotRecord{}
	seen := make(map[string]struct{}, len(a.ints)+len(a.intervals))

	var e *Element
	for _, e = range a.ints {
		name := e.v.Name()
		if name == "" {
			a.log.Warn("assignment: skipping unnamed element on save")

			continue
		}
		if _, dup := seen[name]; dup {
			a.log.Warn("assignment: skipping duplicate element on save", "name", name)

			continue
		}
		seen[name] = struct{}{}
		rec.IntVars = append(rec.IntVars, intRecord{Name: name, Min: e.min, Max: e.max, Active: e.active})
	}

	var ie *IntervalElement
	for _, ie = range a.intervals {
		name := ie.v.Name()
		if name == "" {
			a.log.Warn("assignment: skipping unnamed interval on save")

			continue
		}
		if _, dup := seen[name]; dup {
			a.log.Warn("assignment: skipping duplicate interval on save", "name", name)

			continue
		}
		seen[name] = struct{}{}
		rec.IntervalVars = append(rec.IntervalVars, intervalRecord{
			Name:     name,
			StartMin: ie.startMin, StartMax: ie.startMax,
			DurationMin: ie.durMin, DurationMax: ie.durMax,
			EndMin: ie.endMin, EndMax: ie.endMax,
			PerformedMin: ie.perfMin, PerformedMax: ie.perfMax,
			Active: ie.active,
		})
	}

	if a.objective != nil && a.objective.v.Name() != "" {
		rec.Objective = &intRecord{
			Name:   a.objective.v.Name(),
			Min:    a.objective.min,
			Max:    a.objective.max,
			Active: a.objective.active,
		}
	}

	out, err := yaml.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSave, err)
	}
	if err = os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrSave, err)
	}

	return nil
}

// Load reads a snapshot from path and applies it to the elements already in
// this Assignment. An O(n) positional fast path is attempted first, matching
// stored order; when order or cardinality differ it falls back to an O(n)
// name-indexed map. Stored names matching no element are skipped with a log
// line; elements absent from the record are left untouched.
//
// On a missing or corrupt file the error is returned and the container is
// not modified.
func (a *Assignment) Load(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoad, err)
	}
	var rec snapshotRecord
	if err = yaml.Unmarshal(raw, &rec); err != nil {
		return fmt.Errorf("%w: %v", ErrLoad, err)
	}

	a.loadInts(rec.IntVars)
	a.loadIntervals(rec.IntervalVars)

	if rec.Objective != nil {
		if a.objective != nil && a.objective.v.Name() == rec.Objective.Name {
			a.objective.min, a.objective.max = rec.Objective.Min, rec.Objective.Max
			a.objective.active = rec.Objective.Active
		} else {
			a.log.Warn("assignment: skipping objective record on load", "name", rec.Objective.Name)
		}
	}

	return nil
}

// loadInts applies scalar records, fast path first.
func (a *Assignment) loadInts(recs []intRecord) {
	// Fast path: same cardinality and same order as stored.
	if len(recs) == len(a.ints) {
		aligned := true
		var i int
		for i = range recs {
			if recs[i].Name != a.ints[i].v.Name() {
				aligned = false

				break
			}
		}
		if aligned {
			for i = range recs {
				a.ints[i].min, a.ints[i].max = recs[i].Min, recs[i].Max
				a.ints[i].active = recs[i].Active
			}

			return
		}
	}

	// Fallback: index elements by name, then walk the records.
	byName := make(map[string]*Element, len(a.ints))
	var e *Element
	for _, e = range a.ints {
		if name := e.v.Name(); name != "" {
			if _, dup := byName[name]; !dup {
				byName[name] = e
			}
		}
	}
	var r intRecord
	for _, r = range recs {
		e, ok := byName[r.Name]
		if !ok {
			a.log.Warn("assignment: skipping unknown element on load", "name", r.Name)

			continue
		}
		e.min, e.max, e.active = r.Min, r.Max, r.Active
	}
}

// loadIntervals applies interval records, fast path first.
func (a *Assignment) loadIntervals(recs []intervalRecord) {
	if len(recs) == len(a.intervals) {
		aligned := true
		var i int
		for i = range recs {
			if recs[i].Name != a.intervals[i].v.Name() {
				aligned = false

				break
			}
		}
		if aligned {
			for i = range recs {
				applyIntervalRecord(a.intervals[i], recs[i])
			}

			return
		}
	}

	byName := make(map[string]*IntervalElement, len(a.intervals))
	var ie *IntervalElement
	for _, ie = range a.intervals {
		if name := ie.v.Name(); name != "" {
			if _, dup := byName[name]; !dup {
				byName[name] = ie
			}
		}
	}
	var r intervalRecord
	for _, r = range recs {
		ie, ok := byName[r.Name]
		if !ok {
			a.log.Warn("assignment: skipping unknown interval on load", "name", r.Name)

			continue
		}
		applyIntervalRecord(ie, r)
	}
}

// applyIntervalRecord overwrites one interval element from its stored record.
func applyIntervalRecord(e *IntervalElement, r intervalRecord) {
	e.startMin, e.startMax = r.StartMin, r.StartMax
	e.durMin, e.durMax = r.DurationMin, r.DurationMax
	e.endMin, e.endMax = r.EndMin, r.EndMax
	e.perfMin, e.perfMax = r.PerformedMin, r.PerformedMax
	e.active = r.Active
}
