package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/corey/pseudo/internal/ports"
)

// ErrNoSnapshot is returned by Check when the project has no stored snapshot.
var ErrNoSnapshot = errors.New("no snapshot stored (run pseudo snapshot first)")

// Snapshot renders the whole project and replaces the stored snapshot with
// the result. Failed types are not stored; they are reported in the Result.
func (a *App) Snapshot(ctx context.Context) (*ports.Snapshot, *Result, error) {
	if a.store == nil {
		return nil, nil, ErrNoStore
	}
	res, err := a.Render(ctx)
	if err != nil {
		return nil, nil, err
	}

	snap := &ports.Snapshot{Entries: make(map[string]*ports.SnapshotEntry, len(res.Outputs))}
	for _, o := range res.Outputs {
		snap.Entries[o.Key] = &ports.SnapshotEntry{File: o.File, Type: o.Type, Text: o.Text}
	}
	if err := a.store.SaveSnapshot(a.projectID, snap); err != nil {
		return nil, nil, fmt.Errorf("save snapshot: %w", err)
	}
	a.log.Info("snapshot saved", "project", a.projectID, "run_id", snap.RunID, "count", len(snap.Entries))
	return snap, res, nil
}

// DeleteSnapshot removes the stored snapshot. Deleting a missing snapshot is
// not an error.
func (a *App) DeleteSnapshot() error {
	if a.store == nil {
		return ErrNoStore
	}
	if err := a.store.DeleteSnapshot(a.projectID); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	a.log.Info("snapshot deleted", "project", a.projectID)
	return nil
}

// DriftKind classifies a difference between the stored and current render.
type DriftKind string

const (
	DriftAdded   DriftKind = "added"
	DriftRemoved DriftKind = "removed"
	DriftChanged DriftKind = "changed"
)

// Drift is one type whose pseudo-code differs from the snapshot.
type Drift struct {
	Key  string
	Kind DriftKind
	Diff string // unified diff, stored text to current text
}

// CheckReport compares the current render with the stored snapshot.
type CheckReport struct {
	RunID     string    // run the baseline came from
	CreatedAt time.Time // when the baseline was taken
	Drifts    []Drift   // sorted by key
	Failures  []Failure
}

// Clean reports whether the current render matches the snapshot.
func (r *CheckReport) Clean() bool { return len(r.Drifts) == 0 }

// Check renders the project and diffs it against the stored snapshot.
func (a *App) Check(ctx context.Context) (*CheckReport, error) {
	if a.store == nil {
		return nil, ErrNoStore
	}
	snap, err := a.store.LoadSnapshot(a.projectID)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	res, err := a.Render(ctx)
	if err != nil {
		return nil, err
	}

	current := make(map[string]string, len(res.Outputs))
	for _, o := range res.Outputs {
		current[o.Key] = o.Text
	}
	keys := make([]string, 0, len(current)+len(snap.Entries))
	for k := range current {
		keys = append(keys, k)
	}
	for k := range snap.Entries {
		if _, ok := current[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	report := &CheckReport{RunID: snap.RunID, CreatedAt: snap.CreatedAt, Failures: res.Failures}
	for _, k := range keys {
		now, inCurrent := current[k]
		entry := snap.Entries[k]
		var d Drift
		switch {
		case entry == nil:
			d = Drift{Key: k, Kind: DriftAdded, Diff: unifiedDiff(k, nil, difflib.SplitLines(now))}
		case !inCurrent:
			d = Drift{Key: k, Kind: DriftRemoved, Diff: unifiedDiff(k, difflib.SplitLines(entry.Text), nil)}
		case entry.Text != now:
			d = Drift{Key: k, Kind: DriftChanged, Diff: unifiedDiff(k, difflib.SplitLines(entry.Text), difflib.SplitLines(now))}
		default:
			continue
		}
		report.Drifts = append(report.Drifts, d)
	}
	a.log.Info("check", "project", a.projectID, "baseline", snap.RunID, "drifts", len(report.Drifts))
	return report, nil
}

func unifiedDiff(key string, stored, current []string) string {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        stored,
		B:        current,
		FromFile: "a/" + key,
		ToFile:   "b/" + key,
		Context:  3,
	})
	if err != nil {
		// The diff is written to an in-memory buffer.
		return ""
	}
	return text
}
