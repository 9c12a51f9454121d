// v0
// internal/domain/runsfile.go
package domain

import "sort"

// RunsFile is the ordered sequence of every run known to the contest.
// The server keeps two variants: a public one with frozen verdicts
// masked to Pending, and a secret one with full verdicts (see
// internal/store).
type RunsFile struct {
	Runs []Run `json:"runs"`
}

// Sorted returns a copy of the runs ordered by (time, id), the canonical
// order used by the revelation engine's setup pass and by fresh-run
// delivery.
func (f RunsFile) Sorted() []Run {
	out := append([]Run(nil), f.Runs...)
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// MaskFrozen returns a copy of f where every run at or after freezeTime
// has its Verdict replaced with Pending.
func (f RunsFile) MaskFrozen(freezeTime int64) RunsFile {
	out := make([]Run, len(f.Runs))
	for i, r := range f.Runs {
		if r.TimeMinutes >= freezeTime {
			r.Verdict = PendingVerdict
		}
		out[i] = r
	}
	return RunsFile{Runs: out}
}
