// v0
// internal/store/store.go
package store

import (
	"sync"

	"nrgchamp/animeitor/internal/domain"
)

// Store is a mutex-guarded in-memory index holding the latest contest
// state, the full (secret) run history, and the masked (public) run
// history, refreshed once per update-loop tick. Holders of the lock do
// no I/O.
type Store struct {
	mu sync.RWMutex

	contestBegin  *domain.ContestFile // captured on the first load, never mutated after
	contest       *domain.ContestFile
	runFileSecret domain.RunsFile
	currentTime   int64
	seenRunIDs    map[domain.RunID]struct{}
}

// New returns an empty store.
func New() *Store {
	return &Store{seenRunIDs: make(map[domain.RunID]struct{})}
}

// RefreshDB applies a freshly-loaded snapshot: runs before the contest's
// freeze time go through ApplyRun, runs at or after it through
// ApplyRunFrozen, placements are recalculated, and the store's secret
// run history is replaced wholesale. It returns the runs not already
// present in the previous snapshot, in (time, id) order, with frozen
// verdicts masked to Pending — the returned set feeds the public runs
// broadcast, which must never leak a hidden verdict. A second call with
// identical data returns no fresh runs.
func (s *Store) RefreshDB(currentTime int64, contest *domain.ContestFile, runs domain.RunsFile) ([]domain.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.contestBegin == nil {
		s.contestBegin = contest.Clone()
	}

	sorted := runs.Sorted()
	fresh := make([]domain.Run, 0, len(sorted))
	seen := make(map[domain.RunID]struct{}, len(sorted))

	for _, r := range sorted {
		seen[r.ID] = struct{}{}
		if r.TimeMinutes < contest.ScoreFreezeTime {
			contest.ApplyRun(r)
		} else {
			contest.ApplyRunFrozen(r)
		}
		if _, already := s.seenRunIDs[r.ID]; !already {
			fresh = append(fresh, r)
		}
	}
	contest.RecalculatePlacementNoFilter()

	s.contest = contest
	s.runFileSecret = domain.RunsFile{Runs: sorted}
	s.currentTime = currentTime
	s.seenRunIDs = seen

	masked := domain.RunsFile{Runs: fresh}.MaskFrozen(contest.ScoreFreezeTime)
	return masked.Runs, nil
}

// Contest returns a read-only-safe clone of the current contest state,
// with every run already applied or buffered frozen. Backs /score, where
// the server itself needs placements and per-problem progress.
func (s *Store) Contest() *domain.ContestFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.contest == nil {
		return nil
	}
	return s.contest.Clone()
}

// ContestBegin returns a read-only-safe clone of the pristine roster
// captured on the first successful refresh, before any run was ever
// applied. This is what /contest serves: the initial snapshot a client
// (or cmd/revelation) combines with /allruns_secret to build its own
// revelation.Engine, whose construction assumes an unprocessed contest
// to apply runs onto.
func (s *Store) ContestBegin() *domain.ContestFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.contestBegin == nil {
		return nil
	}
	return s.contestBegin.Clone()
}

// RunFile returns the public run history, with every run at or after the
// freeze time masked to Pending.
func (s *Store) RunFile() domain.RunsFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	freeze := int64(0)
	if s.contest != nil {
		freeze = s.contest.ScoreFreezeTime
	}
	return s.runFileSecret.MaskFrozen(freeze)
}

// RunFileSecret returns the full, unmasked run history.
func (s *Store) RunFileSecret() domain.RunsFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.RunsFile{Runs: append([]domain.Run(nil), s.runFileSecret.Runs...)}
}

// TimerData returns the current clock snapshot for the timer broadcast.
func (s *Store) TimerData() domain.TimerData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.contest == nil {
		return domain.FakeTimerData()
	}
	return domain.TimerData{CurrentTime: s.currentTime, ScoreFreezeTime: s.contest.ScoreFreezeTime}
}

// IsEmpty reports whether the store has never been refreshed, so
// handlers can 404 before the first tick lands.
func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contest == nil
}
