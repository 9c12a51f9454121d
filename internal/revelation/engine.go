// v0
// internal/revelation/engine.go
package revelation

import (
	"container/heap"

	"nrgchamp/animeitor/internal/domain"
)

// State is one of the three revelation state-machine states: Setup moves
// to Revealing on construction success, each step stays in Revealing,
// and Revealing moves to Done when the heap empties.
type State int

const (
	Setup State = iota
	Revealing
	Done
)

func (s State) String() string {
	switch s {
	case Setup:
		return "setup"
	case Revealing:
		return "revealing"
	default:
		return "done"
	}
}

// OnWinnerFunc is an optional observer hook invoked once the reveal has
// fully drained, naming the team left in first place. The engine never
// requires one; callers that want a closing-ceremony announcement attach
// it with WithWinnerHook.
type OnWinnerFunc func(teamLogin, sedeName string)

// Engine is a deterministic state machine that starts from a frozen
// scoreboard and uncovers hidden verdicts one team at a time, in the
// order ICPC tradition expects: the lowest-ranked team whose revealed
// result might still move them up goes first.
type Engine struct {
	contest *domain.ContestFile
	runs    domain.RunsFile
	heap    scoreHeap
	state   State

	onWinner OnWinnerFunc
	sede     string
}

// New builds an Engine: applies every run before the freeze time live,
// buffers the rest as frozen, seeds the heap with every team's initial
// Score, and recomputes placement once. Construction cannot fail for a
// well-formed contest and runs set, so State starts at Revealing.
func New(contest *domain.ContestFile, runs domain.RunsFile) *Engine {
	e := &Engine{contest: contest, runs: runs, state: Setup}

	for _, r := range runs.Sorted() {
		if r.TimeMinutes < contest.ScoreFreezeTime {
			contest.ApplyRun(r)
		} else {
			contest.ApplyRunFrozen(r)
		}
	}

	h := make(scoreHeap, 0, len(contest.Teams))
	for _, team := range contest.Teams {
		h = append(h, team.Score())
	}
	heap.Init(&h)
	e.heap = h

	contest.RecalculatePlacementNoFilter()
	e.state = Revealing
	return e
}

// WithWinnerHook attaches an optional winner-announcement observer and
// the sede name it should report, returning e for chaining.
func (e *Engine) WithWinnerHook(sedeName string, fn OnWinnerFunc) *Engine {
	e.sede = sedeName
	e.onWinner = fn
	return e
}

// Contest exposes the engine's live contest state.
func (e *Engine) Contest() *domain.ContestFile { return e.contest }

// State reports the engine's current state-machine state.
func (e *Engine) State() State { return e.state }

// Len reports the number of teams still in the reveal queue. Every team
// enters the queue at construction; a team leaves for good once it is
// popped with no frozen runs left.
func (e *Engine) Len() int { return e.heap.Len() }

// IsEmpty reports whether the heap has drained (equivalent to Len() ==
// 0, and to State() == Done once a step has observed it).
func (e *Engine) IsEmpty() bool { return e.heap.Len() == 0 }

// Peek returns the login of the team at the top of the heap without
// mutating anything, or false if the heap is empty.
func (e *Engine) Peek() (string, bool) {
	if e.heap.Len() == 0 {
		return "", false
	}
	return e.heap[0].TeamLogin, true
}

// RevealStep pops the top Score, reveals that team's earliest frozen run
// if it has one (a team with none is only removed from the heap), and,
// if the team still has frozen runs left, pushes its recomputed Score
// back onto the heap. It then recomputes placement. A no-op on an
// empty heap. Surfaces UnknownTeamError if the popped Score's login is
// absent from the contest; on a well-formed contest that never happens.
func (e *Engine) RevealStep() error {
	if e.heap.Len() == 0 {
		e.state = Done
		return nil
	}

	top := heap.Pop(&e.heap).(domain.Score)
	team, ok := e.contest.Teams[top.TeamLogin]
	if !ok {
		return &UnknownTeamError{TeamLogin: top.TeamLogin}
	}

	if team.RevealRunFrozen() {
		heap.Push(&e.heap, team.Score())
	}

	e.contest.RecalculatePlacementNoFilter()
	e.maybeAnnounceWinner()

	if e.heap.Len() == 0 {
		e.state = Done
	} else {
		e.state = Revealing
	}
	return nil
}

// RevealTopN drains the heap down to at most n entries, calling
// RevealStep repeatedly, then recomputes placement once more. A call
// where n >= Len() is a no-op.
func (e *Engine) RevealTopN(n int) error {
	for e.heap.Len() > n {
		if err := e.RevealStep(); err != nil {
			return err
		}
	}
	e.contest.RecalculatePlacementNoFilter()
	return nil
}

// maybeAnnounceWinner invokes the optional OnWinner hook, if one is
// attached, once the heap has fully drained, naming the team currently
// in first place and the sede name given to WithWinnerHook.
func (e *Engine) maybeAnnounceWinner() {
	if e.onWinner == nil || e.heap.Len() != 0 {
		return
	}
	for login, team := range e.contest.Teams {
		if team.Placement == 1 {
			e.onWinner(login, e.sede)
			return
		}
	}
}
