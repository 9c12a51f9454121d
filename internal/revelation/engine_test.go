// v0
// internal/revelation/engine_test.go
package revelation

import (
	"math/rand"
	"testing"
	"time"

	"nrgchamp/animeitor/internal/domain"
)

func buildContest(t *testing.T) *domain.ContestFile {
	t.Helper()
	c, err := domain.NewContestFile("Finals", time.Now(), 300, 240, []string{"A", "B"})
	if err != nil {
		t.Fatal(err)
	}
	c.AddTeam("alpha", "Alpha", "X")
	c.AddTeam("beta", "Beta", "X")
	c.AddTeam("gamma", "Gamma", "X")
	return c
}

func TestEngineDrainsToEmptyAndReachesDone(t *testing.T) {
	c := buildContest(t)
	runs := domain.RunsFile{Runs: []domain.Run{
		{ID: 1, TeamLogin: "alpha", ProblemLetter: "A", TimeMinutes: 250, Verdict: domain.AcceptedVerdict},
		{ID: 2, TeamLogin: "beta", ProblemLetter: "B", TimeMinutes: 260, Verdict: domain.RejectedVerdict("WA")},
		{ID: 3, TeamLogin: "gamma", ProblemLetter: "A", TimeMinutes: 270, Verdict: domain.AcceptedVerdict},
	}}

	e := New(c, runs)
	if e.State() != Revealing {
		t.Fatalf("expected Revealing after construction, got %s", e.State())
	}

	steps := 0
	for !e.IsEmpty() {
		if err := e.RevealStep(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		steps++
		if steps > 100 {
			t.Fatal("revelation did not converge")
		}
	}
	if e.State() != Done {
		t.Fatalf("expected Done once heap empties, got %s", e.State())
	}
	for login, team := range e.Contest().Teams {
		if team.HasFrozenRuns() {
			t.Fatalf("expected no frozen runs left after draining, team %s still has some", login)
		}
	}

	if err := e.RevealStep(); err != nil {
		t.Fatalf("expected no-op on empty heap, got error: %v", err)
	}
}

func TestEnginePeekDoesNotMutate(t *testing.T) {
	c := buildContest(t)
	runs := domain.RunsFile{Runs: []domain.Run{
		{ID: 1, TeamLogin: "alpha", ProblemLetter: "A", TimeMinutes: 250, Verdict: domain.AcceptedVerdict},
	}}
	e := New(c, runs)

	before := e.Len()
	login1, ok1 := e.Peek()
	login2, ok2 := e.Peek()
	if !ok1 || !ok2 || login1 != login2 {
		t.Fatalf("expected stable repeated peeks, got %q, %q", login1, login2)
	}
	if e.Len() != before {
		t.Fatalf("expected Peek not to mutate heap size, before=%d after=%d", before, e.Len())
	}
}

func TestRevealTopNIsNoOpWhenNNotLessThanLen(t *testing.T) {
	c := buildContest(t)
	e := New(c, domain.RunsFile{})
	before := e.Len()

	if err := e.RevealTopN(before); err != nil {
		t.Fatal(err)
	}
	if e.Len() != before {
		t.Fatalf("expected RevealTopN(n>=len) to be a no-op, before=%d after=%d", before, e.Len())
	}

	if err := e.RevealTopN(before + 5); err != nil {
		t.Fatal(err)
	}
	if e.Len() != before {
		t.Fatalf("expected RevealTopN(n>len) to be a no-op, before=%d after=%d", before, e.Len())
	}
}

func TestRevealTopNDrainsDownToN(t *testing.T) {
	c := buildContest(t)
	runs := domain.RunsFile{Runs: []domain.Run{
		{ID: 1, TeamLogin: "alpha", ProblemLetter: "A", TimeMinutes: 250, Verdict: domain.AcceptedVerdict},
		{ID: 2, TeamLogin: "beta", ProblemLetter: "B", TimeMinutes: 260, Verdict: domain.AcceptedVerdict},
		{ID: 3, TeamLogin: "gamma", ProblemLetter: "A", TimeMinutes: 270, Verdict: domain.AcceptedVerdict},
	}}
	e := New(c, runs)

	if err := e.RevealTopN(1); err != nil {
		t.Fatal(err)
	}
	if e.Len() != 1 {
		t.Fatalf("expected exactly 1 team left in the heap, got %d", e.Len())
	}
}

// Exhaustively revealing a frozen snapshot must reach the same team
// scores and placements as applying every run directly in (time, id)
// order.
func TestFullRevealEqualsDirectApply(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	letters := []string{"A", "B"}

	for trial := 0; trial < 50; trial++ {
		direct, _ := domain.NewContestFile("T", time.Now(), 180, 90, letters)
		frozen, _ := domain.NewContestFile("T", time.Now(), 180, 90, letters)
		for _, login := range []string{"t1", "t2", "t3"} {
			direct.AddTeam(login, login, "X")
			frozen.AddTeam(login, login, "X")
		}

		var runs []domain.Run
		logins := []string{"t1", "t2", "t3"}
		for i := 0; i < 15; i++ {
			var v domain.Verdict
			if rng.Intn(2) == 0 {
				v = domain.AcceptedVerdict
			} else {
				v = domain.RejectedVerdict("WA")
			}
			runs = append(runs, domain.Run{
				ID:            domain.RunID(i),
				TeamLogin:     logins[rng.Intn(len(logins))],
				ProblemLetter: letters[rng.Intn(len(letters))],
				TimeMinutes:   int64(rng.Intn(180)),
				Verdict:       v,
			})
		}

		for _, r := range (domain.RunsFile{Runs: runs}).Sorted() {
			direct.ApplyRun(r)
		}
		direct.RecalculatePlacementNoFilter()

		e := New(frozen, domain.RunsFile{Runs: runs})
		for !e.IsEmpty() {
			if err := e.RevealStep(); err != nil {
				t.Fatalf("trial %d: %v", trial, err)
			}
		}

		for _, login := range logins {
			ds := direct.Teams[login].Score()
			fs := e.Contest().Teams[login].Score()
			if ds != fs {
				t.Fatalf("trial %d: team %s diverged: direct=%+v revealed=%+v", trial, login, ds, fs)
			}
			if direct.Teams[login].Placement != e.Contest().Teams[login].Placement {
				t.Fatalf("trial %d: team %s placement diverged: direct=%d revealed=%d",
					trial, login, direct.Teams[login].Placement, e.Contest().Teams[login].Placement)
			}
		}
	}
}

// Team a accepted before the freeze and outranks team b, whose
// acceptance is still frozen, so b must surface at the top of the heap
// and be the next one revealed, not a.
func TestRevealOrderSurfacesLowestRankedTeamFirst(t *testing.T) {
	c, err := domain.NewContestFile("Finals", time.Now(), 100, 50, []string{"A"})
	if err != nil {
		t.Fatal(err)
	}
	c.AddTeam("a", "A", "X")
	c.AddTeam("b", "B", "X")

	runs := domain.RunsFile{Runs: []domain.Run{
		{ID: 1, TeamLogin: "a", ProblemLetter: "A", TimeMinutes: 10, Verdict: domain.AcceptedVerdict},
		{ID: 2, TeamLogin: "b", ProblemLetter: "A", TimeMinutes: 60, Verdict: domain.AcceptedVerdict},
	}}

	e := New(c, runs)
	c.RecalculatePlacementNoFilter()
	if got, _ := e.Peek(); got != "b" {
		t.Fatalf("expected lower-ranked team b at heap top, got %q", got)
	}

	if err := e.RevealStep(); err != nil {
		t.Fatal(err)
	}
	bScore := c.Teams["b"].Score()
	if bScore.SolvedCount != 1 || bScore.PenaltyTotal != 60 {
		t.Fatalf("expected b solved=1 penalty=60 after reveal, got %+v", bScore)
	}

	// b had only one hidden run, so it leaves the queue; a, with nothing
	// to reveal, still settles on its own pop.
	if e.Len() != 1 {
		t.Fatalf("expected only a left in the queue, len=%d", e.Len())
	}
	if got, _ := e.Peek(); got != "a" {
		t.Fatalf("expected a to settle last, got %q", got)
	}
	if err := e.RevealStep(); err != nil {
		t.Fatal(err)
	}
	if !e.IsEmpty() {
		t.Fatalf("expected empty queue after settling a, len=%d", e.Len())
	}
	if c.Teams["a"].Placement != 1 || c.Teams["b"].Placement != 2 {
		t.Fatalf("expected final placement a=1 b=2, got a=%d b=%d",
			c.Teams["a"].Placement, c.Teams["b"].Placement)
	}
}

func TestEngineUnknownTeamSurfacesError(t *testing.T) {
	c := buildContest(t)
	e := New(c, domain.RunsFile{})
	delete(c.Teams, e.heap[0].TeamLogin)

	if err := e.RevealStep(); err == nil {
		t.Fatal("expected UnknownTeamError when heap references a removed team")
	} else if _, ok := err.(*UnknownTeamError); !ok {
		t.Fatalf("expected *UnknownTeamError, got %T: %v", err, err)
	}
}

func TestOnWinnerHookFiresOnceHeapDrains(t *testing.T) {
	c := buildContest(t)
	runs := domain.RunsFile{Runs: []domain.Run{
		{ID: 1, TeamLogin: "alpha", ProblemLetter: "A", TimeMinutes: 250, Verdict: domain.AcceptedVerdict},
	}}

	var announced string
	e := New(c, runs).WithWinnerHook("Brazil", func(login, sede string) {
		announced = login + "@" + sede
	})

	for !e.IsEmpty() {
		if err := e.RevealStep(); err != nil {
			t.Fatal(err)
		}
	}
	if announced == "" {
		t.Fatal("expected OnWinner hook to fire once the heap drained")
	}
}
