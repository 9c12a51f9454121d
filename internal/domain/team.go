// v0
// internal/domain/team.go
package domain

// Team holds one competitor's identity and per-problem progress.
type Team struct {
	Login       string             `json:"login"`
	DisplayName string             `json:"displayName"`
	SiteCode    string             `json:"siteCode"`
	Problems    map[string]Problem `json:"problems"`
	Placement   uint32             `json:"placement"`
}

// NewTeam builds a Team with an empty problem set ready for the given
// letters.
func NewTeam(login, displayName, siteCode string, letters []string) Team {
	problems := make(map[string]Problem, len(letters))
	for _, letter := range letters {
		problems[letter] = EmptyProblem()
	}
	return Team{Login: login, DisplayName: displayName, SiteCode: siteCode, Problems: problems}
}

// ApplyRun updates the team's unfrozen state for run. Reports whether
// anything changed.
func (t *Team) ApplyRun(run Run) bool {
	p := t.Problems[run.ProblemLetter]
	changed := p.applyRun(run)
	t.Problems[run.ProblemLetter] = p
	return changed
}

// ApplyRunFrozen buffers run for later revelation without touching the
// live score.
func (t *Team) ApplyRunFrozen(run Run) {
	p := t.Problems[run.ProblemLetter]
	p.applyRunFrozen(run)
	t.Problems[run.ProblemLetter] = p
}

// RevealRunFrozen pops this team's earliest frozen run (by (time, id),
// across every one of its problems) and applies it live. It returns true
// if the team still holds further frozen runs afterward. This is the
// unit step of revelation for one team.
func (t *Team) RevealRunFrozen() bool {
	letter, found := t.nextFrozenProblem()
	if !found {
		return false
	}
	p := t.Problems[letter]
	run, ok := p.popEarliestFrozen()
	if !ok {
		return false
	}
	p.applyRun(run)
	t.Problems[letter] = p
	return t.hasFrozenRuns()
}

// nextFrozenProblem finds the problem letter whose earliest frozen run is
// the earliest across all of the team's problems.
func (t *Team) nextFrozenProblem() (string, bool) {
	var bestLetter string
	var best Run
	found := false
	for letter, p := range t.Problems {
		if len(p.FrozenRuns) == 0 {
			continue
		}
		for _, r := range p.FrozenRuns {
			if !found || r.Before(best) {
				best = r
				bestLetter = letter
				found = true
			}
		}
	}
	return bestLetter, found
}

func (t *Team) hasFrozenRuns() bool {
	for _, p := range t.Problems {
		if len(p.FrozenRuns) > 0 {
			return true
		}
	}
	return false
}

// HasFrozenRuns reports whether any problem still holds a hidden run.
func (t *Team) HasFrozenRuns() bool {
	return t.hasFrozenRuns()
}

// Score computes the team's current (unfrozen) Score.
func (t *Team) Score() Score {
	var solved uint32
	var penalty int64
	for _, p := range t.Problems {
		if p.Solved() {
			solved++
			penalty += p.Penalty()
		}
	}
	return Score{SolvedCount: solved, PenaltyTotal: penalty, TeamLogin: t.Login}
}
