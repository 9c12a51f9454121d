// v0
// internal/domain/contest.go
package domain

import (
	"sort"
	"time"
)

// ContestFile is the contest metadata plus every team's current state.
// Invariant: 0 <= ScoreFreezeTime <= DurationMinutes.
type ContestFile struct {
	Name            string           `json:"name"`
	Start           time.Time        `json:"start"`
	DurationMinutes int64            `json:"durationMinutes"`
	ScoreFreezeTime int64            `json:"scoreFreezeTime"`
	Teams           map[string]*Team `json:"teams"`
	ProblemLetters  []string         `json:"problemLetters"`
}

// NewContestFile validates and builds a ContestFile.
func NewContestFile(name string, start time.Time, durationMinutes, freezeTime int64, letters []string) (*ContestFile, error) {
	if freezeTime < 0 || freezeTime > durationMinutes {
		return nil, ErrInvalidFreezeTime
	}
	return &ContestFile{
		Name:            name,
		Start:           start,
		DurationMinutes: durationMinutes,
		ScoreFreezeTime: freezeTime,
		Teams:           make(map[string]*Team),
		ProblemLetters:  append([]string(nil), letters...),
	}, nil
}

// AddTeam registers a team, seeding its problem set from the contest's
// known letters.
func (c *ContestFile) AddTeam(login, displayName, siteCode string) *Team {
	team := NewTeam(login, displayName, siteCode, c.ProblemLetters)
	c.Teams[login] = &team
	return c.Teams[login]
}

// ApplyRun routes run to its team's unfrozen transition. Runs naming an
// unknown team are ignored here; the revelation engine surfaces its own
// error for that case instead (see internal/revelation).
func (c *ContestFile) ApplyRun(run Run) bool {
	team, ok := c.Teams[run.TeamLogin]
	if !ok {
		return false
	}
	return team.ApplyRun(run)
}

// ApplyRunFrozen routes run to its team's frozen buffer.
func (c *ContestFile) ApplyRunFrozen(run Run) {
	if team, ok := c.Teams[run.TeamLogin]; ok {
		team.ApplyRunFrozen(run)
	}
}

// RecalculatePlacementNoFilter assigns Placement to every team by sorting
// on Score descending. Teams with an identical (SolvedCount,
// PenaltyTotal) receive the same placement number, standard competition
// ranking.
func (c *ContestFile) RecalculatePlacementNoFilter() {
	logins := make([]string, 0, len(c.Teams))
	for login := range c.Teams {
		logins = append(logins, login)
	}
	sort.Slice(logins, func(i, j int) bool {
		si, sj := c.Teams[logins[i]].Score(), c.Teams[logins[j]].Score()
		if si.Equal(sj) {
			return logins[i] < logins[j]
		}
		return si.Better(sj)
	})

	var place uint32
	var prevScore Score
	for i, login := range logins {
		score := c.Teams[login].Score()
		if i == 0 || !score.Equal(prevScore) {
			place = uint32(i) + 1
		}
		c.Teams[login].Placement = place
		prevScore = score
	}
}

// FilterSede returns a new ContestFile containing only teams whose login
// matches one of sede's codes.
func (c *ContestFile) FilterSede(sede Sede) *ContestFile {
	filtered := &ContestFile{
		Name:            c.Name,
		Start:           c.Start,
		DurationMinutes: c.DurationMinutes,
		ScoreFreezeTime: c.ScoreFreezeTime,
		Teams:           make(map[string]*Team, len(c.Teams)),
		ProblemLetters:  append([]string(nil), c.ProblemLetters...),
	}
	for login, team := range c.Teams {
		if sede.CheckLogin(login) {
			clone := *team
			clonedProblems := make(map[string]Problem, len(team.Problems))
			for letter, p := range team.Problems {
				p.FrozenRuns = append([]Run(nil), p.FrozenRuns...)
				clonedProblems[letter] = p
			}
			clone.Problems = clonedProblems
			filtered.Teams[login] = &clone
		}
	}
	return filtered
}

// Clone returns a deep-enough copy of c suitable for handing to a
// read-only consumer (e.g. the revelation engine, or an HTTP response)
// without risking aliasing with the live snapshot store.
func (c *ContestFile) Clone() *ContestFile {
	clone := &ContestFile{
		Name:            c.Name,
		Start:           c.Start,
		DurationMinutes: c.DurationMinutes,
		ScoreFreezeTime: c.ScoreFreezeTime,
		Teams:           make(map[string]*Team, len(c.Teams)),
		ProblemLetters:  append([]string(nil), c.ProblemLetters...),
	}
	for login, team := range c.Teams {
		t := *team
		problems := make(map[string]Problem, len(team.Problems))
		for letter, p := range team.Problems {
			p.FrozenRuns = append([]Run(nil), p.FrozenRuns...)
			problems[letter] = p
		}
		t.Problems = problems
		clone.Teams[login] = &t
	}
	return clone
}
