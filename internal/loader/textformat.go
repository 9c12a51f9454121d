// v0
// internal/loader/textformat.go
package loader

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"nrgchamp/animeitor/internal/domain"
)

// Parsers for the contest/runs archive entries. A judge-specific adapter
// can replace these; this minimal line-oriented format is enough to
// drive the pipeline end-to-end.
//
// contest format (one header line, then one line per team):
//
//	name;startUnixSeconds;durationMinutes;scoreFreezeTime;A,B,C
//	login;displayName;siteCode
//	...
//
// runs format (one line per run):
//
//	id;teamLogin;problemLetter;timeMinutes;verdict
//
// verdict is one of: AC, PD, or RJ:<reason>.

func parseContest(raw []byte) (*domain.ContestFile, error) {
	lines := splitNonEmptyLines(raw)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty input", domain.ErrMalformedContest)
	}

	header := strings.Split(lines[0], ";")
	if len(header) != 5 {
		return nil, fmt.Errorf("%w: bad header %q", domain.ErrMalformedContest, lines[0])
	}
	name := header[0]
	startSeconds, err := strconv.ParseInt(header[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad start time: %v", domain.ErrMalformedContest, err)
	}
	duration, err := strconv.ParseInt(header[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad duration: %v", domain.ErrMalformedContest, err)
	}
	freeze, err := strconv.ParseInt(header[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad freeze time: %v", domain.ErrMalformedContest, err)
	}
	var letters []string
	if header[4] != "" {
		letters = strings.Split(header[4], ",")
	}

	contest, err := domain.NewContestFile(name, time.Unix(startSeconds, 0).UTC(), duration, freeze, letters)
	if err != nil {
		return nil, fmt.Errorf("contest: %w", err)
	}

	for _, line := range lines[1:] {
		fields := strings.Split(line, ";")
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: bad team line %q", domain.ErrMalformedContest, line)
		}
		contest.AddTeam(fields[0], fields[1], fields[2])
	}
	return contest, nil
}

func parseRuns(raw []byte) (domain.RunsFile, error) {
	lines := splitNonEmptyLines(raw)
	runs := make([]domain.Run, 0, len(lines))
	for _, line := range lines {
		fields := strings.Split(line, ";")
		if len(fields) != 5 {
			return domain.RunsFile{}, fmt.Errorf("runs: malformed line %q", line)
		}
		id, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return domain.RunsFile{}, fmt.Errorf("runs: bad id: %w", err)
		}
		timeMinutes, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return domain.RunsFile{}, fmt.Errorf("runs: bad time: %w", err)
		}
		verdict, err := parseVerdict(fields[4])
		if err != nil {
			return domain.RunsFile{}, fmt.Errorf("runs: %w", err)
		}
		runs = append(runs, domain.Run{
			ID:            domain.RunID(id),
			TeamLogin:     fields[1],
			ProblemLetter: fields[2],
			TimeMinutes:   timeMinutes,
			Verdict:       verdict,
		})
	}
	return domain.RunsFile{Runs: runs}, nil
}

func parseVerdict(field string) (domain.Verdict, error) {
	switch {
	case field == "AC":
		return domain.AcceptedVerdict, nil
	case field == "PD":
		return domain.PendingVerdict, nil
	case strings.HasPrefix(field, "RJ:"):
		return domain.RejectedVerdict(strings.TrimPrefix(field, "RJ:")), nil
	default:
		return domain.Verdict{}, fmt.Errorf("unrecognized verdict %q", field)
	}
}

func parseTime(raw []byte) (int64, error) {
	s := strings.TrimSpace(string(raw))
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("time: %w", err)
	}
	return v, nil
}

func splitNonEmptyLines(raw []byte) []string {
	var out []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimRight(line, "\r")
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
