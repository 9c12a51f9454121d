// v0
// internal/httpapi/router_test.go
package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nrgchamp/animeitor/internal/domain"
	"nrgchamp/animeitor/internal/store"
)

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New()
	contest, err := domain.NewContestFile("Finals", time.Now(), 180, 120, []string{"A"})
	if err != nil {
		t.Fatal(err)
	}
	contest.AddTeam("team1", "Team One", "usp")
	runs := domain.RunsFile{Runs: []domain.Run{
		{ID: 1, TeamLogin: "team1", ProblemLetter: "A", TimeMinutes: 10, Verdict: domain.AcceptedVerdict},
		{ID: 2, TeamLogin: "team1", ProblemLetter: "A", TimeMinutes: 150, Verdict: domain.RejectedVerdict("WA")},
	}}
	if _, err := st.RefreshDB(160, contest, runs); err != nil {
		t.Fatal(err)
	}
	return st
}

func TestHandleRunsMasksFrozenVerdicts(t *testing.T) {
	s := New(seededStore(t), domain.ConfigContest{}, "sekret", nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/runs", nil)
	rec := httptest.NewRecorder()
	s.NewRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body domain.RunsFile
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	for _, r := range body.Runs {
		if r.TimeMinutes >= 120 && r.Verdict.Kind != domain.Pending {
			t.Fatalf("expected frozen run to be masked on /runs, got %v", r.Verdict)
		}
	}
}

func TestHandleAllRunsSecretRejectsWrongSecret(t *testing.T) {
	s := New(seededStore(t), domain.ConfigContest{}, "sekret", nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/allruns_secret/wrong", nil)
	rec := httptest.NewRecorder()
	s.NewRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for wrong secret, got %d", rec.Code)
	}
}

func TestHandleAllRunsSecretAcceptsCorrectSecret(t *testing.T) {
	s := New(seededStore(t), domain.ConfigContest{}, "sekret", nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/allruns_secret/sekret", nil)
	rec := httptest.NewRecorder()
	s.NewRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for correct secret, got %d", rec.Code)
	}
	var body domain.RunsFile
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	foundRejected := false
	for _, r := range body.Runs {
		if r.ID == 2 && r.Verdict.Kind == domain.Rejected {
			foundRejected = true
		}
	}
	if !foundRejected {
		t.Fatal("expected secret endpoint to reveal true frozen verdict")
	}
}

func TestHandleContestNotFoundBeforeFirstRefresh(t *testing.T) {
	s := New(store.New(), domain.ConfigContest{}, "sekret", nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/contest", nil)
	rec := httptest.NewRecorder()
	s.NewRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before first refresh, got %d", rec.Code)
	}
}

// /contest must serve the initial roster with no runs applied (the
// snapshot a revelation client builds its own engine from), not the
// already-scored view that /score serves.
func TestHandleContestServesPristineRoster(t *testing.T) {
	s := New(seededStore(t), domain.ConfigContest{}, "sekret", nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/contest", nil)
	rec := httptest.NewRecorder()
	s.NewRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body domain.ContestFile
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Teams["team1"].Score().SolvedCount != 0 {
		t.Fatalf("expected /contest to serve the pristine roster with no runs applied, got score %+v", body.Teams["team1"].Score())
	}
}

func TestMethodGuardRejectsWrongVerb(t *testing.T) {
	s := New(seededStore(t), domain.ConfigContest{}, "sekret", nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/runs", nil)
	rec := httptest.NewRecorder()
	s.NewRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestRootRedirectsToScoreboard(t *testing.T) {
	s := New(seededStore(t), domain.ConfigContest{}, "sekret", nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.NewRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302 redirect from root, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/score" {
		t.Fatalf("expected redirect to /score, got %q", loc)
	}
}

func TestHandleConfigServesSedes(t *testing.T) {
	cfg := domain.ConfigContest{Sedes: []domain.Sede{{Name: "USP", Codes: []string{"usp-"}}}}
	s := New(seededStore(t), cfg, "sekret", nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/config", nil)
	rec := httptest.NewRecorder()
	s.NewRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body domain.ConfigContest
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Sedes) != 1 || body.Sedes[0].Name != "USP" {
		t.Fatalf("expected USP sede in response, got %+v", body)
	}
}
