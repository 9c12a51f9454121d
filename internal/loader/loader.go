// v0
// internal/loader/loader.go
package loader

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"unicode/utf8"

	"nrgchamp/animeitor/internal/breaker"
	"nrgchamp/animeitor/internal/domain"
)

// Snapshot is the (time, contest, runs) tuple produced by a successful
// load.
type Snapshot struct {
	CurrentTime int64
	Contest     *domain.ContestFile
	Runs        domain.RunsFile
}

// candidatePrefixes is the archive entry search order: bare name, then
// ./name, then sample/name, then ./sample/name.
var candidatePrefixes = []string{"", "./", "sample/", "./sample/"}

// Loader fetches a ZIP-packed snapshot from a URL or local path and
// parses its time/contest/runs entries. Outbound HTTP fetches go through
// a circuit breaker so a flapping contest host is fast-failed instead of
// hammered every tick.
type Loader struct {
	httpClient *http.Client
	breaker    *breaker.Breaker
	logger     *slog.Logger
}

// New builds a Loader. A nil logger falls back to slog.Default(); a nil
// httpClient falls back to http.DefaultClient.
func New(httpClient *http.Client, cb *breaker.Breaker, logger *slog.Logger) *Loader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if cb == nil {
		cb = breaker.New("loader-fetch", breaker.DefaultConfig(), logger)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{httpClient: httpClient, breaker: cb, logger: logger}
}

// Load resolves source as a URL first, then a local filesystem path, reads
// the archive, and parses its three named entries.
func (l *Loader) Load(ctx context.Context, source string) (Snapshot, error) {
	raw, err := l.fetchBytes(ctx, source)
	if err != nil {
		return Snapshot{}, err
	}

	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return Snapshot{}, newErr(NotAZip, "", err)
	}

	timeRaw, err := readEntry(zr, "time")
	if err != nil {
		return Snapshot{}, err
	}
	contestRaw, err := readEntry(zr, "contest")
	if err != nil {
		return Snapshot{}, err
	}
	runsRaw, err := readEntry(zr, "runs")
	if err != nil {
		return Snapshot{}, err
	}

	for _, raw := range [][]byte{timeRaw, contestRaw, runsRaw} {
		if !utf8.Valid(raw) {
			return Snapshot{}, newErr(UtfDecode, "", fmt.Errorf("invalid utf-8"))
		}
	}

	currentTime, err := parseTime(timeRaw)
	if err != nil {
		return Snapshot{}, newErr(Parse, "time", err)
	}
	contest, err := parseContest(contestRaw)
	if err != nil {
		return Snapshot{}, newErr(Parse, "contest", err)
	}
	runs, err := parseRuns(runsRaw)
	if err != nil {
		return Snapshot{}, newErr(Parse, "runs", err)
	}

	return Snapshot{CurrentTime: currentTime, Contest: contest, Runs: runs}, nil
}

// fetchBytes tries source as an http(s) URL first, falling back to a
// local file read — including after a failed fetch, so a source that
// happens to look like a URL can still resolve on disk.
func (l *Loader) fetchBytes(ctx context.Context, source string) ([]byte, error) {
	var fetchErr error
	if u, err := url.Parse(source); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		var body []byte
		fetchErr = l.breaker.Execute(ctx, func(ctx context.Context) error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
			if err != nil {
				return err
			}
			resp, err := l.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status %d", resp.StatusCode)
			}
			body, err = io.ReadAll(resp.Body)
			return err
		})
		if fetchErr == nil {
			return body, nil
		}
		l.logger.Warn("snapshot_fetch_failed_trying_local", slog.String("source", source), slog.Any("err", fetchErr))
	}

	body, err := os.ReadFile(source)
	if err != nil {
		if fetchErr != nil {
			return nil, newErr(Fetch, source, fetchErr)
		}
		return nil, newErr(Fetch, source, err)
	}
	return body, nil
}

func readEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, prefix := range candidatePrefixes {
		candidate := prefix + name
		for _, f := range zr.File {
			if strings.TrimPrefix(f.Name, "/") == candidate {
				rc, err := f.Open()
				if err != nil {
					return nil, newErr(MissingEntry, name, err)
				}
				defer rc.Close()
				data, err := io.ReadAll(rc)
				if err != nil {
					return nil, newErr(MissingEntry, name, err)
				}
				return data, nil
			}
		}
	}
	return nil, newErr(MissingEntry, name, fmt.Errorf("entry %q not found under any known prefix", name))
}

// TupleSource is the seam for alternative snapshot sources (a
// DATABASE_URL-driven SQL adapter would implement it too); the
// ZIP-backed loader is the only implementation shipped here.
type TupleSource interface {
	LoadSnapshot(ctx context.Context) (Snapshot, error)
}

var _ TupleSource = (*zipTupleSource)(nil)

// zipTupleSource adapts a Loader to the TupleSource interface so callers
// (internal/updateloop) can depend on the interface rather than the
// concrete type.
type zipTupleSource struct {
	loader *Loader
	source string
}

// AsTupleSource wraps l so it can be used wherever a TupleSource is
// expected, fixing the archive source location at construction time.
func (l *Loader) AsTupleSource(source string) TupleSource {
	return &zipTupleSource{loader: l, source: source}
}

func (z *zipTupleSource) LoadSnapshot(ctx context.Context) (Snapshot, error) {
	return z.loader.Load(ctx, z.source)
}
