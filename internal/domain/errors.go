// v0
// internal/domain/errors.go
package domain

import "errors"

// Contest validation sentinels. Unknown-team surfacing lives in
// internal/revelation, where it is that engine's obligation;
// ErrInvalidFreezeTime guards ContestFile construction, and
// ErrMalformedContest is what the contest parser wraps when input
// doesn't decode into a roster.
var (
	ErrInvalidFreezeTime = errors.New("domain: score_freeze_time must be within [0, duration_minutes]")
	ErrMalformedContest  = errors.New("domain: malformed contest file")
)
