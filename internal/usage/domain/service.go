package domain

import (
	"context"
	"errors"
)

// Service loads the materialized usage tables and reduces them to one
// MonthlyUsage row per (user, month) with activity in any channel.
type Service interface {
	LoadMonthlyUsage(ctx context.Context) ([]MonthlyUsage, *ValidationReport, error)
}

// ValidationReport aggregates rejected raw records for one load. Rejections
// never silently coerce to zero; the offending keys are carried alongside
// the surviving rows.
type ValidationReport struct {
	RejectedCalls    int64
	RejectedMessages int64
	RejectedSessions int64

	// SampleKeys holds up to SampleLimit offending record descriptions.
	SampleKeys []string
}

// SampleLimit caps how many offending keys a report carries.
const SampleLimit = 20

// Rejected reports the total count of rejected records.
func (r *ValidationReport) Rejected() int64 {
	return r.RejectedCalls + r.RejectedMessages + r.RejectedSessions
}

func (r *ValidationReport) addSample(key string) {
	if len(r.SampleKeys) < SampleLimit {
		r.SampleKeys = append(r.SampleKeys, key)
	}
}

// RejectCall records one malformed call event.
func (r *ValidationReport) RejectCall(key string) {
	r.RejectedCalls++
	r.addSample(key)
}

// RejectMessage records one malformed message event.
func (r *ValidationReport) RejectMessage(key string) {
	r.RejectedMessages++
	r.addSample(key)
}

// RejectSession records one malformed session event.
func (r *ValidationReport) RejectSession(key string) {
	r.RejectedSessions++
	r.addSample(key)
}

var (
	ErrNegativeDuration = errors.New("negative_duration")
	ErrNegativeMB       = errors.New("negative_mb")
	ErrMissingDate      = errors.New("missing_date")
)
