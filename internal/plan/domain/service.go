package domain

import (
	"context"
	"errors"
)

// Catalog resolves a user to its account and plan. A user with no account,
// or an account referencing an unknown plan, is a data-integrity fault and
// resolves to an Unmatched result rather than a zero-fee default.
type Catalog interface {
	Resolve(ctx context.Context, userID int64) (Resolution, error)
	Plans(ctx context.Context) ([]Plan, error)
}

// Resolution is a tagged match result for one user lookup.
type Resolution struct {
	Matched bool
	Account Account
	Plan    Plan

	// Fault carries the referential error when Matched is false.
	Fault error
}

var (
	ErrUnknownUser = errors.New("unknown_user")
	ErrUnknownPlan = errors.New("unknown_plan")
	ErrNoPlans     = errors.New("no_plans")
)
