package domain

import (
	"context"
	"errors"
)

// Service runs the billing batch: aggregate usage, resolve plans, price
// every user-month and persist the billed table.
type Service interface {
	RunBilling(ctx context.Context) (*BillingReport, error)
	ListBilled(ctx context.Context, filter BilledFilter) ([]BilledUsage, error)
}

// BilledFilter narrows ListBilled output.
type BilledFilter struct {
	PlanID string
	Region string
}

// Fault is one user-month that could not be billed, with the referential
// reason. Faulted keys are excluded from the billed table, never written
// as zero-fee rows.
type Fault struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// BillingReport summarizes one batch run. Faults carries a sample of
// failing keys (up to FaultSampleLimit); FaultCount is the full count.
type BillingReport struct {
	BatchID         string  `json:"batch_id"`
	UserMonths      int     `json:"user_months"`
	Billed          int     `json:"billed"`
	RejectedRecords int64   `json:"rejected_records"`
	FaultCount      int     `json:"fault_count"`
	Faults          []Fault `json:"faults,omitempty"`
}

// FaultSampleLimit caps how many faults a report carries.
const FaultSampleLimit = 20

var ErrNoUsage = errors.New("no_usage")
