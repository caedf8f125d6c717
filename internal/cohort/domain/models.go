// Package domain defines cohort comparison reports over the billed table.
package domain

import (
	"context"
	"errors"
)

// Summary holds descriptive statistics for one cohort's revenue sample,
// in cents.
type Summary struct {
	Name     string  `json:"name"`
	N        int     `json:"n"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Q1       float64 `json:"q1"`
	Median   float64 `json:"median"`
	Q3       float64 `json:"q3"`
	Max      float64 `json:"max"`
}

// Histogram is a binned distribution: Counts[i] covers
// [Dividers[i], Dividers[i+1]).
type Histogram struct {
	Dividers []float64 `json:"dividers"`
	Counts   []float64 `json:"counts"`
}

// Comparison is a two-cohort Welch's t-test result plus the per-cohort
// descriptive statistics. Welch's test assumes unequal variances.
type Comparison struct {
	A           Summary   `json:"a"`
	B           Summary   `json:"b"`
	AHistogram  Histogram `json:"a_histogram"`
	BHistogram  Histogram `json:"b_histogram"`
	TStat       float64   `json:"t_stat"`
	DF          float64   `json:"df"`
	PValue      float64   `json:"p_value"`
	Alpha       float64   `json:"alpha"`
	Significant bool      `json:"significant"`
}

// PlanMonthStat is the per-plan-per-month usage trend row.
type PlanMonthStat struct {
	PlanID          string  `json:"plan_id"`
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	UserMonths      int64   `json:"user_months"`
	AvgMinutes      float64 `json:"avg_minutes"`
	AvgMessages     float64 `json:"avg_messages"`
	AvgBilledGB     float64 `json:"avg_billed_gb"`
	AvgRevenueCents float64 `json:"avg_revenue_cents"`
}

// Service compares revenue cohorts over the billed table.
type Service interface {
	ComparePlans(ctx context.Context, planA, planB string) (*Comparison, error)
	CompareRegions(ctx context.Context, regionPattern string) (*Comparison, error)
	PlanMonthlyAverages(ctx context.Context) ([]PlanMonthStat, error)
}

var (
	// ErrInsufficientSample rejects comparisons where a cohort has fewer
	// than two observations; a variance needs at least two points.
	ErrInsufficientSample = errors.New("insufficient_sample")
)
