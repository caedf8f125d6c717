// Package rules encodes Megaline's rounding and overage policy. Every
// function is pure; the rating service and the usage aggregator both build
// on these.
package rules

import (
	"math"

	plandomain "github.com/smallbiznis/megaline/internal/plan/domain"
	usagedomain "github.com/smallbiznis/megaline/internal/usage/domain"
)

// MBPerGB is the conversion used for data billing.
const MBPerGB = 1024.0

// BilledMinutes rounds a raw call duration (fractional minutes) up to the
// nearest whole minute. A duration of exactly 0 is a missed call and bills
// as 0, not 1 — the one documented exception to round-up billing.
func BilledMinutes(duration float64) int64 {
	if duration == 0 {
		return 0
	}
	return int64(math.Ceil(duration))
}

// BilledGBOverage converts the monthly data overage to billable gigabytes.
// The included allowance is consumed in whole MB before any rounding; only
// the excess is converted to GB and rounded up. 1025 MB against a 1024 MB
// allowance bills 1 GB, not 2.
func BilledGBOverage(totalMB, mbIncluded float64) int64 {
	overage := totalMB - mbIncluded
	if overage <= 0 {
		return 0
	}
	return int64(math.Ceil(overage / MBPerGB))
}

// MonthlyRevenueCents prices one user-month against its plan. The three
// overage terms are independent and additive; the floor is the flat monthly
// fee.
func MonthlyRevenueCents(usage usagedomain.MonthlyUsage, plan plandomain.Plan) int64 {
	revenue := plan.MonthlyFeeCents

	if extra := usage.TotalMinutes - plan.MinutesIncluded; extra > 0 {
		revenue += extra * plan.PerMinuteCents
	}
	if extra := usage.MessageCount - plan.MessagesIncluded; extra > 0 {
		revenue += extra * plan.PerMessageCents
	}
	revenue += BilledGBOverage(usage.TotalMB, plan.MBIncluded) * plan.PerGBCents

	return revenue
}
