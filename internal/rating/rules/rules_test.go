package rules

import (
	"testing"

	plandomain "github.com/smallbiznis/megaline/internal/plan/domain"
	usagedomain "github.com/smallbiznis/megaline/internal/usage/domain"
	"github.com/stretchr/testify/assert"
)

func TestBilledMinutes(t *testing.T) {
	// Missed call bills nothing; anything connected rounds up.
	assert.Equal(t, int64(0), BilledMinutes(0))
	assert.Equal(t, int64(1), BilledMinutes(0.37))
	assert.Equal(t, int64(1), BilledMinutes(1.0))
	assert.Equal(t, int64(2), BilledMinutes(1.01))
	assert.Equal(t, int64(9), BilledMinutes(8.52))
}

func TestBilledGBOverage(t *testing.T) {
	// At or under the allowance nothing is billed.
	assert.Equal(t, int64(0), BilledGBOverage(0, 15360))
	assert.Equal(t, int64(0), BilledGBOverage(15360, 15360))

	// The allowance is consumed in whole before rounding: 1025 MB against
	// a 1024 MB allowance is a 1 MB overage, billed as 1 GB, not 2.
	assert.Equal(t, int64(1), BilledGBOverage(1025, 1024))

	assert.Equal(t, int64(1), BilledGBOverage(15360+1024, 15360))
	assert.Equal(t, int64(2), BilledGBOverage(15360+1025, 15360))
}

func TestBilledGBOverageMonotone(t *testing.T) {
	prev := int64(0)
	for mb := 0.0; mb < 20000; mb += 250 {
		got := BilledGBOverage(mb, 15360)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

func surfPlan() plandomain.Plan {
	return plandomain.Plan{
		PlanID:           "surf",
		MonthlyFeeCents:  2000,
		MinutesIncluded:  500,
		MessagesIncluded: 50,
		MBIncluded:       15360,
		PerMinuteCents:   3,
		PerMessageCents:  3,
		PerGBCents:       1000,
	}
}

func TestMonthlyRevenueFloorIsFee(t *testing.T) {
	usage := usagedomain.MonthlyUsage{UserID: 1}
	assert.Equal(t, int64(2000), MonthlyRevenueCents(usage, surfPlan()))

	// Under every limit the fee still applies in full.
	usage = usagedomain.MonthlyUsage{TotalMinutes: 499, MessageCount: 50, TotalMB: 15000}
	assert.Equal(t, int64(2000), MonthlyRevenueCents(usage, surfPlan()))
}

func TestMonthlyRevenueMinuteOverage(t *testing.T) {
	// $20 fee + 50 extra minutes at $0.03 = $21.50.
	usage := usagedomain.MonthlyUsage{TotalMinutes: 550}
	assert.Equal(t, int64(2150), MonthlyRevenueCents(usage, surfPlan()))
}

func TestMonthlyRevenueAdditiveOverages(t *testing.T) {
	usage := usagedomain.MonthlyUsage{
		TotalMinutes: 550,              // 50 * 3 = 150
		MessageCount: 60,               // 10 * 3 = 30
		TotalMB:      15360 + 1024 + 1, // 2 GB * 1000 = 2000
	}
	assert.Equal(t, int64(2000+150+30+2000), MonthlyRevenueCents(usage, surfPlan()))
}

func TestMonthlyRevenueMonotone(t *testing.T) {
	plan := surfPlan()
	base := usagedomain.MonthlyUsage{TotalMinutes: 490, MessageCount: 45, TotalMB: 15300}
	baseRev := MonthlyRevenueCents(base, plan)

	minutes := base
	minutes.TotalMinutes += 100
	assert.GreaterOrEqual(t, MonthlyRevenueCents(minutes, plan), baseRev)

	messages := base
	messages.MessageCount += 100
	assert.GreaterOrEqual(t, MonthlyRevenueCents(messages, plan), baseRev)

	data := base
	data.TotalMB += 5000
	assert.GreaterOrEqual(t, MonthlyRevenueCents(data, plan), baseRev)
}
