// Package seed installs the Megaline plan catalog.
package seed

import (
	plandomain "github.com/smallbiznis/megaline/internal/plan/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Plans is the Megaline catalog. The plan set is open; these two are the
// plans offered during the observation window.
var Plans = []plandomain.Plan{
	{
		PlanID:           "surf",
		MonthlyFeeCents:  2000,
		MinutesIncluded:  500,
		MessagesIncluded: 50,
		MBIncluded:       15360,
		PerMinuteCents:   3,
		PerMessageCents:  3,
		PerGBCents:       1000,
	},
	{
		PlanID:           "ultimate",
		MonthlyFeeCents:  7000,
		MinutesIncluded:  3000,
		MessagesIncluded: 1000,
		MBIncluded:       30720,
		PerMinuteCents:   1,
		PerMessageCents:  1,
		PerGBCents:       700,
	},
}

// EnsurePlans upserts the catalog. Existing rows win on conflict so a
// locally edited catalog is not clobbered on restart.
func EnsurePlans(conn *gorm.DB) error {
	return conn.Clauses(clause.OnConflict{DoNothing: true}).Create(&Plans).Error
}
