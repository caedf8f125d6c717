// Package domain contains the static plan catalog and user accounts.
package domain

import "time"

// Plan is a pricing plan: flat monthly fee, included allowances and
// per-unit overage rates. Currency is carried as integer cents. Static
// reference data, loaded once and never mutated.
type Plan struct {
	PlanID           string  `gorm:"primaryKey;type:text"`
	MonthlyFeeCents  int64   `gorm:"not null"`
	MinutesIncluded  int64   `gorm:"not null"`
	MessagesIncluded int64   `gorm:"not null"`
	MBIncluded       float64 `gorm:"not null"`
	PerMinuteCents   int64   `gorm:"not null"`
	PerMessageCents  int64   `gorm:"not null"`
	PerGBCents       int64   `gorm:"not null"`
}

// TableName sets the database table name.
func (Plan) TableName() string { return "plans" }

// Account assigns a user to a plan for the whole observation window.
// Mid-window plan changes are not modelled. A nil ChurnDate means the
// account is still active.
type Account struct {
	UserID    int64      `gorm:"primaryKey"`
	PlanID    string     `gorm:"type:text;not null;index"`
	Region    string     `gorm:"type:text;not null"`
	RegDate   time.Time  `gorm:"not null"`
	ChurnDate *time.Time `gorm:""`
}

// TableName sets the database table name.
func (Account) TableName() string { return "accounts" }
