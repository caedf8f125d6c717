// Package domain contains persistence models for billed usage.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// BilledUsage is one priced user-month: the merged usage totals, the plan
// snapshot it was billed under and the computed revenue. Written once per
// batch run, immutable afterwards.
type BilledUsage struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	UserID       int64        `gorm:"not null;uniqueIndex:idx_billed_usage_key,priority:1"`
	Year         int          `gorm:"not null;uniqueIndex:idx_billed_usage_key,priority:2"`
	Month        int          `gorm:"not null;uniqueIndex:idx_billed_usage_key,priority:3"`
	PlanID       string       `gorm:"type:text;not null;index"`
	Region       string       `gorm:"type:text;not null;index"`
	CallCount    int64        `gorm:"not null"`
	TotalMinutes int64        `gorm:"not null"`
	MessageCount int64        `gorm:"not null"`
	TotalMB      float64      `gorm:"not null"`
	RevenueCents int64        `gorm:"not null"`
	BatchID      snowflake.ID `gorm:"not null;index"`
	CreatedAt    time.Time    `gorm:"not null"`
}

// TableName sets the database table name.
func (BilledUsage) TableName() string { return "billed_usage" }
