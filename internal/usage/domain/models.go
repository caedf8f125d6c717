// Package domain contains the raw usage tables and the monthly aggregates
// derived from them.
package domain

import (
	"fmt"
	"time"
)

// CallEvent is a single call record. Duration is in fractional minutes.
type CallEvent struct {
	ID       int64     `gorm:"primaryKey"`
	UserID   int64     `gorm:"not null;index"`
	CallDate time.Time `gorm:"not null"`
	Duration float64   `gorm:"not null"`
}

// TableName sets the database table name.
func (CallEvent) TableName() string { return "call_events" }

// MessageEvent is a single outbound message. Messages carry no magnitude,
// only presence.
type MessageEvent struct {
	ID          int64     `gorm:"primaryKey"`
	UserID      int64     `gorm:"not null;index"`
	MessageDate time.Time `gorm:"not null"`
}

// TableName sets the database table name.
func (MessageEvent) TableName() string { return "message_events" }

// SessionEvent is a single internet session with raw megabytes used.
type SessionEvent struct {
	ID          int64     `gorm:"primaryKey"`
	UserID      int64     `gorm:"not null;index"`
	SessionDate time.Time `gorm:"not null"`
	MBUsed      float64   `gorm:"not null"`
}

// TableName sets the database table name.
func (SessionEvent) TableName() string { return "session_events" }

// Month is a calendar month. Year is kept in the key so multi-year inputs
// never alias across year boundaries.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf extracts the month key from a timestamp.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Before reports whether m is earlier than other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// UserMonth is the unit of aggregation: one user's activity within one
// calendar month.
type UserMonth struct {
	UserID int64
	Month  Month
}

func (k UserMonth) String() string {
	return fmt.Sprintf("%d/%s", k.UserID, k.Month)
}

// CallAggregate is the per-user-month reduction of the call table.
// TotalMinutes is the sum of per-call rounded-up minutes.
type CallAggregate struct {
	CallCount    int64
	TotalMinutes int64
}

// SessionAggregate is the per-user-month reduction of the session table.
// TotalMB stays unrounded; only the monthly overage is later billed in GB.
type SessionAggregate struct {
	TotalMB float64
}

// MonthlyUsage is one user-month with usage totals across every channel.
// A channel with no activity holds its zero value, never an absent field.
type MonthlyUsage struct {
	UserID       int64
	Month        Month
	CallCount    int64
	TotalMinutes int64
	MessageCount int64
	TotalMB      float64
}

// Key returns the composite aggregation key.
func (u MonthlyUsage) Key() UserMonth {
	return UserMonth{UserID: u.UserID, Month: u.Month}
}
