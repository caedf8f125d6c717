package service

import (
	"math/rand"
	"testing"
	"time"

	usagedomain "github.com/smallbiznis/megaline/internal/usage/domain"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestAggregateCalls(t *testing.T) {
	events := []usagedomain.CallEvent{
		{ID: 1, UserID: 1000, CallDate: date(2018, time.July, 2), Duration: 0.37},
		{ID: 2, UserID: 1000, CallDate: date(2018, time.July, 15), Duration: 8.52},
		{ID: 3, UserID: 1000, CallDate: date(2018, time.July, 20), Duration: 0}, // missed
		{ID: 4, UserID: 1000, CallDate: date(2018, time.August, 1), Duration: 2},
	}

	agg := AggregateCalls(events)
	assert.Len(t, agg, 2)

	july := agg[usagedomain.UserMonth{UserID: 1000, Month: usagedomain.Month{Year: 2018, Month: time.July}}]
	assert.Equal(t, int64(3), july.CallCount)
	assert.Equal(t, int64(10), july.TotalMinutes) // 1 + 9 + 0

	august := agg[usagedomain.UserMonth{UserID: 1000, Month: usagedomain.Month{Year: 2018, Month: time.August}}]
	assert.Equal(t, int64(1), august.CallCount)
	assert.Equal(t, int64(2), august.TotalMinutes)
}

func TestAggregateSessionsKeepsRawMB(t *testing.T) {
	events := []usagedomain.SessionEvent{
		{ID: 1, UserID: 1001, SessionDate: date(2018, time.March, 3), MBUsed: 100.7},
		{ID: 2, UserID: 1001, SessionDate: date(2018, time.March, 9), MBUsed: 0}, // connection attempt
		{ID: 3, UserID: 1001, SessionDate: date(2018, time.March, 30), MBUsed: 250.3},
	}

	agg := AggregateSessions(events)
	got := agg[usagedomain.UserMonth{UserID: 1001, Month: usagedomain.Month{Year: 2018, Month: time.March}}]
	assert.InDelta(t, 351.0, got.TotalMB, 1e-9)
}

func TestAggregateYearKeepsMonthsApart(t *testing.T) {
	// Same calendar month, different years, must not merge.
	events := []usagedomain.MessageEvent{
		{ID: 1, UserID: 1002, MessageDate: date(2018, time.December, 5)},
		{ID: 2, UserID: 1002, MessageDate: date(2019, time.December, 5)},
	}

	agg := AggregateMessages(events)
	assert.Len(t, agg, 2)
}

func TestAggregationIsOrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	events := make([]usagedomain.CallEvent, 0, 500)
	for i := 0; i < 500; i++ {
		events = append(events, usagedomain.CallEvent{
			ID:       int64(i),
			UserID:   1000 + int64(rng.Intn(10)),
			CallDate: date(2018, time.Month(1+rng.Intn(12)), 1+rng.Intn(28)),
			Duration: rng.Float64() * 20,
		})
	}

	want := AggregateCalls(events)

	shuffled := append([]usagedomain.CallEvent(nil), events...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	assert.Equal(t, want, AggregateCalls(shuffled))
}

func TestMergeMonthlyKeyUnion(t *testing.T) {
	july := usagedomain.Month{Year: 2018, Month: time.July}
	august := usagedomain.Month{Year: 2018, Month: time.August}

	calls := map[usagedomain.UserMonth]usagedomain.CallAggregate{
		{UserID: 1, Month: july}: {CallCount: 4, TotalMinutes: 40},
	}
	messages := map[usagedomain.UserMonth]int64{
		{UserID: 2, Month: july}: 7, // message-only user must survive the merge
	}
	sessions := map[usagedomain.UserMonth]usagedomain.SessionAggregate{
		{UserID: 1, Month: august}: {TotalMB: 512},
	}

	merged := MergeMonthly(calls, messages, sessions)
	assert.Len(t, merged, 3)

	byKey := make(map[usagedomain.UserMonth]usagedomain.MonthlyUsage, len(merged))
	for _, row := range merged {
		byKey[row.Key()] = row
	}

	msgOnly := byKey[usagedomain.UserMonth{UserID: 2, Month: july}]
	assert.Equal(t, int64(7), msgOnly.MessageCount)
	assert.Equal(t, int64(0), msgOnly.CallCount)
	assert.Equal(t, int64(0), msgOnly.TotalMinutes)
	assert.Equal(t, float64(0), msgOnly.TotalMB)

	dataOnly := byKey[usagedomain.UserMonth{UserID: 1, Month: august}]
	assert.Equal(t, float64(512), dataOnly.TotalMB)
	assert.Equal(t, int64(0), dataOnly.MessageCount)
}

func TestMergeMonthlyEmptyInputs(t *testing.T) {
	merged := MergeMonthly(nil, nil, nil)
	assert.Empty(t, merged)
}

func TestMergeMonthlyDeterministicOrder(t *testing.T) {
	july := usagedomain.Month{Year: 2018, Month: time.July}
	calls := map[usagedomain.UserMonth]usagedomain.CallAggregate{
		{UserID: 3, Month: july}: {CallCount: 1},
		{UserID: 1, Month: july}: {CallCount: 1},
		{UserID: 2, Month: july}: {CallCount: 1},
	}

	merged := MergeMonthly(calls, nil, nil)
	assert.Equal(t, int64(1), merged[0].UserID)
	assert.Equal(t, int64(2), merged[1].UserID)
	assert.Equal(t, int64(3), merged[2].UserID)
}
