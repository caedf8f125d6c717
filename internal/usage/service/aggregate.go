package service

import (
	"sort"

	"github.com/smallbiznis/megaline/internal/rating/rules"
	usagedomain "github.com/smallbiznis/megaline/internal/usage/domain"
)

// AggregateCalls reduces call events to one aggregate per (user, month).
// Minutes are ceiling-rounded per call before summing; a zero-duration call
// counts toward call_count but adds no minutes. The reduction is commutative,
// so input order never changes the result.
func AggregateCalls(events []usagedomain.CallEvent) map[usagedomain.UserMonth]usagedomain.CallAggregate {
	out := make(map[usagedomain.UserMonth]usagedomain.CallAggregate)
	for _, ev := range events {
		key := usagedomain.UserMonth{UserID: ev.UserID, Month: usagedomain.MonthOf(ev.CallDate)}
		agg := out[key]
		agg.CallCount++
		agg.TotalMinutes += rules.BilledMinutes(ev.Duration)
		out[key] = agg
	}
	return out
}

// AggregateMessages counts message events per (user, month). Messages carry
// no magnitude.
func AggregateMessages(events []usagedomain.MessageEvent) map[usagedomain.UserMonth]int64 {
	out := make(map[usagedomain.UserMonth]int64)
	for _, ev := range events {
		key := usagedomain.UserMonth{UserID: ev.UserID, Month: usagedomain.MonthOf(ev.MessageDate)}
		out[key]++
	}
	return out
}

// AggregateSessions sums raw megabytes per (user, month). No per-session
// rounding happens here; only the monthly overage is later billed in GB.
func AggregateSessions(events []usagedomain.SessionEvent) map[usagedomain.UserMonth]usagedomain.SessionAggregate {
	out := make(map[usagedomain.UserMonth]usagedomain.SessionAggregate)
	for _, ev := range events {
		key := usagedomain.UserMonth{UserID: ev.UserID, Month: usagedomain.MonthOf(ev.SessionDate)}
		agg := out[key]
		agg.TotalMB += ev.MBUsed
		out[key] = agg
	}
	return out
}

// MergeMonthly outer-joins the per-channel aggregates over the union of
// their keys. A key present in any channel yields exactly one row; channels
// without activity are zero-filled. No key is lost, no key is invented.
func MergeMonthly(
	calls map[usagedomain.UserMonth]usagedomain.CallAggregate,
	messages map[usagedomain.UserMonth]int64,
	sessions map[usagedomain.UserMonth]usagedomain.SessionAggregate,
) []usagedomain.MonthlyUsage {
	keys := make(map[usagedomain.UserMonth]struct{}, len(calls)+len(messages)+len(sessions))
	for k := range calls {
		keys[k] = struct{}{}
	}
	for k := range messages {
		keys[k] = struct{}{}
	}
	for k := range sessions {
		keys[k] = struct{}{}
	}

	out := make([]usagedomain.MonthlyUsage, 0, len(keys))
	for k := range keys {
		call := calls[k]
		session := sessions[k]
		out = append(out, usagedomain.MonthlyUsage{
			UserID:       k.UserID,
			Month:        k.Month,
			CallCount:    call.CallCount,
			TotalMinutes: call.TotalMinutes,
			MessageCount: messages[k],
			TotalMB:      session.TotalMB,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].Month.Before(out[j].Month)
	})
	return out
}
