package service

import (
	"context"
	"fmt"

	usagedomain "github.com/smallbiznis/megaline/internal/usage/domain"
	"github.com/smallbiznis/megaline/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	callRepo    repository.Repository[usagedomain.CallEvent]
	messageRepo repository.Repository[usagedomain.MessageEvent]
	sessionRepo repository.Repository[usagedomain.SessionEvent]
}

type ServiceParam struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

func NewService(p ServiceParam) usagedomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("usage.service"),

		callRepo:    repository.ProvideStore[usagedomain.CallEvent](p.DB),
		messageRepo: repository.ProvideStore[usagedomain.MessageEvent](p.DB),
		sessionRepo: repository.ProvideStore[usagedomain.SessionEvent](p.DB),
	}
}

// LoadMonthlyUsage reads the materialized event tables, drops malformed
// records into the validation report and returns the merged per-user-month
// usage table. Aggregation itself is pure; all I/O happens up front.
func (s *Service) LoadMonthlyUsage(ctx context.Context) ([]usagedomain.MonthlyUsage, *usagedomain.ValidationReport, error) {
	report := &usagedomain.ValidationReport{}

	calls, err := s.loadCalls(ctx, report)
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.loadMessages(ctx, report)
	if err != nil {
		return nil, nil, err
	}
	sessions, err := s.loadSessions(ctx, report)
	if err != nil {
		return nil, nil, err
	}

	merged := MergeMonthly(
		AggregateCalls(calls),
		AggregateMessages(messages),
		AggregateSessions(sessions),
	)

	if report.Rejected() > 0 {
		s.log.Warn("rejected malformed usage records",
			zap.Int64("calls", report.RejectedCalls),
			zap.Int64("messages", report.RejectedMessages),
			zap.Int64("sessions", report.RejectedSessions),
			zap.Strings("sample_keys", report.SampleKeys),
		)
	}
	s.log.Info("monthly usage loaded", zap.Int("user_months", len(merged)))

	return merged, report, nil
}

func (s *Service) loadCalls(ctx context.Context, report *usagedomain.ValidationReport) ([]usagedomain.CallEvent, error) {
	rows, err := s.callRepo.Find(ctx, &usagedomain.CallEvent{})
	if err != nil {
		return nil, err
	}

	out := make([]usagedomain.CallEvent, 0, len(rows))
	for _, row := range rows {
		if row.CallDate.IsZero() {
			report.RejectCall(fmt.Sprintf("call %d: %v", row.ID, usagedomain.ErrMissingDate))
			continue
		}
		if row.Duration < 0 {
			report.RejectCall(fmt.Sprintf("call %d: %v", row.ID, usagedomain.ErrNegativeDuration))
			continue
		}
		out = append(out, *row)
	}
	return out, nil
}

func (s *Service) loadMessages(ctx context.Context, report *usagedomain.ValidationReport) ([]usagedomain.MessageEvent, error) {
	rows, err := s.messageRepo.Find(ctx, &usagedomain.MessageEvent{})
	if err != nil {
		return nil, err
	}

	out := make([]usagedomain.MessageEvent, 0, len(rows))
	for _, row := range rows {
		if row.MessageDate.IsZero() {
			report.RejectMessage(fmt.Sprintf("message %d: %v", row.ID, usagedomain.ErrMissingDate))
			continue
		}
		out = append(out, *row)
	}
	return out, nil
}

func (s *Service) loadSessions(ctx context.Context, report *usagedomain.ValidationReport) ([]usagedomain.SessionEvent, error) {
	rows, err := s.sessionRepo.Find(ctx, &usagedomain.SessionEvent{})
	if err != nil {
		return nil, err
	}

	out := make([]usagedomain.SessionEvent, 0, len(rows))
	for _, row := range rows {
		if row.SessionDate.IsZero() {
			report.RejectSession(fmt.Sprintf("session %d: %v", row.ID, usagedomain.ErrMissingDate))
			continue
		}
		if row.MBUsed < 0 {
			report.RejectSession(fmt.Sprintf("session %d: %v", row.ID, usagedomain.ErrNegativeMB))
			continue
		}
		out = append(out, *row)
	}
	return out, nil
}
