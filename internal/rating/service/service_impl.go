package service

import (
	"context"
	"runtime"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/megaline/internal/config"
	obsmetrics "github.com/smallbiznis/megaline/internal/observability/metrics"
	plandomain "github.com/smallbiznis/megaline/internal/plan/domain"
	ratingdomain "github.com/smallbiznis/megaline/internal/rating/domain"
	"github.com/smallbiznis/megaline/internal/rating/rules"
	usagedomain "github.com/smallbiznis/megaline/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID   *snowflake.Node
	usage   usagedomain.Service
	catalog plandomain.Catalog
	metrics *obsmetrics.Metrics
	workers int
}

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Usage   usagedomain.Service
	Catalog plandomain.Catalog
	Metrics *obsmetrics.Metrics `optional:"true"`
	Cfg     config.Config
}

func NewService(p ServiceParam) ratingdomain.Service {
	workers := p.Cfg.BillingWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Service{
		db:  p.DB,
		log: p.Log.Named("rating.service"),

		genID:   p.GenID,
		usage:   p.Usage,
		catalog: p.Catalog,
		metrics: p.Metrics,
		workers: workers,
	}
}

// RunBilling prices every user-month and replaces the billed table in one
// transaction. Pricing is pure per row, so rows are fanned out over a
// bounded worker pool; the output is deterministic regardless of worker
// interleaving. Unmatched users or plans fault their keys and are reported
// in aggregate, never written as zero-fee rows.
func (s *Service) RunBilling(ctx context.Context) (*ratingdomain.BillingReport, error) {
	started := time.Now()

	merged, validation, err := s.usage.LoadMonthlyUsage(ctx)
	if err != nil {
		return nil, err
	}
	if len(merged) == 0 {
		return nil, ratingdomain.ErrNoUsage
	}

	batchID := s.genID.Generate()
	now := time.Now().UTC()

	billed := make([]*ratingdomain.BilledUsage, len(merged))
	faults := make([]ratingdomain.Fault, len(merged))

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(s.workers)
	for i, row := range merged {
		i, row := i, row
		grp.Go(func() error {
			resolution, err := s.catalog.Resolve(grpCtx, row.UserID)
			if err != nil {
				return err
			}
			if !resolution.Matched {
				faults[i] = ratingdomain.Fault{
					Key:    row.Key().String(),
					Reason: resolution.Fault.Error(),
				}
				return nil
			}

			billed[i] = &ratingdomain.BilledUsage{
				UserID:       row.UserID,
				Year:         row.Month.Year,
				Month:        int(row.Month.Month),
				PlanID:       resolution.Plan.PlanID,
				Region:       resolution.Account.Region,
				CallCount:    row.CallCount,
				TotalMinutes: row.TotalMinutes,
				MessageCount: row.MessageCount,
				TotalMB:      row.TotalMB,
				RevenueCents: rules.MonthlyRevenueCents(row, resolution.Plan),
				BatchID:      batchID,
				CreatedAt:    now,
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	// IDs are assigned after the parallel phase to keep output independent
	// of worker scheduling.
	rows := make([]*ratingdomain.BilledUsage, 0, len(billed))
	for _, row := range billed {
		if row == nil {
			continue
		}
		row.ID = s.genID.Generate()
		rows = append(rows, row)
	}

	report := &ratingdomain.BillingReport{
		BatchID:         batchID.String(),
		UserMonths:      len(merged),
		Billed:          len(rows),
		RejectedRecords: validation.Rejected(),
	}
	for _, fault := range faults {
		if fault.Reason == "" {
			continue
		}
		report.FaultCount++
		if len(report.Faults) < ratingdomain.FaultSampleLimit {
			report.Faults = append(report.Faults, fault)
		}
	}

	// Replace-not-append: a rerun fully supersedes the previous batch.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&ratingdomain.BilledUsage{}).Error; err != nil {
			return err
		}
		return tx.CreateInBatches(rows, 500).Error
	})
	if err != nil {
		return nil, err
	}

	s.observe(validation, report, time.Since(started))
	s.log.Info("billing batch complete",
		zap.String("batch_id", report.BatchID),
		zap.Int("user_months", report.UserMonths),
		zap.Int("billed", report.Billed),
		zap.Int("faults", report.FaultCount),
		zap.Int64("rejected_records", report.RejectedRecords),
	)

	return report, nil
}

func (s *Service) ListBilled(ctx context.Context, filter ratingdomain.BilledFilter) ([]ratingdomain.BilledUsage, error) {
	stmt := s.db.WithContext(ctx).Model(&ratingdomain.BilledUsage{})
	if filter.PlanID != "" {
		stmt = stmt.Where("plan_id = ?", filter.PlanID)
	}
	if filter.Region != "" {
		stmt = stmt.Where("region LIKE ?", "%"+filter.Region+"%")
	}

	var rows []ratingdomain.BilledUsage
	err := stmt.Order("user_id, year, month").Find(&rows).Error
	return rows, err
}

func (s *Service) observe(validation *usagedomain.ValidationReport, report *ratingdomain.BillingReport, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordsRejected.WithLabelValues("calls").Add(float64(validation.RejectedCalls))
	s.metrics.RecordsRejected.WithLabelValues("messages").Add(float64(validation.RejectedMessages))
	s.metrics.RecordsRejected.WithLabelValues("sessions").Add(float64(validation.RejectedSessions))
	s.metrics.UserMonthsBill.Add(float64(report.Billed))
	s.metrics.BillingFaults.Add(float64(report.FaultCount))
	s.metrics.BatchDuration.Observe(elapsed.Seconds())
}
