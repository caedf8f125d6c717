package service

import (
	"context"
	"sort"

	cohortdomain "github.com/smallbiznis/megaline/internal/cohort/domain"
	ratingdomain "github.com/smallbiznis/megaline/internal/rating/domain"
	"github.com/smallbiznis/megaline/internal/rating/rules"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

type ServiceParam struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

func NewService(p ServiceParam) cohortdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("cohort.service"),
	}
}

// ComparePlans tests whether mean revenue differs between two plans.
func (s *Service) ComparePlans(ctx context.Context, planA, planB string) (*cohortdomain.Comparison, error) {
	sampleA, err := s.revenueSample(ctx, "plan_id = ?", planA)
	if err != nil {
		return nil, err
	}
	sampleB, err := s.revenueSample(ctx, "plan_id = ?", planB)
	if err != nil {
		return nil, err
	}
	return s.compare(planA, sampleA, planB, sampleB)
}

// CompareRegions tests whether mean revenue differs between accounts whose
// region matches the pattern (substring) and everyone else.
func (s *Service) CompareRegions(ctx context.Context, regionPattern string) (*cohortdomain.Comparison, error) {
	like := "%" + regionPattern + "%"
	sampleA, err := s.revenueSample(ctx, "region LIKE ?", like)
	if err != nil {
		return nil, err
	}
	sampleB, err := s.revenueSample(ctx, "region NOT LIKE ?", like)
	if err != nil {
		return nil, err
	}
	return s.compare(regionPattern, sampleA, "other", sampleB)
}

func (s *Service) compare(nameA string, sampleA []float64, nameB string, sampleB []float64) (*cohortdomain.Comparison, error) {
	summaryA, err := Summarize(nameA, sampleA)
	if err != nil {
		return nil, err
	}
	summaryB, err := Summarize(nameB, sampleB)
	if err != nil {
		return nil, err
	}

	tstat, df, pvalue, err := WelchTTest(sampleA, sampleB)
	if err != nil {
		return nil, err
	}

	s.log.Info("cohort comparison",
		zap.String("a", nameA), zap.Int("a_n", summaryA.N),
		zap.String("b", nameB), zap.Int("b_n", summaryB.N),
		zap.Float64("p_value", pvalue),
	)

	return &cohortdomain.Comparison{
		A:           summaryA,
		B:           summaryB,
		AHistogram:  HistogramOf(sampleA),
		BHistogram:  HistogramOf(sampleB),
		TStat:       tstat,
		DF:          df,
		PValue:      pvalue,
		Alpha:       Alpha,
		Significant: pvalue < Alpha,
	}, nil
}

// PlanMonthlyAverages reproduces the per-plan monthly trend table: average
// minutes, messages, billed gigabytes and revenue per user-month.
func (s *Service) PlanMonthlyAverages(ctx context.Context) ([]cohortdomain.PlanMonthStat, error) {
	var rows []ratingdomain.BilledUsage
	err := s.db.WithContext(ctx).Model(&ratingdomain.BilledUsage{}).
		Order("plan_id, year, month").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	type key struct {
		plan  string
		year  int
		month int
	}
	type acc struct {
		n        int64
		minutes  int64
		messages int64
		billedGB int64
		revenue  int64
	}

	accs := make(map[key]*acc)
	for _, row := range rows {
		k := key{plan: row.PlanID, year: row.Year, month: row.Month}
		a := accs[k]
		if a == nil {
			a = &acc{}
			accs[k] = a
		}
		a.n++
		a.minutes += row.TotalMinutes
		a.messages += row.MessageCount
		a.billedGB += rules.BilledGBOverage(row.TotalMB, 0)
		a.revenue += row.RevenueCents
	}

	out := make([]cohortdomain.PlanMonthStat, 0, len(accs))
	for k, a := range accs {
		n := float64(a.n)
		out = append(out, cohortdomain.PlanMonthStat{
			PlanID:          k.plan,
			Year:            k.year,
			Month:           k.month,
			UserMonths:      a.n,
			AvgMinutes:      float64(a.minutes) / n,
			AvgMessages:     float64(a.messages) / n,
			AvgBilledGB:     float64(a.billedGB) / n,
			AvgRevenueCents: float64(a.revenue) / n,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].PlanID != out[j].PlanID {
			return out[i].PlanID < out[j].PlanID
		}
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out, nil
}

func (s *Service) revenueSample(ctx context.Context, cond string, arg any) ([]float64, error) {
	var cents []int64
	err := s.db.WithContext(ctx).Model(&ratingdomain.BilledUsage{}).
		Where(cond, arg).
		Pluck("revenue_cents", &cents).Error
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(cents))
	for i, c := range cents {
		out[i] = float64(c)
	}
	return out, nil
}
