package service

import (
	"math"
	"sort"

	cohortdomain "github.com/smallbiznis/megaline/internal/cohort/domain"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Alpha is the significance level used for every comparison.
const Alpha = 0.05

// HistogramBins is the bin count for distribution summaries.
const HistogramBins = 30

// Summarize computes descriptive statistics over one sample. The sample
// must hold at least two observations.
func Summarize(name string, sample []float64) (cohortdomain.Summary, error) {
	if len(sample) < 2 {
		return cohortdomain.Summary{}, cohortdomain.ErrInsufficientSample
	}

	sorted := append([]float64(nil), sample...)
	sort.Float64s(sorted)

	variance := stat.Variance(sorted, nil)
	return cohortdomain.Summary{
		Name:     name,
		N:        len(sorted),
		Mean:     stat.Mean(sorted, nil),
		Variance: variance,
		StdDev:   math.Sqrt(variance),
		Min:      sorted[0],
		Q1:       stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median:   stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q3:       stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Max:      sorted[len(sorted)-1],
	}, nil
}

// HistogramOf bins a sample into HistogramBins equal-width buckets.
func HistogramOf(sample []float64) cohortdomain.Histogram {
	if len(sample) == 0 {
		return cohortdomain.Histogram{}
	}

	sorted := append([]float64(nil), sample...)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		// Degenerate sample; one bucket holding everything.
		return cohortdomain.Histogram{
			Dividers: []float64{lo, lo + 1},
			Counts:   []float64{float64(len(sorted))},
		}
	}

	dividers := make([]float64, HistogramBins+1)
	width := (hi - lo) / HistogramBins
	for i := range dividers {
		dividers[i] = lo + width*float64(i)
	}
	// stat.Histogram requires the last divider to exceed the max value.
	dividers[HistogramBins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	return cohortdomain.Histogram{Dividers: dividers, Counts: counts}
}

// WelchTTest runs a two-sample t-test without assuming equal variances,
// returning the t statistic, Welch-Satterthwaite degrees of freedom and
// the two-sided p-value.
func WelchTTest(a, b []float64) (tstat, df, pvalue float64, err error) {
	if len(a) < 2 || len(b) < 2 {
		return 0, 0, 0, cohortdomain.ErrInsufficientSample
	}

	na, nb := float64(len(a)), float64(len(b))
	meanA, meanB := stat.Mean(a, nil), stat.Mean(b, nil)
	seA := stat.Variance(a, nil) / na
	seB := stat.Variance(b, nil) / nb
	se := seA + seB

	if se == 0 {
		// Two constant samples; no evidence either way.
		return 0, na + nb - 2, 1, nil
	}

	tstat = (meanA - meanB) / math.Sqrt(se)
	df = se * se / (seA*seA/(na-1) + seB*seB/(nb-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	pvalue = 2 * dist.CDF(-math.Abs(tstat))
	return tstat, df, pvalue, nil
}
