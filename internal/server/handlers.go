package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	cohortdomain "github.com/smallbiznis/megaline/internal/cohort/domain"
	ratingdomain "github.com/smallbiznis/megaline/internal/rating/domain"
	"go.uber.org/zap"
)

func (s *Server) runBilling(c *gin.Context) {
	report, err := s.ratingSvc.RunBilling(c.Request.Context())
	if err != nil {
		if errors.Is(err, ratingdomain.ErrNoUsage) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		s.log.Error("billing run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "billing_failed"})
		return
	}

	// Referential faults are not a transport error, but the caller must
	// see them; 207 signals a partially billed batch.
	status := http.StatusOK
	if report.FaultCount > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, report)
}

func (s *Server) listRevenue(c *gin.Context) {
	rows, err := s.ratingSvc.ListBilled(c.Request.Context(), ratingdomain.BilledFilter{
		PlanID: c.Query("plan"),
		Region: c.Query("region"),
	})
	if err != nil {
		s.log.Error("list revenue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows, "count": len(rows)})
}

func (s *Server) listPlans(c *gin.Context) {
	plans, err := s.catalog.Plans(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (s *Server) comparePlans(c *gin.Context) {
	planA := c.DefaultQuery("a", "surf")
	planB := c.DefaultQuery("b", "ultimate")

	comparison, err := s.cohortSvc.ComparePlans(c.Request.Context(), planA, planB)
	s.writeComparison(c, comparison, err)
}

func (s *Server) compareRegions(c *gin.Context) {
	pattern := c.DefaultQuery("region", "NY-NJ")

	comparison, err := s.cohortSvc.CompareRegions(c.Request.Context(), pattern)
	s.writeComparison(c, comparison, err)
}

func (s *Server) planTrends(c *gin.Context) {
	stats, err := s.cohortSvc.PlanMonthlyAverages(c.Request.Context())
	if err != nil {
		s.log.Error("plan trends failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "trends_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": stats})
}

func (s *Server) writeComparison(c *gin.Context, comparison *cohortdomain.Comparison, err error) {
	if err != nil {
		if errors.Is(err, cohortdomain.ErrInsufficientSample) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		s.log.Error("cohort comparison failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "comparison_failed"})
		return
	}
	c.JSON(http.StatusOK, comparison)
}
