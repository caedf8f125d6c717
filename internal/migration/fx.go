package migration

import (
	"github.com/smallbiznis/megaline/internal/config"
	plandomain "github.com/smallbiznis/megaline/internal/plan/domain"
	ratingdomain "github.com/smallbiznis/megaline/internal/rating/domain"
	"github.com/smallbiznis/megaline/internal/seed"
	usagedomain "github.com/smallbiznis/megaline/internal/usage/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		err := conn.AutoMigrate(
			&plandomain.Plan{},
			&plandomain.Account{},
			&usagedomain.CallEvent{},
			&usagedomain.MessageEvent{},
			&usagedomain.SessionEvent{},
			&ratingdomain.BilledUsage{},
		)
		if err != nil {
			return err
		}

		if cfg.SeedPlans {
			return seed.EnsurePlans(conn)
		}
		return nil
	}),
)
