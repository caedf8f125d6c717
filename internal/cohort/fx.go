package cohort

import (
	"github.com/smallbiznis/megaline/internal/cohort/service"
	"go.uber.org/fx"
)

var Module = fx.Module("cohort.service",
	fx.Provide(service.NewService),
)
