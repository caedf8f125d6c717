package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/megaline/internal/cohort"
	"github.com/smallbiznis/megaline/internal/config"
	"github.com/smallbiznis/megaline/internal/logger"
	"github.com/smallbiznis/megaline/internal/migration"
	obsmetrics "github.com/smallbiznis/megaline/internal/observability/metrics"
	"github.com/smallbiznis/megaline/internal/plan"
	"github.com/smallbiznis/megaline/internal/rating"
	"github.com/smallbiznis/megaline/internal/server"
	"github.com/smallbiznis/megaline/internal/usage"
	"github.com/smallbiznis/megaline/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		obsmetrics.Module,
		migration.Module,

		// Functional domains
		plan.Module,
		usage.Module,
		rating.Module,
		cohort.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
