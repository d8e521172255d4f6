package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ridoystarlord/bakery/database"
	"github.com/ridoystarlord/bakery/entities"
	"github.com/ridoystarlord/bakery/utils"
)

func mustLoadConfig() utils.Config {
	cfg, err := utils.LoadConfig()
	if err != nil {
		fmt.Println("❌ Invalid configuration:", err)
		os.Exit(1)
	}
	return cfg
}

// newLogger returns a development logger with SQL statements visible when
// debug is on, and a quieter production logger otherwise.
func newLogger(debug bool) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if debug {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// mustOpenStore connects to the configured database and wraps it with
// statement logging, and with metrics when reg is non-nil.
func mustOpenStore(ctx context.Context, cfg utils.Config, log *zap.Logger, reg prometheus.Registerer) (*database.DB, *entities.Store) {
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		fmt.Println("❌ Failed to connect to database:", err)
		os.Exit(1)
	}

	var exec database.Executor = database.WithLogging(db, log)
	if reg != nil {
		exec = database.WithMetrics(exec, database.NewMetrics(reg))
	}
	return db, entities.NewStore(exec)
}
