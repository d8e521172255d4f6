package database

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ridoystarlord/bakery/query"
)

type loggingExecutor struct {
	Executor
	log *zap.Logger
}

// WithLogging logs every statement at debug level and failed statements at
// warn level.
func WithLogging(exec Executor, log *zap.Logger) Executor {
	return &loggingExecutor{Executor: exec, log: log.Named("sql")}
}

func (e *loggingExecutor) Exec(ctx context.Context, stmt query.Statement) (ExecResult, error) {
	start := time.Now()
	res, err := e.Executor.Exec(ctx, stmt)
	fields := []zap.Field{
		zap.String("sql", stmt.SQL),
		zap.Any("args", stmt.Args),
		zap.Duration("took", time.Since(start)),
	}
	if err != nil {
		e.log.Warn("exec failed", append(fields, zap.Error(err))...)
		return res, err
	}
	e.log.Debug("exec", append(fields, zap.Int64("rows_affected", res.RowsAffected))...)
	return res, nil
}

func (e *loggingExecutor) Query(ctx context.Context, stmt query.Statement) ([]Row, error) {
	start := time.Now()
	rows, err := e.Executor.Query(ctx, stmt)
	fields := []zap.Field{
		zap.String("sql", stmt.SQL),
		zap.Any("args", stmt.Args),
		zap.Duration("took", time.Since(start)),
	}
	if err != nil {
		e.log.Warn("query failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	e.log.Debug("query", append(fields, zap.Int("rows", len(rows)))...)
	return rows, nil
}
