package migrate

import (
	"context"
	"database/sql"

	"ip-frontend/internal/logger"
)

// 背景：首次运行自动创建统计表；使用 IF NOT EXISTS 以便多副本并发启动
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _frontend_stats_daily (
            day DATE NOT NULL,
            outcome TEXT NOT NULL,
            queries BIGINT NOT NULL DEFAULT 0,
            PRIMARY KEY (day, outcome)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_frontend_stats_day ON _frontend_stats_daily(day)`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
