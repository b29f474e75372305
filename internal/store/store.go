// 包 store：查询统计的 PostgreSQL 访问层，按天、按结果分类累加
package store

import (
	"context"
	"database/sql"
	"fmt"

	"ip-frontend/internal/logger"
)

// Store：持有连接池，实现 api.Stats
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

// Record：为当日的 outcome 计数加一
func (s *Store) Record(ctx context.Context, outcome string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO _frontend_stats_daily(day, outcome, queries)
        VALUES(current_date, $1, 1)
        ON CONFLICT (day, outcome) DO UPDATE SET queries=_frontend_stats_daily.queries+1`, outcome)
	if err != nil {
		return fmt.Errorf("record stats: %w", err)
	}
	return nil
}

// Totals：累计与当日查询次数，以及当日各分类次数
type Totals struct {
	Total     int64            `json:"total"`
	Today     int64            `json:"today"`
	ByOutcome map[string]int64 `json:"by_outcome"`
}

// GetTotals：读取统计汇总
func (s *Store) GetTotals(ctx context.Context) (*Totals, error) {
	t := Totals{ByOutcome: map[string]int64{}}
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(queries),0) FROM _frontend_stats_daily`).Scan(&t.Total); err != nil {
		return nil, fmt.Errorf("stats total: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, `SELECT outcome, queries FROM _frontend_stats_daily WHERE day=current_date`)
	if err != nil {
		return nil, fmt.Errorf("stats today: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var outcome string
		var n int64
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, err
		}
		t.ByOutcome[outcome] = n
		t.Today += n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.L().Debug("stats_totals", "total", t.Total, "today", t.Today)
	return &t, nil
}

// Summary：以通用结构返回汇总，供 /stats 序列化
func (s *Store) Summary(ctx context.Context) (map[string]any, error) {
	t, err := s.GetTotals(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"total": t.Total, "today": t.Today, "by_outcome": t.ByOutcome}, nil
}
