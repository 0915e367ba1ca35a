// Package progress persists player progression in SQLite: stats, shop
// purchases and the history of finished runs.
package progress

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"polychase/internal/sim"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// RunRecord is one row of run history.
type RunRecord struct {
	RunID      uuid.UUID
	Score      int
	Earned     int
	Ticks      int
	Duration   float64
	Pursuers   int
	Mission    string
	FinishedAt time.Time
}

// Open opens (creating if needed) the database at path and applies migrations.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("progress: open %s: %w", path, err)
	}
	// One writer; sqlite serialises anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("progress: ping: %w", err)
	}
	if err := runMigrations(ctx, db, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("progress: migrate: %w", err)
	}
	return &Store{db: db, logger: logger, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func runMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)`); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	names, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		var count int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE version = ?", name).Scan(&count); err != nil {
			return fmt.Errorf("check %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		body, err := migrationFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
			name, time.Now().UTC().Format(timeLayout)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", name, err)
		}
		logger.Debug("applied migration", "version", name)
	}
	return nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func loadStats(ctx context.Context, q querier) (Stats, error) {
	var st Stats
	var cosmetic string
	err := q.QueryRowContext(ctx,
		"SELECT money, speed_level, cosmetic, high_score FROM player_stats WHERE id = 1",
	).Scan(&st.Money, &st.SpeedLevel, &cosmetic, &st.HighScore)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultStats(), nil
	}
	if err != nil {
		return Stats{}, err
	}
	st.Cosmetic = sim.ParseCosmetic(cosmetic)
	return st, nil
}

func saveStats(ctx context.Context, tx *sql.Tx, st Stats) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO player_stats (id, money, speed_level, cosmetic, high_score)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			money = excluded.money,
			speed_level = excluded.speed_level,
			cosmetic = excluded.cosmetic,
			high_score = excluded.high_score`,
		st.Money, st.SpeedLevel, string(st.Cosmetic), st.HighScore)
	return err
}

// Stats returns the current progression.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	st, err := loadStats(ctx, s.db)
	if err != nil {
		return Stats{}, fmt.Errorf("progress: load stats: %w", err)
	}
	return st, nil
}

// RecordRun credits a finished run and appends it to history. Recording the
// same run id twice is a no-op that returns the current stats.
func (s *Store) RecordRun(ctx context.Context, out sim.RunOutcome, mission string) (Stats, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("progress: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	st, err := loadStats(ctx, tx)
	if err != nil {
		return Stats{}, fmt.Errorf("progress: load stats: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO runs (run_id, score, earned, ticks, duration_s, pursuers, mission, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		out.RunID.String(), out.Score, Earned(out.Score), out.Ticks, out.Duration, out.Pursuers, mission,
		s.now().UTC().Format(timeLayout))
	if err != nil {
		return Stats{}, fmt.Errorf("progress: insert run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		s.logger.Warn("run already recorded", "run_id", out.RunID)
		return st, nil
	}

	st = st.applyRun(out.Score)
	if err := saveStats(ctx, tx, st); err != nil {
		return Stats{}, fmt.Errorf("progress: save stats: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("progress: commit: %w", err)
	}
	s.logger.Info("run recorded", "run_id", out.RunID, "score", out.Score, "earned", Earned(out.Score), "money", st.Money)
	return st, nil
}

// Buy purchases a shop item. A refused purchase returns one of the Err*
// sentinels and leaves the stats unchanged.
func (s *Store) Buy(ctx context.Context, id ItemID) (Stats, error) {
	it, ok := LookupItem(id)
	if !ok {
		return Stats{}, fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("progress: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	st, err := loadStats(ctx, tx)
	if err != nil {
		return Stats{}, fmt.Errorf("progress: load stats: %w", err)
	}
	if err := st.CanBuy(it); err != nil {
		return st, err
	}

	st = st.apply(it)
	if err := saveStats(ctx, tx, st); err != nil {
		return Stats{}, fmt.Errorf("progress: save stats: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO purchases (item, cost, purchased_at) VALUES (?, ?, ?)",
		string(it.ID), it.Cost, s.now().UTC().Format(timeLayout)); err != nil {
		return Stats{}, fmt.Errorf("progress: insert purchase: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("progress: commit: %w", err)
	}
	s.logger.Info("item purchased", "item", it.ID, "cost", it.Cost, "money", st.Money)
	return st, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, score, earned, ticks, duration_s, pursuers, mission, finished_at
		FROM runs ORDER BY finished_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("progress: query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var id, finished string
		if err := rows.Scan(&id, &r.Score, &r.Earned, &r.Ticks, &r.Duration, &r.Pursuers, &r.Mission, &finished); err != nil {
			return nil, fmt.Errorf("progress: scan run: %w", err)
		}
		if r.RunID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("progress: run id %q: %w", id, err)
		}
		if r.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
			return nil, fmt.Errorf("progress: run time %q: %w", finished, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("progress: iterate runs: %w", err)
	}
	return out, nil
}
