package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/diillson/finanzas-dashboard-go/internal/domain/entity"
	"github.com/diillson/finanzas-dashboard-go/internal/domain/repository"
	"github.com/diillson/finanzas-dashboard-go/internal/shared/types"
)

// keepSnapshots is how many snapshots survive each save.
const keepSnapshots = 10

// SQLiteSnapshotRepository implementa o SnapshotRepository sobre SQLite.
type SQLiteSnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository abre (ou cria) o banco de snapshots e aplica as migrações.
func NewSnapshotRepository(dbPath string) (repository.SnapshotRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteSnapshotRepository{db: db}, nil
}

// DefaultPath returns the snapshot database under the user's cache directory.
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "finanzas", "snapshots.db")
}

func (r *SQLiteSnapshotRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteSnapshotRepository) SaveSnapshot(ctx context.Context, snap entity.DashboardSnapshot) error {
	months, err := json.Marshal(snap.Months)
	if err != nil {
		return fmt.Errorf("encode months: %w", err)
	}
	var lifetime sql.NullString
	if snap.Lifetime != nil {
		raw, err := json.Marshal(snap.Lifetime)
		if err != nil {
			return fmt.Errorf("encode lifetime totals: %w", err)
		}
		lifetime = sql.NullString{String: string(raw), Valid: true}
	}
	takenAt := snap.TakenAt
	if takenAt.IsZero() {
		takenAt = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO dashboard_snapshots (taken_at, months_json, lifetime_json) VALUES (?, ?, ?)`,
		takenAt.UTC().Format(time.RFC3339Nano), string(months), lifetime,
	); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM dashboard_snapshots WHERE id NOT IN (SELECT id FROM dashboard_snapshots ORDER BY id DESC LIMIT ?)`,
		keepSnapshots,
	); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return tx.Commit()
}

func (r *SQLiteSnapshotRepository) LatestSnapshot(ctx context.Context) (entity.DashboardSnapshot, error) {
	var (
		takenAt  string
		months   string
		lifetime sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT taken_at, months_json, lifetime_json FROM dashboard_snapshots ORDER BY id DESC LIMIT 1`,
	).Scan(&takenAt, &months, &lifetime)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.DashboardSnapshot{}, types.ErrSnapshotNotFound
	}
	if err != nil {
		return entity.DashboardSnapshot{}, fmt.Errorf("query latest snapshot: %w", err)
	}

	var snap entity.DashboardSnapshot
	if snap.TakenAt, err = time.Parse(time.RFC3339Nano, takenAt); err != nil {
		return entity.DashboardSnapshot{}, fmt.Errorf("parse snapshot time: %w", err)
	}
	if err := json.Unmarshal([]byte(months), &snap.Months); err != nil {
		return entity.DashboardSnapshot{}, fmt.Errorf("decode snapshot months: %w", err)
	}
	if lifetime.Valid {
		snap.Lifetime = &entity.LifetimeTotals{}
		if err := json.Unmarshal([]byte(lifetime.String), snap.Lifetime); err != nil {
			return entity.DashboardSnapshot{}, fmt.Errorf("decode snapshot lifetime totals: %w", err)
		}
	}
	return snap, nil
}
