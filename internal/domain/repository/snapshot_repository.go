package repository

import (
	"context"

	"github.com/diillson/finanzas-dashboard-go/internal/domain/entity"
)

// SnapshotRepository keeps the last good dashboard payload on disk.
type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, snap entity.DashboardSnapshot) error
	LatestSnapshot(ctx context.Context) (entity.DashboardSnapshot, error)
	Close() error
}
