package repositories

import (
	"context"

	"github.com/ceramica/erp_backend/internal/core/domain"
)

// StatsReader aggregates dashboard figures for a company.
type StatsReader interface {
	GetDashboardStats(ctx context.Context, companyID string, dateRange domain.DateRange, topN int) (*domain.DashboardStats, error)
}
