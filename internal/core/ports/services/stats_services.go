package services

import (
	"context"

	"github.com/ceramica/erp_backend/internal/core/domain"
	"github.com/ceramica/erp_backend/internal/dto"
)

// StatsSvc serves the dashboard figures
type StatsSvc interface {
	GetDashboardStats(ctx context.Context, companyID string, params dto.StatsParams, userID string) (*domain.DashboardStats, error)
}

// StatsInvalidator drops cached dashboard figures after documents change state.
type StatsInvalidator interface {
	InvalidateCompanyStats(ctx context.Context, companyID string)
}
