package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/ceramica/erp_backend/internal/core/domain"
	portsrepo "github.com/ceramica/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/dto"
	"github.com/ceramica/erp_backend/internal/platform/cache"
)

const (
	defaultTopProducts = 5
	defaultStatsTTL    = 5 * time.Minute
)

// StatsService serves dashboard figures through a per-company generation cache.
// Bumping the generation makes every cached range of the company unreachable at once.
type StatsService struct {
	BaseService
	statsRepo portsrepo.StatsReader
	cache     cache.Store
	ttl       time.Duration
}

// NewStatsService creates the dashboard service. A nil store disables caching.
func NewStatsService(statsRepo portsrepo.StatsReader, store cache.Store, ttl time.Duration, options ...ServiceOption) *StatsService {
	if store == nil {
		store = cache.NoopStore{}
	}
	if ttl <= 0 {
		ttl = defaultStatsTTL
	}
	svc := &StatsService{statsRepo: statsRepo, cache: store, ttl: ttl}
	svc.apply(options)
	return svc
}

var (
	_ portssvc.StatsSvc         = (*StatsService)(nil)
	_ portssvc.StatsInvalidator = (*StatsService)(nil)
)

func generationKey(companyID string) string {
	return "stats:gen:" + companyID
}

func (s *StatsService) generation(ctx context.Context, companyID string) int64 {
	raw, err := s.cache.Get(ctx, generationKey(companyID))
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.LogError(ctx, err, "Failed to read stats generation", slog.String("company_id", companyID))
		}
		return 0
	}
	gen, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0
	}
	return gen
}

// statsRange resolves the requested bounds, defaulting to the current calendar month.
func statsRange(params dto.StatsParams, now time.Time) (domain.DateRange, error) {
	from, to, err := parseDateFilter(params.From, params.To)
	if err != nil {
		return domain.DateRange{}, err
	}
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	r := domain.DateRange{From: monthStart, To: monthStart.AddDate(0, 1, -1)}
	if from != nil {
		r.From = *from
	}
	if to != nil {
		r.To = *to
	}
	if r.To.Before(r.From) {
		return domain.DateRange{}, apperrors.NewValidationFailedError("تاريخ النهاية يجب أن يكون بعد تاريخ البداية")
	}
	return r, nil
}

func (s *StatsService) GetDashboardStats(ctx context.Context, companyID string, params dto.StatsParams, userID string) (*domain.DashboardStats, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermStatsRead); err != nil {
		return nil, err
	}
	dateRange, err := statsRange(params, s.now())
	if err != nil {
		return nil, err
	}
	top := params.Top
	if top <= 0 {
		top = defaultTopProducts
	}

	key := fmt.Sprintf("stats:%s:%d:%s:%s:%d", companyID, s.generation(ctx, companyID),
		dateRange.From.Format(dateLayout), dateRange.To.Format(dateLayout), top)
	if raw, err := s.cache.Get(ctx, key); err == nil {
		var stats domain.DashboardStats
		if err := json.Unmarshal(raw, &stats); err == nil {
			stats.Range = dateRange
			s.LogDebug(ctx, "Dashboard stats served from cache", slog.String("company_id", companyID))
			return &stats, nil
		}
	}

	stats, err := s.statsRepo.GetDashboardStats(ctx, companyID, dateRange, top)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute dashboard stats", slog.String("company_id", companyID))
		return nil, err
	}
	if raw, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
			s.LogError(ctx, err, "Failed to cache dashboard stats", slog.String("company_id", companyID))
		}
	}
	return stats, nil
}

// InvalidateCompanyStats bumps the company generation; stale entries expire on their own.
func (s *StatsService) InvalidateCompanyStats(ctx context.Context, companyID string) {
	if _, err := s.cache.Incr(ctx, generationKey(companyID)); err != nil {
		s.LogError(ctx, err, "Failed to invalidate dashboard stats", slog.String("company_id", companyID))
	}
}
