package maintenance

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ceramica/erp_backend/internal/core/domain"
)

// RebuildReport lists the balances a rebuild corrected, and the ones it refused to set
// because the recomputed value is negative.
type RebuildReport struct {
	Fixed   []domain.BalanceDrift
	Skipped []domain.BalanceDrift
}

type driftSource struct {
	title string
	list  func(ctx context.Context, companyID string) ([]domain.BalanceDrift, error)
	set   func(ctx context.Context, entityID string, value decimal.Decimal) error
	// allowNegative is true for ledgers whose balance may legitimately go below zero.
	allowNegative bool
}

// RebuildStock sets each product's stock to the sum of its stock movements.
func (r *Runner) RebuildStock(ctx context.Context, companyID string) (*RebuildReport, error) {
	return r.rebuild(ctx, companyID, driftSource{
		title: "المخزون",
		list:  r.repo.ListStockDrift,
		set:   r.repo.SetProductStock,
	})
}

// RebuildBalances recomputes treasury balances from their movements and supplier balances
// from their account entries.
func (r *Runner) RebuildBalances(ctx context.Context, companyID string) (*RebuildReport, error) {
	report, err := r.rebuild(ctx, companyID, driftSource{
		title: "الخزائن",
		list:  r.repo.ListTreasuryDrift,
		set:   r.repo.SetTreasuryBalance,
	})
	if err != nil {
		return report, err
	}
	suppliers, err := r.rebuild(ctx, companyID, driftSource{
		title:         "الموردين",
		list:          r.repo.ListSupplierDrift,
		set:           r.repo.SetSupplierBalance,
		allowNegative: true,
	})
	if suppliers != nil {
		report.Fixed = append(report.Fixed, suppliers.Fixed...)
		report.Skipped = append(report.Skipped, suppliers.Skipped...)
	}
	return report, err
}

func (r *Runner) rebuild(ctx context.Context, companyID string, src driftSource) (*RebuildReport, error) {
	companies, err := r.repo.ListCompanyIDs(ctx, companyID)
	if err != nil {
		return nil, err
	}

	report := &RebuildReport{}
	for _, id := range companies {
		drifts, err := src.list(ctx, id)
		if err != nil {
			r.logger.Error("Failed to compute drift", "error", err, "company_id", id, "ledger", src.title)
			return report, err
		}
		for _, d := range drifts {
			if d.Computed.IsNegative() && !src.allowNegative {
				r.printf("  تخطي %s: القيمة المحسوبة %s سالبة", d.Label, formatAmount(d.Computed))
				report.Skipped = append(report.Skipped, d)
				continue
			}
			if !r.dryRun {
				if err := src.set(ctx, d.EntityID, d.Computed); err != nil {
					r.logger.Error("Failed to set rebuilt value", "error", err, "company_id", id, "entity_id", d.EntityID)
					return report, err
				}
			}
			r.printf("  %s: %s ← %s (الفرق %s)", d.Label, formatAmount(d.Computed), formatAmount(d.Recorded), formatAmount(d.Difference()))
			report.Fixed = append(report.Fixed, d)
		}
	}

	r.printf("%s: تم تصحيح %s، تم تخطي %s%s", src.title, count(len(report.Fixed)), count(len(report.Skipped)), r.modeNote())
	return report, nil
}
