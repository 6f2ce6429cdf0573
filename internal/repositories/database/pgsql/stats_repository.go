package pgsql

import (
	"context"
	"fmt"

	"github.com/ceramica/erp_backend/internal/core/domain"
	portsrepo "github.com/ceramica/erp_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// statsRepository aggregates dashboard figures straight from the document tables.
type statsRepository struct {
	BaseRepository
}

func newStatsRepository(db *pgxpool.Pool) portsrepo.StatsReader {
	return &statsRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// GetDashboardStats runs the aggregate queries in one batch round trip.
// Range figures cover approved documents with invoice dates inside the range;
// balances and stock figures are current values.
func (r *statsRepository) GetDashboardStats(ctx context.Context, companyID string, dateRange domain.DateRange, topN int) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{CompanyID: companyID, Range: dateRange, TopProducts: []domain.TopProduct{}}

	batch := &pgx.Batch{}
	batch.Queue(`
		SELECT COALESCE(SUM(total), 0), COUNT(*)
		FROM sales
		WHERE company_id = $1 AND status = 'APPROVED' AND invoice_date BETWEEN $2 AND $3;
	`, companyID, dateRange.From, dateRange.To)
	batch.Queue(`
		SELECT COALESCE(SUM(total), 0), COUNT(*)
		FROM purchases
		WHERE company_id = $1 AND status = 'APPROVED' AND invoice_date BETWEEN $2 AND $3;
	`, companyID, dateRange.From, dateRange.To)
	batch.Queue(`
		SELECT
			COALESCE((
				SELECT SUM((l.unit_price - l.unit_cost) * l.quantity)
				FROM sale_lines l JOIN sales s ON s.sale_id = l.sale_id
				WHERE s.company_id = $1 AND s.status = 'APPROVED' AND s.invoice_date BETWEEN $2 AND $3
			), 0)
			- COALESCE((
				SELECT SUM(discount) FROM sales
				WHERE company_id = $1 AND status = 'APPROVED' AND invoice_date BETWEEN $2 AND $3
			), 0);
	`, companyID, dateRange.From, dateRange.To)
	batch.Queue(`
		SELECT
			COALESCE((SELECT SUM(balance) FROM treasuries WHERE company_id = $1 AND is_active), 0),
			COALESCE((SELECT SUM(balance) FROM financial_contacts WHERE company_id = $1 AND balance > 0), 0),
			COALESCE((SELECT SUM(balance) FROM suppliers WHERE company_id = $1 AND balance > 0), 0),
			(SELECT COUNT(*) FROM products WHERE company_id = $1 AND is_active AND stock_quantity <= min_stock),
			(SELECT COUNT(*) FROM provisional_sales WHERE company_id = $1 AND status = 'PENDING');
	`, companyID)
	batch.Queue(`
		SELECT l.product_id, MAX(l.product_name), SUM(l.quantity), SUM(l.line_total) AS revenue
		FROM sale_lines l JOIN sales s ON s.sale_id = l.sale_id
		WHERE s.company_id = $1 AND s.status = 'APPROVED' AND s.invoice_date BETWEEN $2 AND $3
		GROUP BY l.product_id
		ORDER BY revenue DESC, l.product_id
		LIMIT $4;
	`, companyID, dateRange.From, dateRange.To, topN)

	results := r.Pool.SendBatch(ctx, batch)
	defer results.Close()

	if err := results.QueryRow().Scan(&stats.SalesTotal, &stats.SalesCount); err != nil {
		return nil, fmt.Errorf("error querying sales totals: %w", err)
	}
	if err := results.QueryRow().Scan(&stats.PurchasesTotal, &stats.PurchasesCount); err != nil {
		return nil, fmt.Errorf("error querying purchase totals: %w", err)
	}
	if err := results.QueryRow().Scan(&stats.GrossProfit); err != nil {
		return nil, fmt.Errorf("error querying gross profit: %w", err)
	}
	if err := results.QueryRow().Scan(
		&stats.TreasuryBalance, &stats.Receivables, &stats.Payables, &stats.LowStockCount, &stats.PendingProvisionalCount,
	); err != nil {
		return nil, fmt.Errorf("error querying balances: %w", err)
	}

	rows, err := results.Query()
	if err != nil {
		return nil, fmt.Errorf("error querying top products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tp domain.TopProduct
		if err := rows.Scan(&tp.ProductID, &tp.Name, &tp.Quantity, &tp.Revenue); err != nil {
			return nil, fmt.Errorf("error scanning top product row: %w", err)
		}
		stats.TopProducts = append(stats.TopProducts, tp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top product rows: %w", err)
	}
	stats.GrossProfit = stats.GrossProfit.Round(2)
	return stats, nil
}
