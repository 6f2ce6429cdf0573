package pgsql

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/ceramica/erp_backend/internal/core/domain"
	portsrepo "github.com/ceramica/erp_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxMaintenanceRepository runs the repair and import queries behind erpctl.
type PgxMaintenanceRepository struct {
	BaseRepository
}

func newPgxMaintenanceRepository(pool *pgxpool.Pool) portsrepo.MaintenanceRepository {
	return &PgxMaintenanceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.MaintenanceRepository = (*PgxMaintenanceRepository)(nil)

// documentNumberColumns maps each document kind to the table and column holding its number.
var documentNumberColumns = map[domain.DocumentKind][2]string{
	domain.DocSale:        {"sales", "invoice_number"},
	domain.DocPurchase:    {"purchases", "invoice_number"},
	domain.DocProvisional: {"provisional_sales", "number"},
}

func (r *PgxMaintenanceRepository) ListCompanyIDs(ctx context.Context, companyID string) ([]string, error) {
	if companyID != "" {
		var exists bool
		if err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM companies WHERE company_id = $1);`, companyID).Scan(&exists); err != nil {
			return nil, apperrors.NewAppError(500, "failed to check company "+companyID, err)
		}
		if !exists {
			return nil, apperrors.NewNotFoundError("الشركة غير موجودة")
		}
		return []string{companyID}, nil
	}

	rows, err := r.Pool.Query(ctx, `SELECT company_id FROM companies ORDER BY created_at, company_id;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list companies", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect company rows", err)
	}
	return ids, nil
}

// ReplaceRolePermissions diffs every role of the matrix against its stored rows and, unless
// dryRun is set, applies the diff in one transaction.
func (r *PgxMaintenanceRepository) ReplaceRolePermissions(ctx context.Context, companyID *string, matrix map[domain.CompanyRole][]domain.Permission, dryRun bool) ([]domain.PermissionDiff, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	roles := make([]domain.CompanyRole, 0, len(matrix))
	for role := range matrix {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })

	diffs := make([]domain.PermissionDiff, 0, len(roles))
	for _, role := range roles {
		rows, err := tx.Query(ctx, `
			SELECT permission FROM role_permissions
			WHERE company_id IS NOT DISTINCT FROM $1 AND role = $2
			FOR UPDATE;
		`, companyID, role)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to read permissions of role "+string(role), err)
		}
		current, err := pgx.CollectRows(rows, pgx.RowTo[domain.Permission])
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to collect permission rows", err)
		}

		diff := domain.PermissionDiff{Role: role}
		wanted := matrix[role]
		for _, p := range wanted {
			if !slices.Contains(current, p) && !slices.Contains(diff.Added, p) {
				diff.Added = append(diff.Added, p)
			}
		}
		for _, p := range current {
			if !slices.Contains(wanted, p) {
				diff.Removed = append(diff.Removed, p)
			}
		}
		diffs = append(diffs, diff)

		if dryRun || (len(diff.Added) == 0 && len(diff.Removed) == 0) {
			continue
		}
		batch := &pgx.Batch{}
		for _, p := range diff.Removed {
			batch.Queue(`
				DELETE FROM role_permissions
				WHERE company_id IS NOT DISTINCT FROM $1 AND role = $2 AND permission = $3;
			`, companyID, role, p)
		}
		for _, p := range diff.Added {
			batch.Queue(`INSERT INTO role_permissions (company_id, role, permission) VALUES ($1, $2, $3);`, companyID, role, p)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return nil, mapWriteError(err, "failed to replace permissions of role "+string(role), "الصلاحية مكررة")
		}
	}

	if dryRun {
		return diffs, nil
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return diffs, nil
}

func (r *PgxMaintenanceRepository) ListSequenceStates(ctx context.Context, companyID string) ([]domain.SequenceState, error) {
	states := make([]domain.SequenceState, 0, len(domain.DocumentKinds))
	for _, kind := range domain.DocumentKinds {
		state := domain.SequenceState{CompanyID: companyID, Kind: kind}

		err := r.Pool.QueryRow(ctx, `
			SELECT last_value FROM document_sequences WHERE company_id = $1 AND doc_type = $2;
		`, companyID, kind).Scan(&state.LastValue)
		switch {
		case err == nil:
			state.Exists = true
		case errors.Is(err, pgx.ErrNoRows):
		default:
			return nil, apperrors.NewAppError(500, "failed to read sequence "+string(kind), err)
		}

		column := documentNumberColumns[kind]
		query := fmt.Sprintf(`
			SELECT COALESCE(MAX(CAST(SUBSTRING(%s FROM '^' || $2 || '-([0-9]+)$') AS BIGINT)), 0)
			FROM %s WHERE company_id = $1;
		`, column[1], column[0])
		if err := r.Pool.QueryRow(ctx, query, companyID, kind.Prefix()).Scan(&state.MaxUsed); err != nil {
			return nil, apperrors.NewAppError(500, "failed to read highest "+string(kind)+" number", err)
		}
		states = append(states, state)
	}
	return states, nil
}

// SetSequenceValue raises the sequence to value. A sequence already past it is left alone.
func (r *PgxMaintenanceRepository) SetSequenceValue(ctx context.Context, companyID string, kind domain.DocumentKind, value int64) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO document_sequences (company_id, doc_type, last_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (company_id, doc_type)
		DO UPDATE SET last_value = GREATEST(document_sequences.last_value, EXCLUDED.last_value);
	`, companyID, kind, value)
	if err != nil {
		return apperrors.NewAppError(500, "failed to set sequence "+string(kind)+" of company "+companyID, err)
	}
	return nil
}

// FindProductsBySKU matches the SKU in one company, or in every company when companyID is empty.
func (r *PgxMaintenanceRepository) FindProductsBySKU(ctx context.Context, companyID, sku string) ([]domain.Product, error) {
	rows, err := r.Pool.Query(ctx, productSelectQuery+`WHERE p.sku = $1 AND ($2 = '' OR p.company_id = $2) ORDER BY p.company_id;`, sku, companyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find products by SKU", err)
	}
	return collectProducts(rows)
}

// UpdateProductPrices sets the cost price, and the sale price when one is given.
func (r *PgxMaintenanceRepository) UpdateProductPrices(ctx context.Context, productID string, costPrice decimal.Decimal, salePrice *decimal.Decimal) error {
	_, err := r.Pool.Exec(ctx, `
		UPDATE products
		SET cost_price = $1, sale_price = COALESCE($2, sale_price), last_updated_at = NOW()
		WHERE product_id = $3;
	`, costPrice, salePrice, productID)
	if err != nil {
		return mapWriteError(err, "failed to update prices of product "+productID, duplicateSKUMessage)
	}
	return nil
}

func (r *PgxMaintenanceRepository) listDrift(ctx context.Context, query, companyID string) ([]domain.BalanceDrift, error) {
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to compute drift", err)
	}
	defer rows.Close()

	drifts := []domain.BalanceDrift{}
	for rows.Next() {
		var d domain.BalanceDrift
		if err := rows.Scan(&d.CompanyID, &d.EntityID, &d.Label, &d.Recorded, &d.Computed); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan drift row", err)
		}
		drifts = append(drifts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating drift rows", err)
	}
	return drifts, nil
}

// ListStockDrift returns products whose stock differs from the sum of their movements.
func (r *PgxMaintenanceRepository) ListStockDrift(ctx context.Context, companyID string) ([]domain.BalanceDrift, error) {
	return r.listDrift(ctx, `
		SELECT p.company_id, p.product_id, p.sku || ' - ' || p.name, p.stock_quantity, COALESCE(SUM(m.quantity), 0)
		FROM products p
		LEFT JOIN stock_movements m ON m.product_id = p.product_id
		WHERE p.company_id = $1
		GROUP BY p.product_id
		HAVING p.stock_quantity <> COALESCE(SUM(m.quantity), 0)
		ORDER BY p.sku;
	`, companyID)
}

func (r *PgxMaintenanceRepository) SetProductStock(ctx context.Context, productID string, quantity decimal.Decimal) error {
	if _, err := r.Pool.Exec(ctx, `UPDATE products SET stock_quantity = $1, last_updated_at = NOW() WHERE product_id = $2;`, quantity, productID); err != nil {
		return mapWriteError(err, "failed to set stock of product "+productID, duplicateSKUMessage)
	}
	return nil
}

// ListTreasuryDrift returns treasuries whose balance differs from their signed movements.
func (r *PgxMaintenanceRepository) ListTreasuryDrift(ctx context.Context, companyID string) ([]domain.BalanceDrift, error) {
	return r.listDrift(ctx, `
		SELECT t.company_id, t.treasury_id, t.name, t.balance,
			COALESCE(SUM(CASE WHEN m.movement_type IN ('DEPOSIT', 'TRANSFER_IN') THEN m.amount ELSE -m.amount END), 0)
		FROM treasuries t
		LEFT JOIN treasury_movements m ON m.treasury_id = t.treasury_id
		WHERE t.company_id = $1
		GROUP BY t.treasury_id
		HAVING t.balance <> COALESCE(SUM(CASE WHEN m.movement_type IN ('DEPOSIT', 'TRANSFER_IN') THEN m.amount ELSE -m.amount END), 0)
		ORDER BY t.name;
	`, companyID)
}

func (r *PgxMaintenanceRepository) SetTreasuryBalance(ctx context.Context, treasuryID string, balance decimal.Decimal) error {
	if _, err := r.Pool.Exec(ctx, `UPDATE treasuries SET balance = $1, last_updated_at = NOW() WHERE treasury_id = $2;`, balance, treasuryID); err != nil {
		return mapWriteError(err, "failed to set balance of treasury "+treasuryID, duplicateTreasuryMessage)
	}
	return nil
}

// ListSupplierDrift returns suppliers whose balance differs from CREDIT minus DEBIT entries.
func (r *PgxMaintenanceRepository) ListSupplierDrift(ctx context.Context, companyID string) ([]domain.BalanceDrift, error) {
	return r.listDrift(ctx, `
		SELECT s.company_id, s.supplier_id, s.name, s.balance,
			COALESCE(SUM(CASE WHEN e.entry_type = 'CREDIT' THEN e.amount ELSE -e.amount END), 0)
		FROM suppliers s
		LEFT JOIN supplier_account_entries e ON e.supplier_id = s.supplier_id
		WHERE s.company_id = $1
		GROUP BY s.supplier_id
		HAVING s.balance <> COALESCE(SUM(CASE WHEN e.entry_type = 'CREDIT' THEN e.amount ELSE -e.amount END), 0)
		ORDER BY s.name;
	`, companyID)
}

func (r *PgxMaintenanceRepository) SetSupplierBalance(ctx context.Context, supplierID string, balance decimal.Decimal) error {
	if _, err := r.Pool.Exec(ctx, `UPDATE suppliers SET balance = $1, last_updated_at = NOW() WHERE supplier_id = $2;`, balance, supplierID); err != nil {
		return apperrors.NewAppError(500, "failed to set balance of supplier "+supplierID, err)
	}
	return nil
}
