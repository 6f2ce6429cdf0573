package pgsql

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/ceramica/erp_backend/internal/core/domain"
	portsrepo "github.com/ceramica/erp_backend/internal/core/ports/repositories"
	"github.com/ceramica/erp_backend/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxProductRepository struct {
	BaseRepository
}

func newPgxProductRepository(pool *pgxpool.Pool) *PgxProductRepository {
	return &PgxProductRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

const productSelectQuery = `
SELECT
	p.product_id, p.company_id, p.sku, p.name, p.category, p.unit,
	p.cost_price, p.sale_price, p.stock_quantity, p.min_stock, p.is_active,
	p.created_at, p.created_by, p.last_updated_at, p.last_updated_by
FROM products p
`

const duplicateSKUMessage = "كود الصنف مستخدم بالفعل"

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ProductID, &p.CompanyID, &p.SKU, &p.Name, &p.Category, &p.Unit,
		&p.CostPrice, &p.SalePrice, &p.StockQuantity, &p.MinStock, &p.IsActive,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy,
	)
	return p, err
}

func collectProducts(rows pgx.Rows) ([]domain.Product, error) {
	defer rows.Close()
	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan product row", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating product rows", err)
	}
	return products, nil
}

func (r *PgxProductRepository) FindProductByID(ctx context.Context, companyID, productID string) (*domain.Product, error) {
	p, err := scanProduct(r.Pool.QueryRow(ctx, productSelectQuery+`WHERE p.company_id = $1 AND p.product_id = $2;`, companyID, productID))
	if err != nil {
		return nil, notFoundOr(err, "الصنف غير موجود", "failed to find product "+productID)
	}
	return &p, nil
}

func (r *PgxProductRepository) FindProductsByIDs(ctx context.Context, companyID string, productIDs []string) (map[string]domain.Product, error) {
	result := make(map[string]domain.Product, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}
	rows, err := r.Pool.Query(ctx, productSelectQuery+`WHERE p.company_id = $1 AND p.product_id = ANY($2);`, companyID, productIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query products by IDs", err)
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		result[p.ProductID] = p
	}
	return result, nil
}

func (r *PgxProductRepository) ListProducts(ctx context.Context, companyID string, filter domain.ProductFilter, limit, offset int) ([]domain.Product, error) {
	query := `WHERE p.company_id = $1`
	args := []any{companyID}
	if !filter.IncludeInactive {
		query += ` AND p.is_active = true`
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(` AND (p.name ILIKE $%d OR p.sku ILIKE $%d)`, len(args), len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(` AND p.category = $%d`, len(args))
	}
	if filter.LowStockOnly {
		query += ` AND p.stock_quantity <= p.min_stock`
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY p.name, p.product_id LIMIT $%d OFFSET $%d;`, len(args)-1, len(args))

	rows, err := r.Pool.Query(ctx, productSelectQuery+query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list products", err)
	}
	return collectProducts(rows)
}

func (r *PgxProductRepository) ListStockMovements(ctx context.Context, companyID, productID string, limit int, nextToken *string) ([]domain.StockMovement, *string, error) {
	query := `
		SELECT movement_id, company_id, product_id, movement_type, quantity, balance_after, unit_cost,
			ref_type, ref_id, notes, created_at, created_by
		FROM stock_movements
		WHERE company_id = $1 AND product_id = $2`
	args := []any{companyID, productID}
	if nextToken != nil {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationFailedError("رمز الصفحة غير صالح")
		}
		query += ` AND (created_at, movement_id) < ($3, $4)`
		args = append(args, cursor.CreatedAt, cursor.ID)
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY created_at DESC, movement_id DESC LIMIT $%d;`, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query stock movements", err)
	}
	defer rows.Close()

	movements := []domain.StockMovement{}
	for rows.Next() {
		var m domain.StockMovement
		if err := rows.Scan(
			&m.MovementID, &m.CompanyID, &m.ProductID, &m.MovementType, &m.Quantity, &m.BalanceAfter, &m.UnitCost,
			&m.RefType, &m.RefID, &m.Notes, &m.CreatedAt, &m.CreatedBy,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan stock movement row", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating stock movement rows", err)
	}

	page, token := pagination.TrimPage(movements, limit, func(m domain.StockMovement) pagination.Cursor {
		return pagination.Cursor{SortTime: m.CreatedAt, CreatedAt: m.CreatedAt, ID: m.MovementID}
	})
	return page, token, nil
}

// CreateProduct inserts the product and records its opening stock as an OPENING movement.
func (r *PgxProductRepository) CreateProduct(ctx context.Context, product domain.Product) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO products (
				product_id, company_id, sku, name, category, unit, cost_price, sale_price,
				stock_quantity, min_stock, is_active, created_at, created_by, last_updated_at, last_updated_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
		`
		_, err := tx.Exec(ctx, query,
			product.ProductID, product.CompanyID, product.SKU, product.Name, product.Category, product.Unit,
			product.CostPrice, product.SalePrice, product.StockQuantity, product.MinStock, product.IsActive,
			product.CreatedAt, product.CreatedBy, product.LastUpdatedAt, product.LastUpdatedBy,
		)
		if err != nil {
			return mapWriteError(err, "failed to save product "+product.ProductID, duplicateSKUMessage)
		}
		if !product.StockQuantity.IsPositive() {
			return nil
		}
		return insertStockMovement(ctx, tx, domain.StockMovement{
			MovementID:   uuid.NewString(),
			CompanyID:    product.CompanyID,
			ProductID:    product.ProductID,
			MovementType: domain.MovementOpening,
			Quantity:     product.StockQuantity,
			BalanceAfter: product.StockQuantity,
			UnitCost:     product.CostPrice,
			RefType:      domain.RefOpening,
			CreatedAt:    product.CreatedAt,
			CreatedBy:    product.CreatedBy,
		})
	})
}

// UpdateProduct changes catalogue fields. Stock is only changed through movements.
func (r *PgxProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	query := `
		UPDATE products
		SET sku = $1, name = $2, category = $3, unit = $4, cost_price = $5, sale_price = $6,
			min_stock = $7, is_active = $8, last_updated_at = $9, last_updated_by = $10
		WHERE company_id = $11 AND product_id = $12;
	`
	result, err := r.Pool.Exec(ctx, query,
		product.SKU, product.Name, product.Category, product.Unit, product.CostPrice, product.SalePrice,
		product.MinStock, product.IsActive, product.LastUpdatedAt, product.LastUpdatedBy,
		product.CompanyID, product.ProductID,
	)
	if err != nil {
		return mapWriteError(err, "failed to update product "+product.ProductID, duplicateSKUMessage)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("الصنف غير موجود")
	}
	return nil
}

func (r *PgxProductRepository) AdjustStock(ctx context.Context, companyID string, change domain.StockChange, ref portsrepo.StockRef, userID string, now time.Time) (*domain.StockMovement, error) {
	var movement domain.StockMovement
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		_, movements, err := r.applyStockChanges(ctx, tx, companyID, []domain.StockChange{change}, ref, userID, now)
		if err != nil {
			return err
		}
		movement = movements[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &movement, nil
}

func (r *PgxProductRepository) ApplyStockChangesInTx(ctx context.Context, tx pgx.Tx, companyID string, changes []domain.StockChange, ref portsrepo.StockRef, userID string, now time.Time) (map[string]domain.Product, error) {
	before, _, err := r.applyStockChanges(ctx, tx, companyID, changes, ref, userID, now)
	return before, err
}

// lockProductsInTx locks the given products in ID order so concurrent documents
// touching overlapping products cannot deadlock.
func lockProductsInTx(ctx context.Context, tx pgx.Tx, companyID string, productIDs []string) (map[string]domain.Product, error) {
	ids := make([]string, 0, len(productIDs))
	seen := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	rows, err := tx.Query(ctx, productSelectQuery+`
		WHERE p.company_id = $1 AND p.product_id = ANY($2)
		ORDER BY p.product_id
		FOR UPDATE;`, companyID, ids)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock products", err)
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	locked := make(map[string]domain.Product, len(products))
	for _, p := range products {
		locked[p.ProductID] = p
	}
	for _, id := range ids {
		if _, ok := locked[id]; !ok {
			return nil, apperrors.NewNotFoundError("الصنف غير موجود")
		}
	}
	return locked, nil
}

func (r *PgxProductRepository) applyStockChanges(ctx context.Context, tx pgx.Tx, companyID string, changes []domain.StockChange, ref portsrepo.StockRef, userID string, now time.Time) (map[string]domain.Product, []domain.StockMovement, error) {
	productIDs := make([]string, len(changes))
	for i, c := range changes {
		productIDs[i] = c.ProductID
	}
	before, err := lockProductsInTx(ctx, tx, companyID, productIDs)
	if err != nil {
		return nil, nil, err
	}

	// Total demand per product is checked first so the error names the full requested quantity.
	net := make(map[string]decimal.Decimal, len(before))
	for _, c := range changes {
		net[c.ProductID] = net[c.ProductID].Add(c.Quantity)
	}
	for _, id := range productIDs {
		p := before[id]
		if p.StockQuantity.Add(net[id]).IsNegative() {
			return nil, nil, apperrors.NewInsufficientStockError(p.Name, p.StockQuantity.String(), net[id].Neg().String())
		}
	}

	var refID *string
	if ref.RefID != "" {
		refID = &ref.RefID
	}
	running := make(map[string]decimal.Decimal, len(before))
	for id, p := range before {
		running[id] = p.StockQuantity
	}
	movements := make([]domain.StockMovement, 0, len(changes))
	batch := &pgx.Batch{}
	for _, c := range changes {
		running[c.ProductID] = running[c.ProductID].Add(c.Quantity)
		m := domain.StockMovement{
			MovementID:   uuid.NewString(),
			CompanyID:    companyID,
			ProductID:    c.ProductID,
			MovementType: c.MovementType,
			Quantity:     c.Quantity,
			BalanceAfter: running[c.ProductID],
			UnitCost:     c.UnitCost,
			RefType:      ref.RefType,
			RefID:        refID,
			Notes:        ref.Notes,
			CreatedAt:    now,
			CreatedBy:    userID,
		}
		queueStockMovement(batch, m)
		movements = append(movements, m)
	}
	for id, qty := range running {
		batch.Queue(`
			UPDATE products SET stock_quantity = $1, last_updated_at = $2, last_updated_by = $3
			WHERE product_id = $4;
		`, qty, now, userID, id)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, nil, mapWriteError(err, "failed to apply stock changes", duplicateSKUMessage)
	}
	return before, movements, nil
}

const insertStockMovementQuery = `
	INSERT INTO stock_movements (
		movement_id, company_id, product_id, movement_type, quantity, balance_after, unit_cost,
		ref_type, ref_id, notes, created_at, created_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`

func stockMovementArgs(m domain.StockMovement) []any {
	return []any{
		m.MovementID, m.CompanyID, m.ProductID, m.MovementType, m.Quantity, m.BalanceAfter, m.UnitCost,
		m.RefType, m.RefID, m.Notes, m.CreatedAt, m.CreatedBy,
	}
}

func queueStockMovement(batch *pgx.Batch, m domain.StockMovement) {
	batch.Queue(insertStockMovementQuery, stockMovementArgs(m)...)
}

func insertStockMovement(ctx context.Context, tx pgx.Tx, m domain.StockMovement) error {
	if _, err := tx.Exec(ctx, insertStockMovementQuery, stockMovementArgs(m)...); err != nil {
		return apperrors.NewAppError(500, "failed to insert stock movement", err)
	}
	return nil
}
