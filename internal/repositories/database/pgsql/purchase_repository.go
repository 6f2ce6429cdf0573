package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/ceramica/erp_backend/internal/core/domain"
	portsrepo "github.com/ceramica/erp_backend/internal/core/ports/repositories"
	"github.com/ceramica/erp_backend/internal/utils/accounting"
	"github.com/ceramica/erp_backend/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxPurchaseRepository struct {
	BaseRepository
	productRepo  portsrepo.StockLedgerTx
	treasuryRepo portsrepo.TreasuryLedgerTx
	supplierRepo portsrepo.SupplierLedgerTx
}

func newPgxPurchaseRepository(pool *pgxpool.Pool, productRepo portsrepo.StockLedgerTx, treasuryRepo portsrepo.TreasuryLedgerTx, supplierRepo portsrepo.SupplierLedgerTx) *PgxPurchaseRepository {
	return &PgxPurchaseRepository{
		BaseRepository: BaseRepository{Pool: pool},
		productRepo:    productRepo,
		treasuryRepo:   treasuryRepo,
		supplierRepo:   supplierRepo,
	}
}

var _ portsrepo.PurchaseRepositoryFacade = (*PgxPurchaseRepository)(nil)

const purchaseSelectQuery = `
SELECT p.purchase_id, p.company_id, p.invoice_number, p.supplier_id, p.supplier_invoice_ref, p.treasury_id,
	p.invoice_date, p.status, p.subtotal, p.discount, p.total, p.paid_amount,
	p.notes, p.approved_at, p.approved_by, p.cancelled_at, p.cancel_reason,
	p.created_at, p.created_by, p.last_updated_at, p.last_updated_by
FROM purchases p
`

const purchaseNotFoundMessage = "فاتورة الشراء غير موجودة"

func scanPurchase(row pgx.Row) (domain.Purchase, error) {
	var p domain.Purchase
	err := row.Scan(
		&p.PurchaseID, &p.CompanyID, &p.InvoiceNumber, &p.SupplierID, &p.SupplierInvoiceRef, &p.TreasuryID,
		&p.InvoiceDate, &p.Status, &p.Subtotal, &p.Discount, &p.Total, &p.PaidAmount,
		&p.Notes, &p.ApprovedAt, &p.ApprovedBy, &p.CancelledAt, &p.CancelReason,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy,
	)
	return p, err
}

func loadPurchaseLines(ctx context.Context, q querier, purchaseID string) ([]domain.PurchaseLine, error) {
	rows, err := q.Query(ctx, `
		SELECT line_id, purchase_id, product_id, product_name, sku, quantity, unit_cost, line_total
		FROM purchase_lines WHERE purchase_id = $1 ORDER BY line_no;
	`, purchaseID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query purchase lines", err)
	}
	defer rows.Close()

	lines := []domain.PurchaseLine{}
	for rows.Next() {
		var l domain.PurchaseLine
		if err := rows.Scan(&l.LineID, &l.PurchaseID, &l.ProductID, &l.ProductName, &l.SKU, &l.Quantity, &l.UnitCost, &l.LineTotal); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan purchase line row", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating purchase line rows", err)
	}
	return lines, nil
}

func (r *PgxPurchaseRepository) FindPurchaseByID(ctx context.Context, companyID, purchaseID string) (*domain.Purchase, error) {
	purchase, err := scanPurchase(r.Pool.QueryRow(ctx, purchaseSelectQuery+`WHERE p.company_id = $1 AND p.purchase_id = $2;`, companyID, purchaseID))
	if err != nil {
		return nil, notFoundOr(err, purchaseNotFoundMessage, "failed to find purchase "+purchaseID)
	}
	if purchase.Lines, err = loadPurchaseLines(ctx, r.Pool, purchaseID); err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *PgxPurchaseRepository) ListPurchases(ctx context.Context, companyID string, filter domain.PurchaseFilter, limit int, nextToken *string) ([]domain.Purchase, *string, error) {
	query := `WHERE p.company_id = $1`
	args := []any{companyID}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(` AND p.status = $%d`, len(args))
	}
	if filter.SupplierID != nil {
		args = append(args, *filter.SupplierID)
		query += fmt.Sprintf(` AND p.supplier_id = $%d`, len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(` AND p.invoice_date >= $%d`, len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(` AND p.invoice_date <= $%d`, len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(` AND (p.invoice_number ILIKE $%d OR p.supplier_invoice_ref ILIKE $%d)`, len(args), len(args))
	}
	if nextToken != nil {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationFailedError("رمز الصفحة غير صالح")
		}
		args = append(args, cursor.SortTime, cursor.CreatedAt, cursor.ID)
		query += fmt.Sprintf(` AND (p.invoice_date, p.created_at, p.purchase_id) < ($%d, $%d, $%d)`, len(args)-2, len(args)-1, len(args))
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY p.invoice_date DESC, p.created_at DESC, p.purchase_id DESC LIMIT $%d;`, len(args))

	rows, err := r.Pool.Query(ctx, purchaseSelectQuery+query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list purchases", err)
	}
	defer rows.Close()

	purchases := []domain.Purchase{}
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan purchase row", err)
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating purchase rows", err)
	}

	page, token := pagination.TrimPage(purchases, limit, func(p domain.Purchase) pagination.Cursor {
		return pagination.Cursor{SortTime: p.InvoiceDate, CreatedAt: p.CreatedAt, ID: p.PurchaseID}
	})
	return page, token, nil
}

func (r *PgxPurchaseRepository) CreatePurchase(ctx context.Context, purchase *domain.Purchase) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		number, err := nextDocumentNumberInTx(ctx, tx, purchase.CompanyID, domain.DocPurchase)
		if err != nil {
			return err
		}
		purchase.InvoiceNumber = number

		query := `
			INSERT INTO purchases (
				purchase_id, company_id, invoice_number, supplier_id, supplier_invoice_ref, treasury_id,
				invoice_date, status, subtotal, discount, total, paid_amount, notes,
				created_at, created_by, last_updated_at, last_updated_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
		`
		_, err = tx.Exec(ctx, query,
			purchase.PurchaseID, purchase.CompanyID, purchase.InvoiceNumber, purchase.SupplierID, purchase.SupplierInvoiceRef,
			purchase.TreasuryID, purchase.InvoiceDate, purchase.Status, purchase.Subtotal, purchase.Discount, purchase.Total,
			purchase.PaidAmount, purchase.Notes, purchase.CreatedAt, purchase.CreatedBy, purchase.LastUpdatedAt, purchase.LastUpdatedBy,
		)
		if err != nil {
			return mapWriteError(err, "failed to insert purchase "+purchase.PurchaseID, "رقم الفاتورة مستخدم بالفعل")
		}
		return insertPurchaseLines(ctx, tx, purchase)
	})
}

func insertPurchaseLines(ctx context.Context, tx pgx.Tx, purchase *domain.Purchase) error {
	batch := &pgx.Batch{}
	for i := range purchase.Lines {
		l := &purchase.Lines[i]
		if l.LineID == "" {
			l.LineID = uuid.NewString()
		}
		l.PurchaseID = purchase.PurchaseID
		batch.Queue(`
			INSERT INTO purchase_lines (line_id, purchase_id, line_no, product_id, product_name, sku, quantity, unit_cost, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
		`, l.LineID, l.PurchaseID, i+1, l.ProductID, l.ProductName, l.SKU, l.Quantity, l.UnitCost, l.LineTotal)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapWriteError(err, "failed to insert purchase lines", "سطر الفاتورة مكرر")
	}
	return nil
}

func (r *PgxPurchaseRepository) UpdateDraftPurchase(ctx context.Context, purchase *domain.Purchase) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		status, err := lockDocumentStatus(ctx, tx, "purchases", "purchase_id", purchase.CompanyID, purchase.PurchaseID, purchaseNotFoundMessage)
		if err != nil {
			return err
		}
		if status != domain.StatusDraft {
			return apperrors.NewValidationFailedError("لا يمكن تعديل فاتورة غير مسودة")
		}
		_, err = tx.Exec(ctx, `
			UPDATE purchases
			SET supplier_id = $1, supplier_invoice_ref = $2, treasury_id = $3, invoice_date = $4, subtotal = $5,
				discount = $6, total = $7, paid_amount = $8, notes = $9, last_updated_at = $10, last_updated_by = $11
			WHERE purchase_id = $12;
		`, purchase.SupplierID, purchase.SupplierInvoiceRef, purchase.TreasuryID, purchase.InvoiceDate, purchase.Subtotal,
			purchase.Discount, purchase.Total, purchase.PaidAmount, purchase.Notes, purchase.LastUpdatedAt, purchase.LastUpdatedBy,
			purchase.PurchaseID)
		if err != nil {
			return mapWriteError(err, "failed to update purchase "+purchase.PurchaseID, "رقم الفاتورة مستخدم بالفعل")
		}
		if _, err := tx.Exec(ctx, `DELETE FROM purchase_lines WHERE purchase_id = $1;`, purchase.PurchaseID); err != nil {
			return apperrors.NewAppError(500, "failed to replace purchase lines", err)
		}
		return insertPurchaseLines(ctx, tx, purchase)
	})
}

func (r *PgxPurchaseRepository) DeleteDraftPurchase(ctx context.Context, companyID, purchaseID string) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		status, err := lockDocumentStatus(ctx, tx, "purchases", "purchase_id", companyID, purchaseID, purchaseNotFoundMessage)
		if err != nil {
			return err
		}
		if status != domain.StatusDraft {
			return apperrors.NewValidationFailedError("لا يمكن حذف فاتورة غير مسودة")
		}
		if _, err := tx.Exec(ctx, `DELETE FROM purchases WHERE purchase_id = $1;`, purchaseID); err != nil {
			return apperrors.NewAppError(500, "failed to delete purchase "+purchaseID, err)
		}
		return nil
	})
}

func (r *PgxPurchaseRepository) reloadInTx(ctx context.Context, tx pgx.Tx, purchaseID string) (domain.Purchase, error) {
	current, err := scanPurchase(tx.QueryRow(ctx, purchaseSelectQuery+`WHERE p.purchase_id = $1;`, purchaseID))
	if err != nil {
		return current, apperrors.NewAppError(500, "failed to reload purchase "+purchaseID, err)
	}
	current.Lines, err = loadPurchaseLines(ctx, tx, purchaseID)
	return current, err
}

func (r *PgxPurchaseRepository) postSupplier(ctx context.Context, tx pgx.Tx, p domain.Purchase, entryType domain.EntryType, amount decimal.Decimal, description, userID string, now time.Time) error {
	if !amount.IsPositive() {
		return nil
	}
	return r.supplierRepo.PostSupplierEntryInTx(ctx, tx, &domain.SupplierAccountEntry{
		EntryID:     uuid.NewString(),
		SupplierID:  p.SupplierID,
		CompanyID:   p.CompanyID,
		EntryType:   entryType,
		Amount:      amount,
		Description: description,
		RefType:     domain.RefPurchase,
		RefID:       &p.PurchaseID,
		CreatedAt:   now,
		CreatedBy:   userID,
	})
}

func (r *PgxPurchaseRepository) moveCash(ctx context.Context, tx pgx.Tx, p domain.Purchase, movementType domain.TreasuryMovementType, notes, userID string, now time.Time) error {
	if !p.PaidAmount.IsPositive() {
		return nil
	}
	if p.TreasuryID == nil {
		return apperrors.NewValidationFailedError("يجب اختيار الخزينة عند وجود مبلغ مدفوع")
	}
	return r.treasuryRepo.ApplyTreasuryMovementInTx(ctx, tx, &domain.TreasuryMovement{
		MovementID:   uuid.NewString(),
		TreasuryID:   *p.TreasuryID,
		CompanyID:    p.CompanyID,
		MovementType: movementType,
		Amount:       p.PaidAmount,
		RefType:      domain.RefPurchase,
		RefID:        &p.PurchaseID,
		Notes:        notes,
		CreatedAt:    now,
		CreatedBy:    userID,
	})
}

// ApprovePurchase receives the goods, re-averages product costs line by line, credits the
// supplier with the total, debits the paid part and withdraws it from the treasury.
func (r *PgxPurchaseRepository) ApprovePurchase(ctx context.Context, purchase *domain.Purchase, userID string, now time.Time) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		status, err := lockDocumentStatus(ctx, tx, "purchases", "purchase_id", purchase.CompanyID, purchase.PurchaseID, purchaseNotFoundMessage)
		if err != nil {
			return err
		}
		if !domain.DocPurchase.CanTransition(status, domain.StatusApproved) {
			return apperrors.NewInvalidStatusError(string(status), string(domain.StatusApproved))
		}
		current, err := r.reloadInTx(ctx, tx, purchase.PurchaseID)
		if err != nil {
			return err
		}
		if len(current.Lines) == 0 {
			return apperrors.NewValidationFailedError("لا يمكن اعتماد فاتورة بدون أصناف")
		}

		changes := make([]domain.StockChange, len(current.Lines))
		for i, l := range current.Lines {
			changes[i] = domain.StockChange{
				ProductID:    l.ProductID,
				Quantity:     l.Quantity,
				UnitCost:     l.UnitCost,
				MovementType: domain.MovementPurchase,
			}
		}
		ref := portsrepo.StockRef{RefType: domain.RefPurchase, RefID: current.PurchaseID, Notes: current.InvoiceNumber}
		before, err := r.productRepo.ApplyStockChangesInTx(ctx, tx, current.CompanyID, changes, ref, userID, now)
		if err != nil {
			return err
		}

		type costState struct{ stock, cost decimal.Decimal }
		states := make(map[string]costState, len(before))
		for id, p := range before {
			states[id] = costState{stock: p.StockQuantity, cost: p.CostPrice}
		}
		for _, l := range current.Lines {
			s := states[l.ProductID]
			states[l.ProductID] = costState{
				stock: s.stock.Add(l.Quantity),
				cost:  accounting.WeightedAverageCost(s.stock, s.cost, l.Quantity, l.UnitCost),
			}
		}
		costBatch := &pgx.Batch{}
		for id, s := range states {
			costBatch.Queue(`UPDATE products SET cost_price = $1 WHERE product_id = $2;`, s.cost, id)
		}
		if err := tx.SendBatch(ctx, costBatch).Close(); err != nil {
			return apperrors.NewAppError(500, "failed to update product costs", err)
		}

		if err := r.postSupplier(ctx, tx, current, domain.Credit, current.Total, "فاتورة شراء "+current.InvoiceNumber, userID, now); err != nil {
			return err
		}
		if err := r.postSupplier(ctx, tx, current, domain.Debit, current.PaidAmount, "سداد فاتورة شراء "+current.InvoiceNumber, userID, now); err != nil {
			return err
		}
		if err := r.moveCash(ctx, tx, current, domain.TreasuryWithdrawal, current.InvoiceNumber, userID, now); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE purchases SET status = $1, approved_at = $2, approved_by = $3, last_updated_at = $2, last_updated_by = $3
			WHERE purchase_id = $4;
		`, domain.StatusApproved, now, userID, current.PurchaseID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to mark purchase approved "+current.PurchaseID, err)
		}

		current.Status = domain.StatusApproved
		current.ApprovedAt = &now
		current.ApprovedBy = &userID
		current.Touch(userID, now)
		*purchase = current
		return nil
	})
}

// CancelPurchase returns the goods and reverses supplier and treasury postings.
// Product cost prices keep their averaged value.
func (r *PgxPurchaseRepository) CancelPurchase(ctx context.Context, purchase *domain.Purchase, reason, userID string, now time.Time) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		status, err := lockDocumentStatus(ctx, tx, "purchases", "purchase_id", purchase.CompanyID, purchase.PurchaseID, purchaseNotFoundMessage)
		if err != nil {
			return err
		}
		if !domain.DocPurchase.CanTransition(status, domain.StatusCancelled) {
			return apperrors.NewInvalidStatusError(string(status), string(domain.StatusCancelled))
		}
		current, err := r.reloadInTx(ctx, tx, purchase.PurchaseID)
		if err != nil {
			return err
		}

		if status == domain.StatusApproved {
			changes := make([]domain.StockChange, len(current.Lines))
			for i, l := range current.Lines {
				changes[i] = domain.StockChange{
					ProductID:    l.ProductID,
					Quantity:     l.Quantity.Neg(),
					UnitCost:     l.UnitCost,
					MovementType: domain.MovementPurchaseCancel,
				}
			}
			ref := portsrepo.StockRef{RefType: domain.RefPurchase, RefID: current.PurchaseID, Notes: reason}
			if _, err := r.productRepo.ApplyStockChangesInTx(ctx, tx, current.CompanyID, changes, ref, userID, now); err != nil {
				return err
			}
			if err := r.postSupplier(ctx, tx, current, domain.Debit, current.Total, "إلغاء فاتورة شراء "+current.InvoiceNumber, userID, now); err != nil {
				return err
			}
			if err := r.postSupplier(ctx, tx, current, domain.Credit, current.PaidAmount, "رد سداد فاتورة شراء "+current.InvoiceNumber, userID, now); err != nil {
				return err
			}
			if err := r.moveCash(ctx, tx, current, domain.TreasuryDeposit, "إلغاء "+current.InvoiceNumber, userID, now); err != nil {
				return err
			}
		}

		_, err = tx.Exec(ctx, `
			UPDATE purchases SET status = $1, cancelled_at = $2, cancel_reason = $3, last_updated_at = $2, last_updated_by = $4
			WHERE purchase_id = $5;
		`, domain.StatusCancelled, now, reason, userID, current.PurchaseID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to mark purchase cancelled "+current.PurchaseID, err)
		}

		current.Status = domain.StatusCancelled
		current.CancelledAt = &now
		current.CancelReason = reason
		current.Touch(userID, now)
		*purchase = current
		return nil
	})
}
