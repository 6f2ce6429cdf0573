package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/ceramica/erp_backend/internal/core/domain"
	portsrepo "github.com/ceramica/erp_backend/internal/core/ports/repositories"
	"github.com/ceramica/erp_backend/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSaleRepository struct {
	BaseRepository
	productRepo  portsrepo.StockLedgerTx
	treasuryRepo portsrepo.TreasuryLedgerTx
	contactRepo  portsrepo.ContactBalanceTx
}

func newPgxSaleRepository(pool *pgxpool.Pool, productRepo portsrepo.StockLedgerTx, treasuryRepo portsrepo.TreasuryLedgerTx, contactRepo portsrepo.ContactBalanceTx) *PgxSaleRepository {
	return &PgxSaleRepository{
		BaseRepository: BaseRepository{Pool: pool},
		productRepo:    productRepo,
		treasuryRepo:   treasuryRepo,
		contactRepo:    contactRepo,
	}
}

var _ portsrepo.SaleRepositoryFacade = (*PgxSaleRepository)(nil)

const saleSelectQuery = `
SELECT s.sale_id, s.company_id, s.invoice_number, s.contact_id, s.customer_name, s.treasury_id,
	s.provisional_sale_id, s.invoice_date, s.status, s.subtotal, s.discount, s.total, s.paid_amount,
	s.notes, s.approved_at, s.approved_by, s.cancelled_at, s.cancel_reason,
	s.created_at, s.created_by, s.last_updated_at, s.last_updated_by
FROM sales s
`

const saleNotFoundMessage = "فاتورة البيع غير موجودة"

func scanSale(row pgx.Row) (domain.Sale, error) {
	var s domain.Sale
	err := row.Scan(
		&s.SaleID, &s.CompanyID, &s.InvoiceNumber, &s.ContactID, &s.CustomerName, &s.TreasuryID,
		&s.ProvisionalSaleID, &s.InvoiceDate, &s.Status, &s.Subtotal, &s.Discount, &s.Total, &s.PaidAmount,
		&s.Notes, &s.ApprovedAt, &s.ApprovedBy, &s.CancelledAt, &s.CancelReason,
		&s.CreatedAt, &s.CreatedBy, &s.LastUpdatedAt, &s.LastUpdatedBy,
	)
	return s, err
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func loadSaleLines(ctx context.Context, q querier, saleID string) ([]domain.SaleLine, error) {
	rows, err := q.Query(ctx, `
		SELECT line_id, sale_id, product_id, product_name, sku, quantity, unit_price, unit_cost, line_total
		FROM sale_lines WHERE sale_id = $1 ORDER BY line_no;
	`, saleID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query sale lines", err)
	}
	defer rows.Close()

	lines := []domain.SaleLine{}
	for rows.Next() {
		var l domain.SaleLine
		if err := rows.Scan(&l.LineID, &l.SaleID, &l.ProductID, &l.ProductName, &l.SKU, &l.Quantity, &l.UnitPrice, &l.UnitCost, &l.LineTotal); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan sale line row", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating sale line rows", err)
	}
	return lines, nil
}

func (r *PgxSaleRepository) FindSaleByID(ctx context.Context, companyID, saleID string) (*domain.Sale, error) {
	sale, err := scanSale(r.Pool.QueryRow(ctx, saleSelectQuery+`WHERE s.company_id = $1 AND s.sale_id = $2;`, companyID, saleID))
	if err != nil {
		return nil, notFoundOr(err, saleNotFoundMessage, "failed to find sale "+saleID)
	}
	if sale.Lines, err = loadSaleLines(ctx, r.Pool, saleID); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *PgxSaleRepository) ListSales(ctx context.Context, companyID string, filter domain.SaleFilter, limit int, nextToken *string) ([]domain.Sale, *string, error) {
	query := `WHERE s.company_id = $1`
	args := []any{companyID}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(` AND s.status = $%d`, len(args))
	}
	if filter.ContactID != nil {
		args = append(args, *filter.ContactID)
		query += fmt.Sprintf(` AND s.contact_id = $%d`, len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(` AND s.invoice_date >= $%d`, len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(` AND s.invoice_date <= $%d`, len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(` AND (s.invoice_number ILIKE $%d OR s.customer_name ILIKE $%d)`, len(args), len(args))
	}
	if nextToken != nil {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationFailedError("رمز الصفحة غير صالح")
		}
		args = append(args, cursor.SortTime, cursor.CreatedAt, cursor.ID)
		query += fmt.Sprintf(` AND (s.invoice_date, s.created_at, s.sale_id) < ($%d, $%d, $%d)`, len(args)-2, len(args)-1, len(args))
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY s.invoice_date DESC, s.created_at DESC, s.sale_id DESC LIMIT $%d;`, len(args))

	rows, err := r.Pool.Query(ctx, saleSelectQuery+query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list sales", err)
	}
	defer rows.Close()

	sales := []domain.Sale{}
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan sale row", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating sale rows", err)
	}

	page, token := pagination.TrimPage(sales, limit, func(s domain.Sale) pagination.Cursor {
		return pagination.Cursor{SortTime: s.InvoiceDate, CreatedAt: s.CreatedAt, ID: s.SaleID}
	})
	return page, token, nil
}

func (r *PgxSaleRepository) CreateSale(ctx context.Context, sale *domain.Sale) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return r.CreateSaleInTx(ctx, tx, sale)
	})
}

// CreateSaleInTx allocates the next SAL number and inserts the sale with its lines.
func (r *PgxSaleRepository) CreateSaleInTx(ctx context.Context, tx pgx.Tx, sale *domain.Sale) error {
	number, err := nextDocumentNumberInTx(ctx, tx, sale.CompanyID, domain.DocSale)
	if err != nil {
		return err
	}
	sale.InvoiceNumber = number

	query := `
		INSERT INTO sales (
			sale_id, company_id, invoice_number, contact_id, customer_name, treasury_id, provisional_sale_id,
			invoice_date, status, subtotal, discount, total, paid_amount, notes,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err = tx.Exec(ctx, query,
		sale.SaleID, sale.CompanyID, sale.InvoiceNumber, sale.ContactID, sale.CustomerName, sale.TreasuryID, sale.ProvisionalSaleID,
		sale.InvoiceDate, sale.Status, sale.Subtotal, sale.Discount, sale.Total, sale.PaidAmount, sale.Notes,
		sale.CreatedAt, sale.CreatedBy, sale.LastUpdatedAt, sale.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "failed to insert sale "+sale.SaleID, "رقم الفاتورة مستخدم بالفعل")
	}
	return insertSaleLines(ctx, tx, sale)
}

func insertSaleLines(ctx context.Context, tx pgx.Tx, sale *domain.Sale) error {
	batch := &pgx.Batch{}
	for i := range sale.Lines {
		l := &sale.Lines[i]
		if l.LineID == "" {
			l.LineID = uuid.NewString()
		}
		l.SaleID = sale.SaleID
		batch.Queue(`
			INSERT INTO sale_lines (line_id, sale_id, line_no, product_id, product_name, sku, quantity, unit_price, unit_cost, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
		`, l.LineID, l.SaleID, i+1, l.ProductID, l.ProductName, l.SKU, l.Quantity, l.UnitPrice, l.UnitCost, l.LineTotal)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapWriteError(err, "failed to insert sale lines", "سطر الفاتورة مكرر")
	}
	return nil
}

// lockDocumentStatus locks a document header row and returns its status.
func lockDocumentStatus(ctx context.Context, tx pgx.Tx, table, idColumn, companyID, id, notFoundMsg string) (domain.DocumentStatus, error) {
	query := fmt.Sprintf(`SELECT status FROM %s WHERE company_id = $1 AND %s = $2 FOR UPDATE;`, table, idColumn)
	var status domain.DocumentStatus
	if err := tx.QueryRow(ctx, query, companyID, id).Scan(&status); err != nil {
		return "", notFoundOr(err, notFoundMsg, "failed to lock "+table+" row "+id)
	}
	return status, nil
}

func (r *PgxSaleRepository) UpdateDraftSale(ctx context.Context, sale *domain.Sale) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		status, err := lockDocumentStatus(ctx, tx, "sales", "sale_id", sale.CompanyID, sale.SaleID, saleNotFoundMessage)
		if err != nil {
			return err
		}
		if status != domain.StatusDraft {
			return apperrors.NewValidationFailedError("لا يمكن تعديل فاتورة غير مسودة")
		}
		_, err = tx.Exec(ctx, `
			UPDATE sales
			SET contact_id = $1, customer_name = $2, treasury_id = $3, invoice_date = $4, subtotal = $5,
				discount = $6, total = $7, paid_amount = $8, notes = $9, last_updated_at = $10, last_updated_by = $11
			WHERE sale_id = $12;
		`, sale.ContactID, sale.CustomerName, sale.TreasuryID, sale.InvoiceDate, sale.Subtotal,
			sale.Discount, sale.Total, sale.PaidAmount, sale.Notes, sale.LastUpdatedAt, sale.LastUpdatedBy, sale.SaleID)
		if err != nil {
			return mapWriteError(err, "failed to update sale "+sale.SaleID, "رقم الفاتورة مستخدم بالفعل")
		}
		if _, err := tx.Exec(ctx, `DELETE FROM sale_lines WHERE sale_id = $1;`, sale.SaleID); err != nil {
			return apperrors.NewAppError(500, "failed to replace sale lines", err)
		}
		return insertSaleLines(ctx, tx, sale)
	})
}

func (r *PgxSaleRepository) DeleteDraftSale(ctx context.Context, companyID, saleID string) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		status, err := lockDocumentStatus(ctx, tx, "sales", "sale_id", companyID, saleID, saleNotFoundMessage)
		if err != nil {
			return err
		}
		if status != domain.StatusDraft {
			return apperrors.NewValidationFailedError("لا يمكن حذف فاتورة غير مسودة")
		}
		if _, err := tx.Exec(ctx, `DELETE FROM sales WHERE sale_id = $1;`, saleID); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
				return apperrors.NewValidationFailedError("لا يمكن حذف فاتورة ناتجة عن تحويل فاتورة مبدئية، يمكن إلغاؤها بدلاً من ذلك")
			}
			return apperrors.NewAppError(500, "failed to delete sale "+saleID, err)
		}
		return nil
	})
}

// ApproveSale takes stock out, snapshots unit costs, deposits the paid amount and charges
// the remainder to the customer account. On success sale reflects the stored state.
func (r *PgxSaleRepository) ApproveSale(ctx context.Context, sale *domain.Sale, userID string, now time.Time) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		status, err := lockDocumentStatus(ctx, tx, "sales", "sale_id", sale.CompanyID, sale.SaleID, saleNotFoundMessage)
		if err != nil {
			return err
		}
		if !domain.DocSale.CanTransition(status, domain.StatusApproved) {
			return apperrors.NewInvalidStatusError(string(status), string(domain.StatusApproved))
		}
		current, err := scanSale(tx.QueryRow(ctx, saleSelectQuery+`WHERE s.sale_id = $1;`, sale.SaleID))
		if err != nil {
			return apperrors.NewAppError(500, "failed to reload sale "+sale.SaleID, err)
		}
		if current.Lines, err = loadSaleLines(ctx, tx, sale.SaleID); err != nil {
			return err
		}
		if len(current.Lines) == 0 {
			return apperrors.NewValidationFailedError("لا يمكن اعتماد فاتورة بدون أصناف")
		}

		productIDs := make([]string, len(current.Lines))
		for i, l := range current.Lines {
			productIDs[i] = l.ProductID
		}
		products, err := lockProductsInTx(ctx, tx, current.CompanyID, productIDs)
		if err != nil {
			return err
		}
		changes := make([]domain.StockChange, len(current.Lines))
		costBatch := &pgx.Batch{}
		for i := range current.Lines {
			l := &current.Lines[i]
			l.UnitCost = products[l.ProductID].CostPrice
			changes[i] = domain.StockChange{
				ProductID:    l.ProductID,
				Quantity:     l.Quantity.Neg(),
				UnitCost:     l.UnitCost,
				MovementType: domain.MovementSale,
			}
			costBatch.Queue(`UPDATE sale_lines SET unit_cost = $1 WHERE line_id = $2;`, l.UnitCost, l.LineID)
		}
		ref := portsrepo.StockRef{RefType: domain.RefSale, RefID: current.SaleID, Notes: current.InvoiceNumber}
		if _, err := r.productRepo.ApplyStockChangesInTx(ctx, tx, current.CompanyID, changes, ref, userID, now); err != nil {
			return err
		}
		if err := tx.SendBatch(ctx, costBatch).Close(); err != nil {
			return apperrors.NewAppError(500, "failed to snapshot sale line costs", err)
		}

		if current.PaidAmount.IsPositive() {
			if current.TreasuryID == nil {
				return apperrors.NewValidationFailedError("يجب اختيار الخزينة عند وجود مبلغ مدفوع")
			}
			if err := r.treasuryRepo.ApplyTreasuryMovementInTx(ctx, tx, &domain.TreasuryMovement{
				MovementID:   uuid.NewString(),
				TreasuryID:   *current.TreasuryID,
				CompanyID:    current.CompanyID,
				MovementType: domain.TreasuryDeposit,
				Amount:       current.PaidAmount,
				RefType:      domain.RefSale,
				RefID:        &current.SaleID,
				Notes:        current.InvoiceNumber,
				CreatedAt:    now,
				CreatedBy:    userID,
			}); err != nil {
				return err
			}
		}
		if remaining := current.Remaining(); remaining.IsPositive() {
			if current.ContactID == nil {
				return apperrors.NewValidationFailedError("يجب اختيار العميل عند البيع الآجل")
			}
			if _, err := r.contactRepo.AdjustContactBalanceInTx(ctx, tx, current.CompanyID, *current.ContactID, remaining, true, userID); err != nil {
				return err
			}
		}

		_, err = tx.Exec(ctx, `
			UPDATE sales SET status = $1, approved_at = $2, approved_by = $3, last_updated_at = $2, last_updated_by = $3
			WHERE sale_id = $4;
		`, domain.StatusApproved, now, userID, current.SaleID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to mark sale approved "+current.SaleID, err)
		}

		current.Status = domain.StatusApproved
		current.ApprovedAt = &now
		current.ApprovedBy = &userID
		current.Touch(userID, now)
		*sale = current
		return nil
	})
}

// CancelSale cancels a draft directly and reverses stock, cash and customer balance of an
// approved sale. The customer balance may go negative when the customer already paid.
func (r *PgxSaleRepository) CancelSale(ctx context.Context, sale *domain.Sale, reason, userID string, now time.Time) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		status, err := lockDocumentStatus(ctx, tx, "sales", "sale_id", sale.CompanyID, sale.SaleID, saleNotFoundMessage)
		if err != nil {
			return err
		}
		if !domain.DocSale.CanTransition(status, domain.StatusCancelled) {
			return apperrors.NewInvalidStatusError(string(status), string(domain.StatusCancelled))
		}
		current, err := scanSale(tx.QueryRow(ctx, saleSelectQuery+`WHERE s.sale_id = $1;`, sale.SaleID))
		if err != nil {
			return apperrors.NewAppError(500, "failed to reload sale "+sale.SaleID, err)
		}
		if current.Lines, err = loadSaleLines(ctx, tx, sale.SaleID); err != nil {
			return err
		}

		if status == domain.StatusApproved {
			changes := make([]domain.StockChange, len(current.Lines))
			for i, l := range current.Lines {
				changes[i] = domain.StockChange{
					ProductID:    l.ProductID,
					Quantity:     l.Quantity,
					UnitCost:     l.UnitCost,
					MovementType: domain.MovementSaleCancel,
				}
			}
			ref := portsrepo.StockRef{RefType: domain.RefSale, RefID: current.SaleID, Notes: reason}
			if _, err := r.productRepo.ApplyStockChangesInTx(ctx, tx, current.CompanyID, changes, ref, userID, now); err != nil {
				return err
			}
			if current.PaidAmount.IsPositive() && current.TreasuryID != nil {
				if err := r.treasuryRepo.ApplyTreasuryMovementInTx(ctx, tx, &domain.TreasuryMovement{
					MovementID:   uuid.NewString(),
					TreasuryID:   *current.TreasuryID,
					CompanyID:    current.CompanyID,
					MovementType: domain.TreasuryWithdrawal,
					Amount:       current.PaidAmount,
					RefType:      domain.RefSale,
					RefID:        &current.SaleID,
					Notes:        "إلغاء " + current.InvoiceNumber,
					CreatedAt:    now,
					CreatedBy:    userID,
				}); err != nil {
					return err
				}
			}
			if remaining := current.Remaining(); remaining.IsPositive() && current.ContactID != nil {
				if _, err := r.contactRepo.AdjustContactBalanceInTx(ctx, tx, current.CompanyID, *current.ContactID, remaining.Neg(), true, userID); err != nil {
					return err
				}
			}
		}

		_, err = tx.Exec(ctx, `
			UPDATE sales SET status = $1, cancelled_at = $2, cancel_reason = $3, last_updated_at = $2, last_updated_by = $4
			WHERE sale_id = $5;
		`, domain.StatusCancelled, now, reason, userID, current.SaleID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to mark sale cancelled "+current.SaleID, err)
		}

		current.Status = domain.StatusCancelled
		current.CancelledAt = &now
		current.CancelReason = reason
		current.Touch(userID, now)
		*sale = current
		return nil
	})
}
