package pgsql

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/ceramica/erp_backend/internal/core/domain"
	portsrepo "github.com/ceramica/erp_backend/internal/core/ports/repositories"
	"github.com/ceramica/erp_backend/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxProvisionalSaleRepository struct {
	BaseRepository
	saleRepo portsrepo.SaleWriterTx
}

func newPgxProvisionalSaleRepository(pool *pgxpool.Pool, saleRepo portsrepo.SaleWriterTx) *PgxProvisionalSaleRepository {
	return &PgxProvisionalSaleRepository{
		BaseRepository: BaseRepository{Pool: pool},
		saleRepo:       saleRepo,
	}
}

var _ portsrepo.ProvisionalSaleRepositoryFacade = (*PgxProvisionalSaleRepository)(nil)

const provisionalSelectQuery = `
SELECT ps.provisional_sale_id, ps.company_id, ps.number, ps.source, ps.store_id, ps.contact_id, ps.customer_name,
	ps.status, ps.subtotal, ps.discount, ps.total, ps.notes, ps.converted_sale_id,
	ps.created_at, ps.created_by, ps.last_updated_at, ps.last_updated_by
FROM provisional_sales ps
`

const provisionalNotFoundMessage = "الفاتورة المبدئية غير موجودة"

func scanProvisionalSale(row pgx.Row) (domain.ProvisionalSale, error) {
	var p domain.ProvisionalSale
	err := row.Scan(
		&p.ProvisionalSaleID, &p.CompanyID, &p.Number, &p.Source, &p.StoreID, &p.ContactID, &p.CustomerName,
		&p.Status, &p.Subtotal, &p.Discount, &p.Total, &p.Notes, &p.ConvertedSaleID,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy,
	)
	return p, err
}

func loadProvisionalLines(ctx context.Context, q querier, provisionalSaleID string) ([]domain.ProvisionalSaleLine, error) {
	rows, err := q.Query(ctx, `
		SELECT line_id, provisional_sale_id, product_id, product_name, sku, quantity, unit_price, line_total
		FROM provisional_sale_lines WHERE provisional_sale_id = $1 ORDER BY line_no;
	`, provisionalSaleID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query provisional sale lines", err)
	}
	defer rows.Close()

	lines := []domain.ProvisionalSaleLine{}
	for rows.Next() {
		var l domain.ProvisionalSaleLine
		if err := rows.Scan(&l.LineID, &l.ProvisionalSaleID, &l.ProductID, &l.ProductName, &l.SKU, &l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan provisional sale line row", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating provisional sale line rows", err)
	}
	return lines, nil
}

func (r *PgxProvisionalSaleRepository) FindProvisionalSaleByID(ctx context.Context, companyID, provisionalSaleID string) (*domain.ProvisionalSale, error) {
	p, err := scanProvisionalSale(r.Pool.QueryRow(ctx, provisionalSelectQuery+`WHERE ps.company_id = $1 AND ps.provisional_sale_id = $2;`, companyID, provisionalSaleID))
	if err != nil {
		return nil, notFoundOr(err, provisionalNotFoundMessage, "failed to find provisional sale "+provisionalSaleID)
	}
	if p.Lines, err = loadProvisionalLines(ctx, r.Pool, provisionalSaleID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PgxProvisionalSaleRepository) ListProvisionalSales(ctx context.Context, companyID string, filter domain.ProvisionalSaleFilter, limit int, nextToken *string) ([]domain.ProvisionalSale, *string, error) {
	query := `WHERE ps.company_id = $1`
	args := []any{companyID}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(` AND ps.status = $%d`, len(args))
	}
	if filter.Source != nil {
		args = append(args, *filter.Source)
		query += fmt.Sprintf(` AND ps.source = $%d`, len(args))
	}
	if filter.StoreID != nil {
		args = append(args, *filter.StoreID)
		query += fmt.Sprintf(` AND ps.store_id = $%d`, len(args))
	}
	if nextToken != nil {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationFailedError("رمز الصفحة غير صالح")
		}
		args = append(args, cursor.CreatedAt, cursor.ID)
		query += fmt.Sprintf(` AND (ps.created_at, ps.provisional_sale_id) < ($%d, $%d)`, len(args)-1, len(args))
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY ps.created_at DESC, ps.provisional_sale_id DESC LIMIT $%d;`, len(args))

	rows, err := r.Pool.Query(ctx, provisionalSelectQuery+query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list provisional sales", err)
	}
	defer rows.Close()

	sales := []domain.ProvisionalSale{}
	for rows.Next() {
		p, err := scanProvisionalSale(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan provisional sale row", err)
		}
		sales = append(sales, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating provisional sale rows", err)
	}

	page, token := pagination.TrimPage(sales, limit, func(p domain.ProvisionalSale) pagination.Cursor {
		return pagination.Cursor{SortTime: p.CreatedAt, CreatedAt: p.CreatedAt, ID: p.ProvisionalSaleID}
	})
	return page, token, nil
}

func (r *PgxProvisionalSaleRepository) CreateProvisionalSale(ctx context.Context, sale *domain.ProvisionalSale) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		number, err := nextDocumentNumberInTx(ctx, tx, sale.CompanyID, domain.DocProvisional)
		if err != nil {
			return err
		}
		sale.Number = number

		_, err = tx.Exec(ctx, `
			INSERT INTO provisional_sales (
				provisional_sale_id, company_id, number, source, store_id, contact_id, customer_name,
				status, subtotal, discount, total, notes, created_at, created_by, last_updated_at, last_updated_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
		`, sale.ProvisionalSaleID, sale.CompanyID, sale.Number, sale.Source, sale.StoreID, sale.ContactID, sale.CustomerName,
			sale.Status, sale.Subtotal, sale.Discount, sale.Total, sale.Notes,
			sale.CreatedAt, sale.CreatedBy, sale.LastUpdatedAt, sale.LastUpdatedBy)
		if err != nil {
			return mapWriteError(err, "failed to insert provisional sale "+sale.ProvisionalSaleID, "رقم الفاتورة مستخدم بالفعل")
		}
		return insertProvisionalLines(ctx, tx, sale)
	})
}

func insertProvisionalLines(ctx context.Context, tx pgx.Tx, sale *domain.ProvisionalSale) error {
	batch := &pgx.Batch{}
	for i := range sale.Lines {
		l := &sale.Lines[i]
		if l.LineID == "" {
			l.LineID = uuid.NewString()
		}
		l.ProvisionalSaleID = sale.ProvisionalSaleID
		batch.Queue(`
			INSERT INTO provisional_sale_lines (line_id, provisional_sale_id, line_no, product_id, product_name, sku, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
		`, l.LineID, l.ProvisionalSaleID, i+1, l.ProductID, l.ProductName, l.SKU, l.Quantity, l.UnitPrice, l.LineTotal)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapWriteError(err, "failed to insert provisional sale lines", "سطر الفاتورة مكرر")
	}
	return nil
}

func (r *PgxProvisionalSaleRepository) UpdateProvisionalSale(ctx context.Context, sale *domain.ProvisionalSale) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		status, err := lockDocumentStatus(ctx, tx, "provisional_sales", "provisional_sale_id", sale.CompanyID, sale.ProvisionalSaleID, provisionalNotFoundMessage)
		if err != nil {
			return err
		}
		if status != domain.StatusDraft && status != domain.StatusPending {
			return apperrors.NewValidationFailedError("لا يمكن تعديل الفاتورة المبدئية في حالتها الحالية")
		}
		_, err = tx.Exec(ctx, `
			UPDATE provisional_sales
			SET contact_id = $1, customer_name = $2, subtotal = $3, discount = $4, total = $5, notes = $6,
				last_updated_at = $7, last_updated_by = $8
			WHERE provisional_sale_id = $9;
		`, sale.ContactID, sale.CustomerName, sale.Subtotal, sale.Discount, sale.Total, sale.Notes,
			sale.LastUpdatedAt, sale.LastUpdatedBy, sale.ProvisionalSaleID)
		if err != nil {
			return mapWriteError(err, "failed to update provisional sale "+sale.ProvisionalSaleID, "رقم الفاتورة مستخدم بالفعل")
		}
		if _, err := tx.Exec(ctx, `DELETE FROM provisional_sale_lines WHERE provisional_sale_id = $1;`, sale.ProvisionalSaleID); err != nil {
			return apperrors.NewAppError(500, "failed to replace provisional sale lines", err)
		}
		sale.Status = status
		return insertProvisionalLines(ctx, tx, sale)
	})
}

func (r *PgxProvisionalSaleRepository) UpdateProvisionalStatus(ctx context.Context, companyID, provisionalSaleID string, expected []domain.DocumentStatus, target domain.DocumentStatus, userID string, now time.Time) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		status, err := lockDocumentStatus(ctx, tx, "provisional_sales", "provisional_sale_id", companyID, provisionalSaleID, provisionalNotFoundMessage)
		if err != nil {
			return err
		}
		if !slices.Contains(expected, status) {
			return apperrors.NewInvalidStatusError(string(status), string(target))
		}
		_, err = tx.Exec(ctx, `
			UPDATE provisional_sales SET status = $1, last_updated_at = $2, last_updated_by = $3
			WHERE provisional_sale_id = $4;
		`, target, now, userID, provisionalSaleID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to update provisional sale status "+provisionalSaleID, err)
		}
		return nil
	})
}

// ConvertToSale inserts the draft sale and links both documents in one transaction.
// The status check under row lock guarantees a single conversion. Lines are reloaded under
// the same lock; a total or customer that changed since the caller read the document
// returns a conflict because the payment was checked against the old values.
func (r *PgxProvisionalSaleRepository) ConvertToSale(ctx context.Context, provisional *domain.ProvisionalSale, sale *domain.Sale, userID string, now time.Time) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		status, err := lockDocumentStatus(ctx, tx, "provisional_sales", "provisional_sale_id", provisional.CompanyID, provisional.ProvisionalSaleID, provisionalNotFoundMessage)
		if err != nil {
			return err
		}
		if !domain.DocProvisional.CanTransition(status, domain.StatusConverted) {
			return apperrors.NewInvalidStatusError(string(status), string(domain.StatusConverted))
		}

		current, err := scanProvisionalSale(tx.QueryRow(ctx, provisionalSelectQuery+`WHERE ps.provisional_sale_id = $1;`, provisional.ProvisionalSaleID))
		if err != nil {
			return notFoundOr(err, provisionalNotFoundMessage, "failed to reload provisional sale "+provisional.ProvisionalSaleID)
		}
		if current.Lines, err = loadProvisionalLines(ctx, tx, provisional.ProvisionalSaleID); err != nil {
			return err
		}
		if !current.Total.Equal(provisional.Total) || !sameOptionalID(current.ContactID, provisional.ContactID) {
			return apperrors.NewConflictError("تم تعديل الفاتورة المبدئية أثناء التحويل، أعد المحاولة")
		}
		sale.Lines = current.SaleLines(sale.SaleID, uuid.NewString)
		sale.Subtotal = current.Subtotal
		sale.Discount = current.Discount
		sale.CustomerName = current.CustomerName
		sale.Notes = current.Notes
		provisional.Lines = current.Lines
		provisional.Subtotal = current.Subtotal
		provisional.Discount = current.Discount

		sale.ProvisionalSaleID = &provisional.ProvisionalSaleID
		if err := r.saleRepo.CreateSaleInTx(ctx, tx, sale); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			UPDATE provisional_sales
			SET status = $1, converted_sale_id = $2, last_updated_at = $3, last_updated_by = $4
			WHERE provisional_sale_id = $5;
		`, domain.StatusConverted, sale.SaleID, now, userID, provisional.ProvisionalSaleID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to mark provisional sale converted "+provisional.ProvisionalSaleID, err)
		}

		provisional.Status = domain.StatusConverted
		provisional.ConvertedSaleID = &sale.SaleID
		provisional.Touch(userID, now)
		return nil
	})
}

func sameOptionalID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
