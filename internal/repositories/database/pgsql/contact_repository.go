package pgsql

import (
	"context"
	"fmt"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/ceramica/erp_backend/internal/core/domain"
	portsrepo "github.com/ceramica/erp_backend/internal/core/ports/repositories"
	"github.com/ceramica/erp_backend/internal/utils/accounting"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxContactRepository struct {
	BaseRepository
	treasuryRepo portsrepo.TreasuryLedgerTx
}

func newPgxContactRepository(pool *pgxpool.Pool, treasuryRepo portsrepo.TreasuryLedgerTx) *PgxContactRepository {
	return &PgxContactRepository{
		BaseRepository: BaseRepository{Pool: pool},
		treasuryRepo:   treasuryRepo,
	}
}

var _ portsrepo.ContactRepositoryFacade = (*PgxContactRepository)(nil)

const contactSelectQuery = `
SELECT contact_id, company_id, name, phone, address, contact_type, balance, notes, is_active,
	created_at, created_by, last_updated_at, last_updated_by
FROM financial_contacts
`

func scanContact(row pgx.Row) (domain.FinancialContact, error) {
	var c domain.FinancialContact
	err := row.Scan(
		&c.ContactID, &c.CompanyID, &c.Name, &c.Phone, &c.Address, &c.ContactType, &c.Balance, &c.Notes, &c.IsActive,
		&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy,
	)
	return c, err
}

func (r *PgxContactRepository) FindContactByID(ctx context.Context, companyID, contactID string) (*domain.FinancialContact, error) {
	c, err := scanContact(r.Pool.QueryRow(ctx, contactSelectQuery+`WHERE company_id = $1 AND contact_id = $2;`, companyID, contactID))
	if err != nil {
		return nil, notFoundOr(err, "العميل غير موجود", "failed to find contact "+contactID)
	}
	return &c, nil
}

func (r *PgxContactRepository) ListContacts(ctx context.Context, companyID string, filter domain.ContactFilter, limit, offset int) ([]domain.FinancialContact, error) {
	query := contactSelectQuery + `WHERE company_id = $1`
	args := []any{companyID}
	if !filter.IncludeInactive {
		query += ` AND is_active = true`
	}
	if filter.ContactType != nil {
		args = append(args, *filter.ContactType)
		query += fmt.Sprintf(` AND contact_type = $%d`, len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(` AND (name ILIKE $%d OR phone ILIKE $%d)`, len(args), len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY name, contact_id LIMIT $%d OFFSET $%d;`, len(args)-1, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list contacts", err)
	}
	defer rows.Close()

	contacts := []domain.FinancialContact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan contact row", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating contact rows", err)
	}
	return contacts, nil
}

func (r *PgxContactRepository) CreateContact(ctx context.Context, contact domain.FinancialContact) error {
	query := `
		INSERT INTO financial_contacts (
			contact_id, company_id, name, phone, address, contact_type, balance, notes, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		contact.ContactID, contact.CompanyID, contact.Name, contact.Phone, contact.Address, contact.ContactType,
		contact.Balance, contact.Notes, contact.IsActive,
		contact.CreatedAt, contact.CreatedBy, contact.LastUpdatedAt, contact.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "failed to save contact "+contact.ContactID, "العميل موجود مسبقاً")
	}
	return nil
}

func (r *PgxContactRepository) UpdateContact(ctx context.Context, contact domain.FinancialContact) error {
	query := `
		UPDATE financial_contacts
		SET name = $1, phone = $2, address = $3, contact_type = $4, notes = $5, is_active = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE company_id = $9 AND contact_id = $10;
	`
	result, err := r.Pool.Exec(ctx, query,
		contact.Name, contact.Phone, contact.Address, contact.ContactType, contact.Notes, contact.IsActive,
		contact.LastUpdatedAt, contact.LastUpdatedBy, contact.CompanyID, contact.ContactID,
	)
	if err != nil {
		return mapWriteError(err, "failed to update contact "+contact.ContactID, "العميل موجود مسبقاً")
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("العميل غير موجود")
	}
	return nil
}

// RecordCollection lowers the contact balance by the deposit amount and deposits it into the treasury.
// A collection larger than the outstanding balance is rejected.
func (r *PgxContactRepository) RecordCollection(ctx context.Context, companyID, contactID string, deposit *domain.TreasuryMovement) error {
	deposit.Amount = accounting.RoundMoney(deposit.Amount)
	if !deposit.Amount.IsPositive() {
		return apperrors.NewValidationFailedError("المبلغ يجب أن يكون أكبر من صفر")
	}
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := r.AdjustContactBalanceInTx(ctx, tx, companyID, contactID, deposit.Amount.Neg(), false, deposit.CreatedBy); err != nil {
			return err
		}
		return r.treasuryRepo.ApplyTreasuryMovementInTx(ctx, tx, deposit)
	})
}

func (r *PgxContactRepository) AdjustContactBalanceInTx(ctx context.Context, tx pgx.Tx, companyID, contactID string, delta decimal.Decimal, allowNegative bool, userID string) (decimal.Decimal, error) {
	c, err := scanContact(tx.QueryRow(ctx, contactSelectQuery+`WHERE company_id = $1 AND contact_id = $2 FOR UPDATE;`, companyID, contactID))
	if err != nil {
		return decimal.Zero, notFoundOr(err, "العميل غير موجود", "failed to lock contact "+contactID)
	}
	newBalance := c.Balance.Add(delta)
	if newBalance.IsNegative() && !allowNegative {
		return decimal.Zero, apperrors.NewInsufficientBalanceError(c.Name, c.Balance.StringFixed(2))
	}
	_, err = tx.Exec(ctx, `
		UPDATE financial_contacts SET balance = $1, last_updated_at = NOW(), last_updated_by = $2
		WHERE contact_id = $3;
	`, newBalance, userID, contactID)
	if err != nil {
		return decimal.Zero, mapWriteError(err, "failed to update contact balance "+contactID, "العميل مسجل مسبقاً")
	}
	return newBalance, nil
}
