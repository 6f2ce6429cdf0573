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

type PgxTreasuryRepository struct {
	BaseRepository
}

func newPgxTreasuryRepository(pool *pgxpool.Pool) *PgxTreasuryRepository {
	return &PgxTreasuryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TreasuryRepositoryFacade = (*PgxTreasuryRepository)(nil)

const treasurySelectQuery = `
SELECT treasury_id, company_id, name, description, balance, is_active,
	created_at, created_by, last_updated_at, last_updated_by
FROM treasuries
`

const duplicateTreasuryMessage = "يوجد خزينة بنفس الاسم"

func scanTreasury(row pgx.Row) (domain.Treasury, error) {
	var t domain.Treasury
	err := row.Scan(
		&t.TreasuryID, &t.CompanyID, &t.Name, &t.Description, &t.Balance, &t.IsActive,
		&t.CreatedAt, &t.CreatedBy, &t.LastUpdatedAt, &t.LastUpdatedBy,
	)
	return t, err
}

func (r *PgxTreasuryRepository) FindTreasuryByID(ctx context.Context, companyID, treasuryID string) (*domain.Treasury, error) {
	t, err := scanTreasury(r.Pool.QueryRow(ctx, treasurySelectQuery+`WHERE company_id = $1 AND treasury_id = $2;`, companyID, treasuryID))
	if err != nil {
		return nil, notFoundOr(err, "الخزينة غير موجودة", "failed to find treasury "+treasuryID)
	}
	return &t, nil
}

func (r *PgxTreasuryRepository) ListTreasuries(ctx context.Context, companyID string, includeInactive bool) ([]domain.Treasury, error) {
	query := treasurySelectQuery + `WHERE company_id = $1`
	if !includeInactive {
		query += ` AND is_active = true`
	}
	rows, err := r.Pool.Query(ctx, query+` ORDER BY name;`, companyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list treasuries", err)
	}
	defer rows.Close()

	treasuries := []domain.Treasury{}
	for rows.Next() {
		t, err := scanTreasury(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan treasury row", err)
		}
		treasuries = append(treasuries, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating treasury rows", err)
	}
	return treasuries, nil
}

func (r *PgxTreasuryRepository) ListTreasuryMovements(ctx context.Context, companyID, treasuryID string, limit int, nextToken *string) ([]domain.TreasuryMovement, *string, error) {
	query := `
		SELECT movement_id, treasury_id, company_id, movement_type, amount, balance_after,
			ref_type, ref_id, notes, created_at, created_by
		FROM treasury_movements
		WHERE company_id = $1 AND treasury_id = $2`
	args := []any{companyID, treasuryID}
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
		return nil, nil, apperrors.NewAppError(500, "failed to query treasury movements", err)
	}
	defer rows.Close()

	movements := []domain.TreasuryMovement{}
	for rows.Next() {
		var m domain.TreasuryMovement
		if err := rows.Scan(
			&m.MovementID, &m.TreasuryID, &m.CompanyID, &m.MovementType, &m.Amount, &m.BalanceAfter,
			&m.RefType, &m.RefID, &m.Notes, &m.CreatedAt, &m.CreatedBy,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan treasury movement row", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating treasury movement rows", err)
	}

	page, token := pagination.TrimPage(movements, limit, func(m domain.TreasuryMovement) pagination.Cursor {
		return pagination.Cursor{SortTime: m.CreatedAt, CreatedAt: m.CreatedAt, ID: m.MovementID}
	})
	return page, token, nil
}

func (r *PgxTreasuryRepository) CreateTreasury(ctx context.Context, treasury domain.Treasury, openingBalance decimal.Decimal) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO treasuries (
				treasury_id, company_id, name, description, balance, is_active,
				created_at, created_by, last_updated_at, last_updated_by
			)
			VALUES ($1, $2, $3, $4, 0, $5, $6, $7, $8, $9);
		`
		_, err := tx.Exec(ctx, query,
			treasury.TreasuryID, treasury.CompanyID, treasury.Name, treasury.Description, treasury.IsActive,
			treasury.CreatedAt, treasury.CreatedBy, treasury.LastUpdatedAt, treasury.LastUpdatedBy,
		)
		if err != nil {
			return mapWriteError(err, "failed to save treasury "+treasury.TreasuryID, duplicateTreasuryMessage)
		}
		if !openingBalance.IsPositive() {
			return nil
		}
		return r.ApplyTreasuryMovementInTx(ctx, tx, &domain.TreasuryMovement{
			MovementID:   uuid.NewString(),
			TreasuryID:   treasury.TreasuryID,
			CompanyID:    treasury.CompanyID,
			MovementType: domain.TreasuryDeposit,
			Amount:       openingBalance,
			RefType:      domain.RefOpening,
			CreatedAt:    treasury.CreatedAt,
			CreatedBy:    treasury.CreatedBy,
		})
	})
}

func (r *PgxTreasuryRepository) UpdateTreasury(ctx context.Context, treasury domain.Treasury) error {
	query := `
		UPDATE treasuries
		SET name = $1, description = $2, is_active = $3, last_updated_at = $4, last_updated_by = $5
		WHERE company_id = $6 AND treasury_id = $7;
	`
	result, err := r.Pool.Exec(ctx, query,
		treasury.Name, treasury.Description, treasury.IsActive, treasury.LastUpdatedAt, treasury.LastUpdatedBy,
		treasury.CompanyID, treasury.TreasuryID,
	)
	if err != nil {
		return mapWriteError(err, "failed to update treasury "+treasury.TreasuryID, duplicateTreasuryMessage)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("الخزينة غير موجودة")
	}
	return nil
}

func (r *PgxTreasuryRepository) RecordMovement(ctx context.Context, movement *domain.TreasuryMovement) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return r.ApplyTreasuryMovementInTx(ctx, tx, movement)
	})
}

// Transfer locks both treasuries in ID order before moving the amount.
func (r *PgxTreasuryRepository) Transfer(ctx context.Context, out, in *domain.TreasuryMovement, now time.Time) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		first, second := out, in
		if in.TreasuryID < out.TreasuryID {
			first, second = in, out
		}
		if _, err := lockTreasuryInTx(ctx, tx, first.CompanyID, first.TreasuryID); err != nil {
			return err
		}
		if _, err := lockTreasuryInTx(ctx, tx, second.CompanyID, second.TreasuryID); err != nil {
			return err
		}
		out.CreatedAt, in.CreatedAt = now, now
		if err := r.ApplyTreasuryMovementInTx(ctx, tx, out); err != nil {
			return err
		}
		return r.ApplyTreasuryMovementInTx(ctx, tx, in)
	})
}

func lockTreasuryInTx(ctx context.Context, tx pgx.Tx, companyID, treasuryID string) (domain.Treasury, error) {
	t, err := scanTreasury(tx.QueryRow(ctx, treasurySelectQuery+`WHERE company_id = $1 AND treasury_id = $2 FOR UPDATE;`, companyID, treasuryID))
	if err != nil {
		return t, notFoundOr(err, "الخزينة غير موجودة", "failed to lock treasury "+treasuryID)
	}
	return t, nil
}

func (r *PgxTreasuryRepository) ApplyTreasuryMovementInTx(ctx context.Context, tx pgx.Tx, movement *domain.TreasuryMovement) error {
	movement.Amount = accounting.RoundMoney(movement.Amount)
	if !movement.Amount.IsPositive() {
		return apperrors.NewValidationFailedError("المبلغ يجب أن يكون أكبر من صفر")
	}
	t, err := lockTreasuryInTx(ctx, tx, movement.CompanyID, movement.TreasuryID)
	if err != nil {
		return err
	}
	if !t.IsActive {
		return apperrors.NewValidationFailedError(fmt.Sprintf("الخزينة \"%s\" غير مفعلة", t.Name))
	}
	newBalance := t.Balance.Add(movement.MovementType.Signed(movement.Amount))
	if newBalance.IsNegative() {
		return apperrors.NewInsufficientBalanceError(t.Name, t.Balance.StringFixed(2))
	}
	movement.BalanceAfter = newBalance

	batch := &pgx.Batch{}
	batch.Queue(`
		UPDATE treasuries SET balance = $1, last_updated_at = $2, last_updated_by = $3
		WHERE treasury_id = $4;
	`, newBalance, movement.CreatedAt, movement.CreatedBy, movement.TreasuryID)
	batch.Queue(`
		INSERT INTO treasury_movements (
			movement_id, treasury_id, company_id, movement_type, amount, balance_after,
			ref_type, ref_id, notes, created_at, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`, movement.MovementID, movement.TreasuryID, movement.CompanyID, movement.MovementType, movement.Amount,
		movement.BalanceAfter, movement.RefType, movement.RefID, movement.Notes, movement.CreatedAt, movement.CreatedBy)
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapWriteError(err, "failed to apply treasury movement", "الحركة مسجلة مسبقاً")
	}
	return nil
}
