package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/ceramica/erp_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// inTx runs fn in a transaction and commits when fn succeeds.
func (r *BaseRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := fn(tx); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// mapWriteError turns constraint violations into client errors with Arabic messages.
// duplicateMsg is used for unique violations; anything else becomes a 500 with op as context.
func mapWriteError(err error, op, duplicateMsg string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperrors.NewConflictError(duplicateMsg)
		case pgForeignKeyViolation:
			return apperrors.NewValidationFailedError("أحد العناصر المرتبطة غير موجود")
		case pgCheckViolation:
			return apperrors.NewValidationFailedError("القيم المدخلة تخالف قيود البيانات")
		}
	}
	return apperrors.NewAppError(500, op, err)
}

// nextDocumentNumberInTx increments the company sequence for kind and returns the formatted number.
// The row lock taken by the upsert serialises concurrent allocations until tx ends.
func nextDocumentNumberInTx(ctx context.Context, tx pgx.Tx, companyID string, kind domain.DocumentKind) (string, error) {
	query := `
		INSERT INTO document_sequences (company_id, doc_type, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, doc_type) DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value;
	`
	var value int64
	if err := tx.QueryRow(ctx, query, companyID, kind).Scan(&value); err != nil {
		return "", apperrors.NewAppError(500, fmt.Sprintf("failed to allocate %s number for company %s", kind, companyID), err)
	}
	return domain.FormatDocumentNumber(kind, value), nil
}

// notFoundOr maps pgx.ErrNoRows to a 404 with notFoundMsg and anything else to a 500.
func notFoundOr(err error, notFoundMsg, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError(notFoundMsg)
	}
	return apperrors.NewAppError(500, op, err)
}
