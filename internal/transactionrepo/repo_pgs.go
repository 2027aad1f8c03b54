// Package transactionrepo manages repository layer of transactions.
package transactionrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/chaiwat-s/ledger-api/internal/domain"
	"github.com/chaiwat-s/ledger-api/internal/userrepo"
	"github.com/chaiwat-s/ledger-api/pkg/dbpkg"
	"github.com/chaiwat-s/ledger-api/pkg/errorspkg"
)

// RepoPGS facilitates transaction repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns transaction RepoPGS scoped to an open db transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns transaction RepoPGS with connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const createQuery = `
INSERT INTO
    transactions (user_id, kind, amount)
VALUES
    ($1, $2, $3)
RETURNING id, user_id, kind, amount, created_at, updated_at
`

// Create creates the transaction and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.RecordParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, arg.UserID, arg.Kind, arg.Amount)

	var t domain.Transaction
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Kind,
		&t.Amount,
		&t.CreatedAt,
		&t.UpdatedAt,
	)

	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx context.Context, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "transactions_user_id_fkey":
				return t, domain.ErrUserNotFound
			case "transactions_amount_check":
				return t, domain.ErrAmountOutOfRange
			case "transactions_kind_check":
				return t, domain.ErrInvalidKind
			}
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const getQuery = `
SELECT
	id, user_id, kind, amount, created_at, updated_at
FROM transactions
WHERE id = $1
`

// Get returns the transaction with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Kind,
		&t.Amount,
		&t.CreatedAt,
		&t.UpdatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const listByUserQuery = `
SELECT
	id, user_id, kind, amount, created_at, updated_at
FROM transactions
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
`

// ListByUser returns all transactions of the given user, newest first.
func (r *RepoPGS) ListByUser(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listByUserQuery, userID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Kind,
			&t.Amount,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const updateQuery = `
UPDATE transactions
SET kind = $1, amount = $2, updated_at = now()
WHERE id = $3
RETURNING id, user_id, kind, amount, created_at, updated_at
`

// Update overwrites the transaction's kind and amount and returns the changed transaction.
func (r *RepoPGS) Update(ctx context.Context, id int64, kind domain.Kind, amount string) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, updateQuery, kind, amount, id)

	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Kind,
		&t.Amount,
		&t.CreatedAt,
		&t.UpdatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "transactions_amount_check":
				return t, domain.ErrAmountOutOfRange
			case "transactions_kind_check":
				return t, domain.ErrInvalidKind
			}
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const deleteQuery = `
DELETE FROM transactions
WHERE id = $1
`

// Delete removes the transaction with the given id.
func (r *RepoPGS) Delete(ctx context.Context, id int64) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, deleteQuery, id)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if n == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// RecordTx inserts a transaction and adjusts the owning user's balance
// within a single db transaction.
//
// The user row is locked for the duration of the read-balance to
// write-balance sequence so concurrent operations on the same user
// serialize instead of computing stale balances.
func (r *RepoPGS) RecordTx(ctx context.Context, arg domain.RecordParams) (domain.LedgerTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.LedgerTxResult

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	txRepo := NewTxRepoPGS(tx)
	userRepo := userrepo.NewRepoPGS(tx)

	user, err := userRepo.GetForUpdate(ctx, arg.UserID)
	if err != nil {
		return result, err
	}

	balance, err := decimal.NewFromString(user.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	amount, err := decimal.NewFromString(arg.Amount)
	if err != nil {
		l.Error().Err(err).Send()
		return result, domain.ErrInvalidAmount
	}

	delta := amount
	if arg.Kind == domain.KindWithdraw {
		if balance.LessThan(amount) {
			return result, domain.ErrInsufficientBalance
		}

		delta = amount.Neg()
	}

	result.Transaction, err = txRepo.Create(ctx, arg)
	if err != nil {
		return result, err
	}

	result.User, err = userRepo.AddBalance(ctx, delta.String(), arg.UserID)
	if err != nil {
		return result, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	return result, nil
}

// AmendTx overwrites a transaction's kind and amount and moves the owning
// user's balance accordingly within a single db transaction.
//
// The old effect is reversed first so that correcting a withdrawal's amount
// downwards is not rejected against a balance still carrying the old effect.
// Only the reapplication of the new effect is validated.
func (r *RepoPGS) AmendTx(ctx context.Context, arg domain.AmendParams) (domain.LedgerTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.LedgerTxResult

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	txRepo := NewTxRepoPGS(tx)
	userRepo := userrepo.NewRepoPGS(tx)

	transaction, err := txRepo.Get(ctx, arg.TransactionID)
	if err != nil {
		return result, err
	}

	user, err := userRepo.GetForUpdate(ctx, transaction.UserID)
	if err != nil {
		return result, err
	}

	balance, err := decimal.NewFromString(user.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	oldAmount, err := decimal.NewFromString(transaction.Amount)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	newAmount, err := decimal.NewFromString(arg.Amount)
	if err != nil {
		l.Error().Err(err).Send()
		return result, domain.ErrInvalidAmount
	}

	// Balance as if the transaction never happened.
	intermediate := balance.Add(oldAmount)
	if transaction.Kind == domain.KindDeposit {
		intermediate = balance.Sub(oldAmount)
	}

	var newBalance decimal.Decimal

	if arg.Kind == domain.KindDeposit {
		newBalance = intermediate.Add(newAmount)
	} else {
		if intermediate.LessThan(newAmount) {
			return result, domain.ErrInsufficientBalance
		}

		newBalance = intermediate.Sub(newAmount)
	}

	result.Transaction, err = txRepo.Update(ctx, arg.TransactionID, arg.Kind, arg.Amount)
	if err != nil {
		return result, err
	}

	result.User, err = userRepo.SetBalance(ctx, newBalance.String(), user.ID)
	if err != nil {
		return result, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	return result, nil
}

// RemoveTx deletes a transaction and reverses its effect on the owning
// user's balance within a single db transaction.
func (r *RepoPGS) RemoveTx(ctx context.Context, id int64) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	var user domain.User

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return user, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	txRepo := NewTxRepoPGS(tx)
	userRepo := userrepo.NewRepoPGS(tx)

	transaction, err := txRepo.Get(ctx, id)
	if err != nil {
		return user, err
	}

	owner, err := userRepo.GetForUpdate(ctx, transaction.UserID)
	if err != nil {
		return user, err
	}

	balance, err := decimal.NewFromString(owner.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		return user, errorspkg.ErrInternal
	}

	amount, err := decimal.NewFromString(transaction.Amount)
	if err != nil {
		l.Error().Err(err).Send()
		return user, errorspkg.ErrInternal
	}

	newBalance := balance.Add(amount)
	if transaction.Kind == domain.KindDeposit {
		newBalance = balance.Sub(amount)
	}

	if newBalance.IsNegative() {
		return user, domain.ErrNegativeBalance
	}

	if err := txRepo.Delete(ctx, id); err != nil {
		return user, err
	}

	user, err = userRepo.SetBalance(ctx, newBalance.String(), owner.ID)
	if err != nil {
		return user, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.User{}, errorspkg.ErrInternal
	}

	return user, nil
}
