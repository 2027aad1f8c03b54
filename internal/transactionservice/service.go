// Package transactionservice manages business logic layer of ledger transactions.
package transactionservice

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/chaiwat-s/ledger-api/internal/domain"
)

var (
	minAmount = decimal.NewFromInt(1)
	maxAmount = decimal.NewFromInt(100_000)
)

// Repo provides data access layer interface needed by transaction service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transactionservice
type Repo interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.Transaction, error)
	RecordTx(ctx context.Context, arg domain.RecordParams) (domain.LedgerTxResult, error)
	AmendTx(ctx context.Context, arg domain.AmendParams) (domain.LedgerTxResult, error)
	RemoveTx(ctx context.Context, id int64) (domain.User, error)
}

// UserService provides user lookup interface needed by transaction service layer.
type UserService interface {
	Get(ctx context.Context, id int64) (domain.User, error)
}

// Service facilitates transaction service layer logic.
type Service struct {
	repo        Repo
	userService UserService
}

// New return transaction service struct to manage ledger bussines logic.
func New(tr Repo, us UserService) *Service {
	return &Service{
		repo:        tr,
		userService: us,
	}
}

func (s *Service) validAmount(ctx context.Context, amount string) (decimal.Decimal, error) {
	l := zerolog.Ctx(ctx)

	amountDecimal, err := decimal.NewFromString(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return amountDecimal, domain.ErrInvalidAmount
	}

	if amountDecimal.LessThan(minAmount) || amountDecimal.GreaterThan(maxAmount) {
		return amountDecimal, domain.ErrAmountOutOfRange
	}

	return amountDecimal, nil
}

// Record validates the request and then records the transaction, adjusting
// the user's balance atomically.
func (s *Service) Record(ctx context.Context, arg domain.RecordParams) (domain.LedgerTxResult, error) {
	l := zerolog.Ctx(ctx)

	if !arg.Kind.IsValid() {
		return domain.LedgerTxResult{}, domain.ErrInvalidKind
	}

	amount, err := s.validAmount(ctx, arg.Amount)
	if err != nil {
		return domain.LedgerTxResult{}, err
	}

	user, err := s.userService.Get(ctx, arg.UserID)
	if err != nil {
		return domain.LedgerTxResult{}, err
	}

	if arg.Kind == domain.KindWithdraw {
		balance, err := decimal.NewFromString(user.Balance)
		if err != nil {
			l.Error().Err(err).Send()
			return domain.LedgerTxResult{}, err
		}

		if balance.LessThan(amount) {
			return domain.LedgerTxResult{}, domain.ErrInsufficientBalance
		}
	}

	result, err := s.repo.RecordTx(ctx, arg)
	if err != nil {
		return result, err
	}

	return result, nil
}

// History returns all transactions of the given user, newest first.
func (s *Service) History(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	if _, err := s.userService.Get(ctx, userID); err != nil {
		return nil, err
	}

	transactions, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

// Amend validates the request and then overwrites the transaction's kind and
// amount, moving the user's balance atomically. The sufficiency of the
// balance is checked against the intermediate balance obtained by reversing
// the transaction's current effect, so it can only be decided inside the
// repository transaction.
func (s *Service) Amend(ctx context.Context, arg domain.AmendParams) (domain.LedgerTxResult, error) {
	if !arg.Kind.IsValid() {
		return domain.LedgerTxResult{}, domain.ErrInvalidKind
	}

	if _, err := s.validAmount(ctx, arg.Amount); err != nil {
		return domain.LedgerTxResult{}, err
	}

	result, err := s.repo.AmendTx(ctx, arg)
	if err != nil {
		return result, err
	}

	return result, nil
}

// Remove deletes the transaction and reverses its effect on the user's
// balance atomically.
func (s *Service) Remove(ctx context.Context, id int64) (domain.User, error) {
	user, err := s.repo.RemoveTx(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}
