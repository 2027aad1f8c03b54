package domain

import (
	"errors"
	"time"
)

var (
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrInvalidAmount indicates invalid amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrAmountOutOfRange indicates that the amount is outside the accepted range.
	ErrAmountOutOfRange = errors.New("amount must be between 1 and 100000")
	// ErrInvalidKind indicates an unknown transaction type.
	ErrInvalidKind = errors.New("transaction type must be deposit or withdraw")
	// ErrInsufficientBalance indicates that the user does not have sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Kind is the transaction type.
type Kind string

// Supported transaction types.
const (
	KindDeposit  Kind = "deposit"
	KindWithdraw Kind = "withdraw"
)

// IsValid reports whether k is one of the supported transaction types.
func (k Kind) IsValid() bool {
	return k == KindDeposit || k == KindWithdraw
}

// Transaction holds a single deposit or withdrawal against a user's balance.
type Transaction struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Kind      Kind      `json:"type"`
	Amount    string    `json:"amount"` // must be positive
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecordParams is the input data to record a new transaction.
type RecordParams struct {
	UserID int64
	Kind   Kind
	Amount string
}

// AmendParams is the input data to amend an existing transaction.
type AmendParams struct {
	TransactionID int64
	Kind          Kind
	Amount        string
}

// LedgerTxResult is the result of an atomic ledger mutation.
type LedgerTxResult struct {
	Transaction Transaction `json:"transaction"`
	User        User        `json:"user"`
}
