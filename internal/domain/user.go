// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrUserNotFound indicates that the user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailAlreadyExists indicates that the user with the given email already exists.
	ErrEmailAlreadyExists = errors.New("user email already exists")
	// ErrNegativeBalance indicates that the operation would leave the user's balance negative.
	ErrNegativeBalance = errors.New("operation would leave balance negative")
)

// User holds user data together with the current ledger balance.
type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Balance        string    `json:"balance"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateUserParams is the input data to create a user.
type CreateUserParams struct {
	Name           string
	Email          string
	HashedPassword string
	Balance        string
}
