// Package test provides shared test helpers.
package test

import (
	"context"
	"testing"

	"github.com/chaiwat-s/ledger-api/internal/domain"
	"github.com/chaiwat-s/ledger-api/internal/userrepo"
	"github.com/chaiwat-s/ledger-api/pkg/dbpkg"
	"github.com/chaiwat-s/ledger-api/pkg/passpkg"
	"github.com/chaiwat-s/ledger-api/pkg/randompkg"
)

// SeedUser creates a random user with the given starting balance.
func SeedUser(t *testing.T, db dbpkg.SQLInterface, balance string) domain.User {
	t.Helper()

	hashedPassword, err := passpkg.Hash(randompkg.String(32))
	if err != nil {
		t.Fatalf("passpkg.Hash(randompkg.String(32)) returned error: %v", err)
	}

	arg := domain.CreateUserParams{
		Name:           randompkg.Name(),
		Email:          randompkg.Email(),
		HashedPassword: hashedPassword,
		Balance:        balance,
	}

	userRepo := userrepo.NewRepoPGS(db)
	user, err := userRepo.Create(context.Background(), arg)

	if err != nil {
		t.Fatalf("userRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return user
}
