// Package userservice manages business logic layer of users.
package userservice

import (
	"context"

	"github.com/chaiwat-s/ledger-api/internal/domain"
)

// Repo provides data access layer interface needed by user service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package userservice
type Repo interface {
	Get(ctx context.Context, id int64) (domain.User, error)
}

// Service facilitates user service layer logic.
type Service struct {
	repo Repo
}

// New return user service struct to manage user bussines logic.
func New(ur Repo) *Service {
	return &Service{
		repo: ur,
	}
}

// Get returns the user with the given id.
func (s *Service) Get(ctx context.Context, id int64) (domain.User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}
