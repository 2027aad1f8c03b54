package userservice

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/chaiwat-s/ledger-api/internal/domain"
	"github.com/chaiwat-s/ledger-api/pkg/errorspkg"
	"github.com/chaiwat-s/ledger-api/pkg/randompkg"
)

func TestGet(t *testing.T) {
	testUser := domain.User{
		ID:        1,
		Name:      randompkg.Name(),
		Email:     randompkg.Email(),
		Balance:   "0",
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}

	testCases := []struct {
		name          string
		id            int64
		buildStubs    func(repo *MockRepo)
		checkResponse func(res domain.User, err error)
	}{
		{
			name: "NotFound",
			id:   404,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Get(gomock.Any(), gomock.Eq(int64(404))).
					Times(1).
					Return(domain.User{}, domain.ErrUserNotFound)
			},
			checkResponse: func(res domain.User, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrUserNotFound.Error())
			},
		},
		{
			name: "InternalError",
			id:   testUser.ID,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Get(gomock.Any(), gomock.Eq(testUser.ID)).
					Times(1).
					Return(domain.User{}, errorspkg.ErrInternal)
			},
			checkResponse: func(res domain.User, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, errorspkg.ErrInternal.Error())
			},
		},
		{
			name: "OK",
			id:   testUser.ID,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Get(gomock.Any(), gomock.Eq(testUser.ID)).
					Times(1).
					Return(testUser, nil)
			},
			checkResponse: func(res domain.User, err error) {
				require.NoError(t, err)
				require.Equal(t, testUser, res)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			service := New(repo)

			tc.buildStubs(repo)

			tc.checkResponse(service.Get(context.Background(), tc.id))
		})
	}
}
