package service

import (
	"context"
	"errors"
	"testing"

	"creator-payout-ledger/internal/core/domain"
	"creator-payout-ledger/internal/core/ports"
	"creator-payout-ledger/internal/core/ports/mocks"
	"creator-payout-ledger/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestReportingService_GetAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	accountRepo := mocks.NewMockAccountRepository(ctrl)
	svc := NewReportingService(accountRepo, mocks.NewMockBalanceTransactionRepository(ctrl))
	ctx := context.Background()

	accountRepo.EXPECT().GetByID(ctx, "creator-1").Return(&domain.Account{ID: "creator-1", Balance: 420}, nil)
	accountRepo.EXPECT().GetByID(ctx, "ghost").Return(nil, nil)
	accountRepo.EXPECT().GetByID(ctx, "broken").Return(nil, errors.New("connection refused"))

	account, err := svc.GetAccount(ctx, "creator-1")
	require.NoError(t, err)
	assert.Equal(t, int64(420), account.Balance)

	_, err = svc.GetAccount(ctx, "ghost")
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))

	_, err = svc.GetAccount(ctx, "broken")
	assert.True(t, apperror.Is(err, apperror.CodeInternal))
}

func TestReportingService_ListTransactions_NormalizesPaging(t *testing.T) {
	tests := []struct {
		name         string
		page, size   int
		wantPage     int
		wantPageSize int
	}{
		{"defaults", 0, 0, 1, 20},
		{"clamped", 3, 1000, 3, 100},
		{"kept", 2, 50, 2, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			auditRepo := mocks.NewMockBalanceTransactionRepository(ctrl)
			svc := NewReportingService(mocks.NewMockAccountRepository(ctrl), auditRepo)

			auditRepo.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, p ports.BalanceTransactionListParams) ([]domain.BalanceTransaction, int64, error) {
					assert.Equal(t, tt.wantPage, p.Page)
					assert.Equal(t, tt.wantPageSize, p.PageSize)
					return []domain.BalanceTransaction{{UserID: "creator-1"}}, 1, nil
				})

			txns, total, err := svc.ListTransactions(context.Background(), ports.BalanceTransactionListParams{
				UserID: "creator-1", Page: tt.page, PageSize: tt.size,
			})
			require.NoError(t, err)
			assert.Len(t, txns, 1)
			assert.Equal(t, int64(1), total)
		})
	}
}

func TestReportingService_ListTransactions_RequiresAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewReportingService(mocks.NewMockAccountRepository(ctrl), mocks.NewMockBalanceTransactionRepository(ctrl))

	_, _, err := svc.ListTransactions(context.Background(), ports.BalanceTransactionListParams{})
	assert.True(t, apperror.Is(err, apperror.CodeInvalidAmount))
}
