package port

import (
	"context"

	"dashboard_client/internal/domain/entity"
)

// BalanceService exposes normalized balance figures for users and the platform.
type BalanceService interface {
	// GetMyBalance returns the authenticated user's balance, optionally with token holdings.
	GetMyBalance(ctx context.Context, withHoldings bool) (*entity.BalanceView, error)
	GetUserBalance(ctx context.Context, userID string) (*entity.UserSummary, error)
	// GetTotalBalance returns the totals precomputed by the server.
	GetTotalBalance(ctx context.Context) (*entity.AggregateTotals, error)
	GetAllUsersWithBalances(ctx context.Context) ([]entity.UserBalanceRecord, error)
	// AggregateAllUsers fetches every user's balance and folds them client-side.
	AggregateAllUsers(ctx context.Context) (*entity.AggregateTotals, error)
}
