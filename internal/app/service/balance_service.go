package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"dashboard_client/internal/app/aggregator"
	"dashboard_client/internal/app/normalizer"
	"dashboard_client/internal/app/port"
	"dashboard_client/internal/domain/entity"
	"dashboard_client/internal/infrastructure/metrics"
)

const (
	pathMyBalance       = "/user/balance"
	pathUserBalance     = "/admin/user/balance/"
	pathTotalBalance    = "/admin/user/total-balance"
	pathAllWithBalances = "/admin/user/all-with-balances"
)

// BalanceServiceImpl implements port.BalanceService. Balance reads are not
// retried; a failure is surfaced to the caller on first occurrence.
type BalanceServiceImpl struct {
	api    port.APIDoer
	logger port.Logger
}

// NewBalanceService creates a new instance of BalanceServiceImpl.
func NewBalanceService(api port.APIDoer, l port.Logger) port.BalanceService {
	return &BalanceServiceImpl{api: api, logger: l}
}

func (s *BalanceServiceImpl) GetMyBalance(ctx context.Context, withHoldings bool) (*entity.BalanceView, error) {
	var query url.Values
	if withHoldings {
		query = url.Values{"isHoldings": {"true"}}
	}
	env, err := s.api.Do(ctx, http.MethodGet, pathMyBalance, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch own balance: %w", err)
	}

	b, err := normalizer.NormalizeBalance(env)
	if err != nil {
		countMalformed(err)
		s.logger.Error("Own balance response matched no known shape", "error", err)
		return nil, err
	}
	if !withHoldings {
		b.Holdings = []entity.Holding{}
	}
	if b.Degraded() {
		s.logger.Warn("Own balance is degraded", "reason", b.Error)
	}

	view := aggregator.View(b)
	return &view, nil
}

func (s *BalanceServiceImpl) GetUserBalance(ctx context.Context, userID string) (*entity.UserSummary, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}
	env, err := s.api.Do(ctx, http.MethodGet, pathUserBalance+url.PathEscape(userID), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch balance of user %s: %w", userID, err)
	}

	b, err := normalizer.NormalizeBalance(env)
	if err != nil {
		countMalformed(err)
		s.logger.Error("User balance response matched no known shape", "userID", userID, "error", err)
		return nil, err
	}

	summary := aggregator.AggregateUser(b)
	if summary.Degraded {
		s.logger.Warn("User balance is degraded", "userID", userID, "reason", b.Error)
	}
	return &summary, nil
}

func (s *BalanceServiceImpl) GetTotalBalance(ctx context.Context) (*entity.AggregateTotals, error) {
	env, err := s.api.Do(ctx, http.MethodGet, pathTotalBalance, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch total balance: %w", err)
	}
	totals, err := normalizer.NormalizeTotals(env)
	if err != nil {
		countMalformed(err)
		return nil, err
	}
	return &totals, nil
}

func (s *BalanceServiceImpl) GetAllUsersWithBalances(ctx context.Context) ([]entity.UserBalanceRecord, error) {
	env, err := s.api.Do(ctx, http.MethodGet, pathAllWithBalances, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users with balances: %w", err)
	}
	records, err := normalizer.NormalizeUsersWithBalances(env)
	if err != nil {
		countMalformed(err)
		return nil, err
	}

	for _, rec := range records {
		if rec.Err != nil {
			countMalformed(rec.Err)
			s.logger.Warn("Skipping user with unreadable balance", "userID", rec.User.ID, "error", rec.Err)
		}
	}
	s.logger.Debug("Fetched users with balances", "count", len(records))
	return records, nil
}

func (s *BalanceServiceImpl) AggregateAllUsers(ctx context.Context) (*entity.AggregateTotals, error) {
	records, err := s.GetAllUsersWithBalances(ctx)
	if err != nil {
		return nil, err
	}

	totals := aggregator.AggregateAcrossUsers(records)
	if totals.Skipped > 0 {
		metrics.AggregationSkippedUsers.Add(float64(totals.Skipped))
	}
	s.logger.Info("Aggregated balances across users",
		"users", totals.TotalUsers,
		"skipped", totals.Skipped,
		"degraded", totals.DegradedCount,
		"tokens", len(totals.TokenHoldings))
	return &totals, nil
}
