package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"dashboard_client/internal/app/normalizer"
	"dashboard_client/internal/app/port"
	"dashboard_client/internal/app/resilience"
	"dashboard_client/internal/domain/entity"

	"golang.org/x/sync/errgroup"
)

const (
	pathUsers        = "/admin/user"
	pathTokens       = "/token"
	pathTransactions = "/admin/transaction"
	pathCategories   = "/category"
)

// DashboardOptions configures DashboardServiceImpl.
type DashboardOptions struct {
	// Policy applies to market-data reads only.
	Policy resilience.Policy
	// FailFast aborts LoadOverview on the first failed resource instead of
	// returning partial results.
	FailFast bool
}

// DashboardServiceImpl implements port.DashboardService.
type DashboardServiceImpl struct {
	api      port.APIDoer
	logger   port.Logger
	policy   resilience.Policy
	failFast bool
}

// NewDashboardService creates a new instance of DashboardServiceImpl.
func NewDashboardService(api port.APIDoer, l port.Logger, opts DashboardOptions) port.DashboardService {
	if opts.Policy == (resilience.Policy{}) {
		opts.Policy = resilience.DefaultPolicy()
	}
	return &DashboardServiceImpl{api: api, logger: l, policy: opts.Policy, failFast: opts.FailFast}
}

type listSource struct {
	resource  string
	path      string
	resilient bool
	dst       *entity.CanonicalList
}

// LoadOverview fetches the users, tokens, transactions and categories lists
// concurrently. A failed resource leaves an empty list and an entry in
// Overview.Errors; the call only fails when every resource failed, or on the
// first failure with FailFast.
func (s *DashboardServiceImpl) LoadOverview(ctx context.Context) (*entity.Overview, error) {
	overview := &entity.Overview{
		Users:        emptyList(),
		Tokens:       emptyList(),
		Transactions: emptyList(),
		Categories:   emptyList(),
	}
	sources := []listSource{
		{resource: entity.ResourceUsers, path: pathUsers, dst: &overview.Users},
		{resource: entity.ResourceTokens, path: pathTokens, resilient: true, dst: &overview.Tokens},
		{resource: entity.ResourceTransactions, path: pathTransactions, dst: &overview.Transactions},
		{resource: entity.ResourceCategories, path: pathCategories, dst: &overview.Categories},
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		g.Go(func() error {
			fetchCtx := ctx
			if s.failFast {
				fetchCtx = gctx
			}
			list, err := s.fetchList(fetchCtx, src)
			if err != nil {
				s.logger.Warn("Dashboard resource failed to load", "resource", src.resource, "error", err)
				mu.Lock()
				defer mu.Unlock()
				if overview.Errors == nil {
					overview.Errors = make(map[string]string)
				}
				overview.Errors[src.resource] = err.Error()
				errs = append(errs, err)
				if s.failFast {
					return err
				}
				return nil
			}
			// Each goroutine owns its destination field.
			*src.dst = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(errs) == len(sources) {
		return nil, fmt.Errorf("failed to load dashboard overview: %w", errors.Join(errs...))
	}

	s.logger.Debug("Dashboard overview loaded",
		"users", overview.Users.Total,
		"tokens", overview.Tokens.Total,
		"transactions", overview.Transactions.Total,
		"categories", overview.Categories.Total,
		"failed", len(errs))
	return overview, nil
}

func (s *DashboardServiceImpl) ListTokens(ctx context.Context) ([]entity.Token, error) {
	env, err := resilience.Execute(ctx, func(ctx context.Context) (entity.Envelope, error) {
		return s.api.Do(ctx, http.MethodGet, pathTokens, nil, nil)
	}, retryOptions(s.policy, "token_list", s.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tokens: %w", err)
	}
	tokens, err := normalizer.NormalizeTokens(env)
	if err != nil {
		countMalformed(err)
		return nil, err
	}
	return tokens, nil
}

func (s *DashboardServiceImpl) fetchList(ctx context.Context, src listSource) (entity.CanonicalList, error) {
	fetch := func(ctx context.Context) (entity.Envelope, error) {
		return s.api.Do(ctx, http.MethodGet, src.path, nil, nil)
	}

	var (
		env entity.Envelope
		err error
	)
	if src.resilient {
		env, err = resilience.Execute(ctx, fetch, retryOptions(s.policy, src.resource+"_list", s.logger))
	} else {
		env, err = fetch(ctx)
	}
	if err != nil {
		return entity.CanonicalList{}, fmt.Errorf("failed to fetch %s: %w", src.resource, err)
	}

	list, err := normalizer.NormalizeList(env, src.resource, src.resource)
	if err != nil {
		countMalformed(err)
		return entity.CanonicalList{}, err
	}
	return list, nil
}

func emptyList() entity.CanonicalList {
	return entity.CanonicalList{Items: []map[string]any{}}
}
