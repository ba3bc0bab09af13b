package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"dashboard_client/internal/app/normalizer"
	"dashboard_client/internal/app/port"
	"dashboard_client/internal/app/resilience"
	"dashboard_client/internal/domain/entity"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultGraphCacheTTL     = 5 * time.Minute
	DefaultGraphCacheCleanup = 10 * time.Minute

	pathTokenGraph    = "/token/graph/"
	pathCronActive    = "/admin/token/graph/cron/active/"
	pathAllowLatest   = "/admin/token/graph/allow/latest/"
	pathDeleteGraph   = "/admin/token/graph/"
	pathPopulateGraph = "/admin/graph/populate/"
	pathEnableCron    = "/admin/graph/enable-cron/"
	pathGraphStats    = "/admin/graph/stats"
)

// GraphOptions configures GraphServiceImpl. Zero values fall back to the defaults.
type GraphOptions struct {
	Policy       resilience.Policy
	CacheTTL     time.Duration
	CacheCleanup time.Duration
}

// GraphServiceImpl implements port.GraphService. Every call goes through the
// resilient wrapper; graph reads are cached per token and range.
type GraphServiceImpl struct {
	api    port.APIDoer
	logger port.Logger
	policy resilience.Policy
	graphs *cache.Cache
	group  singleflight.Group

	mu sync.Mutex
	// generations is bumped per token by every accepted graph command. A fetch
	// that started under an older generation must not populate the cache.
	generations map[string]uint64
}

// NewGraphService creates a new instance of GraphServiceImpl.
func NewGraphService(api port.APIDoer, l port.Logger, opts GraphOptions) *GraphServiceImpl {
	if opts.Policy == (resilience.Policy{}) {
		opts.Policy = resilience.DefaultPolicy()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultGraphCacheTTL
	}
	if opts.CacheCleanup <= 0 {
		opts.CacheCleanup = DefaultGraphCacheCleanup
	}
	return &GraphServiceImpl{
		api:    api,
		logger: l,
		policy: opts.Policy,
		graphs:      cache.New(opts.CacheTTL, opts.CacheCleanup),
		generations: make(map[string]uint64),
	}
}

var _ port.GraphService = (*GraphServiceImpl)(nil)

func graphCacheKey(tokenID string, r entity.GraphRange) string {
	return "graph:" + tokenID + ":" + string(r)
}

func (s *GraphServiceImpl) GetTokenGraph(ctx context.Context, tokenID string, r entity.GraphRange) ([]entity.GraphPoint, error) {
	if tokenID == "" {
		return nil, errors.New("tokenID cannot be empty")
	}
	if r == "" {
		r = entity.DefaultGraphRange
	}
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidGraphRange, r)
	}

	key := graphCacheKey(tokenID, r)
	if cached, found := s.graphs.Get(key); found {
		s.logger.Debug("Graph served from cache", "tokenID", tokenID, "range", r)
		return clonePoints(cached.([]entity.GraphPoint)), nil
	}

	// The shared fetch must outlive any single caller; each caller stops
	// waiting on its own context instead. The request itself is still bounded
	// by the client timeout.
	fetchCtx := context.WithoutCancel(ctx)
	results := s.group.DoChan(key, func() (any, error) {
		if cached, found := s.graphs.Get(key); found {
			return cached, nil
		}
		gen := s.generation(tokenID)
		env, err := resilience.Execute(fetchCtx, func(ctx context.Context) (entity.Envelope, error) {
			return s.api.Do(ctx, http.MethodGet, pathTokenGraph+url.PathEscape(tokenID), url.Values{"type": {string(r)}}, nil)
		}, retryOptions(s.policy, "token_graph", s.logger))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch graph of token %s: %w", tokenID, err)
		}
		points, err := normalizer.NormalizeGraph(env)
		if err != nil {
			countMalformed(err)
			return nil, err
		}
		if !s.storeIfCurrent(tokenID, key, gen, points) {
			s.logger.Debug("Graph changed during fetch, not caching", "tokenID", tokenID, "range", r)
		}
		return points, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-results:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("Graph fetch shared with a concurrent caller", "tokenID", tokenID, "range", r)
		}
		return clonePoints(res.Val.([]entity.GraphPoint)), nil
	}
}

func (s *GraphServiceImpl) SetCronActive(ctx context.Context, tokenID string, active bool) (*entity.ActionResult, error) {
	return s.action(ctx, "graph_cron_active", http.MethodPut, pathCronActive, tokenID, nil, map[string]bool{"active": active})
}

func (s *GraphServiceImpl) SetAllowLatest(ctx context.Context, tokenID string, allow bool) (*entity.ActionResult, error) {
	return s.action(ctx, "graph_allow_latest", http.MethodPut, pathAllowLatest, tokenID, nil, map[string]bool{"allow": allow})
}

func (s *GraphServiceImpl) DeleteGraph(ctx context.Context, tokenID string) (*entity.ActionResult, error) {
	return s.action(ctx, "graph_delete", http.MethodDelete, pathDeleteGraph, tokenID, nil, nil)
}

func (s *GraphServiceImpl) PopulateGraph(ctx context.Context, tokenID string, days int) (*entity.ActionResult, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be positive, got %d", days)
	}
	return s.action(ctx, "graph_populate", http.MethodPost, pathPopulateGraph, tokenID, url.Values{"days": {strconv.Itoa(days)}}, nil)
}

func (s *GraphServiceImpl) EnableCron(ctx context.Context, tokenID string) (*entity.ActionResult, error) {
	return s.action(ctx, "graph_enable_cron", http.MethodPost, pathEnableCron, tokenID, nil, nil)
}

func (s *GraphServiceImpl) GetGraphStats(ctx context.Context) (*entity.GraphStats, error) {
	env, err := resilience.Execute(ctx, func(ctx context.Context) (entity.Envelope, error) {
		return s.api.Do(ctx, http.MethodGet, pathGraphStats, nil, nil)
	}, retryOptions(s.policy, "graph_stats", s.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch graph stats: %w", err)
	}
	stats, err := normalizer.NormalizeGraphStats(env)
	if err != nil {
		countMalformed(err)
		return nil, err
	}
	return &stats, nil
}

// action runs one administrative graph command and drops the token's cached
// graphs once the backend accepted it.
func (s *GraphServiceImpl) action(ctx context.Context, operation, method, prefix, tokenID string, query url.Values, body any) (*entity.ActionResult, error) {
	if tokenID == "" {
		return nil, errors.New("tokenID cannot be empty")
	}
	env, err := resilience.Execute(ctx, func(ctx context.Context) (entity.Envelope, error) {
		return s.api.Do(ctx, method, prefix+url.PathEscape(tokenID), query, body)
	}, retryOptions(s.policy, operation, s.logger))
	if err != nil {
		return nil, fmt.Errorf("%s failed for token %s: %w", operation, tokenID, err)
	}

	s.invalidate(tokenID)
	result := normalizer.NormalizeAction(env)
	s.logger.Info("Graph command completed", "operation", operation, "tokenID", tokenID, "success", result.Success)
	return &result, nil
}

func (s *GraphServiceImpl) generation(tokenID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[tokenID]
}

// storeIfCurrent caches points unless a graph command for the token was
// accepted after the fetch started.
func (s *GraphServiceImpl) storeIfCurrent(tokenID, key string, gen uint64, points []entity.GraphPoint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[tokenID] != gen {
		return false
	}
	s.graphs.Set(key, points, cache.DefaultExpiration)
	return true
}

// invalidate drops the token's cached graphs and detaches in-flight fetches,
// so later reads go back to the backend.
func (s *GraphServiceImpl) invalidate(tokenID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[tokenID]++
	for _, r := range entity.GraphRanges {
		key := graphCacheKey(tokenID, r)
		s.graphs.Delete(key)
		s.group.Forget(key)
	}
}

func clonePoints(p []entity.GraphPoint) []entity.GraphPoint {
	return append([]entity.GraphPoint(nil), p...)
}
