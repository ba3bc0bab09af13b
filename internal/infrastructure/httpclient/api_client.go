package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"dashboard_client/internal/app/port"
	"dashboard_client/internal/domain/entity"
	"dashboard_client/internal/infrastructure/metrics"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	DefaultTimeout = 10 * time.Second
	DefaultRPS     = 20
	DefaultBurst   = 10

	requestIDHeader = "X-Request-ID"
)

// Config holds the transport settings of the backend client.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// APIClient is the authenticated transport shared by every resource client.
type APIClient struct {
	client   *fasthttp.Client
	baseURL  string
	timeout  time.Duration
	limiter  *rate.Limiter
	sessions port.SessionStore
	observer port.ResponseObserver
	logger   *zap.Logger
}

var _ port.APIDoer = (*APIClient)(nil)

// NewAPIClient creates a client for cfg.BaseURL. observer may be nil.
func NewAPIClient(cfg Config, sessions port.SessionStore, observer port.ResponseObserver, logger *zap.Logger) *APIClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = DefaultRPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIClient{
		client:   &fasthttp.Client{Name: "dashboard-client"},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		timeout:  cfg.Timeout,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		sessions: sessions,
		observer: observer,
		logger:   logger.Named("APIClient"),
	}
}

// Do sends one request and decodes the JSON response body.
// A response with an empty body decodes to a nil envelope; a body that is not
// JSON is returned as a string.
func (c *APIClient) Do(ctx context.Context, method, path string, query url.Values, body any) (entity.Envelope, error) {
	token := c.sessions.Token()
	if token == "" {
		return nil, entity.ErrNoSessionToken
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &entity.NetworkError{Method: method, Path: path, Err: err}
	}

	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}
	requestID := uuid.NewString()

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+token)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body for %s %s: %w", method, path, err)
		}
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(payload)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	log := c.logger.With(zap.String("method", method), zap.String("path", path), zap.String("requestID", requestID))
	log.Debug("Sending backend request")

	start := time.Now()
	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	elapsed := time.Since(start)

	if err != nil {
		metrics.ObserveRequest(method, 0, elapsed)
		log.Warn("Backend request got no response", zap.Duration("elapsed", elapsed), zap.Error(err))
		return nil, &entity.NetworkError{Method: method, Path: path, Err: err}
	}

	status := resp.StatusCode()
	metrics.ObserveRequest(method, status, elapsed)
	if c.observer != nil {
		c.observer.ObserveStatus(status)
	}

	rawBody := bytes.TrimSpace(resp.Body())
	if status < 200 || status >= 300 {
		log.Warn("Backend request failed",
			zap.Int("statusCode", status),
			zap.ByteString("responseBody", rawBody),
			zap.Duration("elapsed", elapsed))
		return nil, &entity.StatusError{
			Method:     method,
			Path:       path,
			StatusCode: status,
			Body:       append([]byte(nil), rawBody...),
		}
	}

	log.Debug("Backend request succeeded", zap.Int("statusCode", status), zap.Duration("elapsed", elapsed))
	if len(rawBody) == 0 {
		return nil, nil
	}

	var envelope entity.Envelope
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		log.Debug("Response body is not JSON, returning it as text", zap.Error(err))
		return string(rawBody), nil
	}
	return envelope, nil
}
