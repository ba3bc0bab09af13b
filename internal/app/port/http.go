package port

import (
	"context"
	"net/url"

	"dashboard_client/internal/domain/entity"
)

// APIDoer performs a single authenticated request against the backend and returns the decoded envelope.
type APIDoer interface {
	Do(ctx context.Context, method, path string, query url.Values, body any) (entity.Envelope, error)
}

// ResponseObserver is notified of the status code of every backend response.
type ResponseObserver interface {
	ObserveStatus(statusCode int)
}
