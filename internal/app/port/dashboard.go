package port

import (
	"context"

	"dashboard_client/internal/domain/entity"
)

// DashboardService loads the resource lists a dashboard view needs in one call.
type DashboardService interface {
	LoadOverview(ctx context.Context) (*entity.Overview, error)
	ListTokens(ctx context.Context) ([]entity.Token, error)
}
