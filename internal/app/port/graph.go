package port

import (
	"context"

	"dashboard_client/internal/domain/entity"
)

// GraphService reads token price graphs and drives the server-side graph cron jobs.
type GraphService interface {
	GetTokenGraph(ctx context.Context, tokenID string, r entity.GraphRange) ([]entity.GraphPoint, error)
	SetCronActive(ctx context.Context, tokenID string, active bool) (*entity.ActionResult, error)
	SetAllowLatest(ctx context.Context, tokenID string, allow bool) (*entity.ActionResult, error)
	DeleteGraph(ctx context.Context, tokenID string) (*entity.ActionResult, error)
	PopulateGraph(ctx context.Context, tokenID string, days int) (*entity.ActionResult, error)
	EnableCron(ctx context.Context, tokenID string) (*entity.ActionResult, error)
	GetGraphStats(ctx context.Context) (*entity.GraphStats, error)
}
