package ports

import (
	"context"

	"github.com/alejandrodnm/dealmax/internal/domain"
)

// Notifier presenta los resultados del desk.
type Notifier interface {
	NotifyDeals(ctx context.Context, summary domain.DealSummary, deals []domain.Deal) error
	NotifyScenarios(ctx context.Context, vehicle domain.Vehicle, scenarios []domain.ProfitScenario) error
	NotifyRanking(ctx context.Context, ranked []domain.ApprovalWithProfit) error
}
