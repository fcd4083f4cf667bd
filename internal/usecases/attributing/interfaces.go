package attributing

import (
	"context"

	"github.com/vfg2006/attribution-api/internal/domain"
)

// Refresher recalcula e persiste a matriz completa (janelas x modelos) de um tenant
type Refresher interface {
	RefreshUser(ctx context.Context, userID string) (*RefreshReport, error)
}

// Attributor é a interface completa consumida pela API
type Attributor interface {
	Refresher

	// Calculate calcula o modelo para a janela sem persistir o resultado
	Calculate(ctx context.Context, userID string, model domain.ModelType, timeRange domain.TimeRange) (*domain.AttributionModelResult, error)

	// GetCachedResult retorna o último resultado persistido para a chave
	GetCachedResult(ctx context.Context, userID string, model domain.ModelType, timeRange domain.TimeRange) (*domain.AttributionModelResult, error)

	// TransitionCounts retorna as transições consecutivas entre canais da janela
	TransitionCounts(ctx context.Context, userID string, timeRange domain.TimeRange) (map[string]int, error)
}
