package attributing

import (
	"math"
	"sort"
	"time"

	"github.com/vfg2006/attribution-api/internal/domain"
)

// channelTotals acumula receita e crédito fracionário de pedidos de um canal
type channelTotals struct {
	revenue float64
	count   float64
}

// channelAccumulator mantém a ordem de inserção dos canais para que o desempate
// da ordenação seja estável
type channelAccumulator struct {
	order  []string
	totals map[string]*channelTotals
}

func newChannelAccumulator() *channelAccumulator {
	return &channelAccumulator{
		totals: make(map[string]*channelTotals),
	}
}

func (a *channelAccumulator) add(channel string, revenue, count float64) {
	totals, ok := a.totals[channel]
	if !ok {
		totals = &channelTotals{}
		a.totals[channel] = totals
		a.order = append(a.order, channel)
	}
	totals.revenue += revenue
	totals.count += count
}

// buildResult formata as somas por canal no resultado comum a todos os modelos
func buildResult(model domain.ModelType, acc *channelAccumulator, totalRevenue float64, calculatedAt time.Time) *domain.AttributionModelResult {
	results := make([]domain.ChannelAttribution, 0, len(acc.order))
	for _, channel := range acc.order {
		totals := acc.totals[channel]

		percentage := 0.0
		if totalRevenue > 0 {
			percentage = totals.revenue / totalRevenue * 100
		}

		results = append(results, domain.ChannelAttribution{
			Channel:    channel,
			Revenue:    totals.revenue,
			Percentage: percentage,
			OrderCount: int(math.Round(totals.count)),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Revenue > results[j].Revenue
	})

	return &domain.AttributionModelResult{
		ModelType:      model,
		TotalRevenue:   totalRevenue,
		ChannelResults: results,
		CalculatedAt:   calculatedAt,
	}
}
