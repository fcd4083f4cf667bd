package attributing

import (
	"time"

	"github.com/vfg2006/attribution-api/internal/domain"
)

// Calculator é a assinatura comum dos modelos de atribuição. Os modelos são funções
// puras sobre a lista de jornadas recebida.
type Calculator func(journeys []*domain.Journey, calculatedAt time.Time) *domain.AttributionModelResult

// calculators é a tabela de despacho de cada modelo
var calculators = map[domain.ModelType]Calculator{
	domain.ModelFirstClick: CalculateFirstTouch,
	domain.ModelLastClick:  CalculateLastTouch,
	domain.ModelLinear:     CalculateLinear,
	domain.ModelSmart:      CalculateSmart,
}

// CalculatorFor retorna a função de cálculo do modelo
func CalculatorFor(model domain.ModelType) (Calculator, error) {
	calculator, ok := calculators[model]
	if !ok {
		return nil, ErrUnknownModel
	}
	return calculator, nil
}

// CalculateFirstTouch credita 100% do pedido ao canal do primeiro toque
func CalculateFirstTouch(journeys []*domain.Journey, calculatedAt time.Time) *domain.AttributionModelResult {
	return calculateSingleTouch(domain.ModelFirstClick, journeys, calculatedAt, (*domain.Journey).FirstChannel)
}

// CalculateLastTouch credita 100% do pedido ao canal do último toque
func CalculateLastTouch(journeys []*domain.Journey, calculatedAt time.Time) *domain.AttributionModelResult {
	return calculateSingleTouch(domain.ModelLastClick, journeys, calculatedAt, (*domain.Journey).LastChannel)
}

// calculateSingleTouch é o algoritmo compartilhado por first e last touch.
// Jornadas sem touchpoints também contam, em "unknown" ou no canal armazenado.
func calculateSingleTouch(
	model domain.ModelType,
	journeys []*domain.Journey,
	calculatedAt time.Time,
	channelOf func(*domain.Journey) string,
) *domain.AttributionModelResult {
	acc := newChannelAccumulator()
	totalRevenue := 0.0

	for _, journey := range journeys {
		acc.add(channelOf(journey), journey.OrderValue, 1)
		totalRevenue += journey.OrderValue
	}

	return buildResult(model, acc, totalRevenue, calculatedAt)
}

// CalculateLinear divide o pedido igualmente entre os touchpoints da jornada.
// A receita é dividida por touchpoint e a contagem de pedidos por canal distinto,
// por isso são duas passadas separadas.
func CalculateLinear(journeys []*domain.Journey, calculatedAt time.Time) *domain.AttributionModelResult {
	acc := newChannelAccumulator()
	totalRevenue := 0.0

	for _, journey := range journeys {
		if len(journey.Touchpoints) == 0 {
			continue
		}

		channels := journey.Channels()
		linearRevenuePass(acc, channels, journey.OrderValue)
		linearOrderCountPass(acc, channels)

		totalRevenue += journey.OrderValue
	}

	return buildResult(domain.ModelLinear, acc, totalRevenue, calculatedAt)
}

// linearRevenuePass credita orderValue/N a cada touchpoint
func linearRevenuePass(acc *channelAccumulator, channels []string, orderValue float64) {
	share := orderValue / float64(len(channels))
	for _, channel := range channels {
		acc.add(channel, share, 0)
	}
}

// linearOrderCountPass credita 1/(canais distintos) a cada canal presente
func linearOrderCountPass(acc *channelAccumulator, channels []string) {
	distinct := make([]string, 0, len(channels))
	seen := make(map[string]struct{}, len(channels))
	for _, channel := range channels {
		if _, ok := seen[channel]; ok {
			continue
		}
		seen[channel] = struct{}{}
		distinct = append(distinct, channel)
	}

	credit := 1 / float64(len(distinct))
	for _, channel := range distinct {
		acc.add(channel, 0, credit)
	}
}
