package attributing

import (
	"fmt"
	"time"

	"github.com/vfg2006/attribution-api/internal/domain"
)

const (
	// Peso do primeiro e do último toque na curva em U
	edgePositionWeight = 0.4
	// Peso dividido entre os toques intermediários
	middlePositionWeight = 0.2
	// Efeito de remoção usado quando o canal não foi visto no cálculo da janela
	defaultRemovalEffect = 0.1
)

// CalculateSmart combina peso por posição (curva em U) com o efeito de remoção de cada canal.
// score = positionWeight * (1 + removalEffect[canal]), normalizado por jornada.
func CalculateSmart(journeys []*domain.Journey, calculatedAt time.Time) *domain.AttributionModelResult {
	removalEffects := calculateRemovalEffects(journeys)

	acc := newChannelAccumulator()
	totalRevenue := 0.0

	for _, journey := range journeys {
		if len(journey.Touchpoints) == 0 {
			continue
		}

		channels := journey.Channels()

		// Soma dos scores por canal, preservando a ordem de aparição
		channelOrder := make([]string, 0, len(channels))
		channelScores := make(map[string]float64, len(channels))
		totalScore := 0.0

		for i, channel := range channels {
			effect, ok := removalEffects[channel]
			if !ok {
				effect = defaultRemovalEffect
			}

			score := positionWeight(i, len(channels)) * (1 + effect)
			if _, seen := channelScores[channel]; !seen {
				channelOrder = append(channelOrder, channel)
			}
			channelScores[channel] += score
			totalScore += score
		}

		if totalScore <= 0 {
			continue
		}

		for _, channel := range channelOrder {
			share := channelScores[channel] / totalScore
			acc.add(channel, journey.OrderValue*share, share)
		}

		totalRevenue += journey.OrderValue
	}

	return buildResult(domain.ModelSmart, acc, totalRevenue, calculatedAt)
}

// positionWeight retorna o peso em U do touchpoint na posição index de uma jornada com total toques
func positionWeight(index, total int) float64 {
	if total == 1 {
		return 1
	}
	if index == 0 || index == total-1 {
		return edgePositionWeight
	}
	return middlePositionWeight / float64(max(1, total-2))
}

// calculateRemovalEffects estima o efeito de remoção como a fração das jornadas da janela
// em que o canal aparece. Cada canal conta no máximo uma vez por jornada, mantendo o valor em [0,1].
func calculateRemovalEffects(journeys []*domain.Journey) map[string]float64 {
	effects := make(map[string]float64)
	if len(journeys) == 0 {
		return effects
	}

	appearances := make(map[string]int)
	for _, journey := range journeys {
		seen := make(map[string]struct{}, len(journey.Touchpoints))
		for _, channel := range journey.Channels() {
			if _, ok := seen[channel]; ok {
				continue
			}
			seen[channel] = struct{}{}
			appearances[channel]++
		}
	}

	total := float64(len(journeys))
	for channel, count := range appearances {
		effects[channel] = float64(count) / total
	}

	return effects
}

// CalculateTransitionCounts conta os pares consecutivos de canais ("{from}->{to}") em todas as jornadas.
// Não participa do score do modelo smart.
func CalculateTransitionCounts(journeys []*domain.Journey) map[string]int {
	transitions := make(map[string]int)
	for _, journey := range journeys {
		channels := journey.Channels()
		for i := 0; i+1 < len(channels); i++ {
			transitions[fmt.Sprintf("%s->%s", channels[i], channels[i+1])]++
		}
	}
	return transitions
}
