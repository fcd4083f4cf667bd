// Package metrics contém os coletores prometheus do recálculo de atribuição
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vfg2006/attribution-api/internal/domain"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

var (
	// refreshTotal conta combinações recalculadas por modelo, janela e status
	refreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attribution_refresh_total",
			Help: "Total de combinações (modelo, janela) recalculadas.",
		},
		[]string{"model_type", "time_range", "status"},
	)

	// refreshDuration mede o tempo de uma combinação, da busca das jornadas até o insert no cache
	refreshDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "attribution_refresh_duration_seconds",
			Help:    "Duração do recálculo de uma combinação (modelo, janela).",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model_type"},
	)

	// journeysProcessed registra o tamanho das janelas processadas
	journeysProcessed = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "attribution_journeys_per_window",
			Help:    "Quantidade de jornadas lidas por janela.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
		[]string{"time_range"},
	)

	// lastRunTimestamp guarda o fim do último recálculo completo do agendador
	lastRunTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "attribution_sync_last_completed_timestamp_seconds",
			Help: "Horário (unix) do fim da última sincronização de atribuição.",
		},
	)
)

func init() {
	prometheus.MustRegister(refreshTotal, refreshDuration, journeysProcessed, lastRunTimestamp)
}

// ObserveCombination registra o resultado de uma combinação (modelo, janela)
func ObserveCombination(model domain.ModelType, timeRange domain.TimeRange, err error, duration time.Duration) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	refreshTotal.WithLabelValues(string(model), string(timeRange), status).Inc()
	refreshDuration.WithLabelValues(string(model)).Observe(duration.Seconds())
}

// ObserveJourneys registra quantas jornadas foram lidas para a janela
func ObserveJourneys(timeRange domain.TimeRange, count int) {
	journeysProcessed.WithLabelValues(string(timeRange)).Observe(float64(count))
}

// MarkSyncCompleted atualiza o horário da última sincronização completa
func MarkSyncCompleted(at time.Time) {
	lastRunTimestamp.Set(float64(at.Unix()))
}
