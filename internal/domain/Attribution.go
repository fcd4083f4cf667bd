package domain

import (
	"fmt"
	"time"
)

// ModelType identifica um modelo de atribuição. Os valores são persistidos no cache
// e lidos por dashboards, portanto não podem mudar.
type ModelType string

const (
	ModelFirstClick ModelType = "first_click"
	ModelLastClick  ModelType = "last_click"
	ModelLinear     ModelType = "linear"
	ModelSmart      ModelType = "smart"
)

// AllModelTypes lista os modelos na ordem em que são recalculados
var AllModelTypes = []ModelType{ModelFirstClick, ModelLastClick, ModelLinear, ModelSmart}

// ParseModelType valida o token recebido
func ParseModelType(value string) (ModelType, error) {
	for _, model := range AllModelTypes {
		if string(model) == value {
			return model, nil
		}
	}
	return "", fmt.Errorf("modelo de atribuição inválido: %q", value)
}

// TimeRange é uma janela canônica de busca das jornadas
type TimeRange string

const (
	TimeRange7Days  TimeRange = "7d"
	TimeRange30Days TimeRange = "30d"
	TimeRange90Days TimeRange = "90d"
)

var timeRangeDays = map[TimeRange]int{
	TimeRange7Days:  7,
	TimeRange30Days: 30,
	TimeRange90Days: 90,
}

// AllTimeRanges lista as janelas suportadas
var AllTimeRanges = []TimeRange{TimeRange7Days, TimeRange30Days, TimeRange90Days}

// ParseTimeRange valida o token recebido
func ParseTimeRange(value string) (TimeRange, error) {
	tr := TimeRange(value)
	if _, ok := timeRangeDays[tr]; !ok {
		return "", fmt.Errorf("janela de tempo inválida: %q", value)
	}
	return tr, nil
}

// Days retorna a quantidade de dias da janela
func (t TimeRange) Days() int {
	return timeRangeDays[t]
}

// Since retorna o limite inferior da janela ("agora menos N dias")
func (t TimeRange) Since(now time.Time) time.Time {
	return now.AddDate(0, 0, -t.Days())
}

// ChannelAttribution é a receita atribuída a um canal
type ChannelAttribution struct {
	Channel    string  `json:"channel"`
	Revenue    float64 `json:"revenue"`
	Percentage float64 `json:"percentage"`
	OrderCount int     `json:"orderCount"` // Arredondado apenas para exibição
}

// AttributionModelResult é o resultado de um modelo para uma janela
type AttributionModelResult struct {
	ModelType      ModelType            `json:"modelType"`
	TotalRevenue   float64              `json:"totalRevenue"`
	ChannelResults []ChannelAttribution `json:"channelResults"`
	CalculatedAt   time.Time            `json:"calculatedAt"`
}

// CacheKey identifica uma entrada do cache de resultados
type CacheKey struct {
	UserID    string    `json:"user_id"`
	ModelType ModelType `json:"model_type"`
	TimeRange TimeRange `json:"time_range"`
}

func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.UserID, k.ModelType, k.TimeRange)
}
