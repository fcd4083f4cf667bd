// Package domain contém as estruturas de dados do domínio da aplicação
package domain

import (
	"strings"
	"time"
)

// UnknownChannel é o canal usado quando o touchpoint não informa a origem
const UnknownChannel = "unknown"

// Touchpoint representa uma exposição de marketing dentro de uma jornada
type Touchpoint struct {
	Channel    string    `json:"channel"`
	Timestamp  time.Time `json:"timestamp"`
	CampaignID *string   `json:"campaign_id,omitempty"`
}

// Journey representa um pedido concluído com os touchpoints que o antecederam
type Journey struct {
	ID                string       `json:"id"`
	UserID            string       `json:"user_id"`
	CustomerID        string       `json:"customer_id"`
	OrderID           string       `json:"order_id"`
	OrderValue        float64      `json:"order_value"`
	Touchpoints       []Touchpoint `json:"touchpoints"`
	FirstTouchChannel *string      `json:"first_touch_channel,omitempty"` // Cópia armazenada, pode divergir dos touchpoints
	LastTouchChannel  *string      `json:"last_touch_channel,omitempty"`  // Cópia armazenada, pode divergir dos touchpoints
	PurchaseTimestamp time.Time    `json:"purchase_timestamp"`
}

// NormalizeChannel converte canais vazios para "unknown"
func NormalizeChannel(channel string) string {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return UnknownChannel
	}
	return channel
}

// Channels retorna os canais normalizados de cada touchpoint, na ordem da jornada
func (j *Journey) Channels() []string {
	channels := make([]string, len(j.Touchpoints))
	for i, tp := range j.Touchpoints {
		channels[i] = NormalizeChannel(tp.Channel)
	}
	return channels
}

// FirstChannel deriva o canal do primeiro toque a partir dos touchpoints.
// Sem touchpoints, usa a cópia armazenada e, por último, "unknown".
func (j *Journey) FirstChannel() string {
	if len(j.Touchpoints) > 0 {
		return NormalizeChannel(j.Touchpoints[0].Channel)
	}
	return storedChannel(j.FirstTouchChannel)
}

// LastChannel deriva o canal do último toque a partir dos touchpoints
func (j *Journey) LastChannel() string {
	if len(j.Touchpoints) > 0 {
		return NormalizeChannel(j.Touchpoints[len(j.Touchpoints)-1].Channel)
	}
	return storedChannel(j.LastTouchChannel)
}

func storedChannel(channel *string) string {
	if channel == nil {
		return UnknownChannel
	}
	return NormalizeChannel(*channel)
}
