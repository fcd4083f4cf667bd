// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/attribution-api/infrastructure/database/postgres"
	"github.com/vfg2006/attribution-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	journeysTable = "journeys j"
)

// JourneyRepository dá acesso somente leitura às jornadas já extraídas pelos jobs de ingestão
type JourneyRepository interface {
	FetchJourneys(ctx context.Context, userID string, since time.Time) ([]*domain.Journey, error)
	ListUserIDs(ctx context.Context) ([]string, error)
	SaveJourneys(ctx context.Context, journeys []*domain.Journey) error
}

type journeyRepository struct {
	conn postgres.Transactor
}

func NewJourneyRepository(conn postgres.Transactor) JourneyRepository {
	return &journeyRepository{
		conn: conn,
	}
}

// FetchJourneys retorna as jornadas com purchase_timestamp >= since, sem ordem garantida
func (r *journeyRepository) FetchJourneys(ctx context.Context, userID string, since time.Time) ([]*domain.Journey, error) {
	query, args, err := squirrel.
		Select(
			"j.id",
			"j.user_id",
			"j.customer_id",
			"j.order_id",
			"j.order_value",
			"j.touchpoints",
			"j.first_touch_channel",
			"j.last_touch_channel",
			"j.purchase_timestamp",
		).
		From(journeysTable).
		Where(squirrel.Eq{"j.user_id": userID}).
		Where(squirrel.GtOrEq{"j.purchase_timestamp": since}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	journeys := make([]*domain.Journey, 0)
	for rows.Next() {
		journey, err := r.scanJourney(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear jornada: %w", err)
		}
		journeys = append(journeys, journey)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return journeys, nil
}

// ListUserIDs retorna os tenants que possuem jornadas
func (r *journeyRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	query, args, err := squirrel.
		Select("DISTINCT j.user_id").
		From(journeysTable).
		OrderBy("j.user_id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	userIDs := make([]string, 0)
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("erro ao escanear user_id: %w", err)
		}
		userIDs = append(userIDs, userID)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return userIDs, nil
}

// SaveJourneys grava jornadas em lote, ignorando pedidos já existentes do tenant
func (r *journeyRepository) SaveJourneys(ctx context.Context, journeys []*domain.Journey) error {
	if len(journeys) == 0 {
		return nil
	}

	query := squirrel.StatementBuilder.
		Insert("journeys").
		Columns(
			"id",
			"user_id",
			"customer_id",
			"order_id",
			"order_value",
			"touchpoints",
			"first_touch_channel",
			"last_touch_channel",
			"purchase_timestamp",
		).
		PlaceholderFormat(squirrel.Dollar)

	for _, journey := range journeys {
		touchpointsJSON, err := json.Marshal(journey.Touchpoints)
		if err != nil {
			return fmt.Errorf("erro ao serializar touchpoints para JSON: %w", err)
		}

		query = query.Values(
			journey.ID,
			journey.UserID,
			journey.CustomerID,
			journey.OrderID,
			journey.OrderValue,
			touchpointsJSON,
			journey.FirstTouchChannel,
			journey.LastTouchChannel,
			journey.PurchaseTimestamp,
		)
	}

	query = query.Suffix("ON CONFLICT (user_id, order_id) DO NOTHING")

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir query de inserção: %w", err)
	}

	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("erro ao executar query de inserção: %w", err)
		}
		return nil
	})
}

func (r *journeyRepository) scanJourney(rows *sql.Rows) (*domain.Journey, error) {
	journey := &domain.Journey{}
	var touchpointsJSON []byte
	var firstTouch, lastTouch sql.NullString

	err := rows.Scan(
		&journey.ID,
		&journey.UserID,
		&journey.CustomerID,
		&journey.OrderID,
		&journey.OrderValue,
		&touchpointsJSON,
		&firstTouch,
		&lastTouch,
		&journey.PurchaseTimestamp,
	)
	if err != nil {
		return nil, err
	}

	if firstTouch.Valid {
		journey.FirstTouchChannel = &firstTouch.String
	}
	if lastTouch.Valid {
		journey.LastTouchChannel = &lastTouch.String
	}

	journey.Touchpoints, err = decodeTouchpoints(touchpointsJSON)
	if err != nil {
		return nil, err
	}

	return journey, nil
}

// rawTouchpoint aceita channel nulo vindo do JSONB
type rawTouchpoint struct {
	Channel    *string   `json:"channel"`
	Timestamp  time.Time `json:"timestamp"`
	CampaignID *string   `json:"campaign_id,omitempty"`
}

// decodeTouchpoints converte o JSONB em touchpoints, normalizando canais ausentes para "unknown"
func decodeTouchpoints(data []byte) ([]domain.Touchpoint, error) {
	if len(data) == 0 {
		return []domain.Touchpoint{}, nil
	}

	var raw []rawTouchpoint
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("erro ao deserializar JSON de touchpoints: %w", err)
	}

	touchpoints := make([]domain.Touchpoint, 0, len(raw))
	for _, tp := range raw {
		channel := domain.UnknownChannel
		if tp.Channel != nil {
			channel = domain.NormalizeChannel(*tp.Channel)
		}
		touchpoints = append(touchpoints, domain.Touchpoint{
			Channel:    channel,
			Timestamp:  tp.Timestamp,
			CampaignID: tp.CampaignID,
		})
	}

	return touchpoints, nil
}
