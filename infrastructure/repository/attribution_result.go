package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/attribution-api/infrastructure/database/postgres"
	"github.com/vfg2006/attribution-api/internal/domain"
)

const (
	attributionResultsTable = "attribution_results ar"
)

// AttributionResultRepository é o cache durável de resultados por (user, modelo, janela)
type AttributionResultRepository interface {
	DeleteCachedResult(ctx context.Context, userID string, model domain.ModelType, timeRange domain.TimeRange) error
	InsertCachedResult(ctx context.Context, userID string, model domain.ModelType, timeRange domain.TimeRange, result *domain.AttributionModelResult) error
	GetCachedResult(ctx context.Context, userID string, model domain.ModelType, timeRange domain.TimeRange) (*domain.AttributionModelResult, error)
}

type attributionResultRepository struct {
	conn postgres.Queryer
}

func NewAttributionResultRepository(conn postgres.Queryer) AttributionResultRepository {
	return &attributionResultRepository{
		conn: conn,
	}
}

// DeleteCachedResult remove a entrada da chave. Não faz nada se ela não existir.
func (r *attributionResultRepository) DeleteCachedResult(ctx context.Context, userID string, model domain.ModelType, timeRange domain.TimeRange) error {
	query, args, err := squirrel.
		Delete("attribution_results").
		Where(squirrel.Eq{
			"user_id":    userID,
			"model_type": string(model),
			"time_range": string(timeRange),
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

// InsertCachedResult grava o resultado. A chave é única, então um insert concorrente falha em vez de mesclar.
func (r *attributionResultRepository) InsertCachedResult(
	ctx context.Context,
	userID string,
	model domain.ModelType,
	timeRange domain.TimeRange,
	result *domain.AttributionModelResult,
) error {
	if result == nil {
		return errors.New("resultado de atribuição nulo")
	}

	channelResultsJSON, err := json.Marshal(result.ChannelResults)
	if err != nil {
		return fmt.Errorf("erro ao serializar channel_results para JSON: %w", err)
	}

	query, args, err := squirrel.StatementBuilder.
		Insert("attribution_results").
		Columns("user_id", "model_type", "time_range", "total_revenue", "channel_results", "calculated_at").
		Values(
			userID,
			string(model),
			string(timeRange),
			result.TotalRevenue,
			channelResultsJSON,
			result.CalculatedAt,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(ctx, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

// GetCachedResult retorna nil, nil quando não há entrada para a chave
func (r *attributionResultRepository) GetCachedResult(ctx context.Context, userID string, model domain.ModelType, timeRange domain.TimeRange) (*domain.AttributionModelResult, error) {
	query, args, err := squirrel.
		Select("ar.model_type, ar.total_revenue, ar.channel_results, ar.calculated_at").
		From(attributionResultsTable).
		Where(squirrel.Eq{
			"ar.user_id":    userID,
			"ar.model_type": string(model),
			"ar.time_range": string(timeRange),
		}).
		OrderBy("ar.calculated_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(ctx, query, args...)
	result, err := r.scanResult(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear resultado de atribuição: %w", err)
	}

	return result, nil
}

func (r *attributionResultRepository) scanResult(row *sql.Row) (*domain.AttributionModelResult, error) {
	result := &domain.AttributionModelResult{}
	var modelType string
	var channelResultsJSON []byte

	err := row.Scan(
		&modelType,
		&result.TotalRevenue,
		&channelResultsJSON,
		&result.CalculatedAt,
	)
	if err != nil {
		return nil, err
	}

	result.ModelType = domain.ModelType(modelType)
	result.ChannelResults = make([]domain.ChannelAttribution, 0)
	if channelResultsJSON != nil {
		if err := json.Unmarshal(channelResultsJSON, &result.ChannelResults); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de channel_results: %w", err)
		}
	}

	return result, nil
}
