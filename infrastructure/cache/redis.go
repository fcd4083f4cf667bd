// Package cache contém a camada de cache em redis na frente do cache durável de atribuição
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/attribution-api/infrastructure/repository"
	"github.com/vfg2006/attribution-api/internal/config"
	"github.com/vfg2006/attribution-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const keyPrefix = "attribution"

// RedisResultCache implementa repository.AttributionResultRepository lendo primeiro do redis
// e delegando ao repositório durável. O redis nunca é a fonte da verdade.
type RedisResultCache struct {
	client *redis.Client
	next   repository.AttributionResultRepository
	ttl    time.Duration
}

// NewRedisClient cria o cliente redis e valida a conexão
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("erro ao conectar ao redis: %w", err)
	}

	return client, nil
}

// NewRedisResultCache cria a camada de cache em volta do repositório durável
func NewRedisResultCache(client *redis.Client, next repository.AttributionResultRepository, ttl time.Duration) *RedisResultCache {
	return &RedisResultCache{
		client: client,
		next:   next,
		ttl:    ttl,
	}
}

// DeleteCachedResult remove a chave do redis e depois do repositório durável.
// Uma falha no redis não impede a remoção durável.
func (c *RedisResultCache) DeleteCachedResult(ctx context.Context, userID string, model domain.ModelType, timeRange domain.TimeRange) error {
	if err := c.client.Del(ctx, cacheKey(userID, model, timeRange)).Err(); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id":    userID,
			"model_type": model,
			"time_range": timeRange,
			"error":      err.Error(),
		}).Warn("Erro ao remover resultado de atribuição do redis")
	}

	return c.next.DeleteCachedResult(ctx, userID, model, timeRange)
}

// InsertCachedResult grava no repositório durável e depois no redis
func (c *RedisResultCache) InsertCachedResult(
	ctx context.Context,
	userID string,
	model domain.ModelType,
	timeRange domain.TimeRange,
	result *domain.AttributionModelResult,
) error {
	if err := c.next.InsertCachedResult(ctx, userID, model, timeRange, result); err != nil {
		return err
	}

	if err := c.set(ctx, cacheKey(userID, model, timeRange), result); err != nil {
		// O dado durável já foi gravado, o redis é preenchido na próxima leitura
		logrus.WithFields(logrus.Fields{
			"user_id":    userID,
			"model_type": model,
			"time_range": timeRange,
			"error":      err.Error(),
		}).Warn("Erro ao gravar resultado de atribuição no redis")
	}

	return nil
}

// GetCachedResult lê do redis e, em caso de miss, do repositório durável, preenchendo o redis
func (c *RedisResultCache) GetCachedResult(ctx context.Context, userID string, model domain.ModelType, timeRange domain.TimeRange) (*domain.AttributionModelResult, error) {
	key := cacheKey(userID, model, timeRange)
	logger := logrus.WithFields(logrus.Fields{
		"user_id":    userID,
		"model_type": model,
		"time_range": timeRange,
	})

	payload, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		result := &domain.AttributionModelResult{}
		if err := json.Unmarshal(payload, result); err == nil {
			return result, nil
		}
		logger.Warn("Resultado inválido no redis, lendo do banco")
	case errors.Is(err, redis.Nil):
		// miss
	default:
		logger.WithError(err).Warn("Erro ao ler resultado do redis, lendo do banco")
	}

	result, err := c.next.GetCachedResult(ctx, userID, model, timeRange)
	if err != nil || result == nil {
		return result, err
	}

	// Um InsertCachedResult concluído durante a leitura do banco prevalece sobre este preenchimento
	if err := c.fill(ctx, key, result); err != nil {
		logger.WithError(err).Warn("Erro ao preencher resultado de atribuição no redis")
	}

	return result, nil
}

func (c *RedisResultCache) set(ctx context.Context, key string, result *domain.AttributionModelResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("erro ao serializar resultado: %w", err)
	}

	return c.client.Set(ctx, key, payload, c.ttl).Err()
}

// fill grava apenas se a chave ainda não existir
func (c *RedisResultCache) fill(ctx context.Context, key string, result *domain.AttributionModelResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("erro ao serializar resultado: %w", err)
	}

	return c.client.SetNX(ctx, key, payload, c.ttl).Err()
}

func cacheKey(userID string, model domain.ModelType, timeRange domain.TimeRange) string {
	return fmt.Sprintf("%s:%s:%s:%s", keyPrefix, userID, model, timeRange)
}
