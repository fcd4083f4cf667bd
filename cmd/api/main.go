package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/attribution-api/infrastructure/cache"
	"github.com/vfg2006/attribution-api/infrastructure/database/postgres"
	"github.com/vfg2006/attribution-api/infrastructure/repository"
	"github.com/vfg2006/attribution-api/internal/api"
	"github.com/vfg2006/attribution-api/internal/api/handler"
	"github.com/vfg2006/attribution-api/internal/config"
	"github.com/vfg2006/attribution-api/internal/scheduler"
	"github.com/vfg2006/attribution-api/internal/usecases/attributing"
	"github.com/vfg2006/attribution-api/internal/usecases/authenticating"
	"github.com/vfg2006/attribution-api/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	journeyRepo := repository.NewJourneyRepository(pgConn)
	resultRepo := resultRepository(ctx, cfg, repository.NewAttributionResultRepository(pgConn))

	attributionService, err := attributing.NewService(cfg, journeyRepo, resultRepo)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao configurar o serviço de atribuição")
	}

	authenticator := authenticating.NewService(cfg)

	refreshService := scheduler.NewAttributionRefreshService(journeyRepo, attributionService, cfg)
	if err := refreshService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de recálculo de atribuição")
	} else {
		logrus.Info("Agendador de recálculo de atribuição iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		attributionService,
		authenticator,
		handler.CronJobServices{AttributionRefreshService: refreshService},
		pgConn,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

// resultRepository envolve o repositório de resultados com o cache redis quando configurado.
// Sem redis disponível o serviço segue lendo direto do PostgreSQL.
func resultRepository(
	ctx context.Context,
	cfg *config.Config,
	resultRepo repository.AttributionResultRepository,
) repository.AttributionResultRepository {
	if !cfg.Redis.Enabled() {
		logrus.Info("Cache redis desabilitado, usando apenas PostgreSQL")
		return resultRepo
	}

	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logrus.WithError(err).Warn("Redis indisponível, usando apenas PostgreSQL")
		return resultRepo
	}

	logrus.WithField("addr", cfg.Redis.Addr).Info("Cache redis habilitado")
	return cache.NewRedisResultCache(client, resultRepo, cfg.Redis.TTL)
}
