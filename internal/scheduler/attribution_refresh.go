package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/attribution-api/infrastructure/repository"
	"github.com/vfg2006/attribution-api/internal/config"
	"github.com/vfg2006/attribution-api/internal/metrics"
	"github.com/vfg2006/attribution-api/internal/usecases/attributing"
)

// ErrSyncAlreadyRunning é retornado quando um recálculo é solicitado com outro em andamento
var ErrSyncAlreadyRunning = errors.New("recálculo de atribuição já em andamento")

// AttributionRefreshConfig representa a configuração do agendador de recálculo de atribuição
type AttributionRefreshConfig struct {
	CronSchedule      string
	MaxConcurrentJobs int
	SyncEnabled       bool
}

// SyncSummary resume uma execução completa sobre todos os usuários
type SyncSummary struct {
	StartedAt          time.Time `json:"started_at"`
	CompletedAt        time.Time `json:"completed_at"`
	Users              int       `json:"users"`
	FailedUsers        []string  `json:"failed_users"`
	FailedCombinations int       `json:"failed_combinations"`
}

// AttributionRefreshService agenda o recálculo da matriz de atribuição de todos os usuários
type AttributionRefreshService struct {
	scheduler           *gocron.Scheduler
	config              AttributionRefreshConfig
	journeyRepo         repository.JourneyRepository
	refresher           attributing.Refresher
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSummary         *SyncSummary
}

// NewAttributionRefreshService cria uma nova instância do serviço de recálculo agendado
func NewAttributionRefreshService(
	journeyRepo repository.JourneyRepository,
	refresher attributing.Refresher,
	appConfig *config.Config,
) *AttributionRefreshService {
	refreshConfig := AttributionRefreshConfig{
		CronSchedule:      appConfig.Attribution.CronSchedule,
		MaxConcurrentJobs: max(1, appConfig.Attribution.MaxConcurrentJobs),
		SyncEnabled:       appConfig.Attribution.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":       refreshConfig.CronSchedule,
		"max_concurrent_jobs": refreshConfig.MaxConcurrentJobs,
		"sync_enabled":        refreshConfig.SyncEnabled,
	}).Info("Configuração do agendador de atribuição carregada")

	return &AttributionRefreshService{
		scheduler:   gocron.NewScheduler(time.Local),
		config:      refreshConfig,
		journeyRepo: journeyRepo,
		refresher:   refresher,
	}
}

// Start inicia o agendador
func (s *AttributionRefreshService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Recálculo agendado de atribuição desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de recálculo de atribuição")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if _, err := s.RunSync(ctx); err != nil {
			logrus.WithError(err).Warn("Recálculo agendado de atribuição não executado")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar recálculo de atribuição: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de recálculo de atribuição")
		s.scheduler.Stop()
	}()

	return nil
}

// RunSync recalcula a matriz de todos os usuários com jornadas. A falha de um usuário
// não interrompe os demais.
func (s *AttributionRefreshService) RunSync(ctx context.Context) (*SyncSummary, error) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		return nil, ErrSyncAlreadyRunning
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	summary := &SyncSummary{
		StartedAt:   s.lastSyncStartedAt,
		FailedUsers: make([]string, 0),
	}
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	logrus.Info("Iniciando recálculo de atribuição para todos os usuários")

	userIDs, err := s.journeyRepo.ListUserIDs(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar usuários para recálculo de atribuição")
		return nil, fmt.Errorf("erro ao listar usuários: %w", err)
	}

	summary.Users = len(userIDs)
	if len(userIDs) == 0 {
		logrus.Info("Nenhum usuário com jornadas encontrado para recálculo de atribuição")
	}

	s.refreshUsers(ctx, userIDs, summary)

	summary.CompletedAt = time.Now()
	metrics.MarkSyncCompleted(summary.CompletedAt)

	s.syncMutex.Lock()
	s.lastSyncCompletedAt = summary.CompletedAt
	s.lastSummary = summary
	s.syncMutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"duration":            summary.CompletedAt.Sub(summary.StartedAt).String(),
		"users":               summary.Users,
		"failed_users":        len(summary.FailedUsers),
		"failed_combinations": summary.FailedCombinations,
	}).Info("Recálculo de atribuição concluído")

	return summary, nil
}

// refreshUsers processa os usuários com no máximo MaxConcurrentJobs em paralelo
func (s *AttributionRefreshService) refreshUsers(ctx context.Context, userIDs []string, summary *SyncSummary) {
	semaphore := make(chan struct{}, s.config.MaxConcurrentJobs)
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, userID := range userIDs {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(userID string) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			report, err := s.refresher.RefreshUser(ctx, userID)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				logrus.WithFields(logrus.Fields{
					"user_id": userID,
					"error":   err.Error(),
				}).Error("Erro ao recalcular atribuição do usuário")
				summary.FailedUsers = append(summary.FailedUsers, userID)
				return
			}

			if report.HasFailures() {
				summary.FailedUsers = append(summary.FailedUsers, userID)
				summary.FailedCombinations += len(report.Failed)
			}
		}(userID)
	}

	wg.Wait()
}

// TriggerManualSync inicia manualmente um recálculo em segundo plano.
// Retorna false se já houver um recálculo em andamento.
func (s *AttributionRefreshService) TriggerManualSync() bool {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Recálculo de atribuição já em andamento, ignorando solicitação manual")
		return false
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando recálculo manual de atribuição")
	go func() {
		if _, err := s.RunSync(context.Background()); err != nil {
			logrus.WithError(err).Warn("Recálculo manual de atribuição não executado")
		}
	}()

	return true
}

// GetStatus retorna o status atual do agendador
func (s *AttributionRefreshService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_max_concurrent":    s.config.MaxConcurrentJobs,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_summary":      s.lastSummary,
	}
}
