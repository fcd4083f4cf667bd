package attributing

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/attribution-api/infrastructure/repository"
	"github.com/vfg2006/attribution-api/internal/config"
	"github.com/vfg2006/attribution-api/internal/domain"
	"github.com/vfg2006/attribution-api/internal/metrics"
	"github.com/vfg2006/attribution-api/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RefreshReport resume o recálculo da matriz de um tenant
type RefreshReport struct {
	RunID      string              `json:"run_id"`
	UserID     string              `json:"user_id"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
	Succeeded  []domain.CacheKey   `json:"succeeded"`
	Failed     []*CombinationError `json:"failed"`
}

// HasFailures indica se alguma combinação falhou
func (r *RefreshReport) HasFailures() bool {
	return len(r.Failed) > 0
}

// Service orquestra a busca das jornadas, o cálculo dos modelos e a troca das entradas do cache
type Service struct {
	journeyRepository repository.JourneyRepository
	resultRepository  repository.AttributionResultRepository
	timeRanges        []domain.TimeRange
	concurrency       int
	now               func() time.Time
}

// NewService cria o serviço de atribuição com as janelas configuradas
func NewService(
	cfg *config.Config,
	journeyRepo repository.JourneyRepository,
	resultRepo repository.AttributionResultRepository,
) (*Service, error) {
	timeRanges := make([]domain.TimeRange, 0, len(cfg.Attribution.TimeRanges))
	for _, value := range cfg.Attribution.TimeRanges {
		timeRange, err := domain.ParseTimeRange(value)
		if err != nil {
			return nil, errors.Wrap(ErrUnknownTimeRange, err.Error())
		}
		timeRanges = append(timeRanges, timeRange)
	}

	if len(timeRanges) == 0 {
		timeRanges = append(timeRanges, domain.AllTimeRanges...)
	}

	concurrency := cfg.Attribution.RefreshConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	logrus.WithFields(logrus.Fields{
		"time_ranges": timeRanges,
		"concurrency": concurrency,
	}).Info("Serviço de atribuição configurado")

	return &Service{
		journeyRepository: journeyRepo,
		resultRepository:  resultRepo,
		timeRanges:        timeRanges,
		concurrency:       concurrency,
		now:               time.Now,
	}, nil
}

// Calculate busca as jornadas da janela e executa o modelo, sem tocar no cache
func (s *Service) Calculate(ctx context.Context, userID string, model domain.ModelType, timeRange domain.TimeRange) (*domain.AttributionModelResult, error) {
	calculator, err := s.validate(userID, model, timeRange)
	if err != nil {
		return nil, err
	}

	journeys, err := s.fetchJourneys(ctx, userID, timeRange)
	if err != nil {
		return nil, err
	}

	return calculator(journeys, s.now()), nil
}

// GetCachedResult lê o cache. Retorna ErrResultNotFound se a chave não existir.
func (s *Service) GetCachedResult(ctx context.Context, userID string, model domain.ModelType, timeRange domain.TimeRange) (*domain.AttributionModelResult, error) {
	if _, err := s.validate(userID, model, timeRange); err != nil {
		return nil, err
	}

	result, err := s.resultRepository.GetCachedResult(ctx, userID, model, timeRange)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao ler cache de atribuição %s/%s", model, timeRange)
	}

	if result == nil {
		return nil, ErrResultNotFound
	}

	return result, nil
}

// TransitionCounts conta as transições entre canais nas jornadas da janela
func (s *Service) TransitionCounts(ctx context.Context, userID string, timeRange domain.TimeRange) (map[string]int, error) {
	if _, err := s.validate(userID, domain.ModelSmart, timeRange); err != nil {
		return nil, err
	}

	journeys, err := s.fetchJourneys(ctx, userID, timeRange)
	if err != nil {
		return nil, err
	}

	return CalculateTransitionCounts(journeys), nil
}

// RefreshUser recalcula todas as combinações (janela, modelo) do tenant e substitui as entradas do cache.
// A falha de uma combinação não interrompe as demais. Com o contexto cancelado, as combinações
// ainda não iniciadas são reportadas como falha e as já concluídas permanecem gravadas.
func (s *Service) RefreshUser(ctx context.Context, userID string) (*RefreshReport, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	runID, err := utils.GenerateID()
	if err != nil {
		logrus.WithError(err).Warn("Erro ao gerar ID da execução de atribuição")
	}

	report := &RefreshReport{
		RunID:     runID,
		UserID:    userID,
		StartedAt: s.now(),
		Succeeded: make([]domain.CacheKey, 0),
		Failed:    make([]*CombinationError, 0),
	}

	logger := logrus.WithFields(logrus.Fields{
		"run_id":  runID,
		"user_id": userID,
	})
	logger.Info("Iniciando recálculo de atribuição do usuário")

	keys := s.combinations(userID)

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		semaphore = make(chan struct{}, s.concurrency)
	)

	record := func(key domain.CacheKey, combinationErr *CombinationError) {
		mu.Lock()
		defer mu.Unlock()
		if combinationErr != nil {
			report.Failed = append(report.Failed, combinationErr)
			return
		}
		report.Succeeded = append(report.Succeeded, key)
	}

	for _, key := range keys {
		select {
		case <-ctx.Done():
			record(key, s.newCombinationError(key, StageFetch, ctx.Err()))
			continue
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(key domain.CacheKey) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			record(key, s.refreshCombination(ctx, key))
		}(key)
	}

	wg.Wait()

	s.sortReport(report)
	report.FinishedAt = s.now()

	logger.WithFields(logrus.Fields{
		"succeeded": len(report.Succeeded),
		"failed":    len(report.Failed),
		"duration":  report.FinishedAt.Sub(report.StartedAt).String(),
	}).Info("Recálculo de atribuição do usuário concluído")

	return report, nil
}

// refreshCombination executa busca, cálculo, delete e insert de uma única chave, nessa ordem
func (s *Service) refreshCombination(ctx context.Context, key domain.CacheKey) (combinationErr *CombinationError) {
	startTime := time.Now()
	logger := logrus.WithFields(logrus.Fields{
		"user_id":    key.UserID,
		"model_type": key.ModelType,
		"time_range": key.TimeRange,
	})

	defer func() {
		var err error
		if combinationErr != nil {
			err = combinationErr
			logger.WithError(combinationErr.Err).WithField("stage", combinationErr.Stage).
				Error("Erro ao recalcular combinação de atribuição")
		}
		metrics.ObserveCombination(key.ModelType, key.TimeRange, err, time.Since(startTime))
	}()

	if err := ctx.Err(); err != nil {
		return s.newCombinationError(key, StageFetch, err)
	}

	journeys, err := s.fetchJourneys(ctx, key.UserID, key.TimeRange)
	if err != nil {
		return s.newCombinationError(key, StageFetch, err)
	}

	result, err := s.compute(key.ModelType, journeys)
	if err != nil {
		return s.newCombinationError(key, StageCompute, err)
	}

	// O delete precisa terminar antes do insert. Uma falha entre os dois deixa a chave sem
	// resultado, nunca com dados antigos.
	if err := s.resultRepository.DeleteCachedResult(ctx, key.UserID, key.ModelType, key.TimeRange); err != nil {
		return s.newCombinationError(key, StageDelete, errors.Wrap(err, "erro ao remover resultado anterior"))
	}

	if err := s.resultRepository.InsertCachedResult(ctx, key.UserID, key.ModelType, key.TimeRange, result); err != nil {
		return s.newCombinationError(key, StageInsert, errors.Wrap(err, "erro ao gravar novo resultado"))
	}

	logger.WithFields(logrus.Fields{
		"journeys":      len(journeys),
		"total_revenue": result.TotalRevenue,
		"channels":      len(result.ChannelResults),
		"duration":      time.Since(startTime).String(),
	}).Debug("Combinação de atribuição recalculada")

	return nil
}

// compute executa o modelo isolando panics para que não derrubem o lote
func (s *Service) compute(model domain.ModelType, journeys []*domain.Journey) (result *domain.AttributionModelResult, err error) {
	calculator, err := CalculatorFor(model)
	if err != nil {
		return nil, err
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			result = nil
			err = fmt.Errorf("panic no modelo %s: %v", model, recovered)
		}
	}()

	return calculator(journeys, s.now()), nil
}

func (s *Service) fetchJourneys(ctx context.Context, userID string, timeRange domain.TimeRange) ([]*domain.Journey, error) {
	since := timeRange.Since(s.now())

	journeys, err := s.journeyRepository.FetchJourneys(ctx, userID, since)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao buscar jornadas desde %s", since.Format(time.DateOnly))
	}

	metrics.ObserveJourneys(timeRange, len(journeys))
	return journeys, nil
}

func (s *Service) validate(userID string, model domain.ModelType, timeRange domain.TimeRange) (Calculator, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	calculator, err := CalculatorFor(model)
	if err != nil {
		return nil, err
	}

	if _, err := domain.ParseTimeRange(string(timeRange)); err != nil {
		return nil, ErrUnknownTimeRange
	}

	return calculator, nil
}

// combinations monta a matriz janelas x modelos
func (s *Service) combinations(userID string) []domain.CacheKey {
	keys := make([]domain.CacheKey, 0, len(s.timeRanges)*len(domain.AllModelTypes))
	for _, timeRange := range s.timeRanges {
		for _, model := range domain.AllModelTypes {
			keys = append(keys, domain.CacheKey{UserID: userID, ModelType: model, TimeRange: timeRange})
		}
	}
	return keys
}

// sortReport ordena o relatório na ordem da matriz, já que os workers terminam em qualquer ordem
func (s *Service) sortReport(report *RefreshReport) {
	position := make(map[domain.CacheKey]int)
	for i, key := range s.combinations(report.UserID) {
		position[key] = i
	}

	sort.SliceStable(report.Succeeded, func(i, j int) bool {
		return position[report.Succeeded[i]] < position[report.Succeeded[j]]
	})
	sort.SliceStable(report.Failed, func(i, j int) bool {
		return position[report.Failed[i].Key()] < position[report.Failed[j].Key()]
	})
}

func (s *Service) newCombinationError(key domain.CacheKey, stage Stage, err error) *CombinationError {
	return &CombinationError{
		UserID:    key.UserID,
		ModelType: key.ModelType,
		TimeRange: key.TimeRange,
		Stage:     stage,
		Err:       err,
	}
}
