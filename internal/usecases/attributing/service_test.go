package attributing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/attribution-api/infrastructure/repository/mocks"
	"github.com/vfg2006/attribution-api/internal/config"
	"github.com/vfg2006/attribution-api/internal/domain"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC)

func newTestService(
	t *testing.T,
	concurrency int,
	journeyRepo *mocks.MockJourneyRepository,
	resultRepo *mocks.MockAttributionResultRepository,
) *Service {
	t.Helper()

	cfg := &config.Config{
		Attribution: config.Attribution{
			TimeRanges:         []string{"7d", "30d", "90d"},
			RefreshConcurrency: concurrency,
		},
	}

	service, err := NewService(cfg, journeyRepo, resultRepo)
	require.NoError(t, err)
	service.now = func() time.Time { return fixedNow }

	return service
}

func matrixKeys(userID string) []domain.CacheKey {
	keys := make([]domain.CacheKey, 0, 12)
	for _, timeRange := range domain.AllTimeRanges {
		for _, model := range domain.AllModelTypes {
			keys = append(keys, domain.CacheKey{UserID: userID, ModelType: model, TimeRange: timeRange})
		}
	}
	return keys
}

func TestNewService(t *testing.T) {
	tests := []struct {
		name                string
		cfg                 config.Attribution
		expectedErr         error
		expectedRanges      []domain.TimeRange
		expectedConcurrency int
	}{
		{
			name:                "usa todas as janelas quando nenhuma é configurada",
			cfg:                 config.Attribution{},
			expectedRanges:      domain.AllTimeRanges,
			expectedConcurrency: 1,
		},
		{
			name:                "respeita a lista configurada",
			cfg:                 config.Attribution{TimeRanges: []string{"30d"}, RefreshConcurrency: 8},
			expectedRanges:      []domain.TimeRange{domain.TimeRange30Days},
			expectedConcurrency: 8,
		},
		{
			name:        "rejeita janela desconhecida",
			cfg:         config.Attribution{TimeRanges: []string{"14d"}},
			expectedErr: ErrUnknownTimeRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := NewService(&config.Config{Attribution: tt.cfg}, nil, nil)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, service)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedRanges, service.timeRanges)
			assert.Equal(t, tt.expectedConcurrency, service.concurrency)
		})
	}
}

func TestService_RefreshUser_FullMatrix(t *testing.T) {
	ctrl := gomock.NewController(t)
	journeyRepo := mocks.NewMockJourneyRepository(ctrl)
	resultRepo := mocks.NewMockAttributionResultRepository(ctrl)
	service := newTestService(t, 4, journeyRepo, resultRepo)

	journeys := []*domain.Journey{journey("o1", 100, "google", "meta")}

	// Uma busca por combinação, com o limite inferior da janela
	for _, timeRange := range domain.AllTimeRanges {
		journeyRepo.EXPECT().
			FetchJourneys(gomock.Any(), "user-1", timeRange.Since(fixedNow)).
			Return(journeys, nil).
			Times(len(domain.AllModelTypes))
	}

	for _, key := range matrixKeys("user-1") {
		gomock.InOrder(
			resultRepo.EXPECT().DeleteCachedResult(gomock.Any(), "user-1", key.ModelType, key.TimeRange).Return(nil),
			resultRepo.EXPECT().
				InsertCachedResult(gomock.Any(), "user-1", key.ModelType, key.TimeRange, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, model domain.ModelType, _ domain.TimeRange, result *domain.AttributionModelResult) error {
					assert.Equal(t, model, result.ModelType)
					assert.Equal(t, 100.0, result.TotalRevenue)
					assert.Equal(t, fixedNow, result.CalculatedAt)
					return nil
				}),
		)
	}

	report, err := service.RefreshUser(context.Background(), "user-1")

	require.NoError(t, err)
	assert.False(t, report.HasFailures())
	assert.Equal(t, matrixKeys("user-1"), report.Succeeded)
	assert.Equal(t, "user-1", report.UserID)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, fixedNow, report.StartedAt)
	assert.Equal(t, fixedNow, report.FinishedAt)
}

func TestService_RefreshUser_IsolatesFailures(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(*mocks.MockJourneyRepository, *mocks.MockAttributionResultRepository)
		expectedStage map[domain.CacheKey]Stage
	}{
		{
			name: "falha na busca de uma janela afeta apenas os modelos dessa janela",
			setup: func(journeyRepo *mocks.MockJourneyRepository, resultRepo *mocks.MockAttributionResultRepository) {
				journeyRepo.EXPECT().
					FetchJourneys(gomock.Any(), "user-1", domain.TimeRange7Days.Since(fixedNow)).
					Return(nil, errors.New("connection reset")).
					Times(4)
				journeyRepo.EXPECT().
					FetchJourneys(gomock.Any(), "user-1", gomock.Any()).
					Return([]*domain.Journey{journey("o1", 10, "google")}, nil).
					Times(8)

				resultRepo.EXPECT().
					DeleteCachedResult(gomock.Any(), "user-1", gomock.Any(), gomock.Not(domain.TimeRange7Days)).
					Return(nil).
					Times(8)
				resultRepo.EXPECT().
					InsertCachedResult(gomock.Any(), "user-1", gomock.Any(), gomock.Not(domain.TimeRange7Days), gomock.Any()).
					Return(nil).
					Times(8)
			},
			expectedStage: map[domain.CacheKey]Stage{
				{UserID: "user-1", ModelType: domain.ModelFirstClick, TimeRange: domain.TimeRange7Days}: StageFetch,
				{UserID: "user-1", ModelType: domain.ModelLastClick, TimeRange: domain.TimeRange7Days}:  StageFetch,
				{UserID: "user-1", ModelType: domain.ModelLinear, TimeRange: domain.TimeRange7Days}:     StageFetch,
				{UserID: "user-1", ModelType: domain.ModelSmart, TimeRange: domain.TimeRange7Days}:      StageFetch,
			},
		},
		{
			name: "falha no delete não executa o insert da chave",
			setup: func(journeyRepo *mocks.MockJourneyRepository, resultRepo *mocks.MockAttributionResultRepository) {
				journeyRepo.EXPECT().
					FetchJourneys(gomock.Any(), "user-1", gomock.Any()).
					Return([]*domain.Journey{journey("o1", 10, "google")}, nil).
					Times(12)

				resultRepo.EXPECT().
					DeleteCachedResult(gomock.Any(), "user-1", domain.ModelSmart, domain.TimeRange30Days).
					Return(errors.New("lock timeout"))
				resultRepo.EXPECT().
					DeleteCachedResult(gomock.Any(), "user-1", gomock.Any(), gomock.Any()).
					Return(nil).
					Times(11)
				resultRepo.EXPECT().
					InsertCachedResult(gomock.Any(), "user-1", gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, model domain.ModelType, timeRange domain.TimeRange, _ *domain.AttributionModelResult) error {
						assert.False(t, model == domain.ModelSmart && timeRange == domain.TimeRange30Days)
						return nil
					}).
					Times(11)
			},
			expectedStage: map[domain.CacheKey]Stage{
				{UserID: "user-1", ModelType: domain.ModelSmart, TimeRange: domain.TimeRange30Days}: StageDelete,
			},
		},
		{
			name: "falha no insert é reportada com a etapa insert",
			setup: func(journeyRepo *mocks.MockJourneyRepository, resultRepo *mocks.MockAttributionResultRepository) {
				journeyRepo.EXPECT().
					FetchJourneys(gomock.Any(), "user-1", gomock.Any()).
					Return(nil, nil).
					Times(12)

				resultRepo.EXPECT().
					DeleteCachedResult(gomock.Any(), "user-1", gomock.Any(), gomock.Any()).
					Return(nil).
					Times(12)
				resultRepo.EXPECT().
					InsertCachedResult(gomock.Any(), "user-1", domain.ModelLinear, domain.TimeRange90Days, gomock.Any()).
					Return(errors.New("unique violation"))
				resultRepo.EXPECT().
					InsertCachedResult(gomock.Any(), "user-1", gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					Times(11)
			},
			expectedStage: map[domain.CacheKey]Stage{
				{UserID: "user-1", ModelType: domain.ModelLinear, TimeRange: domain.TimeRange90Days}: StageInsert,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			journeyRepo := mocks.NewMockJourneyRepository(ctrl)
			resultRepo := mocks.NewMockAttributionResultRepository(ctrl)
			service := newTestService(t, 3, journeyRepo, resultRepo)

			tt.setup(journeyRepo, resultRepo)

			report, err := service.RefreshUser(context.Background(), "user-1")

			require.NoError(t, err)
			assert.True(t, report.HasFailures())
			assert.Len(t, report.Failed, len(tt.expectedStage))
			assert.Len(t, report.Succeeded, 12-len(tt.expectedStage))

			for _, failure := range report.Failed {
				stage, ok := tt.expectedStage[failure.Key()]
				require.True(t, ok, "falha inesperada: %s", failure.Error())
				assert.Equal(t, stage, failure.Stage)
				assert.Error(t, failure.Unwrap())
			}
			for _, key := range report.Succeeded {
				_, failed := tt.expectedStage[key]
				assert.False(t, failed)
			}
		})
	}
}

func TestService_RefreshUser_CancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	journeyRepo := mocks.NewMockJourneyRepository(ctrl)
	resultRepo := mocks.NewMockAttributionResultRepository(ctrl)
	service := newTestService(t, 2, journeyRepo, resultRepo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Nenhuma chamada aos repositórios é esperada
	report, err := service.RefreshUser(ctx, "user-1")

	require.NoError(t, err)
	assert.Empty(t, report.Succeeded)
	require.Len(t, report.Failed, 12)
	for i, failure := range report.Failed {
		assert.Equal(t, matrixKeys("user-1")[i], failure.Key())
		assert.ErrorIs(t, failure, context.Canceled)
	}
}

func TestService_RefreshUser_MissingUserID(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := newTestService(t, 1, mocks.NewMockJourneyRepository(ctrl), mocks.NewMockAttributionResultRepository(ctrl))

	report, err := service.RefreshUser(context.Background(), "")

	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestService_Calculate(t *testing.T) {
	ctrl := gomock.NewController(t)
	journeyRepo := mocks.NewMockJourneyRepository(ctrl)
	resultRepo := mocks.NewMockAttributionResultRepository(ctrl)
	service := newTestService(t, 1, journeyRepo, resultRepo)

	journeyRepo.EXPECT().
		FetchJourneys(gomock.Any(), "user-1", fixedNow.AddDate(0, 0, -30)).
		Return([]*domain.Journey{
			journey("o1", 100, "google", "meta"),
			journey("o2", 50, "meta"),
		}, nil)

	// Calculate não grava no cache
	result, err := service.Calculate(context.Background(), "user-1", domain.ModelLastClick, domain.TimeRange30Days)

	require.NoError(t, err)
	assert.Equal(t, domain.ModelLastClick, result.ModelType)
	assert.Equal(t, 150.0, result.TotalRevenue)
	require.Len(t, result.ChannelResults, 1)
	assert.Equal(t, "meta", result.ChannelResults[0].Channel)
	assert.Equal(t, 2, result.ChannelResults[0].OrderCount)
}

func TestService_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := newTestService(t, 1, mocks.NewMockJourneyRepository(ctrl), mocks.NewMockAttributionResultRepository(ctrl))
	ctx := context.Background()

	tests := []struct {
		name        string
		userID      string
		model       domain.ModelType
		timeRange   domain.TimeRange
		expectedErr error
	}{
		{name: "sem user ID", userID: "", model: domain.ModelLinear, timeRange: domain.TimeRange7Days, expectedErr: ErrMissingUserID},
		{name: "modelo desconhecido", userID: "user-1", model: "position", timeRange: domain.TimeRange7Days, expectedErr: ErrUnknownModel},
		{name: "janela desconhecida", userID: "user-1", model: domain.ModelLinear, timeRange: "1y", expectedErr: ErrUnknownTimeRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Calculate(ctx, tt.userID, tt.model, tt.timeRange)
			assert.ErrorIs(t, err, tt.expectedErr)

			_, err = service.GetCachedResult(ctx, tt.userID, tt.model, tt.timeRange)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestService_GetCachedResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	resultRepo := mocks.NewMockAttributionResultRepository(ctrl)
	service := newTestService(t, 1, mocks.NewMockJourneyRepository(ctrl), resultRepo)
	ctx := context.Background()

	cached := &domain.AttributionModelResult{ModelType: domain.ModelSmart, TotalRevenue: 10, CalculatedAt: fixedNow}

	resultRepo.EXPECT().GetCachedResult(gomock.Any(), "user-1", domain.ModelSmart, domain.TimeRange7Days).Return(cached, nil)
	resultRepo.EXPECT().GetCachedResult(gomock.Any(), "user-2", domain.ModelSmart, domain.TimeRange7Days).Return(nil, nil)
	resultRepo.EXPECT().GetCachedResult(gomock.Any(), "user-3", domain.ModelSmart, domain.TimeRange7Days).Return(nil, errors.New("timeout"))

	result, err := service.GetCachedResult(ctx, "user-1", domain.ModelSmart, domain.TimeRange7Days)
	require.NoError(t, err)
	assert.Equal(t, cached, result)

	_, err = service.GetCachedResult(ctx, "user-2", domain.ModelSmart, domain.TimeRange7Days)
	assert.ErrorIs(t, err, ErrResultNotFound)

	_, err = service.GetCachedResult(ctx, "user-3", domain.ModelSmart, domain.TimeRange7Days)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrResultNotFound)
}

func TestService_TransitionCounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	journeyRepo := mocks.NewMockJourneyRepository(ctrl)
	service := newTestService(t, 1, journeyRepo, mocks.NewMockAttributionResultRepository(ctrl))

	journeyRepo.EXPECT().
		FetchJourneys(gomock.Any(), "user-1", fixedNow.AddDate(0, 0, -90)).
		Return([]*domain.Journey{journey("o1", 10, "google", "meta")}, nil)

	transitions, err := service.TransitionCounts(context.Background(), "user-1", domain.TimeRange90Days)

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"google->meta": 1}, transitions)
}

// memoryResultRepository é um cache em memória com chave única, como a tabela attribution_results
type memoryResultRepository struct {
	mu      sync.Mutex
	entries map[domain.CacheKey]*domain.AttributionModelResult
}

func newMemoryResultRepository() *memoryResultRepository {
	return &memoryResultRepository{entries: make(map[domain.CacheKey]*domain.AttributionModelResult)}
}

func (r *memoryResultRepository) DeleteCachedResult(_ context.Context, userID string, model domain.ModelType, timeRange domain.TimeRange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, domain.CacheKey{UserID: userID, ModelType: model, TimeRange: timeRange})
	return nil
}

func (r *memoryResultRepository) InsertCachedResult(_ context.Context, userID string, model domain.ModelType, timeRange domain.TimeRange, result *domain.AttributionModelResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := domain.CacheKey{UserID: userID, ModelType: model, TimeRange: timeRange}
	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("chave duplicada %s", key)
	}
	r.entries[key] = result
	return nil
}

func (r *memoryResultRepository) GetCachedResult(_ context.Context, userID string, model domain.ModelType, timeRange domain.TimeRange) (*domain.AttributionModelResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[domain.CacheKey{UserID: userID, ModelType: model, TimeRange: timeRange}], nil
}

func TestService_RefreshUser_ReplacesCachedResults(t *testing.T) {
	ctrl := gomock.NewController(t)
	journeyRepo := mocks.NewMockJourneyRepository(ctrl)
	store := newMemoryResultRepository()

	cfg := &config.Config{Attribution: config.Attribution{RefreshConcurrency: 4}}
	service, err := NewService(cfg, journeyRepo, store)
	require.NoError(t, err)
	service.now = func() time.Time { return fixedNow }

	first := []*domain.Journey{journey("o1", 100, "google")}
	second := []*domain.Journey{journey("o1", 100, "google"), journey("o2", 40, "meta")}

	gomock.InOrder(
		journeyRepo.EXPECT().FetchJourneys(gomock.Any(), "user-1", gomock.Any()).Return(first, nil).Times(12),
		journeyRepo.EXPECT().FetchJourneys(gomock.Any(), "user-1", gomock.Any()).Return(second, nil).Times(12),
	)

	report, err := service.RefreshUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.False(t, report.HasFailures())

	report, err = service.RefreshUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.False(t, report.HasFailures())

	// Cada chave tem exatamente o resultado do segundo recálculo
	assert.Len(t, store.entries, 12)
	for _, key := range matrixKeys("user-1") {
		result, err := service.GetCachedResult(context.Background(), key.UserID, key.ModelType, key.TimeRange)
		require.NoError(t, err)
		assert.Equal(t, 140.0, result.TotalRevenue)
		assert.Len(t, result.ChannelResults, 2)
	}
}

func TestCombinationError_MarshalJSON(t *testing.T) {
	combinationErr := &CombinationError{
		UserID:    "user-1",
		ModelType: domain.ModelSmart,
		TimeRange: domain.TimeRange7Days,
		Stage:     StageInsert,
		Err:       errors.New("unique violation"),
	}

	payload, err := json.Marshal(combinationErr)

	require.NoError(t, err)
	assert.JSONEq(t, `{
		"user_id": "user-1",
		"model_type": "smart",
		"time_range": "7d",
		"stage": "insert",
		"error": "unique violation"
	}`, string(payload))
}
