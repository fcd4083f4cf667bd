package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/attribution-api/infrastructure/repository/mocks"
	"github.com/vfg2006/attribution-api/internal/config"
	"github.com/vfg2006/attribution-api/internal/domain"
	"github.com/vfg2006/attribution-api/internal/usecases/attributing"
	attributingmocks "github.com/vfg2006/attribution-api/internal/usecases/attributing/mocks"
	"go.uber.org/mock/gomock"
)

func newTestRefreshService(t *testing.T, cfg config.Attribution) (*AttributionRefreshService, *mocks.MockJourneyRepository, *attributingmocks.MockRefresher) {
	t.Helper()

	ctrl := gomock.NewController(t)
	journeyRepo := mocks.NewMockJourneyRepository(ctrl)
	refresher := attributingmocks.NewMockRefresher(ctrl)

	return NewAttributionRefreshService(journeyRepo, refresher, &config.Config{Attribution: cfg}), journeyRepo, refresher
}

func TestAttributionRefreshService_RunSync(t *testing.T) {
	tests := []struct {
		name                       string
		userIDs                    []string
		setup                      func(*attributingmocks.MockRefresher)
		expectedFailedUsers        []string
		expectedFailedCombinations int
	}{
		{
			name:    "todos os usuários recalculados",
			userIDs: []string{"user-1", "user-2", "user-3"},
			setup: func(refresher *attributingmocks.MockRefresher) {
				refresher.EXPECT().
					RefreshUser(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, userID string) (*attributing.RefreshReport, error) {
						return &attributing.RefreshReport{UserID: userID}, nil
					}).
					Times(3)
			},
			expectedFailedUsers: []string{},
		},
		{
			name:    "falha de um usuário não interrompe os demais",
			userIDs: []string{"user-1", "user-2", "user-3"},
			setup: func(refresher *attributingmocks.MockRefresher) {
				refresher.EXPECT().RefreshUser(gomock.Any(), "user-1").Return(&attributing.RefreshReport{UserID: "user-1"}, nil)
				refresher.EXPECT().RefreshUser(gomock.Any(), "user-2").Return(nil, errors.New("database down"))
				refresher.EXPECT().RefreshUser(gomock.Any(), "user-3").Return(&attributing.RefreshReport{
					UserID: "user-3",
					Failed: []*attributing.CombinationError{
						{UserID: "user-3", ModelType: domain.ModelSmart, TimeRange: domain.TimeRange7Days, Stage: attributing.StageInsert},
						{UserID: "user-3", ModelType: domain.ModelLinear, TimeRange: domain.TimeRange7Days, Stage: attributing.StageDelete},
					},
				}, nil)
			},
			expectedFailedUsers:        []string{"user-2", "user-3"},
			expectedFailedCombinations: 2,
		},
		{
			name:                "nenhum usuário com jornadas",
			userIDs:             []string{},
			setup:               func(*attributingmocks.MockRefresher) {},
			expectedFailedUsers: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, journeyRepo, refresher := newTestRefreshService(t, config.Attribution{MaxConcurrentJobs: 2})

			journeyRepo.EXPECT().ListUserIDs(gomock.Any()).Return(tt.userIDs, nil)
			tt.setup(refresher)

			summary, err := service.RunSync(context.Background())

			require.NoError(t, err)
			assert.Equal(t, len(tt.userIDs), summary.Users)
			sort.Strings(summary.FailedUsers)
			assert.Equal(t, tt.expectedFailedUsers, summary.FailedUsers)
			assert.Equal(t, tt.expectedFailedCombinations, summary.FailedCombinations)
			assert.False(t, summary.CompletedAt.Before(summary.StartedAt))

			status := service.GetStatus()
			assert.Equal(t, false, status["sync_running"])
			assert.Equal(t, summary, status["last_sync_summary"])
		})
	}
}

func TestAttributionRefreshService_RunSync_ListUsersError(t *testing.T) {
	service, journeyRepo, _ := newTestRefreshService(t, config.Attribution{MaxConcurrentJobs: 1})

	journeyRepo.EXPECT().ListUserIDs(gomock.Any()).Return(nil, errors.New("timeout"))

	summary, err := service.RunSync(context.Background())

	assert.Error(t, err)
	assert.Nil(t, summary)
	assert.Equal(t, false, service.GetStatus()["sync_running"])
}

func TestAttributionRefreshService_RespectsMaxConcurrentJobs(t *testing.T) {
	service, journeyRepo, refresher := newTestRefreshService(t, config.Attribution{MaxConcurrentJobs: 2})

	var running, peak int32
	journeyRepo.EXPECT().ListUserIDs(gomock.Any()).Return([]string{"u1", "u2", "u3", "u4", "u5", "u6"}, nil)
	refresher.EXPECT().
		RefreshUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, userID string) (*attributing.RefreshReport, error) {
			current := atomic.AddInt32(&running, 1)
			for {
				observed := atomic.LoadInt32(&peak)
				if current <= observed || atomic.CompareAndSwapInt32(&peak, observed, current) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return &attributing.RefreshReport{UserID: userID}, nil
		}).
		Times(6)

	_, err := service.RunSync(context.Background())

	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestAttributionRefreshService_RejectsConcurrentRun(t *testing.T) {
	service, journeyRepo, refresher := newTestRefreshService(t, config.Attribution{MaxConcurrentJobs: 1})

	release := make(chan struct{})
	started := make(chan struct{})

	journeyRepo.EXPECT().ListUserIDs(gomock.Any()).Return([]string{"user-1"}, nil)
	refresher.EXPECT().
		RefreshUser(gomock.Any(), "user-1").
		DoAndReturn(func(context.Context, string) (*attributing.RefreshReport, error) {
			close(started)
			<-release
			return &attributing.RefreshReport{UserID: "user-1"}, nil
		})

	done := make(chan error, 1)
	go func() {
		_, err := service.RunSync(context.Background())
		done <- err
	}()

	<-started
	_, err := service.RunSync(context.Background())
	assert.ErrorIs(t, err, ErrSyncAlreadyRunning)
	assert.False(t, service.TriggerManualSync())
	assert.Equal(t, true, service.GetStatus()["sync_running"])

	close(release)
	assert.NoError(t, <-done)
}

func TestAttributionRefreshService_Start(t *testing.T) {
	t.Run("desabilitado não agenda nada", func(t *testing.T) {
		service, _, _ := newTestRefreshService(t, config.Attribution{Enabled: false, CronSchedule: "0 2 * * *"})

		assert.NoError(t, service.Start(context.Background()))
		assert.Equal(t, 0, service.scheduler.Len())
	})

	t.Run("expressão cron inválida", func(t *testing.T) {
		service, _, _ := newTestRefreshService(t, config.Attribution{Enabled: true, CronSchedule: "todo dia"})

		assert.Error(t, service.Start(context.Background()))
	})

	t.Run("agenda o job e para com o contexto", func(t *testing.T) {
		service, _, _ := newTestRefreshService(t, config.Attribution{Enabled: true, CronSchedule: "0 2 * * *"})
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		require.NoError(t, service.Start(ctx))
		assert.Equal(t, 1, service.scheduler.Len())
	})
}
