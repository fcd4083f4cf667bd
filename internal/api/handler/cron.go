package handler

import (
	"net/http"

	"github.com/vfg2006/attribution-api/pkg/apiErrors"
	"github.com/vfg2006/attribution-api/pkg/log"
)

// CronJobType identifica a cron job executada manualmente
const CronJobTypeAttribution = "attribution"

// AttributionSync é a parte do agendador usada pela API
type AttributionSync interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
}

// CronJobServices contém os serviços de cron que podem ser executados manualmente
type CronJobServices struct {
	AttributionRefreshService AttributionSync
}

// RunAttributionCronJob dispara o recálculo de todos os usuários em segundo plano
func RunAttributionCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		logger.Info("INIT - RunAttributionCronJob")

		if services.AttributionRefreshService == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de recálculo de atribuição não disponível", nil)
			return
		}

		if !services.AttributionRefreshService.TriggerManualSync() {
			apiErrors.WriteError(w, apiErrors.ErrSyncAlreadyRunning, "Recálculo de atribuição já em andamento", nil)
			return
		}

		writeJSON(w, r, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    CronJobTypeAttribution,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.ForContext(r.Context()).Info("INIT - GetCronStatus")

		status := map[string]any{}
		if services.AttributionRefreshService != nil {
			status[CronJobTypeAttribution] = services.AttributionRefreshService.GetStatus()
		}

		writeJSON(w, r, http.StatusOK, status)
	}
}
