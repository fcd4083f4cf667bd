package handler

import (
	"errors"
	"net/http"

	"github.com/vfg2006/attribution-api/internal/domain"
	"github.com/vfg2006/attribution-api/internal/usecases/attributing"
	"github.com/vfg2006/attribution-api/pkg/apiErrors"
	"github.com/vfg2006/attribution-api/pkg/log"
)

// TransitionsResponse é o corpo de GET /v1/attribution/transitions
type TransitionsResponse struct {
	TimeRange   domain.TimeRange `json:"time_range"`
	Transitions map[string]int   `json:"transitions"`
}

// GetAttribution retorna o último resultado em cache do modelo e janela do tenant
func GetAttribution(service attributing.Attributor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := tenantFromRequest(w, r)
		if !ok {
			return
		}

		model, timeRange, ok := parseModelAndTimeRange(w, r)
		if !ok {
			return
		}

		logger := log.ForContext(r.Context()).WithFields(log.Fields{
			"user_id":    userID,
			"model_type": model,
			"time_range": timeRange,
		})

		result, err := service.GetCachedResult(r.Context(), userID, model, timeRange)
		if err != nil {
			if !errors.Is(err, attributing.ErrResultNotFound) {
				logger.WithError(err).Error("attribution: erro ao ler resultado em cache")
			}
			writeAttributionError(w, err)
			return
		}

		writeJSON(w, r, http.StatusOK, result)
	}
}

// CalculateAttribution calcula o modelo na hora, sem gravar no cache
func CalculateAttribution(service attributing.Attributor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := tenantFromRequest(w, r)
		if !ok {
			return
		}

		model, timeRange, ok := parseModelAndTimeRange(w, r)
		if !ok {
			return
		}

		result, err := service.Calculate(r.Context(), userID, model, timeRange)
		if err != nil {
			log.ForContext(r.Context()).WithFields(log.Fields{
				"user_id":    userID,
				"model_type": model,
				"time_range": timeRange,
				"error":      err.Error(),
			}).Error("attribution: erro ao calcular modelo")
			writeAttributionError(w, err)
			return
		}

		writeJSON(w, r, http.StatusOK, result)
	}
}

// RefreshAttribution recalcula a matriz completa do tenant. Responde 207 se alguma combinação falhar.
func RefreshAttribution(service attributing.Attributor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := tenantFromRequest(w, r)
		if !ok {
			return
		}

		report, err := service.RefreshUser(r.Context(), userID)
		if err != nil {
			log.ForContext(r.Context()).WithField("user_id", userID).WithError(err).Error("attribution: erro ao recalcular")
			writeAttributionError(w, err)
			return
		}

		status := http.StatusOK
		if report.HasFailures() {
			status = http.StatusMultiStatus
		}

		writeJSON(w, r, status, report)
	}
}

// GetTransitions retorna as contagens de transições entre canais da janela
func GetTransitions(service attributing.Attributor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := tenantFromRequest(w, r)
		if !ok {
			return
		}

		timeRange, err := domain.ParseTimeRange(r.URL.Query().Get("time_range"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrUnknownTimeRange, err.Error(), supportedValues())
			return
		}

		transitions, err := service.TransitionCounts(r.Context(), userID, timeRange)
		if err != nil {
			log.ForContext(r.Context()).WithField("user_id", userID).WithError(err).Error("attribution: erro ao contar transições")
			writeAttributionError(w, err)
			return
		}

		writeJSON(w, r, http.StatusOK, TransitionsResponse{TimeRange: timeRange, Transitions: transitions})
	}
}

func parseModelAndTimeRange(w http.ResponseWriter, r *http.Request) (domain.ModelType, domain.TimeRange, bool) {
	query := r.URL.Query()

	model, err := domain.ParseModelType(query.Get("model"))
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrUnknownModel, err.Error(), supportedValues())
		return "", "", false
	}

	timeRange, err := domain.ParseTimeRange(query.Get("time_range"))
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrUnknownTimeRange, err.Error(), supportedValues())
		return "", "", false
	}

	return model, timeRange, true
}

func supportedValues() map[string]any {
	return map[string]any{
		"models":      domain.AllModelTypes,
		"time_ranges": domain.AllTimeRanges,
	}
}

// writeAttributionError traduz os erros do serviço para os códigos da API
func writeAttributionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, attributing.ErrResultNotFound):
		apiErrors.WriteError(w, apiErrors.ErrResultNotFound, "Nenhum resultado calculado para o modelo e janela", nil)
	case errors.Is(err, attributing.ErrUnknownModel):
		apiErrors.WriteError(w, apiErrors.ErrUnknownModel, err.Error(), supportedValues())
	case errors.Is(err, attributing.ErrUnknownTimeRange):
		apiErrors.WriteError(w, apiErrors.ErrUnknownTimeRange, err.Error(), supportedValues())
	case errors.Is(err, attributing.ErrMissingUserID):
		apiErrors.WriteError(w, apiErrors.ErrInvalidToken, err.Error(), nil)
	default:
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao processar atribuição", nil)
	}
}
