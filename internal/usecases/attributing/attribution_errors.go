package attributing

import (
	"errors"
	"fmt"

	"github.com/vfg2006/attribution-api/internal/domain"
)

var (
	// Erros de validação
	ErrUnknownModel     = errors.New("modelo de atribuição desconhecido")
	ErrUnknownTimeRange = errors.New("janela de tempo desconhecida")
	ErrMissingUserID    = errors.New("user ID é obrigatório")

	// Erros de leitura do cache
	ErrResultNotFound = errors.New("resultado de atribuição não encontrado")
)

// Stage indica em qual etapa do recálculo a combinação falhou
type Stage string

const (
	StageFetch   Stage = "fetch"
	StageCompute Stage = "compute"
	StageDelete  Stage = "delete"
	StageInsert  Stage = "insert"
)

// CombinationError é a falha de uma combinação (modelo, janela) específica
type CombinationError struct {
	UserID    string           `json:"user_id"`
	ModelType domain.ModelType `json:"model_type"`
	TimeRange domain.TimeRange `json:"time_range"`
	Stage     Stage            `json:"stage"`
	Err       error            `json:"-"`
}

// Error implementa a interface error
func (e *CombinationError) Error() string {
	return fmt.Sprintf("%s/%s/%s (%s): %v", e.UserID, e.ModelType, e.TimeRange, e.Stage, e.Err)
}

// Unwrap retorna o erro subjacente
func (e *CombinationError) Unwrap() error {
	return e.Err
}

// Key retorna a chave de cache da combinação
func (e *CombinationError) Key() domain.CacheKey {
	return domain.CacheKey{UserID: e.UserID, ModelType: e.ModelType, TimeRange: e.TimeRange}
}

// MarshalJSON inclui a mensagem do erro subjacente
func (e *CombinationError) MarshalJSON() ([]byte, error) {
	type alias CombinationError
	message := ""
	if e.Err != nil {
		message = e.Err.Error()
	}
	return json.Marshal(struct {
		*alias
		Error string `json:"error"`
	}{alias: (*alias)(e), Error: message})
}
