package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 12
)

// GenerateID gera um identificador alfanumérico curto, usado em execuções de recálculo e jornadas semeadas
func GenerateID() (string, error) {
	return gonanoid.Generate(idAlphabet, idLength)
}
