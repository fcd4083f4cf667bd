package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims são as informações do token emitido pelo serviço de autenticação.
// UserID é o dono da conta (tenant), não o cliente final.
type Claims struct {
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name,omitempty"`
	UserRoleID int    `json:"role_id"`
	jwt.RegisteredClaims
}
