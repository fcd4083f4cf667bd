package postgres

import (
	"context"
	"database/sql"
)

// Queryer é o subconjunto da conexão usado pelos repositórios de leitura e escrita simples
type Queryer interface {
	Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Transactor adiciona transações, usado pelas gravações em lote
type Transactor interface {
	Queryer
	RunInTransaction(ctx context.Context, fn func(*sql.Tx) error) error
}

var _ Transactor = (*Connection)(nil)
