package sqlite

import (
	"context"
	"database/sql"
	"errors"
)

// Executor 存储执行器
// QueryBuilder只产出Statement,真正执行交给Executor,测试时可替换
type Executor interface {
	// Execute 执行写语句,返回影响行数
	Execute(ctx context.Context, st Statement) (int64, error)
	// Query 执行查询,调用方负责关闭rows
	Query(ctx context.Context, st Statement) (*sql.Rows, error)
	// Scalar 返回第一行第一列;没有结果或为NULL时返回空串
	Scalar(ctx context.Context, st Statement) (string, error)
}

// DBTX *sql.DB与*sql.Tx的公共方法
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqlExecutor struct {
	db DBTX
}

// NewExecutor 基于database/sql的执行器
func NewExecutor(db DBTX) Executor {
	return &sqlExecutor{db: db}
}

func (e *sqlExecutor) Execute(ctx context.Context, st Statement) (int64, error) {
	res, err := e.db.ExecContext(ctx, st.Text, st.NamedArgs()...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (e *sqlExecutor) Query(ctx context.Context, st Statement) (*sql.Rows, error) {
	return e.db.QueryContext(ctx, st.Text, st.NamedArgs()...)
}

func (e *sqlExecutor) Scalar(ctx context.Context, st Statement) (string, error) {
	var v sql.NullString
	err := e.db.QueryRowContext(ctx, st.Text, st.NamedArgs()...).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v.String, nil
}
