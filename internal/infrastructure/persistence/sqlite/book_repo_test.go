package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book/booktest"
	"github.com/xiebiao/bookcatalog/internal/domain/idseq"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(config.SQLiteConfig{DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(context.Background(), db, "books"))
	t.Cleanup(func() { db.Close() })
	return db
}

func newRepoWithExec(t *testing.T, wrap func(Executor) Executor) (book.Repository, *sql.DB) {
	t.Helper()
	db := openTestDB(t)
	exec := NewExecutor(db)
	if wrap != nil {
		exec = wrap(exec)
	}
	alloc := idseq.NewAllocator(idseq.NewSequencer("B", 1), idseq.NewLocalLocker())
	return NewBookRepository(exec, newBuilder(t), alloc), db
}

func TestBookRepositorySemantics(t *testing.T) {
	booktest.Run(t, func(t *testing.T) book.Repository {
		repo, _ := newRepoWithExec(t, nil)
		return repo
	})
}

// stubExecutor 让指定前缀的写语句返回固定影响行数
type stubExecutor struct {
	Executor
	prefix   string
	affected int64
}

func (s *stubExecutor) Execute(ctx context.Context, st Statement) (int64, error) {
	if strings.HasPrefix(st.Text, s.prefix) {
		return s.affected, nil
	}
	return s.Executor.Execute(ctx, st)
}

func TestDeleteNotApplied(t *testing.T) {
	repo, _ := newRepoWithExec(t, func(e Executor) Executor {
		return &stubExecutor{Executor: e, prefix: "DELETE", affected: 0}
	})
	ctx := context.Background()
	booktest.Seed(t, repo)

	err := repo.Delete(ctx, "B1")
	assert.True(t, errors.Is(err, book.ErrDeleteFailed), "记录仍存在时应报删除失败")

	assert.NoError(t, repo.Delete(ctx, "B404"), "记录不存在时视为成功")
}

func TestCreateNotApplied(t *testing.T) {
	repo, _ := newRepoWithExec(t, func(e Executor) Executor {
		return &stubExecutor{Executor: e, prefix: "INSERT", affected: 0}
	})
	_, err := repo.Create(context.Background(), &book.Book{Title: "x"})
	assert.True(t, errors.Is(err, book.ErrCreateFailed))
}

func TestCreateMalformedMaxID(t *testing.T) {
	repo, db := newRepoWithExec(t, nil)
	_, err := db.Exec(`INSERT INTO books(id) VALUES ('Bxyz')`)
	require.NoError(t, err)

	_, err = repo.Create(context.Background(), &book.Book{Title: "x"})
	assert.True(t, errors.Is(err, idseq.ErrMalformedID))
}

func TestCreateIgnoresOtherPrefixes(t *testing.T) {
	repo, db := newRepoWithExec(t, nil)
	_, err := db.Exec(`INSERT INTO books(id) VALUES ('X900'), ('B7')`)
	require.NoError(t, err)

	got, err := repo.Create(context.Background(), &book.Book{Title: "x"})
	require.NoError(t, err)
	assert.Equal(t, "B8", got.ID)
}

func TestDuplicateMapsToRetry(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO books(id) VALUES ('B1')`)
	require.NoError(t, err)

	_, err = NewExecutor(db).Execute(context.Background(), Statement{
		Text:   "INSERT INTO books(id) VALUES (@Id);",
		Params: map[string]any{"Id": "B1"},
	})
	require.Error(t, err)
	assert.True(t, isDuplicateError(err))
}

func TestScalarEmpty(t *testing.T) {
	db := openTestDB(t)
	v, err := NewExecutor(db).Scalar(context.Background(), newBuilder(t).MaxID("B"))
	require.NoError(t, err)
	assert.Equal(t, "", v)
}
