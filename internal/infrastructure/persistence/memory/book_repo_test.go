package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book/booktest"
	"github.com/xiebiao/bookcatalog/internal/domain/idseq"
)

func newRepo(t *testing.T) book.Repository {
	t.Helper()
	alloc := idseq.NewAllocator(idseq.NewSequencer("B", 1), idseq.NewLocalLocker())
	return NewBookRepository(alloc, book.DefaultPageLimits())
}

func TestBookRepositorySemantics(t *testing.T) {
	booktest.Run(t, newRepo)
}

func TestReadReturnsCopies(t *testing.T) {
	repo := newRepo(t)
	booktest.Seed(t, repo)
	ctx := context.Background()

	got, err := repo.Read(ctx, book.DefaultReadRequest())
	require.NoError(t, err)
	got[0].Title = "mutated"

	again, err := repo.FindByID(ctx, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Midnight Rain", again.Title)
}

func TestCreateMalformedMax(t *testing.T) {
	alloc := idseq.NewAllocator(idseq.NewSequencer("B", 1), nil)
	repo := &bookRepository{alloc: alloc, limits: book.DefaultPageLimits()}
	repo.books = append(repo.books, &book.Book{ID: "Bxyz"})

	_, err := repo.Create(context.Background(), &book.Book{Title: "x"})
	assert.True(t, errors.Is(err, idseq.ErrMalformedID), "唯一带前缀的ID无法解析时应报数据损坏")
}
