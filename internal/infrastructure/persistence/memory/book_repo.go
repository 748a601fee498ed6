// Package memory 进程内图书仓储
//
// 用于本地开发和没有数据库的演示环境,查询直接走domain层的内存谓词。
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/idseq"
)

type bookRepository struct {
	mu     sync.RWMutex
	books  []*book.Book // 插入顺序
	alloc  *idseq.Allocator
	limits book.PageLimits
}

// NewBookRepository 创建内存仓储
func NewBookRepository(alloc *idseq.Allocator, limits book.PageLimits) book.Repository {
	return &bookRepository{alloc: alloc, limits: limits}
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) (*book.Book, error) {
	if b == nil {
		return nil, book.ErrNullEntity
	}
	entity := b.Clone()

	id, err := r.alloc.Allocate(ctx, idseq.ReadThenInsert(r.maxID, func(_ context.Context, id string) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.indexOf(id) >= 0 {
			return idseq.ErrDuplicateID
		}
		entity.ID = id
		r.books = append(r.books, entity)
		return nil
	}))
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *bookRepository) Read(_ context.Context, req book.ReadRequest) ([]*book.Book, error) {
	spec, err := book.Resolve(req, r.limits)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	snapshot := make([]*book.Book, len(r.books))
	copy(snapshot, r.books)
	r.mu.RUnlock()

	matched := book.Apply(snapshot, spec, r.alloc.Sequencer().PrefixLength())
	out := make([]*book.Book, len(matched))
	for i, b := range matched {
		out[i] = b.Clone()
	}
	return out, nil
}

func (r *bookRepository) FindByID(_ context.Context, id string) (*book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, book.ErrBookNotFound
	}
	return r.books[i].Clone(), nil
}

func (r *bookRepository) Update(ctx context.Context, id string, u book.Update) (*book.Book, error) {
	if id == "" {
		return nil, book.ErrNullEntity
	}
	if u.IsEmpty() {
		return nil, book.ErrNoUpdatableFields
	}

	r.mu.Lock()
	i := r.indexOf(id)
	if i < 0 {
		r.mu.Unlock()
		return nil, book.ErrBookNotFound
	}
	u.Apply(r.books[i])
	r.mu.Unlock()

	return r.FindByID(ctx, id)
}

func (r *bookRepository) Delete(_ context.Context, id string) error {
	if id == "" {
		return book.ErrNullEntity
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexOf(id); i >= 0 {
		r.books = append(r.books[:i], r.books[i+1:]...)
	}
	return nil
}

// maxID 带前缀的主键中数字后缀最大的一个
func (r *bookRepository) maxID(_ context.Context, prefix string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		best    string
		bestNum uint64
	)
	for _, b := range r.books {
		if !strings.HasPrefix(b.ID, prefix) {
			continue
		}
		n := leadingNumber(b.ID[len(prefix):])
		if best == "" || n > bestNum {
			best, bestNum = b.ID, n
		}
	}
	return best, nil
}

func (r *bookRepository) indexOf(id string) int {
	for i, b := range r.books {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func leadingNumber(s string) uint64 {
	var n uint64
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + uint64(c-'0')
	}
	return n
}
