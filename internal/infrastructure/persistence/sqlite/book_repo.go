package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/idseq"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// bookRepository 图书仓储实现(手写SQL)
// 设计说明:
// 1. SQL文本全部来自QueryBuilder,这里只负责执行、扫描和错误映射
// 2. 主键冲突映射为idseq.ErrDuplicateID,交给Allocator重试
// 3. 写操作后重新读取,返回数据库中的真实状态
type bookRepository struct {
	exec  Executor
	qb    *QueryBuilder
	alloc *idseq.Allocator
}

// NewBookRepository 创建图书仓储
func NewBookRepository(exec Executor, qb *QueryBuilder, alloc *idseq.Allocator) book.Repository {
	return &bookRepository{exec: exec, qb: qb, alloc: alloc}
}

// Create 分配主键并插入
func (r *bookRepository) Create(ctx context.Context, b *book.Book) (*book.Book, error) {
	if b == nil {
		return nil, book.ErrNullEntity
	}

	id, err := r.alloc.Allocate(ctx, idseq.ReadThenInsert(r.maxID, func(ctx context.Context, id string) error {
		entity := b.Clone()
		entity.ID = id
		st, err := r.qb.Create(entity)
		if err != nil {
			return err
		}
		affected, err := r.exec.Execute(ctx, st)
		if err != nil {
			if isDuplicateError(err) {
				return idseq.ErrDuplicateID.WithCause(err)
			}
			return apperrors.Wrap(err, "创建图书失败")
		}
		if affected == 0 {
			return book.ErrCreateFailed
		}
		return nil
	}))
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Read 列表查询
func (r *bookRepository) Read(ctx context.Context, req book.ReadRequest) ([]*book.Book, error) {
	st, err := r.qb.Read(req)
	if err != nil {
		return nil, err
	}
	rows, err := r.exec.Query(ctx, st)
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书列表失败")
	}
	defer rows.Close()

	books, err := scanBooks(rows)
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书列表失败")
	}
	return books, nil
}

// FindByID 按主键精确查找
func (r *bookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	st, err := r.qb.ReadByID(id)
	if err != nil {
		return nil, err
	}
	rows, err := r.exec.Query(ctx, st)
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	defer rows.Close()

	books, err := scanBooks(rows)
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	if len(books) == 0 {
		return nil, book.ErrBookNotFound
	}
	return books[0], nil
}

// Update 部分更新,命中0行视为不存在
func (r *bookRepository) Update(ctx context.Context, id string, u book.Update) (*book.Book, error) {
	st, err := r.qb.Update(id, u)
	if err != nil {
		return nil, err
	}
	affected, err := r.exec.Execute(ctx, st)
	if err != nil {
		return nil, apperrors.Wrap(err, "更新图书失败")
	}
	if affected == 0 {
		return nil, book.ErrBookNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete 删除
// 影响0行时再查一次:已不存在视为成功(幂等),仍存在才报错
func (r *bookRepository) Delete(ctx context.Context, id string) error {
	st, err := r.qb.Delete(id)
	if err != nil {
		return err
	}
	affected, err := r.exec.Execute(ctx, st)
	if err != nil {
		return apperrors.Wrap(err, "删除图书失败")
	}
	if affected > 0 {
		return nil
	}

	_, err = r.FindByID(ctx, id)
	switch {
	case errors.Is(err, book.ErrBookNotFound):
		return nil
	case err != nil:
		return err
	default:
		return book.ErrDeleteFailed
	}
}

func (r *bookRepository) maxID(ctx context.Context, prefix string) (string, error) {
	id, err := r.exec.Scalar(ctx, r.qb.MaxID(prefix))
	if err != nil {
		return "", apperrors.Wrap(err, "查询最大主键失败")
	}
	return id, nil
}

// scanBooks 按建表列顺序扫描(id,author,title,genre,price,publish_date,description)
func scanBooks(rows *sql.Rows) ([]*book.Book, error) {
	books := []*book.Book{}
	for rows.Next() {
		var (
			id, author, title, genre, date, desc sql.NullString
			price                                sql.NullFloat64
		)
		if err := rows.Scan(&id, &author, &title, &genre, &price, &date, &desc); err != nil {
			return nil, err
		}
		publishDate, err := parseDate(date.String)
		if err != nil {
			return nil, err
		}
		books = append(books, &book.Book{
			ID:          id.String,
			Author:      author.String,
			Title:       title.String,
			Genre:       genre.String,
			Price:       price.Float64,
			PublishDate: publishDate,
			Description: desc.String,
		})
	}
	return books, rows.Err()
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return book.ParsePublishDate(s)
}

// isDuplicateError 判断是否为主键/唯一索引冲突
func isDuplicateError(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		se.ExtendedCode == sqlite3.ErrConstraintUnique
}
