package book

import (
	"context"
	"log/slog"
	"math"
	"strings"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 在仓储之上做入参校验和操作日志
// 2. 不关心当前使用哪种存储实现(依赖倒置)
type Service interface {
	// AddBook 新增图书,ID由仓储分配
	AddBook(ctx context.Context, b *Book) (*Book, error)

	// GetBook 按ID精确查找
	GetBook(ctx context.Context, id string) (*Book, error)

	// ListBooks 过滤/排序/分页查询
	ListBooks(ctx context.Context, req ReadRequest) ([]*Book, error)

	// UpdateBook 部分更新
	UpdateBook(ctx context.Context, id string, u Update) (*Book, error)

	// DeleteBook 删除(幂等)
	DeleteBook(ctx context.Context, id string) error
}

type service struct {
	repo Repository
	log  *slog.Logger
}

// NewService 创建图书领域服务
func NewService(repo Repository, log *slog.Logger) Service {
	if log == nil {
		log = slog.Default()
	}
	return &service{repo: repo, log: log.With("component", "book.service")}
}

func (s *service) AddBook(ctx context.Context, b *Book) (*Book, error) {
	if b == nil {
		return nil, ErrNullEntity
	}
	if !validPrice(b.Price) {
		return nil, ErrInvalidBook.WithMessage("价格不合法: %v", b.Price)
	}

	created, err := s.repo.Create(ctx, b)
	if err != nil {
		s.log.ErrorContext(ctx, "新增图书失败", "title", b.Title, "error", err)
		return nil, err
	}
	s.log.InfoContext(ctx, "新增图书", "id", created.ID, "title", created.Title)
	return created, nil
}

func (s *service) GetBook(ctx context.Context, id string) (*Book, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNullEntity
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListBooks(ctx context.Context, req ReadRequest) ([]*Book, error) {
	books, err := s.repo.Read(ctx, req)
	if err != nil {
		s.log.WarnContext(ctx, "查询图书失败", "sort", req.Sort.Field, "error", err)
		return nil, err
	}
	s.log.DebugContext(ctx, "查询图书", "count", len(books), "page", req.Page.PageNumber)
	return books, nil
}

func (s *service) UpdateBook(ctx context.Context, id string, u Update) (*Book, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNullEntity
	}
	if u.IsEmpty() {
		return nil, ErrNoUpdatableFields
	}
	if u.Price != nil && !validPrice(*u.Price) {
		return nil, ErrInvalidBook.WithMessage("价格不合法: %v", *u.Price)
	}

	updated, err := s.repo.Update(ctx, id, u)
	if err != nil {
		s.log.ErrorContext(ctx, "更新图书失败", "id", id, "error", err)
		return nil, err
	}
	s.log.InfoContext(ctx, "更新图书", "id", id)
	return updated, nil
}

func (s *service) DeleteBook(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNullEntity
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.ErrorContext(ctx, "删除图书失败", "id", id, "error", err)
		return err
	}
	s.log.InfoContext(ctx, "删除图书", "id", id)
	return nil
}

func validPrice(p float64) bool {
	return p >= 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}
