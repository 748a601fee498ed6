package book

import (
	"context"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// GetBookUseCase 图书详情用例
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService}
}

// Execute 按ID精确查找
func (uc *GetBookUseCase) Execute(ctx context.Context, id string) (*BookItem, error) {
	b, err := uc.bookService.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBookItem(b), nil
}

// UpdateBookUseCase 图书部分更新用例
// 只有请求里出现的字段才会更新,空字符串和0都是合法的新值
type UpdateBookUseCase struct {
	bookService book.Service
}

// NewUpdateBookUseCase 创建更新用例
func NewUpdateBookUseCase(bookService book.Service) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookService: bookService}
}

// UpdateBookRequest 更新请求DTO(nil表示不修改)
type UpdateBookRequest struct {
	Author      *string
	Title       *string
	Genre       *string
	Price       *float64
	PublishDate *string
	Description *string
}

// Execute 执行更新,返回更新后的图书
func (uc *UpdateBookUseCase) Execute(ctx context.Context, id string, req UpdateBookRequest) (*BookItem, error) {
	u := book.Update{
		Author:      req.Author,
		Title:       req.Title,
		Genre:       req.Genre,
		Price:       req.Price,
		Description: req.Description,
	}
	if req.PublishDate != nil {
		d, err := book.ParsePublishDate(*req.PublishDate)
		if err != nil {
			return nil, invalidParams("出版日期格式应为yyyy-MM-dd: %q", *req.PublishDate)
		}
		u.PublishDate = &d
	}

	updated, err := uc.bookService.UpdateBook(ctx, id, u)
	if err != nil {
		return nil, err
	}
	return toBookItem(updated), nil
}

// DeleteBookUseCase 删除图书用例(幂等)
type DeleteBookUseCase struct {
	bookService book.Service
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(bookService book.Service) *DeleteBookUseCase {
	return &DeleteBookUseCase{bookService: bookService}
}

// Execute 执行删除
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id string) error {
	return uc.bookService.DeleteBook(ctx, id)
}
