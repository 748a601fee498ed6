package book

import (
	"context"
	"strings"
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// PublishBookUseCase 图书上架用例
// 设计说明:
// 1. 应用层负责用例编排,协调领域服务完成业务流程
// 2. 输入输出使用DTO,与HTTP层解耦
// 3. 主键由仓储分配,请求里不接受ID
type PublishBookUseCase struct {
	bookService book.Service
}

// NewPublishBookUseCase 创建上架用例
func NewPublishBookUseCase(bookService book.Service) *PublishBookUseCase {
	return &PublishBookUseCase{
		bookService: bookService,
	}
}

// PublishBookRequest 上架请求DTO
type PublishBookRequest struct {
	Author      string
	Title       string
	Genre       string
	Price       float64
	PublishDate string // yyyy-MM-dd,可为空
	Description string
}

// Execute 执行上架用例
func (uc *PublishBookUseCase) Execute(ctx context.Context, req PublishBookRequest) (*BookItem, error) {
	date, err := parseOptionalDate(req.PublishDate)
	if err != nil {
		return nil, err
	}

	created, err := uc.bookService.AddBook(ctx, &book.Book{
		Author:      req.Author,
		Title:       req.Title,
		Genre:       req.Genre,
		Price:       req.Price,
		PublishDate: date,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}
	return toBookItem(created), nil
}

func parseOptionalDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	d, err := book.ParsePublishDate(s)
	if err != nil {
		return time.Time{}, invalidParams("出版日期格式应为yyyy-MM-dd: %q", s)
	}
	return d, nil
}
