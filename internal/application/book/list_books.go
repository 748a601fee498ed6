package book

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. 把HTTP层的松散参数翻译成book.ReadRequest(过滤/排序/分页)
// 2. 参数错误统一返回ErrInvalidParams(400),不把注册表错误码暴露给调用方
// 3. 分页规范化规则与仓储一致,响应里返回实际生效的页码和页大小
type ListBooksUseCase struct {
	bookService book.Service
	limits      book.PageLimits
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service, limits book.PageLimits) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
		limits:      limits,
	}
}

// ListBooksRequest 列表查询请求DTO
// 过滤参数三选一:filter(作用于FilterBy字段)、价格(price或price_min/price_max)、出版日期(year/month/day)
type ListBooksRequest struct {
	SortBy   string // 排序字段(Id/Author/Title/Genre/Price/PublishDate/Description),默认Id
	Desc     bool   // 降序
	Unsorted bool   // 不排序,结果顺序由存储决定

	FilterBy string // filter作用的字段,默认与SortBy相同
	Filter   string // 过滤值:文本字段为子串,价格为数值,日期为yyyy[-MM[-dd]]

	Price    *float64
	PriceMin *float64
	PriceMax *float64

	Year  *int
	Month *int
	Day   *int

	Page     int
	PageSize int
}

// ListBooksResponse 列表查询响应DTO
type ListBooksResponse struct {
	List     []*BookItem `json:"list"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// Execute 执行列表查询用例
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	readReq, err := BuildReadRequest(req)
	if err != nil {
		return nil, err
	}

	books, err := uc.bookService.ListBooks(ctx, readReq)
	if err != nil {
		return nil, err
	}

	page := uc.limits.Normalize(readReq.Page)
	return &ListBooksResponse{
		List:     toBookItems(books),
		Page:     page.PageNumber,
		PageSize: page.PageSize,
	}, nil
}

// BuildReadRequest ListBooksRequest → book.ReadRequest
func BuildReadRequest(req ListBooksRequest) (book.ReadRequest, error) {
	sortField := book.FieldID
	if strings.TrimSpace(req.SortBy) != "" {
		f, err := book.ParseField(req.SortBy)
		if err != nil {
			return book.ReadRequest{}, invalidParams("排序字段不支持: %s", req.SortBy)
		}
		sortField = f
	}

	filter, err := buildFilter(req, sortField)
	if err != nil {
		return book.ReadRequest{}, err
	}

	return book.ReadRequest{
		Filter: filter,
		Sort: book.Sort{
			Enabled:    !req.Unsorted,
			Field:      sortField,
			Descending: req.Desc,
		},
		Page: book.Pagination{PageNumber: req.Page, PageSize: req.PageSize},
	}, nil
}

func buildFilter(req ListBooksRequest, sortField book.Field) (book.Filter, error) {
	hasText := req.Filter != ""
	hasPrice := req.Price != nil || req.PriceMin != nil || req.PriceMax != nil
	hasDate := req.Year != nil || req.Month != nil || req.Day != nil

	groups := 0
	for _, b := range []bool{hasText, hasPrice, hasDate} {
		if b {
			groups++
		}
	}
	if groups > 1 {
		return nil, invalidParams("filter、价格、出版日期过滤只能同时使用一种")
	}

	switch {
	case hasPrice:
		return priceFilter(req)
	case hasDate:
		if req.Year == nil {
			return nil, invalidParams("按出版日期过滤时year必填")
		}
		if req.Day != nil && req.Month == nil {
			return nil, invalidParams("指定day时month必填")
		}
		if !validDate(req.Year, req.Month, req.Day) {
			return nil, invalidParams("出版日期超出范围")
		}
		return book.NewDateFilter(req.Year, req.Month, req.Day), nil
	case hasText:
		return valueFilter(req, sortField)
	}
	return nil, nil
}

func priceFilter(req ListBooksRequest) (book.Filter, error) {
	if req.Price != nil {
		if req.PriceMin != nil || req.PriceMax != nil {
			return nil, invalidParams("price不能与price_min/price_max同时使用")
		}
		return book.NewPriceFilter(*req.Price, nil), nil
	}
	if req.PriceMin == nil || req.PriceMax == nil {
		return nil, invalidParams("价格区间需要同时提供price_min和price_max")
	}
	return book.NewPriceFilter(*req.PriceMin, req.PriceMax), nil
}

// valueFilter filter参数按目标字段的类型解释
func valueFilter(req ListBooksRequest, sortField book.Field) (book.Filter, error) {
	field := sortField
	if strings.TrimSpace(req.FilterBy) != "" {
		f, err := book.ParseField(req.FilterBy)
		if err != nil {
			return nil, invalidParams("过滤字段不支持: %s", req.FilterBy)
		}
		field = f
	}

	info, err := book.ResolveColumn(field)
	if err != nil {
		return nil, invalidParams("过滤字段不支持: %s", field)
	}

	switch info.Kind {
	case book.KindNumeric:
		v, err := strconv.ParseFloat(strings.TrimSpace(req.Filter), 64)
		if err != nil {
			return nil, invalidParams("%s的过滤值必须是数字: %q", field, req.Filter)
		}
		return book.NumericFilter{Field: field, Value: v}, nil
	case book.KindDate:
		return parseDateFilter(req.Filter)
	default:
		return book.TextFilter{Field: field, Substring: req.Filter}, nil
	}
}

// parseDateFilter 解析yyyy、yyyy-MM、yyyy-MM-dd
func parseDateFilter(s string) (book.Filter, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) > 3 {
		return nil, invalidParams("日期格式应为yyyy[-MM[-dd]]: %q", s)
	}

	nums := make([]*int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, invalidParams("日期格式应为yyyy[-MM[-dd]]: %q", s)
		}
		nums[i] = &n
	}
	if !validDate(nums[0], nums[1], nums[2]) {
		return nil, invalidParams("日期超出范围: %q", s)
	}
	return book.NewDateFilter(nums[0], nums[1], nums[2]), nil
}

// validDate 年月日必须是真实存在的日期(2月30日、4月31日等不会被顺延)
func validDate(year, month, day *int) bool {
	if *year < 1 || *year > 9999 {
		return false
	}
	if month == nil {
		return true
	}
	if *month < 1 || *month > 12 {
		return false
	}
	if day == nil {
		return true
	}
	t := time.Date(*year, time.Month(*month), *day, 0, 0, 0, 0, time.UTC)
	return t.Year() == *year && t.Month() == time.Month(*month) && t.Day() == *day
}

func invalidParams(format string, args ...any) error {
	return apperrors.ErrInvalidParams.WithMessage(format, args...)
}
