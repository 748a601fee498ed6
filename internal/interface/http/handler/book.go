package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	publishBookUseCase *appbook.PublishBookUseCase
	listBooksUseCase   *appbook.ListBooksUseCase
	getBookUseCase     *appbook.GetBookUseCase
	updateBookUseCase  *appbook.UpdateBookUseCase
	deleteBookUseCase  *appbook.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	publishBookUseCase *appbook.PublishBookUseCase,
	listBooksUseCase *appbook.ListBooksUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	updateBookUseCase *appbook.UpdateBookUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		publishBookUseCase: publishBookUseCase,
		listBooksUseCase:   listBooksUseCase,
		getBookUseCase:     getBookUseCase,
		updateBookUseCase:  updateBookUseCase,
		deleteBookUseCase:  deleteBookUseCase,
	}
}

// RegisterRoutes 注册图书路由
func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	books := rg.Group("/books")
	{
		books.GET("", h.ListBooks)
		books.GET("/:id", h.GetBook)
		books.POST("", h.PublishBook)
		books.PATCH("/:id", h.UpdateBook)
		books.DELETE("/:id", h.DeleteBook)
	}
}

// PublishBook 新增图书
// @Summary      新增图书
// @Description  主键由服务端按"前缀+序号"分配,请求中的id会被忽略
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.PublishBookRequest true "图书信息"
// @Success      201 {object} response.Response{data=appbook.BookItem}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      500 {object} response.Response "主键分配失败"
// @Router       /api/v1/books [post]
func (h *BookHandler) PublishBook(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.PublishBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError.WithCause(err))
		return
	}

	// 2. 调用应用层用例
	result, err := h.publishBookUseCase.Execute(c.Request.Context(), appbook.PublishBookRequest{
		Author:      req.Author,
		Title:       req.Title,
		Genre:       req.Genre,
		Price:       req.Price,
		PublishDate: req.PublishDate,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  过滤 + 排序 + 分页;page_size限制在[1,50],默认20
// @Tags         图书
// @Produce      json
// @Param        sort_by    query string false "排序字段(Id/Author/Title/Genre/Price/PublishDate/Description)"
// @Param        order      query string false "asc或desc"
// @Param        sort       query bool   false "false表示不排序"
// @Param        filter_by  query string false "filter作用的字段,默认同sort_by"
// @Param        filter     query string false "过滤值"
// @Param        price      query number false "价格等值过滤"
// @Param        price_min  query number false "价格区间下限"
// @Param        price_max  query number false "价格区间上限"
// @Param        year       query int    false "出版年"
// @Param        month      query int    false "出版月"
// @Param        day        query int    false "出版日"
// @Param        page       query int    false "页码,从1开始"
// @Param        page_size  query int    false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appbook.BookItem}}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var q dto.ListBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperrors.ErrBindError.WithCause(err))
		return
	}

	result, err := h.listBooksUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		SortBy:   q.SortBy,
		Desc:     q.Order == "desc",
		Unsorted: q.Sort != nil && !*q.Sort,
		FilterBy: q.FilterBy,
		Filter:   q.Filter,
		Price:    q.Price,
		PriceMin: q.PriceMin,
		PriceMax: q.PriceMax,
		Year:     q.Year,
		Month:    q.Month,
		Day:      q.Day,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, result.List, result.Page, result.PageSize)
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID" example(B1)
// @Success      200 {object} response.Response{data=appbook.BookItem}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	result, err := h.getBookUseCase.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateBook 部分更新图书
// @Summary      部分更新图书
// @Description  只修改请求体中出现的字段
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id      path string                true "图书ID"
// @Param        request body dto.UpdateBookRequest true "要修改的字段"
// @Success      200 {object} response.Response{data=appbook.BookItem}
// @Failure      400 {object} response.Response "参数错误或没有可更新字段"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [patch]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError.WithCause(err))
		return
	}

	result, err := h.updateBookUseCase.Execute(c.Request.Context(), c.Param("id"), appbook.UpdateBookRequest{
		Author:      req.Author,
		Title:       req.Title,
		Genre:       req.Genre,
		Price:       req.Price,
		PublishDate: req.PublishDate,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Description  幂等:图书不存在也返回204
// @Tags         图书
// @Param        id path string true "图书ID"
// @Success      204
// @Failure      500 {object} response.Response "删除未生效"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	if err := h.deleteBookUseCase.Execute(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
