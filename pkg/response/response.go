package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/logger"
)

// Response 统一响应结构
// 设计说明：
// 1. Code是业务错误码（非HTTP状态码），方便客户端判断错误类型
// 2. Message是用户友好的提示信息
// 3. Data是业务数据，成功时返回，失败时为null
// 4. HTTP状态码由业务错误码的前三位决定（40402 → 404）
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应（Code=0表示成功）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功(201)
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "created",
		Data:    data,
	})
}

// NoContent 成功且无响应体(204)
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	item, err := getBookUseCase.Execute(ctx, id)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := HTTPStatus(appErr.Code)

	// 服务端错误记录完整错误链,客户端只看到Message
	if status >= http.StatusInternalServerError {
		logger.WithTrace(c.Request.Context(), logger.Get()).ErrorContext(c.Request.Context(), "请求处理失败",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"code", appErr.Code,
			"error", err,
		)
	}

	c.JSON(status, Response{
		Code:    appErr.Code,
		Message: appErr.Message,
		Data:    nil,
	})
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(HTTPStatus(code), Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// HTTPStatus 业务错误码 → HTTP状态码
func HTTPStatus(code int) int {
	status := code / 100
	if status < 400 || status > 599 {
		return http.StatusInternalServerError
	}
	return status
}

// =========================================
// 分页响应结构
// =========================================

// PageData 分页数据封装
// 列表接口不统计总数,客户端拿到不足page_size条即为最后一页
type PageData struct {
	List     interface{} `json:"list"`      // 数据列表
	Page     int         `json:"page"`      // 当前页码
	PageSize int         `json:"page_size"` // 每页大小
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, list interface{}, page, pageSize int) {
	Success(c, &PageData{List: list, Page: page, PageSize: pageSize})
}
