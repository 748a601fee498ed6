package errors

import (
	"errors"
	"fmt"
)

// AppError 目录服务统一错误
// 设计说明：
// 1. Code供调用方区分错误类别（参数非法/不支持/不存在/内部错误）
// 2. Message是面向调用方的提示
// 3. Err保留底层错误（驱动错误、解析错误），只进日志
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As穿透到底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较
// 教学要点：预定义错误经WithCause附加底层原因后仍能被errors.Is识别
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithCause 复制错误并附加底层原因（不修改包级预定义错误）
func (e *AppError) WithCause(err error) *AppError {
	return &AppError{Code: e.Code, Message: e.Message, Err: err}
}

// WithMessage 复制错误并替换提示信息
func (e *AppError) WithMessage(format string, args ...interface{}) *AppError {
	return &AppError{Code: e.Code, Message: fmt.Sprintf(format, args...), Err: e.Err}
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap 把存储层错误包装成内部错误
func Wrap(err error, message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message, Err: err}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: fmt.Sprintf(format, args...), Err: err}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 400xx: 请求非法（空实体、缺少字段）
// - 404xx: 资源不存在
// - 409xx: 冲突（主键重复）
// - 501xx: 请求合法但不支持（字段/过滤组合未实现）
// - 5xxxx: 服务端错误

const (
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误
	ErrCodeMalformedID   = 50010 // 存量主键格式损坏
	ErrCodeDeleteFailed  = 50011 // 删除未生效
	ErrCodeAllocateID    = 50012 // 主键分配失败
	ErrCodeIDExhausted   = 50013 // 主键序号超出位数上限

	ErrCodeInvalidParams     = 40000 // 参数错误(通用)
	ErrCodeNullEntity        = 40001 // 实体为空或主键为空
	ErrCodeNoUpdatableFields = 40002 // 更新请求未设置任何字段
	ErrCodeBindError         = 40003 // 参数绑定失败

	ErrCodeNotFound     = 40400 // 资源不存在(通用)
	ErrCodeBookNotFound = 40402 // 图书不存在

	ErrCodeDuplicateEntry = 40900 // 重复记录

	ErrCodeNotImplemented    = 50100 // 不支持(通用)
	ErrCodeUnsupportedField  = 50101 // 字段不在注册表内
	ErrCodeUnsupportedFilter = 50102 // 过滤类型与字段类型不匹配
)

var (
	ErrInternal       = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError  = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError     = New(ErrCodeRedisError, "缓存服务错误")
	ErrInvalidParams  = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError      = New(ErrCodeBindError, "参数格式错误")
	ErrNotFound       = New(ErrCodeNotFound, "资源不存在")
	ErrDuplicateEntry = New(ErrCodeDuplicateEntry, "记录已存在")
	ErrNotImplemented = New(ErrCodeNotImplemented, "功能未实现")
)

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（不是AppError则包装成内部错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// IsClientError 4xxxx段视为调用方错误
func IsClientError(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code >= 40000 && appErr.Code < 50000
}
