package book

import (
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// 图书领域错误定义
// 设计说明:
// 1. 业务错误放在domain层,三种存储实现返回同一组错误
// 2. 附加底层原因用WithCause,调用方用errors.Is按错误码判断
var (
	// ErrBookNotFound 图书不存在(读取/更新命中0行)
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrNullEntity 实体为空或主键为空
	ErrNullEntity = apperrors.New(apperrors.ErrCodeNullEntity, "图书或图书ID不能为空")

	// ErrNoUpdatableFields 更新请求没有设置任何字段
	ErrNoUpdatableFields = apperrors.New(apperrors.ErrCodeNoUpdatableFields, "没有需要更新的字段")

	// ErrUnsupportedField 字段不在注册表内
	ErrUnsupportedField = apperrors.New(apperrors.ErrCodeUnsupportedField, "不支持的字段")

	// ErrUnsupportedFilter 过滤类型与字段类型不匹配(如对价格做文本过滤)
	ErrUnsupportedFilter = apperrors.New(apperrors.ErrCodeUnsupportedFilter, "不支持的过滤条件")

	// ErrDeleteFailed 删除影响0行但记录仍然存在
	ErrDeleteFailed = apperrors.New(apperrors.ErrCodeDeleteFailed, "删除图书失败")

	// ErrCreateFailed 插入影响0行
	ErrCreateFailed = apperrors.New(apperrors.ErrCodeDatabaseError, "创建图书失败")

	// ErrInvalidBook 实体字段不合法
	ErrInvalidBook = apperrors.New(apperrors.ErrCodeInvalidParams, "图书信息不合法")
)
