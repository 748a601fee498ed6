package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorIs(t *testing.T) {
	notFound := New(ErrCodeBookNotFound, "图书不存在")

	t.Run("附加原因后仍按错误码匹配", func(t *testing.T) {
		err := notFound.WithCause(sql.ErrNoRows)
		assert.True(t, errors.Is(err, notFound))
		assert.True(t, errors.Is(err, sql.ErrNoRows), "应能穿透到底层错误")
	})

	t.Run("多层fmt包装", func(t *testing.T) {
		err := fmt.Errorf("读取B7: %w", notFound)
		assert.True(t, errors.Is(err, notFound))
	})

	t.Run("不同错误码不匹配", func(t *testing.T) {
		assert.False(t, errors.Is(ErrInvalidParams, notFound))
	})

	t.Run("WithCause不修改原错误", func(t *testing.T) {
		_ = notFound.WithCause(sql.ErrNoRows)
		assert.Nil(t, notFound.Err)
	})
}

func TestGetAppError(t *testing.T) {
	t.Run("普通错误包装为内部错误", func(t *testing.T) {
		appErr := GetAppError(errors.New("boom"))
		assert.Equal(t, ErrCodeInternal, appErr.Code)
	})

	t.Run("已有AppError原样返回", func(t *testing.T) {
		appErr := GetAppError(fmt.Errorf("ctx: %w", ErrNotImplemented))
		assert.Equal(t, ErrCodeNotImplemented, appErr.Code)
	})
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(ErrInvalidParams))
	assert.True(t, IsClientError(ErrDuplicateEntry))
	assert.False(t, IsClientError(ErrNotImplemented))
	assert.False(t, IsClientError(errors.New("plain")))
}
