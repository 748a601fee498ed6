package mysql

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateError 判断是否为主键/唯一索引冲突
// - MySQL 1062: Duplicate entry 'xxx' for key 'PRIMARY'
// - SQLite: UNIQUE constraint failed: books.id
// 开启TranslateError后两者都会变成gorm.ErrDuplicatedKey,字符串匹配作兜底
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

// escapeLike 转义LIKE通配符(转义字符'!')
func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}
