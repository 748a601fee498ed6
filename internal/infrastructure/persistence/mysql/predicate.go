package mysql

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// filterScope QuerySpec过滤条件 → GORM Where
// 列名来自字段注册表,值全部作为绑定参数
// 文本过滤值只折叠ASCII字母,与SQLite的LOWER()一致;MySQL按列排序规则比较,可能匹配得更宽
func filterScope(spec book.QuerySpec) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case spec.Text != nil:
			c := spec.Text
			pattern := "%" + escapeLike(book.FoldASCII(c.Substring)) + "%"
			return db.Where(fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '!'", c.Field.Column), pattern)

		case spec.Numeric != nil:
			c := spec.Numeric
			if c.Ranged {
				return db.Where(fmt.Sprintf("%s BETWEEN ? AND ?", c.Field.Column), c.Lo, c.Hi)
			}
			return db.Where(fmt.Sprintf("%s = ?", c.Field.Column), c.Lo)

		case spec.Date != nil:
			c := spec.Date
			return db.Where(fmt.Sprintf("%s LIKE ?", c.Field.Column), c.Prefix+"%")
		}
		return db
	}
}

// orderScope 排序
// Id按数字后缀排序,再按前缀排序(B2在B10之前)
func orderScope(o *book.Ordering, idPrefixLen int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if o == nil {
			return db
		}
		dir := "ASC"
		if o.Descending {
			dir = "DESC"
		}
		if o.Field.Field == book.FieldID {
			return db.
				Order(fmt.Sprintf("%s %s", idNumberExpr(idPrefixLen), dir)).
				Order(fmt.Sprintf("SUBSTRING(id, 1, %d) %s", idPrefixLen, dir))
		}
		return db.Order(fmt.Sprintf("%s %s", o.Field.Column, dir))
	}
}

// pageScope 分页(OFFSET/LIMIT)
func pageScope(spec book.QuerySpec) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(spec.Skip()).Limit(spec.Take())
	}
}

// idNumberExpr 主键数字部分
// CAST AS UNSIGNED在MySQL是无符号整数;在SQLite按NUMERIC亲和性转换,两边排序一致
func idNumberExpr(idPrefixLen int) string {
	return fmt.Sprintf("CAST(SUBSTRING(id, %d) AS UNSIGNED)", idPrefixLen+1)
}
