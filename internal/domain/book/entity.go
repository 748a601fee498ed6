package book

import (
	"strings"
	"time"
)

// DateLayout 出版日期的唯一序列化格式（yyyy-MM-dd）
// 日期前缀过滤依赖这个定长格式：年=前4位，年月=前7位，年月日=前10位
const DateLayout = "2006-01-02"

// Book 图书领域实体
// 设计说明:
// 1. 纯业务对象,不依赖ORM或数据库tag
// 2. ID形如 B1、B2,由idseq包按"前缀+序号"分配,调用方不可自选
// 3. PublishDate只有日期部分有意义,时分秒在持久化时丢弃
type Book struct {
	ID          string
	Author      string
	Title       string
	Genre       string
	Price       float64
	PublishDate time.Time
	Description string
}

// PublishDateString 按DateLayout格式化出版日期
func (b *Book) PublishDateString() string {
	return b.PublishDate.Format(DateLayout)
}

// ParsePublishDate 解析yyyy-MM-dd格式日期
func ParsePublishDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// Clone 返回副本,内存仓储用它隔离调用方的修改
func (b *Book) Clone() *Book {
	c := *b
	return &c
}

// Update 部分更新
// 教学要点:
// 1. 每个字段都是指针,nil表示"不修改",非nil表示"修改为该值"
// 2. 空字符串、0价格都是合法的新值,不再用零值充当"未设置"
type Update struct {
	Author      *string
	Title       *string
	Genre       *string
	Price       *float64
	PublishDate *time.Time
	Description *string
}

// IsEmpty 没有任何字段被设置
func (u Update) IsEmpty() bool {
	return u.Author == nil && u.Title == nil && u.Genre == nil &&
		u.Price == nil && u.PublishDate == nil && u.Description == nil
}

// Apply 把已设置的字段写入b
func (u Update) Apply(b *Book) {
	if u.Author != nil {
		b.Author = *u.Author
	}
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.Genre != nil {
		b.Genre = *u.Genre
	}
	if u.Price != nil {
		b.Price = *u.Price
	}
	if u.PublishDate != nil {
		b.PublishDate = *u.PublishDate
	}
	if u.Description != nil {
		b.Description = *u.Description
	}
}

// Values 按字段注册顺序返回已设置字段的取值
// SQL与ORM两条路径都用它生成SET子句,保证列顺序一致
func (u Update) Values() []FieldValue {
	var out []FieldValue
	for _, info := range Fields() {
		var v any
		switch info.Field {
		case FieldAuthor:
			if u.Author != nil {
				v = *u.Author
			}
		case FieldTitle:
			if u.Title != nil {
				v = *u.Title
			}
		case FieldGenre:
			if u.Genre != nil {
				v = *u.Genre
			}
		case FieldPrice:
			if u.Price != nil {
				v = *u.Price
			}
		case FieldPublishDate:
			if u.PublishDate != nil {
				v = u.PublishDate.Format(DateLayout)
			}
		case FieldDescription:
			if u.Description != nil {
				v = *u.Description
			}
		}
		if v != nil {
			out = append(out, FieldValue{Info: info, Value: v})
		}
	}
	return out
}

// FieldValue 字段及其持久化取值(日期已格式化为字符串)
type FieldValue struct {
	Info  FieldInfo
	Value any
}

// FullUpdate 用实体的全部可写字段构造Update
func FullUpdate(b *Book) Update {
	author, title, genre, desc := b.Author, b.Title, b.Genre, b.Description
	price, date := b.Price, b.PublishDate
	return Update{
		Author:      &author,
		Title:       &title,
		Genre:       &genre,
		Price:       &price,
		PublishDate: &date,
		Description: &desc,
	}
}
