package book

import "strings"

// Field 图书的可查询字段
type Field string

const (
	FieldID          Field = "Id"
	FieldAuthor      Field = "Author"
	FieldTitle       Field = "Title"
	FieldGenre       Field = "Genre"
	FieldPrice       Field = "Price"
	FieldPublishDate Field = "PublishDate"
	FieldDescription Field = "Description"
)

// FieldKind 字段的过滤类别
type FieldKind int

const (
	KindText FieldKind = iota
	KindNumeric
	KindDate
)

func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumeric:
		return "numeric"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// FieldInfo 字段注册信息
// Column是存储列名,Param是SQL命名参数名(不含@)
type FieldInfo struct {
	Field  Field
	Column string
	Param  string
	Kind   FieldKind
}

// fieldTable 字段注册表
// 教学要点:
// 1. 顺序即INSERT列顺序,也是UPDATE的SET顺序
// 2. 新增字段只改这一处,SQL、ORM、内存三条路径同时生效
var fieldTable = []FieldInfo{
	{Field: FieldID, Column: "id", Param: "Id", Kind: KindText},
	{Field: FieldAuthor, Column: "author", Param: "Author", Kind: KindText},
	{Field: FieldTitle, Column: "title", Param: "Title", Kind: KindText},
	{Field: FieldGenre, Column: "genre", Param: "Genre", Kind: KindText},
	{Field: FieldPrice, Column: "price", Param: "Price", Kind: KindNumeric},
	{Field: FieldPublishDate, Column: "publish_date", Param: "Publish_date", Kind: KindDate},
	{Field: FieldDescription, Column: "description", Param: "Description", Kind: KindText},
}

var (
	fieldIndex = make(map[Field]FieldInfo, len(fieldTable))
	nameIndex  = make(map[string]FieldInfo, len(fieldTable)*2)
)

func init() {
	for _, info := range fieldTable {
		fieldIndex[info.Field] = info
		nameIndex[strings.ToLower(string(info.Field))] = info
		nameIndex[info.Column] = info
	}
}

// Fields 按注册顺序返回全部字段(返回副本)
func Fields() []FieldInfo {
	out := make([]FieldInfo, len(fieldTable))
	copy(out, fieldTable)
	return out
}

// ResolveColumn 字段 → 注册信息,未注册返回ErrUnsupportedField
func ResolveColumn(f Field) (FieldInfo, error) {
	info, ok := fieldIndex[f]
	if !ok {
		return FieldInfo{}, ErrUnsupportedField.WithMessage("不支持的字段: %q", string(f))
	}
	return info, nil
}

// ParseField 按名称查找字段
// 同时接受领域名(PublishDate)和列名(publish_date),大小写不敏感
func ParseField(name string) (Field, error) {
	info, ok := nameIndex[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", ErrUnsupportedField.WithMessage("不支持的字段: %q", name)
	}
	return info.Field, nil
}
