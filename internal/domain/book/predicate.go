package book

import (
	"cmp"
	"slices"
	"strings"
)

// Predicate 内存谓词
type Predicate func(*Book) bool

// CreatePredicate 由QuerySpec构造内存谓词
// 与SQL/GORM渲染保持同一语义:
// - 文本:子串包含,只对ASCII字母忽略大小写(见FoldASCII)
// - 数值:等值或闭区间
// - 日期:yyyy-MM-dd的前N位相等
func CreatePredicate(spec QuerySpec) Predicate {
	switch {
	case spec.Text != nil:
		field, needle := spec.Text.Field.Field, FoldASCII(spec.Text.Substring)
		return func(b *Book) bool {
			return strings.Contains(FoldASCII(textValue(b, field)), needle)
		}
	case spec.Numeric != nil:
		c := *spec.Numeric
		return func(b *Book) bool {
			if c.Ranged {
				return b.Price >= c.Lo && b.Price <= c.Hi
			}
			return b.Price == c.Lo
		}
	case spec.Date != nil:
		c := *spec.Date
		return func(b *Book) bool {
			return strings.HasPrefix(b.PublishDateString(), c.Prefix)
		}
	default:
		return func(*Book) bool { return true }
	}
}

// CompareFunc 由排序设置构造比较函数
// Id按"数字后缀,再前缀"比较,保证B2排在B10之前
func CompareFunc(ord Ordering, idPrefixLen int) func(a, b *Book) int {
	var base func(a, b *Book) int
	switch ord.Field.Field {
	case FieldID:
		base = func(a, b *Book) int {
			if c := cmp.Compare(idNumber(a.ID, idPrefixLen), idNumber(b.ID, idPrefixLen)); c != 0 {
				return c
			}
			return strings.Compare(idPrefix(a.ID, idPrefixLen), idPrefix(b.ID, idPrefixLen))
		}
	case FieldPrice:
		base = func(a, b *Book) int { return cmp.Compare(a.Price, b.Price) }
	case FieldPublishDate:
		base = func(a, b *Book) int { return a.PublishDate.Compare(b.PublishDate) }
	default:
		f := ord.Field.Field
		base = func(a, b *Book) int { return strings.Compare(textValue(a, f), textValue(b, f)) }
	}
	if ord.Descending {
		return func(a, b *Book) int { return base(b, a) }
	}
	return base
}

// Apply 对内存集合执行完整查询:过滤 → 排序 → 跳过 → 截取
func Apply(books []*Book, spec QuerySpec, idPrefixLen int) []*Book {
	pred := CreatePredicate(spec)
	matched := make([]*Book, 0, len(books))
	for _, b := range books {
		if pred(b) {
			matched = append(matched, b)
		}
	}
	if spec.Order != nil {
		slices.SortStableFunc(matched, CompareFunc(*spec.Order, idPrefixLen))
	}

	skip := spec.Skip()
	if skip >= len(matched) {
		return []*Book{}
	}
	matched = matched[skip:]
	if take := spec.Take(); take > 0 && take < len(matched) {
		matched = matched[:take]
	}
	return matched
}

// FoldASCII 只把A-Z转成小写,其余字符(包括É、Ö等)原样保留
//
// 设计说明:
// SQLite的LIKE和LOWER()只折叠ASCII字母,内存实现与ORM的过滤值
// 都按同一规则折叠,三种后端对非ASCII文本的匹配结果才一致
func FoldASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'A' && c <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if b[j] >= 'A' && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}

func textValue(b *Book, f Field) string {
	switch f {
	case FieldID:
		return b.ID
	case FieldAuthor:
		return b.Author
	case FieldTitle:
		return b.Title
	case FieldGenre:
		return b.Genre
	case FieldDescription:
		return b.Description
	default:
		return ""
	}
}

// idNumber 取前缀之后的前导数字,没有数字视为0(与数据库CAST行为一致)
func idNumber(id string, prefixLen int) uint64 {
	if prefixLen > len(id) {
		return 0
	}
	var n uint64
	for _, r := range id[prefixLen:] {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + uint64(r-'0')
	}
	return n
}

func idPrefix(id string, prefixLen int) string {
	if prefixLen > len(id) {
		return id
	}
	return id[:prefixLen]
}
