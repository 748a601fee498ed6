package book

import (
	"strings"
)

// QuerySpec 已解析的查询规格
// 设计说明:
// 1. ReadRequest经Resolve校验后得到QuerySpec,字段已映射为注册信息
// 2. SQL文本、GORM、内存三种渲染器只消费QuerySpec,不再各自解释请求
// 3. 三个条件指针至多一个非nil
type QuerySpec struct {
	Text    *TextCondition
	Numeric *NumericCondition
	Date    *DateCondition
	Order   *Ordering
	Page    Pagination
}

// TextCondition 不区分大小写的子串包含
type TextCondition struct {
	Field     FieldInfo
	Substring string
}

// NumericCondition 数值等值或闭区间
// Ranged=false时只用Lo;Ranged=true时保证Lo<=Hi
type NumericCondition struct {
	Field  FieldInfo
	Lo     float64
	Hi     float64
	Ranged bool
}

// DateCondition 日期前缀比较
// Value是完整的yyyy-MM-dd,Prefix是其前Length位
type DateCondition struct {
	Field  FieldInfo
	Value  string
	Prefix string
	Length int
}

// Ordering 排序字段与方向
type Ordering struct {
	Field      FieldInfo
	Descending bool
}

// HasFilter 是否带过滤条件
func (s QuerySpec) HasFilter() bool {
	return s.Text != nil || s.Numeric != nil || s.Date != nil
}

// Skip 跳过记录数
func (s QuerySpec) Skip() int {
	return s.Page.Offset()
}

// Take 每页记录数
func (s QuerySpec) Take() int {
	return s.Page.PageSize
}

// Resolve 校验并解析ReadRequest
// 错误:
// - 字段未注册 → ErrUnsupportedField
// - 过滤类型与字段类型不符 → ErrUnsupportedFilter
// 教学要点:空白文本过滤、精度为None的日期过滤按"不过滤"处理
func Resolve(req ReadRequest, limits PageLimits) (QuerySpec, error) {
	spec := QuerySpec{Page: limits.Normalize(req.Page)}

	if req.Sort.Enabled {
		field := req.Sort.Field
		if field == "" {
			field = FieldID
		}
		info, err := ResolveColumn(field)
		if err != nil {
			return QuerySpec{}, err
		}
		spec.Order = &Ordering{Field: info, Descending: req.Sort.Descending}
	}

	if req.Filter == nil {
		return spec, nil
	}

	info, err := ResolveColumn(req.Filter.TargetField())
	if err != nil {
		return QuerySpec{}, err
	}

	switch f := req.Filter.(type) {
	case TextFilter:
		if info.Kind != KindText {
			return QuerySpec{}, unsupportedFilter("text", info)
		}
		if strings.TrimSpace(f.Substring) == "" {
			return spec, nil
		}
		spec.Text = &TextCondition{Field: info, Substring: f.Substring}

	case NumericFilter:
		if info.Kind != KindNumeric {
			return QuerySpec{}, unsupportedFilter("numeric", info)
		}
		cond := &NumericCondition{Field: info, Lo: f.Value, Hi: f.Value}
		if f.RangeEnd != nil {
			cond.Ranged = true
			cond.Lo, cond.Hi = min(f.Value, *f.RangeEnd), max(f.Value, *f.RangeEnd)
		}
		spec.Numeric = cond

	case DateFilter:
		if info.Kind != KindDate {
			return QuerySpec{}, unsupportedFilter("date", info)
		}
		n := f.Precision.PrefixLength()
		if n == 0 {
			return spec, nil
		}
		value := f.Value.Format(DateLayout)
		spec.Date = &DateCondition{
			Field:  info,
			Value:  value,
			Prefix: value[:n],
			Length: n,
		}

	default:
		return QuerySpec{}, ErrUnsupportedFilter
	}

	return spec, nil
}

func unsupportedFilter(kind string, info FieldInfo) error {
	return ErrUnsupportedFilter.WithMessage("字段%s(%s)不支持%s过滤", info.Field, info.Kind, kind)
}
