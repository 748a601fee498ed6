package book

import "time"

// Filter 过滤条件(封闭联合类型)
// 只有TextFilter、NumericFilter、DateFilter三种实现;nil表示不过滤
type Filter interface {
	isFilter()
	// TargetField 过滤作用的字段
	TargetField() Field
}

// TextFilter 文本包含过滤(不区分大小写的子串匹配)
type TextFilter struct {
	Field     Field
	Substring string
}

// NumericFilter 数值过滤
// RangeEnd为nil时等值匹配,否则闭区间[Value, *RangeEnd](上下界顺序可颠倒)
type NumericFilter struct {
	Field    Field
	Value    float64
	RangeEnd *float64
}

// DateFilter 日期前缀过滤
// Precision决定比较yyyy-MM-dd的前几位
type DateFilter struct {
	Field     Field
	Value     time.Time
	Precision DatePrecision
}

func (TextFilter) isFilter()    {}
func (NumericFilter) isFilter() {}
func (DateFilter) isFilter()    {}

func (f TextFilter) TargetField() Field    { return f.Field }
func (f NumericFilter) TargetField() Field { return f.Field }
func (f DateFilter) TargetField() Field    { return f.Field }

// DatePrecision 日期过滤精度
type DatePrecision int

const (
	PrecisionNone DatePrecision = iota
	PrecisionYear
	PrecisionMonth
	PrecisionDay
)

// PrefixLength 精度对应的yyyy-MM-dd前缀长度
func (p DatePrecision) PrefixLength() int {
	switch p {
	case PrecisionYear:
		return 4
	case PrecisionMonth:
		return 7
	case PrecisionDay:
		return 10
	default:
		return 0
	}
}

func (p DatePrecision) String() string {
	switch p {
	case PrecisionYear:
		return "year"
	case PrecisionMonth:
		return "month"
	case PrecisionDay:
		return "day"
	default:
		return "none"
	}
}

// NewDateFilter 由可选的年/月/日构造日期过滤
// 规则:
// 1. 没有年 → nil(不过滤)
// 2. 有年无月 → 年精度;有月无日 → 月精度;三者齐全 → 日精度
// 3. 有日无月时日被忽略
func NewDateFilter(year, month, day *int) Filter {
	if year == nil {
		return nil
	}
	m, d := 1, 1
	precision := PrecisionYear
	if month != nil {
		m = *month
		precision = PrecisionMonth
		if day != nil {
			d = *day
			precision = PrecisionDay
		}
	}
	return DateFilter{
		Field:     FieldPublishDate,
		Value:     time.Date(*year, time.Month(m), d, 0, 0, 0, 0, time.UTC),
		Precision: precision,
	}
}

// NewPriceFilter 价格过滤,hi为nil时等值匹配
func NewPriceFilter(lo float64, hi *float64) Filter {
	return NumericFilter{Field: FieldPrice, Value: lo, RangeEnd: hi}
}

// Sort 排序设置
type Sort struct {
	Enabled    bool
	Field      Field
	Descending bool
}

// ReadRequest 列表查询请求
// 教学要点:
// 1. 零值ReadRequest = 不过滤、不排序、第1页默认页大小
// 2. 分页参数在Resolve时统一规范化,这里不做校验
type ReadRequest struct {
	Filter Filter
	Sort   Sort
	Page   Pagination
}

// DefaultReadRequest 默认请求:按Id升序,第1页
func DefaultReadRequest() ReadRequest {
	return ReadRequest{
		Sort: Sort{Enabled: true, Field: FieldID},
		Page: Pagination{PageNumber: 1},
	}
}

// SortedBy 按字段升序并以同一字段过滤
// 对应"按某字段浏览"的常见用法:排序字段即过滤字段
func SortedBy(field Field, filter Filter) ReadRequest {
	req := DefaultReadRequest()
	req.Sort.Field = field
	req.Filter = filter
	return req
}
