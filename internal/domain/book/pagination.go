package book

// 分页默认值
const (
	DefaultPageSize = 20
	MinPageSize     = 1
	MaxPageSize     = 50
)

// Pagination 分页参数
// PageNumber从1开始;<=0的值视为未设置
type Pagination struct {
	PageNumber int
	PageSize   int
}

// PageLimits 页大小约束(可由配置覆盖)
type PageLimits struct {
	Default int
	Min     int
	Max     int
}

// DefaultPageLimits 默认约束 20/[1,50]
func DefaultPageLimits() PageLimits {
	return PageLimits{Default: DefaultPageSize, Min: MinPageSize, Max: MaxPageSize}
}

// Normalize 规范化分页参数
// 规则:
// 1. 页码<=0 → 1
// 2. 页大小<=0 → Default
// 3. 页大小超出[Min,Max] → 截断到边界(不报错)
func (l PageLimits) Normalize(p Pagination) Pagination {
	l = l.sanitize()
	if p.PageNumber <= 0 {
		p.PageNumber = 1
	}
	switch {
	case p.PageSize <= 0:
		p.PageSize = l.Default
	case p.PageSize < l.Min:
		p.PageSize = l.Min
	case p.PageSize > l.Max:
		p.PageSize = l.Max
	}
	return p
}

func (l PageLimits) sanitize() PageLimits {
	if l.Min < 1 {
		l.Min = MinPageSize
	}
	if l.Max < l.Min {
		l.Max = l.Min
	}
	if l.Default < l.Min || l.Default > l.Max {
		l.Default = min(max(DefaultPageSize, l.Min), l.Max)
	}
	return l
}

// Skip 跳过的记录数 = (页码-1)*页大小
func Skip(pageNumber, pageSize int) int {
	if pageNumber <= 1 {
		return 0
	}
	return (pageNumber - 1) * pageSize
}

// Offset 规范化后的跳过记录数
func (p Pagination) Offset() int {
	return Skip(p.PageNumber, p.PageSize)
}
