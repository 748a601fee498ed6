package dto

// PublishBookRequest HTTP上架请求
// validator tag说明:
// - required: 必填字段
// - min/max: 数值与长度范围校验
// - datetime: 日期格式校验(Go时间布局)
type PublishBookRequest struct {
	Author      string  `json:"author" binding:"max=100" example:"Gambardella, Matthew"`
	Title       string  `json:"title" binding:"required,max=200" example:"XML Developer's Guide"`
	Genre       string  `json:"genre" binding:"max=50" example:"Computer"`
	Price       float64 `json:"price" binding:"min=0" example:"44.95"`
	PublishDate string  `json:"publish_date" binding:"omitempty,datetime=2006-01-02" example:"2000-10-01"`
	Description string  `json:"description" binding:"max=5000" example:"An in-depth look at creating applications with XML."`
}

// UpdateBookRequest HTTP部分更新请求
// 字段缺省(或为null)表示不修改;空字符串和0是合法的新值
type UpdateBookRequest struct {
	Author      *string  `json:"author" binding:"omitempty,max=100" example:"Corets, Eva"`
	Title       *string  `json:"title" binding:"omitempty,max=200" example:"Maeve Ascendant II"`
	Genre       *string  `json:"genre" binding:"omitempty,max=50" example:"Fantasy"`
	Price       *float64 `json:"price" binding:"omitempty,min=0" example:"5.95"`
	PublishDate *string  `json:"publish_date" binding:"omitempty,datetime=2006-01-02" example:"2000-11-17"`
	Description *string  `json:"description" binding:"omitempty,max=5000"`
}

// ListBooksQuery HTTP图书列表查询参数
// 过滤三选一:filter(作用于filter_by,默认同sort_by)、price/price_min+price_max、year[/month[/day]]
type ListBooksQuery struct {
	SortBy   string   `form:"sort_by" example:"title"`
	Order    string   `form:"order" binding:"omitempty,oneof=asc desc" example:"asc"`
	Sort     *bool    `form:"sort" example:"true"`
	FilterBy string   `form:"filter_by" example:"title"`
	Filter   string   `form:"filter" binding:"max=200" example:"Guide"`
	Price    *float64 `form:"price" example:"5.95"`
	PriceMin *float64 `form:"price_min" example:"5"`
	PriceMax *float64 `form:"price_max" example:"40"`
	Year     *int     `form:"year" example:"2000"`
	Month    *int     `form:"month" example:"12"`
	Day      *int     `form:"day" example:"1"`
	Page     int      `form:"page" example:"1"`
	PageSize int      `form:"page_size" example:"20"`
}

// BackendResponse 当前存储后端
type BackendResponse struct {
	Backend string `json:"backend" example:"sql"`
	UseSQL  bool   `json:"use_sql" example:"true"`
}
