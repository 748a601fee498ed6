package sqlite

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// 过滤参数名
const (
	ParamTextValue   = "FilterByTextValue"
	ParamDoubleValue = "FilterByDoubleValue"
	ParamDoubleEnd   = "FilterByDoubleValue2"
	ParamIDPrefix    = "IdPrefix"
)

// likeEscape LIKE转义字符
// 选'!'而不是反斜杠:SQLite和MySQL对ESCAPE '!'的解释一致
const likeEscape = '!'

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// QueryBuilderConfig 生成SQL所需的配置
type QueryBuilderConfig struct {
	Table             string
	IDPrefixLength    int
	IDNumberMaxLength int
	PageLimits        book.PageLimits
}

// QueryBuilder 把领域请求翻译成参数化SQL
// 设计说明:
// 1. 所有调用方提供的值都走@参数;只有表名、列名(来自注册表)和内部格式化的日期字面量会拼进SQL
// 2. 表名在构造时校验为合法标识符
// 3. 纯函数,无状态,可并发使用
type QueryBuilder struct {
	cfg QueryBuilderConfig
}

// NewQueryBuilder 创建SQL构造器
func NewQueryBuilder(cfg QueryBuilderConfig) (*QueryBuilder, error) {
	if !identifierPattern.MatchString(cfg.Table) {
		return nil, fmt.Errorf("非法表名: %q", cfg.Table)
	}
	if cfg.IDPrefixLength < 0 {
		return nil, fmt.Errorf("非法主键前缀长度: %d", cfg.IDPrefixLength)
	}
	if cfg.IDNumberMaxLength <= 0 {
		cfg.IDNumberMaxLength = 9
	}
	if cfg.PageLimits == (book.PageLimits{}) {
		cfg.PageLimits = book.DefaultPageLimits()
	}
	return &QueryBuilder{cfg: cfg}, nil
}

// Table 表名
func (q *QueryBuilder) Table() string { return q.cfg.Table }

// Create INSERT语句,七列固定顺序
func (q *QueryBuilder) Create(b *book.Book) (Statement, error) {
	if b == nil || b.ID == "" {
		return Statement{}, book.ErrNullEntity
	}

	fields := book.Fields()
	columns := make([]string, len(fields))
	placeholders := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Column
		placeholders[i] = "@" + f.Param
	}

	text := fmt.Sprintf("INSERT INTO %s(%s) VALUES (%s);",
		q.cfg.Table, strings.Join(columns, ","), strings.Join(placeholders, ","))
	return Statement{Text: text, Params: entityParams(b)}, nil
}

// Read 列表查询
// 结构: SELECT * FROM t [WHERE 过滤] [WHERE|AND id NOT IN (SELECT id FROM t [WHERE 过滤] [ORDER BY] LIMIT skip)] [ORDER BY] LIMIT take;
// 教学要点:跳过子查询必须带上同样的过滤和排序,否则第2页会漏掉或重复记录
func (q *QueryBuilder) Read(req book.ReadRequest) (Statement, error) {
	spec, err := book.Resolve(req, q.cfg.PageLimits)
	if err != nil {
		return Statement{}, err
	}
	return q.Render(spec), nil
}

// Render 把已解析的QuerySpec渲染成SQL
func (q *QueryBuilder) Render(spec book.QuerySpec) Statement {
	params := map[string]any{}
	where := q.filterClause(spec, params)
	order := q.orderClause(spec.Order)

	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(q.cfg.Table)

	conjunction := " WHERE "
	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
		conjunction = " AND "
	}

	if skip := spec.Skip(); skip > 0 {
		sb.WriteString(conjunction)
		sb.WriteString("id NOT IN (SELECT id FROM ")
		sb.WriteString(q.cfg.Table)
		if where != "" {
			sb.WriteString(" WHERE ")
			sb.WriteString(where)
		}
		if order != "" {
			sb.WriteString(" ")
			sb.WriteString(order)
		}
		fmt.Fprintf(&sb, " LIMIT %d)", skip)
	}

	if order != "" {
		sb.WriteString(" ")
		sb.WriteString(order)
	}
	fmt.Fprintf(&sb, " LIMIT %d;", spec.Take())

	return Statement{Text: sb.String(), Params: params}
}

func (q *QueryBuilder) filterClause(spec book.QuerySpec, params map[string]any) string {
	switch {
	case spec.Text != nil:
		params[ParamTextValue] = "%" + EscapeLike(spec.Text.Substring) + "%"
		return fmt.Sprintf("%s LIKE @%s ESCAPE '%c'", spec.Text.Field.Column, ParamTextValue, likeEscape)

	case spec.Numeric != nil:
		c := spec.Numeric
		params[ParamDoubleValue] = c.Lo
		if !c.Ranged {
			return fmt.Sprintf("%s = @%s", c.Field.Column, ParamDoubleValue)
		}
		params[ParamDoubleEnd] = c.Hi
		return fmt.Sprintf("%s BETWEEN @%s AND @%s", c.Field.Column, ParamDoubleValue, ParamDoubleEnd)

	case spec.Date != nil:
		c := spec.Date
		// 日期由time.Format生成,只含数字和'-',可以安全地作为字面量
		return fmt.Sprintf("substring(%s,1,%d) = substring('%s',1,%d)", c.Field.Column, c.Length, c.Value, c.Length)
	}
	return ""
}

func (q *QueryBuilder) orderClause(o *book.Ordering) string {
	if o == nil {
		return ""
	}
	dir := "ASC"
	if o.Descending {
		dir = "DESC"
	}
	if o.Field.Field == book.FieldID {
		return fmt.Sprintf("ORDER BY %s %s", q.idNumberExpr(), dir)
	}
	return fmt.Sprintf("ORDER BY %s %s", o.Field.Column, dir)
}

// idNumberExpr 主键数字部分的数值表达式
func (q *QueryBuilder) idNumberExpr() string {
	return fmt.Sprintf("CAST(SUBSTRING(id,%d,%d) AS NUMERIC)", q.cfg.IDPrefixLength+1, q.cfg.IDNumberMaxLength)
}

// ReadByID 按主键精确查询
func (q *QueryBuilder) ReadByID(id string) (Statement, error) {
	if id == "" {
		return Statement{}, book.ErrNullEntity
	}
	return Statement{
		Text:   fmt.Sprintf("SELECT * FROM %s WHERE id = @Id;", q.cfg.Table),
		Params: map[string]any{"Id": id},
	}, nil
}

// MaxID 当前前缀下数字部分最大的主键
func (q *QueryBuilder) MaxID(prefix string) Statement {
	text := fmt.Sprintf("SELECT id FROM %s WHERE substring(id,1,%d) = @%s ORDER BY %s DESC LIMIT 1;",
		q.cfg.Table, len(prefix), ParamIDPrefix, q.idNumberExpr())
	return Statement{Text: text, Params: map[string]any{ParamIDPrefix: prefix}}
}

// Update 只SET已设置的字段,顺序同注册表
func (q *QueryBuilder) Update(id string, u book.Update) (Statement, error) {
	if id == "" {
		return Statement{}, book.ErrNullEntity
	}
	values := u.Values()
	if len(values) == 0 {
		return Statement{}, book.ErrNoUpdatableFields
	}

	params := map[string]any{"Id": id}
	sets := make([]string, len(values))
	for i, fv := range values {
		sets[i] = fmt.Sprintf("%s = @%s", fv.Info.Column, fv.Info.Param)
		params[fv.Info.Param] = fv.Value
	}
	text := fmt.Sprintf("UPDATE %s SET %s WHERE id = @Id;", q.cfg.Table, strings.Join(sets, ", "))
	return Statement{Text: text, Params: params}, nil
}

// Delete 按主键删除
func (q *QueryBuilder) Delete(id string) (Statement, error) {
	if id == "" {
		return Statement{}, book.ErrNullEntity
	}
	return Statement{
		Text:   fmt.Sprintf("DELETE FROM %s WHERE id=@Id;", q.cfg.Table),
		Params: map[string]any{"Id": id},
	}, nil
}

// EscapeLike 转义LIKE通配符,使调用方输入按字面匹配
func EscapeLike(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r == likeEscape || r == '%' || r == '_' {
			sb.WriteRune(likeEscape)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func entityParams(b *book.Book) map[string]any {
	return map[string]any{
		"Id":           b.ID,
		"Author":       b.Author,
		"Title":        b.Title,
		"Genre":        b.Genre,
		"Price":        b.Price,
		"Publish_date": b.PublishDateString(),
		"Description":  b.Description,
	}
}
