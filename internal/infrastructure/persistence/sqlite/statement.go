package sqlite

import (
	"database/sql"
	"sort"
)

// Statement 一条参数化SQL
// Text中的占位符写作@Name,Params的键是不带@的Name
type Statement struct {
	Text   string
	Params map[string]any
}

// NamedArgs 转成database/sql的命名参数(按名称排序,便于断言和日志)
func (s Statement) NamedArgs() []any {
	names := make([]string, 0, len(s.Params))
	for name := range s.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	args := make([]any, len(names))
	for i, name := range names {
		args[i] = sql.Named(name, s.Params[name])
	}
	return args
}
