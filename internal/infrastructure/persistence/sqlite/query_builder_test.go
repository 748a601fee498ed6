package sqlite

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

func newBuilder(t *testing.T) *QueryBuilder {
	t.Helper()
	qb, err := NewQueryBuilder(QueryBuilderConfig{Table: "books", IDPrefixLength: 1, IDNumberMaxLength: 9})
	require.NoError(t, err)
	return qb
}

func ptr[T any](v T) *T { return &v }

func TestQueryBuilderCreate(t *testing.T) {
	qb := newBuilder(t)

	st, err := qb.Create(&book.Book{
		ID: "B1", Author: "Ralls, Kim", Title: "Midnight Rain", Genre: "Fantasy", Price: 5.95,
		PublishDate: time.Date(2000, 12, 16, 0, 0, 0, 0, time.UTC), Description: "d",
	})
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO books(id,author,title,genre,price,publish_date,description) VALUES (@Id,@Author,@Title,@Genre,@Price,@Publish_date,@Description);",
		st.Text)
	assert.Len(t, st.Params, 7)
	assert.Equal(t, "2000-12-16", st.Params["Publish_date"])
	assert.Equal(t, 5.95, st.Params["Price"])

	_, err = qb.Create(nil)
	assert.True(t, errors.Is(err, book.ErrNullEntity))
	_, err = qb.Create(&book.Book{Title: "no id"})
	assert.True(t, errors.Is(err, book.ErrNullEntity))
}

func TestQueryBuilderRead(t *testing.T) {
	qb := newBuilder(t)

	tests := []struct {
		name   string
		req    book.ReadRequest
		text   string
		params map[string]any
	}{
		{
			name:   "默认请求不排序",
			req:    book.ReadRequest{},
			text:   "SELECT * FROM books LIMIT 20;",
			params: map[string]any{},
		},
		{
			name:   "按Id数值排序",
			req:    book.DefaultReadRequest(),
			text:   "SELECT * FROM books ORDER BY CAST(SUBSTRING(id,2,9) AS NUMERIC) ASC LIMIT 20;",
			params: map[string]any{},
		},
		{
			name: "文本过滤",
			req:  book.SortedBy(book.FieldAuthor, book.TextFilter{Field: book.FieldAuthor, Substring: "Kim"}),
			text: "SELECT * FROM books WHERE author LIKE @FilterByTextValue ESCAPE '!' ORDER BY author ASC LIMIT 20;",
			params: map[string]any{
				"FilterByTextValue": "%Kim%",
			},
		},
		{
			name: "价格等值",
			req:  book.SortedBy(book.FieldPrice, book.NewPriceFilter(5.95, nil)),
			text: "SELECT * FROM books WHERE price = @FilterByDoubleValue ORDER BY price ASC LIMIT 20;",
			params: map[string]any{
				"FilterByDoubleValue": 5.95,
			},
		},
		{
			name: "价格区间上下界规范化",
			req:  book.SortedBy(book.FieldPrice, book.NewPriceFilter(40, ptr(30.0))),
			text: "SELECT * FROM books WHERE price BETWEEN @FilterByDoubleValue AND @FilterByDoubleValue2 ORDER BY price ASC LIMIT 20;",
			params: map[string]any{
				"FilterByDoubleValue":  30.0,
				"FilterByDoubleValue2": 40.0,
			},
		},
		{
			name:   "出版年月",
			req:    book.SortedBy(book.FieldPublishDate, book.NewDateFilter(ptr(2012), ptr(8), nil)),
			text:   "SELECT * FROM books WHERE substring(publish_date,1,7) = substring('2012-08-01',1,7) ORDER BY publish_date ASC LIMIT 20;",
			params: map[string]any{},
		},
		{
			name: "无过滤第2页",
			req: func() book.ReadRequest {
				r := book.DefaultReadRequest()
				r.Page = book.Pagination{PageNumber: 2, PageSize: 10}
				return r
			}(),
			text: "SELECT * FROM books WHERE id NOT IN (SELECT id FROM books ORDER BY CAST(SUBSTRING(id,2,9) AS NUMERIC) ASC LIMIT 10) " +
				"ORDER BY CAST(SUBSTRING(id,2,9) AS NUMERIC) ASC LIMIT 10;",
			params: map[string]any{},
		},
		{
			name: "过滤与跳过用AND连接且子查询带过滤",
			req: func() book.ReadRequest {
				r := book.SortedBy(book.FieldTitle, book.TextFilter{Field: book.FieldTitle, Substring: "guide"})
				r.Page = book.Pagination{PageNumber: 3, PageSize: 5}
				return r
			}(),
			text: "SELECT * FROM books WHERE title LIKE @FilterByTextValue ESCAPE '!' AND id NOT IN " +
				"(SELECT id FROM books WHERE title LIKE @FilterByTextValue ESCAPE '!' ORDER BY title ASC LIMIT 10) " +
				"ORDER BY title ASC LIMIT 5;",
			params: map[string]any{
				"FilterByTextValue": "%guide%",
			},
		},
		{
			name: "降序",
			req: book.ReadRequest{
				Sort: book.Sort{Enabled: true, Field: book.FieldGenre, Descending: true},
				Page: book.Pagination{PageSize: 99},
			},
			text:   "SELECT * FROM books ORDER BY genre DESC LIMIT 50;",
			params: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := qb.Read(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.text, st.Text)
			assert.Equal(t, tt.params, st.Params)
		})
	}

	t.Run("不支持的组合", func(t *testing.T) {
		_, err := qb.Read(book.SortedBy(book.FieldPrice, book.TextFilter{Field: book.FieldPrice, Substring: "5"}))
		assert.True(t, errors.Is(err, book.ErrUnsupportedFilter))
	})
}

func TestQueryBuilderUpdate(t *testing.T) {
	qb := newBuilder(t)

	st, err := qb.Update("B3", book.Update{Title: ptr("New"), Price: ptr(9.5)})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE books SET title = @Title, price = @Price WHERE id = @Id;", st.Text)
	assert.Equal(t, map[string]any{"Id": "B3", "Title": "New", "Price": 9.5}, st.Params)

	d := time.Date(2001, 1, 2, 0, 0, 0, 0, time.UTC)
	st, err = qb.Update("B3", book.FullUpdate(&book.Book{PublishDate: d}))
	require.NoError(t, err)
	assert.Equal(t,
		"UPDATE books SET author = @Author, title = @Title, genre = @Genre, price = @Price, publish_date = @Publish_date, description = @Description WHERE id = @Id;",
		st.Text)
	assert.Equal(t, "2001-01-02", st.Params["Publish_date"])

	_, err = qb.Update("B3", book.Update{})
	assert.True(t, errors.Is(err, book.ErrNoUpdatableFields))
	_, err = qb.Update("", book.Update{Title: ptr("x")})
	assert.True(t, errors.Is(err, book.ErrNullEntity))
}

func TestQueryBuilderDeleteAndIDs(t *testing.T) {
	qb := newBuilder(t)

	st, err := qb.Delete("B7")
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM books WHERE id=@Id;", st.Text)
	assert.Equal(t, map[string]any{"Id": "B7"}, st.Params)

	st, err = qb.ReadByID("B1")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM books WHERE id = @Id;", st.Text)

	st = qb.MaxID("B")
	assert.Equal(t,
		"SELECT id FROM books WHERE substring(id,1,1) = @IdPrefix ORDER BY CAST(SUBSTRING(id,2,9) AS NUMERIC) DESC LIMIT 1;",
		st.Text)
	assert.Equal(t, "B", st.Params["IdPrefix"])

	_, err = qb.Delete("")
	assert.True(t, errors.Is(err, book.ErrNullEntity))
}

func TestQueryBuilderConfig(t *testing.T) {
	_, err := NewQueryBuilder(QueryBuilderConfig{Table: "books; DROP TABLE books"})
	assert.Error(t, err)

	qb, err := NewQueryBuilder(QueryBuilderConfig{Table: "catalog", IDPrefixLength: 2, IDNumberMaxLength: 6})
	require.NoError(t, err)
	st, err := qb.Read(book.DefaultReadRequest())
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM catalog ORDER BY CAST(SUBSTRING(id,3,6) AS NUMERIC) ASC LIMIT 20;", st.Text)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "100!%", EscapeLike("100%"))
	assert.Equal(t, "a!_b", EscapeLike("a_b"))
	assert.Equal(t, "wow!!", EscapeLike("wow!"))
	assert.Equal(t, "plain", EscapeLike("plain"))
}

func TestStatementNamedArgs(t *testing.T) {
	st := Statement{Params: map[string]any{"b": 2, "a": 1}}
	args := st.NamedArgs()
	require.Len(t, args, 2)
	assert.Equal(t, sql.Named("a", 1), args[0])
	assert.Equal(t, sql.Named("b", 2), args[1])
}
