package booktest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// Factory 返回一个空仓储(主键前缀B、起始值1)
type Factory func(t *testing.T) book.Repository

// Seed 按顺序创建Fixtures,断言主键为B1..B12
func Seed(t *testing.T, repo book.Repository) []*book.Book {
	t.Helper()
	ctx := context.Background()
	var created []*book.Book
	for i, b := range Fixtures() {
		got, err := repo.Create(ctx, b)
		require.NoError(t, err)
		require.Equal(t, IDs(i + 1)[0], got.ID)
		created = append(created, got)
	}
	return created
}

func ids(books []*book.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func page(n, size int) book.Pagination {
	return book.Pagination{PageNumber: n, PageSize: size}
}

func ptr[T any](v T) *T { return &v }

type readCase struct {
	name    string
	req     book.ReadRequest
	want    []string
	ordered bool
	wantErr error
}

func readCases() []readCase {
	byID := func(f book.Filter, p book.Pagination) book.ReadRequest {
		r := book.SortedBy(book.FieldID, f)
		r.Page = p
		return r
	}
	return []readCase{
		{
			name:    "按Id数值排序",
			req:     byID(nil, page(1, 50)),
			want:    IDs(Range(1, 12)...),
			ordered: true,
		},
		{
			name:    "按Id第2页",
			req:     byID(nil, page(2, 5)),
			want:    IDs(6, 7, 8, 9, 10),
			ordered: true,
		},
		{
			name:    "按Id最后一页不足一页",
			req:     byID(nil, page(3, 5)),
			want:    IDs(11, 12),
			ordered: true,
		},
		{
			name:    "越过末页返回空",
			req:     byID(nil, page(4, 5)),
			want:    []string{},
			ordered: true,
		},
		{
			name: "按Id降序",
			req: func() book.ReadRequest {
				r := byID(nil, page(1, 3))
				r.Sort.Descending = true
				return r
			}(),
			want:    IDs(12, 11, 10),
			ordered: true,
		},
		{
			name:    "按标题排序",
			req:     book.ReadRequest{Sort: book.Sort{Enabled: true, Field: book.FieldTitle}, Page: page(1, 50)},
			want:    IDs(7, 5, 10, 2, 9, 1, 3, 8, 6, 4, 11, 12),
			ordered: true,
		},
		{
			name: "按标题降序第1页",
			req: book.ReadRequest{
				Sort: book.Sort{Enabled: true, Field: book.FieldTitle, Descending: true},
				Page: page(1, 4),
			},
			want:    IDs(12, 11, 4, 6),
			ordered: true,
		},
		{
			name: "不排序返回全部",
			req:  book.ReadRequest{Page: page(1, 50)},
			want: IDs(Range(1, 12)...),
		},
		{
			name: "默认页大小20",
			req:  book.ReadRequest{},
			want: IDs(Range(1, 12)...),
		},
		{
			name: "作者过滤不区分大小写",
			req:  book.SortedBy(book.FieldAuthor, book.TextFilter{Field: book.FieldAuthor, Substring: "corets"}),
			want: IDs(2, 3, 4),
		},
		{
			name: "Id文本过滤",
			req:  book.SortedBy(book.FieldID, book.TextFilter{Field: book.FieldID, Substring: "1"}),
			want: IDs(1, 10, 11, 12),
		},
		{
			name: "体裁过滤",
			req:  book.SortedBy(book.FieldGenre, book.TextFilter{Field: book.FieldGenre, Substring: "Roman"}),
			want: IDs(5, 6),
		},
		{
			name: "空白文本过滤视为不过滤",
			req:  book.SortedBy(book.FieldTitle, book.TextFilter{Field: book.FieldTitle, Substring: "   "}),
			want: IDs(Range(1, 12)...),
		},
		{
			name: "百分号按字面匹配",
			req:  book.SortedBy(book.FieldDescription, book.TextFilter{Field: book.FieldDescription, Substring: "100%"}),
			want: IDs(12),
		},
		{
			name: "下划线按字面匹配",
			req:  book.SortedBy(book.FieldDescription, book.TextFilter{Field: book.FieldDescription, Substring: "_"}),
			want: []string{},
		},
		{
			name: "价格等值",
			req:  book.SortedBy(book.FieldPrice, book.NewPriceFilter(4.95, nil)),
			want: IDs(5, 6, 7),
		},
		{
			name: "价格区间",
			req:  book.SortedBy(book.FieldPrice, book.NewPriceFilter(30, ptr(40.0))),
			want: IDs(9, 10),
		},
		{
			name: "价格区间上下界颠倒",
			req:  book.SortedBy(book.FieldPrice, book.NewPriceFilter(40, ptr(30.0))),
			want: IDs(9, 10),
		},
		{
			name: "价格区间包含端点",
			req:  book.SortedBy(book.FieldPrice, book.NewPriceFilter(4.95, ptr(5.95))),
			want: IDs(1, 2, 3, 4, 5, 6, 7),
		},
		{
			name: "出版年份",
			req:  book.SortedBy(book.FieldPublishDate, book.NewDateFilter(ptr(2001), nil, nil)),
			want: IDs(3, 4, 11),
		},
		{
			name: "出版年月",
			req:  book.SortedBy(book.FieldPublishDate, book.NewDateFilter(ptr(2000), ptr(12), nil)),
			want: IDs(1, 7, 9, 10),
		},
		{
			name: "出版日期精确到日",
			req:  book.SortedBy(book.FieldPublishDate, book.NewDateFilter(ptr(2000), ptr(11), ptr(2))),
			want: IDs(6, 8),
		},
		{
			name: "无年份不过滤",
			req:  book.SortedBy(book.FieldPublishDate, book.NewDateFilter(nil, ptr(11), nil)),
			want: IDs(Range(1, 12)...),
		},
		{
			name:    "过滤后分页第1页",
			req:     byID(book.TextFilter{Field: book.FieldTitle, Substring: "guide"}, page(1, 2)),
			want:    IDs(10, 11),
			ordered: true,
		},
		{
			name:    "过滤后分页第2页",
			req:     byID(book.TextFilter{Field: book.FieldTitle, Substring: "guide"}, page(2, 2)),
			want:    IDs(12),
			ordered: true,
		},
		{
			name:    "价格区间后分页",
			req:     byID(book.NewPriceFilter(4.95, ptr(5.95)), page(2, 3)),
			want:    IDs(4, 5, 6),
			ordered: true,
		},
		{
			name:    "日期过滤后分页",
			req:     byID(book.NewDateFilter(ptr(2000), nil, nil), page(3, 3)),
			want:    IDs(9, 10, 12),
			ordered: true,
		},
		{
			name:    "页大小超过上限被截断",
			req:     byID(nil, page(1, 500)),
			want:    IDs(Range(1, 12)...),
			ordered: true,
		},
		{
			name:    "对价格做文本过滤",
			req:     book.SortedBy(book.FieldPrice, book.TextFilter{Field: book.FieldPrice, Substring: "5"}),
			wantErr: book.ErrUnsupportedFilter,
		},
		{
			name:    "对标题做数值过滤",
			req:     book.SortedBy(book.FieldTitle, book.NumericFilter{Field: book.FieldTitle, Value: 1}),
			wantErr: book.ErrUnsupportedFilter,
		},
		{
			name:    "对价格做日期过滤",
			req:     book.SortedBy(book.FieldPrice, book.DateFilter{Field: book.FieldPrice, Precision: book.PrecisionYear}),
			wantErr: book.ErrUnsupportedFilter,
		},
		{
			name:    "未注册的排序字段",
			req:     book.ReadRequest{Sort: book.Sort{Enabled: true, Field: "Isbn"}},
			wantErr: book.ErrUnsupportedField,
		},
	}
}

// Run 执行完整语义测试集
func Run(t *testing.T, factory Factory) {
	t.Run("Read", func(t *testing.T) {
		repo := factory(t)
		Seed(t, repo)
		ctx := context.Background()

		for _, tc := range readCases() {
			t.Run(tc.name, func(t *testing.T) {
				got, err := repo.Read(ctx, tc.req)
				if tc.wantErr != nil {
					require.Error(t, err)
					assert.True(t, errors.Is(err, tc.wantErr), "期望%v,实际%v", tc.wantErr, err)
					return
				}
				require.NoError(t, err)
				if tc.ordered {
					assert.Equal(t, tc.want, ids(got))
				} else {
					assert.ElementsMatch(t, tc.want, ids(got))
				}
			})
		}
	})

	t.Run("Create", func(t *testing.T) {
		repo := factory(t)
		created := Seed(t, repo)
		fixtures := Fixtures()

		for i, got := range created {
			want := fixtures[i]
			assert.Equal(t, want.Title, got.Title)
			assert.Equal(t, want.Author, got.Author)
			assert.Equal(t, want.Genre, got.Genre)
			assert.InDelta(t, want.Price, got.Price, 1e-9)
			assert.Equal(t, want.PublishDateString(), got.PublishDateString())
			assert.Equal(t, want.Description, got.Description)
		}

		t.Run("入参ID被忽略", func(t *testing.T) {
			got, err := repo.Create(context.Background(), &book.Book{ID: "B1", Title: "Dup"})
			require.NoError(t, err)
			assert.Equal(t, "B13", got.ID)
		})

		t.Run("空实体", func(t *testing.T) {
			_, err := repo.Create(context.Background(), nil)
			assert.True(t, errors.Is(err, book.ErrNullEntity))
		})
	})

	t.Run("FindByID", func(t *testing.T) {
		repo := factory(t)
		Seed(t, repo)
		ctx := context.Background()

		got, err := repo.FindByID(ctx, "B1")
		require.NoError(t, err)
		assert.Equal(t, "Midnight Rain", got.Title, "B1不能匹配到B10/B11/B12")

		_, err = repo.FindByID(ctx, "B99")
		assert.True(t, errors.Is(err, book.ErrBookNotFound))
	})

	t.Run("Update", func(t *testing.T) {
		repo := factory(t)
		Seed(t, repo)
		ctx := context.Background()

		t.Run("只修改已设置字段", func(t *testing.T) {
			got, err := repo.Update(ctx, "B2", book.Update{Title: ptr("Maeve Ascendant II"), Price: ptr(0.0)})
			require.NoError(t, err)
			assert.Equal(t, "Maeve Ascendant II", got.Title)
			assert.Equal(t, 0.0, got.Price, "0是合法的新价格")
			assert.Equal(t, "Corets, Eva", got.Author)
			assert.Equal(t, "2000-11-17", got.PublishDateString())
		})

		t.Run("空字符串是合法新值", func(t *testing.T) {
			got, err := repo.Update(ctx, "B3", book.Update{Genre: ptr("")})
			require.NoError(t, err)
			assert.Equal(t, "", got.Genre)
			assert.Equal(t, "Oberon's Legacy", got.Title)
		})

		t.Run("修改出版日期", func(t *testing.T) {
			d := Fixtures()[0].PublishDate.AddDate(1, 0, 0)
			got, err := repo.Update(ctx, "B1", book.Update{PublishDate: &d})
			require.NoError(t, err)
			assert.Equal(t, "2001-12-16", got.PublishDateString())
		})

		t.Run("不存在", func(t *testing.T) {
			_, err := repo.Update(ctx, "B404", book.Update{Title: ptr("x")})
			assert.True(t, errors.Is(err, book.ErrBookNotFound))
		})

		t.Run("没有设置字段", func(t *testing.T) {
			_, err := repo.Update(ctx, "B1", book.Update{})
			assert.True(t, errors.Is(err, book.ErrNoUpdatableFields))
		})

		t.Run("空ID", func(t *testing.T) {
			_, err := repo.Update(ctx, "", book.Update{Title: ptr("x")})
			assert.True(t, errors.Is(err, book.ErrNullEntity))
		})
	})

	t.Run("Delete", func(t *testing.T) {
		repo := factory(t)
		Seed(t, repo)
		ctx := context.Background()

		require.NoError(t, repo.Delete(ctx, "B5"))
		_, err := repo.FindByID(ctx, "B5")
		assert.True(t, errors.Is(err, book.ErrBookNotFound))

		assert.NoError(t, repo.Delete(ctx, "B5"), "重复删除幂等")
		assert.NoError(t, repo.Delete(ctx, "B404"), "删除不存在的记录幂等")
		assert.True(t, errors.Is(repo.Delete(ctx, ""), book.ErrNullEntity))

		t.Run("删除最大ID后重新编号", func(t *testing.T) {
			require.NoError(t, repo.Delete(ctx, "B12"))
			got, err := repo.Create(ctx, &book.Book{Title: "Reborn", PublishDate: Fixtures()[0].PublishDate})
			require.NoError(t, err)
			assert.Equal(t, "B12", got.ID)
		})
	})

	t.Run("NonASCIIText", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		_, err := repo.Create(ctx, &book.Book{Author: "Émile Zola", Title: "Ölfeld", PublishDate: Fixtures()[0].PublishDate})
		require.NoError(t, err)

		// 只有ASCII字母忽略大小写,É/é、Ö/ö按不同字符处理
		cases := []struct {
			field  book.Field
			needle string
			want   []string
		}{
			{book.FieldAuthor, "Émile", IDs(1)},
			{book.FieldAuthor, "ÉMILE", IDs(1)},
			{book.FieldAuthor, "émile", []string{}},
			{book.FieldAuthor, "zola", IDs(1)},
			{book.FieldTitle, "ÖLFELD", IDs(1)},
			{book.FieldTitle, "ölfeld", []string{}},
		}
		for _, tc := range cases {
			got, err := repo.Read(ctx, book.SortedBy(tc.field, book.TextFilter{Field: tc.field, Substring: tc.needle}))
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(got), "%s包含%q", tc.field, tc.needle)
		}
	})

	t.Run("EmptyPublishDate", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		Seed(t, repo)
		created, err := repo.Create(ctx, &book.Book{Title: "Undated"})
		require.NoError(t, err)
		assert.True(t, created.PublishDate.IsZero())

		got, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, got.PublishDate.IsZero(), "未设置的日期读回仍是零值")
		assert.Equal(t, "0001-01-01", got.PublishDateString())

		// 所有后端都把未设置的日期存为0001-01-01,按第1年过滤能查到
		found, err := repo.Read(ctx, book.SortedBy(book.FieldPublishDate, book.NewDateFilter(ptr(1), nil, nil)))
		require.NoError(t, err)
		assert.Equal(t, []string{created.ID}, ids(found))

		found, err = repo.Read(ctx, book.SortedBy(book.FieldPublishDate, book.NewDateFilter(ptr(1), ptr(1), ptr(1))))
		require.NoError(t, err)
		assert.Equal(t, []string{created.ID}, ids(found))
	})

	t.Run("ConcurrentCreate", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		const workers = 8
		var wg sync.WaitGroup
		results := make(chan string, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				b := Fixtures()[i]
				got, err := repo.Create(ctx, b)
				if assert.NoError(t, err) {
					results <- got.ID
				}
			}(i)
		}
		wg.Wait()
		close(results)

		var got []string
		for id := range results {
			got = append(got, id)
		}
		assert.ElementsMatch(t, IDs(Range(1, workers)...), got)
	})
}
