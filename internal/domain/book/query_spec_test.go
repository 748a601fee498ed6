package book

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestPageLimitsNormalize(t *testing.T) {
	limits := DefaultPageLimits()

	tests := []struct {
		name string
		in   Pagination
		want Pagination
	}{
		{"零值取默认", Pagination{}, Pagination{PageNumber: 1, PageSize: 20}},
		{"负数页码", Pagination{PageNumber: -3, PageSize: 10}, Pagination{PageNumber: 1, PageSize: 10}},
		{"超过上限截断", Pagination{PageNumber: 2, PageSize: 51}, Pagination{PageNumber: 2, PageSize: 50}},
		{"边界值保留", Pagination{PageNumber: 1, PageSize: 1}, Pagination{PageNumber: 1, PageSize: 1}},
		{"负数页大小取默认", Pagination{PageNumber: 1, PageSize: -1}, Pagination{PageNumber: 1, PageSize: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, limits.Normalize(tt.in))
		})
	}

	t.Run("自定义约束", func(t *testing.T) {
		custom := PageLimits{Default: 5, Min: 2, Max: 10}
		assert.Equal(t, 5, custom.Normalize(Pagination{}).PageSize)
		assert.Equal(t, 10, custom.Normalize(Pagination{PageSize: 99}).PageSize)
	})

	t.Run("非法约束回退", func(t *testing.T) {
		broken := PageLimits{Default: 100, Min: 0, Max: 30}
		assert.Equal(t, 20, broken.Normalize(Pagination{}).PageSize)
	})
}

func TestSkip(t *testing.T) {
	assert.Equal(t, 0, Skip(1, 20))
	assert.Equal(t, 20, Skip(2, 20))
	assert.Equal(t, 90, Skip(10, 10))
	assert.Equal(t, 0, Skip(0, 10))
}

func TestParseField(t *testing.T) {
	for name, want := range map[string]Field{
		"Id":           FieldID,
		"id":           FieldID,
		"PUBLISHDATE":  FieldPublishDate,
		"publish_date": FieldPublishDate,
		" price ":      FieldPrice,
	} {
		got, err := ParseField(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got)
	}

	_, err := ParseField("isbn")
	assert.True(t, errors.Is(err, ErrUnsupportedField))
}

func TestFieldRegistry(t *testing.T) {
	var columns, params []string
	for _, f := range Fields() {
		columns = append(columns, f.Column)
		params = append(params, f.Param)
	}
	assert.Equal(t, []string{"id", "author", "title", "genre", "price", "publish_date", "description"}, columns)
	assert.Equal(t, []string{"Id", "Author", "Title", "Genre", "Price", "Publish_date", "Description"}, params)

	info, err := ResolveColumn(FieldPublishDate)
	require.NoError(t, err)
	assert.Equal(t, KindDate, info.Kind)

	_, err = ResolveColumn("Stock")
	assert.True(t, errors.Is(err, ErrUnsupportedField))
}

func TestResolve(t *testing.T) {
	limits := DefaultPageLimits()

	t.Run("数值区间规范化", func(t *testing.T) {
		spec, err := Resolve(ReadRequest{Filter: NewPriceFilter(40, ptr(30.0))}, limits)
		require.NoError(t, err)
		require.NotNil(t, spec.Numeric)
		assert.True(t, spec.Numeric.Ranged)
		assert.Equal(t, 30.0, spec.Numeric.Lo)
		assert.Equal(t, 40.0, spec.Numeric.Hi)
	})

	t.Run("日期前缀", func(t *testing.T) {
		cases := map[DatePrecision]string{
			PrecisionYear:  "2012",
			PrecisionMonth: "2012-08",
			PrecisionDay:   "2012-08-15",
		}
		for p, want := range cases {
			f := DateFilter{Field: FieldPublishDate, Value: time.Date(2012, 8, 15, 0, 0, 0, 0, time.UTC), Precision: p}
			spec, err := Resolve(ReadRequest{Filter: f}, limits)
			require.NoError(t, err)
			assert.Equal(t, want, spec.Date.Prefix)
			assert.Equal(t, len(want), spec.Date.Length)
		}
	})

	t.Run("精度None不过滤", func(t *testing.T) {
		spec, err := Resolve(ReadRequest{Filter: DateFilter{Field: FieldPublishDate}}, limits)
		require.NoError(t, err)
		assert.False(t, spec.HasFilter())
	})

	t.Run("排序字段缺省为Id", func(t *testing.T) {
		spec, err := Resolve(ReadRequest{Sort: Sort{Enabled: true}}, limits)
		require.NoError(t, err)
		assert.Equal(t, FieldID, spec.Order.Field.Field)
	})

	t.Run("未启用排序", func(t *testing.T) {
		spec, err := Resolve(ReadRequest{Sort: Sort{Field: FieldTitle}}, limits)
		require.NoError(t, err)
		assert.Nil(t, spec.Order)
	})

	t.Run("类型不匹配", func(t *testing.T) {
		_, err := Resolve(ReadRequest{Filter: TextFilter{Field: FieldPublishDate, Substring: "2000"}}, limits)
		assert.True(t, errors.Is(err, ErrUnsupportedFilter))
	})

	t.Run("分页", func(t *testing.T) {
		spec, err := Resolve(ReadRequest{Page: Pagination{PageNumber: 3, PageSize: 7}}, limits)
		require.NoError(t, err)
		assert.Equal(t, 14, spec.Skip())
		assert.Equal(t, 7, spec.Take())
	})
}

func TestNewDateFilter(t *testing.T) {
	assert.Nil(t, NewDateFilter(nil, ptr(1), ptr(1)))

	f := NewDateFilter(ptr(2000), nil, ptr(9)).(DateFilter)
	assert.Equal(t, PrecisionYear, f.Precision, "有日无月时忽略日")

	f = NewDateFilter(ptr(2000), ptr(2), ptr(29)).(DateFilter)
	assert.Equal(t, PrecisionDay, f.Precision)
	assert.Equal(t, "2000-02-29", f.Value.Format(DateLayout))
}

func TestUpdateValues(t *testing.T) {
	d := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	u := Update{Description: ptr("d"), Price: ptr(0.0), PublishDate: &d, Author: ptr("")}

	var cols []string
	var vals []any
	for _, fv := range u.Values() {
		cols = append(cols, fv.Info.Column)
		vals = append(vals, fv.Value)
	}
	assert.Equal(t, []string{"author", "price", "publish_date", "description"}, cols)
	assert.Equal(t, []any{"", 0.0, "2020-01-02", "d"}, vals)
	assert.False(t, u.IsEmpty())
	assert.True(t, Update{}.IsEmpty())

	b := &Book{Title: "keep", Author: "old"}
	u.Apply(b)
	assert.Equal(t, "keep", b.Title)
	assert.Equal(t, "", b.Author)
}

func TestCompareFuncID(t *testing.T) {
	books := []*Book{{ID: "B10"}, {ID: "B2"}, {ID: "B1"}, {ID: "A2"}}
	spec := QuerySpec{
		Order: &Ordering{Field: FieldInfo{Field: FieldID}},
		Page:  Pagination{PageNumber: 1, PageSize: 10},
	}
	got := Apply(books, spec, 1)
	var ids []string
	for _, b := range got {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"B1", "A2", "B2", "B10"}, ids, "先比数字后缀,再比前缀")
}
