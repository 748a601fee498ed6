package mysql

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book/booktest"
	"github.com/xiebiao/bookcatalog/internal/domain/idseq"
)

func newAllocator() *idseq.Allocator {
	return idseq.NewAllocator(idseq.NewSequencer("B", 1), idseq.NewLocalLocker())
}

// newSQLiteRepo 用GORM的SQLite方言跑完整语义
func newSQLiteRepo(t *testing.T) book.Repository {
	t.Helper()
	db, err := Open(sqlite.Open(":memory:"), logger.Discard)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, AutoMigrate(db, "books"))
	return NewBookRepository(db, NewTxManager(db), newAllocator(), "books", book.DefaultPageLimits())
}

// newMockRepo 用sqlmock + MySQL方言检查生成的SQL
func newMockRepo(t *testing.T) (book.Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)

	return NewBookRepository(db, NewTxManager(db), newAllocator(), "books", book.DefaultPageLimits()), mock
}

var bookColumns = []string{"id", "author", "title", "genre", "price", "publish_date", "description"}

func TestBookRepositorySemantics(t *testing.T) {
	booktest.Run(t, newSQLiteRepo)
}

func TestReadSQL(t *testing.T) {
	t.Run("文本过滤+降序", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		req := book.SortedBy(book.FieldTitle, book.TextFilter{Field: book.FieldTitle, Substring: "100%"})
		req.Sort.Descending = true

		mock.ExpectQuery(`SELECT \* FROM .books. WHERE LOWER\(title\) LIKE \? ESCAPE '!' ORDER BY title DESC LIMIT`).
			WillReturnRows(sqlmock.NewRows(bookColumns).
				AddRow("B12", "Galos, Mike", "Visual Studio 7: A Comprehensive Guide", "Computer", 49.95, "2001-04-16", "100% C#"))

		got, err := repo.Read(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "B12", got[0].ID)
		assert.Equal(t, "2001-04-16", got[0].PublishDateString())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("价格区间+主键排序+分页", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		req := book.SortedBy(book.FieldID, book.NewPriceFilter(5.0, ptr(40.0)))
		req.Page = book.Pagination{PageNumber: 2, PageSize: 5}

		mock.ExpectQuery(`SELECT \* FROM .books. WHERE price BETWEEN \? AND \? ` +
			`ORDER BY CAST\(SUBSTRING\(id, 2\) AS UNSIGNED\) ASC,SUBSTRING\(id, 1, 1\) ASC ` +
			`LIMIT (\?|5) OFFSET (\?|5)`).
			WillReturnRows(sqlmock.NewRows(bookColumns))

		got, err := repo.Read(context.Background(), req)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("日期前缀", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		year, month := 2000, 12
		req := book.SortedBy(book.FieldID, book.NewDateFilter(&year, &month, nil))

		mock.ExpectQuery(`SELECT \* FROM .books. WHERE publish_date LIKE \?`).
			WithArgs("2000-12%", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(bookColumns))

		_, err := repo.Read(context.Background(), req)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("不支持的组合不访问数据库", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		req := book.SortedBy(book.FieldID, book.TextFilter{Field: book.FieldPrice, Substring: "1"})

		_, err := repo.Read(context.Background(), req)
		assert.True(t, errors.Is(err, book.ErrUnsupportedFilter))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateInTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .id. FROM .books. WHERE SUBSTRING\(id, 1, \?\) = \? ORDER BY CAST\(SUBSTRING\(id, 2\) AS UNSIGNED\) DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("B4"))
	mock.ExpectExec("INSERT INTO `books`").
		WithArgs("B5", sqlmock.AnyArg(), "Go", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM .books. WHERE id = \?`).
		WillReturnRows(sqlmock.NewRows(bookColumns).AddRow("B5", "", "Go", "", 0.0, "", ""))

	got, err := repo.Create(context.Background(), &book.Book{ID: "ignored", Title: "Go"})
	require.NoError(t, err)
	assert.Equal(t, "B5", got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRetriesOnDuplicate(t *testing.T) {
	repo, mock := newMockRepo(t)
	maxQuery := `SELECT .id. FROM .books. WHERE SUBSTRING`

	// 第一次:外部写入者抢先插入了B5
	mock.ExpectBegin()
	mock.ExpectQuery(maxQuery).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("B4"))
	mock.ExpectExec("INSERT INTO `books`").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'B5' for key 'books.PRIMARY'"))
	mock.ExpectRollback()

	// 第二次:重新读取最大值后成功
	mock.ExpectBegin()
	mock.ExpectQuery(maxQuery).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("B5"))
	mock.ExpectExec("INSERT INTO `books`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM .books. WHERE id = \?`).
		WillReturnRows(sqlmock.NewRows(bookColumns).AddRow("B6", "", "Go", "", 0.0, "", ""))

	got, err := repo.Create(context.Background(), &book.Book{Title: "Go"})
	require.NoError(t, err)
	assert.Equal(t, "B6", got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUnchangedRow(t *testing.T) {
	t.Run("值未变化仍返回记录", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec("UPDATE `books` SET `price`=\\?,`title`=\\? WHERE id = \\?").
			WithArgs(9.5, "Same", "B1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM .books. WHERE id = \?`).
			WillReturnRows(sqlmock.NewRows(bookColumns).AddRow("B1", "", "Same", "", 9.5, "", ""))

		got, err := repo.Update(context.Background(), "B1", book.Update{Title: ptr("Same"), Price: ptr(9.5)})
		require.NoError(t, err)
		assert.Equal(t, "Same", got.Title)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("记录不存在", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec("UPDATE `books`").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM .books. WHERE id = \?`).
			WillReturnRows(sqlmock.NewRows(bookColumns))

		_, err := repo.Update(context.Background(), "B404", book.Update{Title: ptr("x")})
		assert.True(t, errors.Is(err, book.ErrBookNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteNotApplied(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("DELETE FROM `books` WHERE id = \\?").
		WithArgs("B1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM .books. WHERE id = \?`).
		WillReturnRows(sqlmock.NewRows(bookColumns).AddRow("B1", "", "x", "", 1.0, "", ""))

	err := repo.Delete(context.Background(), "B1")
	assert.True(t, errors.Is(err, book.ErrDeleteFailed), "记录仍存在时应报删除失败")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, isDuplicateError(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateError(errors.New("UNIQUE constraint failed: books.id")))
	assert.False(t, isDuplicateError(errors.New("connection refused")))
	assert.False(t, isDuplicateError(nil))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "100!%", escapeLike("100%"))
	assert.Equal(t, "a!_b!!c", escapeLike("a_b!c"))
}

func ptr[T any](v T) *T { return &v }
