package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/idseq"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// bookRepository 图书仓储实现(GORM)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 查询条件来自book.Resolve生成的QuerySpec,与手写SQL路径共用同一份语义
// 4. "读最大主键+插入"放在同一事务内,再由Allocator串行化并处理冲突重试
type bookRepository struct {
	db          *gorm.DB
	tx          *TxManager
	alloc       *idseq.Allocator
	table       string
	idPrefixLen int
	limits      book.PageLimits
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB, tx *TxManager, alloc *idseq.Allocator, table string, limits book.PageLimits) book.Repository {
	if table == "" {
		table = BookModel{}.TableName()
	}
	return &bookRepository{
		db:          db,
		tx:          tx,
		alloc:       alloc,
		table:       table,
		idPrefixLen: alloc.Sequencer().PrefixLength(),
		limits:      limits,
	}
}

// getDB 取事务DB(如果有)并指定表名
func (r *bookRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).Table(r.table)
}

// Create 分配主键并插入
func (r *bookRepository) Create(ctx context.Context, b *book.Book) (*book.Book, error) {
	if b == nil {
		return nil, book.ErrNullEntity
	}

	insert := func(ctx context.Context, id string) error {
		// 1. 领域实体 → GORM模型(调用方传入的ID被忽略)
		model := toBookModel(b)
		model.ID = id

		// 2. 插入数据库
		result := r.getDB(ctx).Create(model)
		if result.Error != nil {
			if isDuplicateError(result.Error) {
				return idseq.ErrDuplicateID.WithCause(result.Error)
			}
			return apperrors.Wrap(result.Error, "创建图书失败")
		}
		if result.RowsAffected == 0 {
			return book.ErrCreateFailed
		}
		return nil
	}

	id, err := r.alloc.Allocate(ctx, func(ctx context.Context, seq *idseq.Sequencer) (string, error) {
		var id string
		err := r.tx.Transaction(ctx, func(ctx context.Context) error {
			var err error
			id, err = idseq.ReadThenInsert(r.maxID, insert)(ctx, seq)
			return err
		})
		return id, err
	})
	if err != nil {
		return nil, err
	}

	// 3. 重新读取,返回数据库中的真实状态
	return r.FindByID(ctx, id)
}

// Read 过滤 + 排序 + 分页
func (r *bookRepository) Read(ctx context.Context, req book.ReadRequest) ([]*book.Book, error) {
	spec, err := book.Resolve(req, r.limits)
	if err != nil {
		return nil, err
	}

	var models []BookModel
	err = r.getDB(ctx).
		Scopes(filterScope(spec), orderScope(spec.Order, r.idPrefixLen), pageScope(spec)).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, 0, len(models))
	for i := range models {
		b, err := toBookEntity(&models[i])
		if err != nil {
			return nil, apperrors.Wrap(err, "解析图书失败")
		}
		books = append(books, b)
	}
	return books, nil
}

// FindByID 根据ID精确查找图书
func (r *bookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	var model BookModel
	err := r.getDB(ctx).Where("id = ?", id).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	b, err := toBookEntity(&model)
	if err != nil {
		return nil, apperrors.Wrap(err, "解析图书失败")
	}
	return b, nil
}

// Update 只更新显式设置的字段
// 设计说明:
// 1. 使用map更新,零值(0、空字符串)也会写入
// 2. MySQL对"值未变化"的行返回RowsAffected=0,此时再查一次区分"不存在"和"无变化"
func (r *bookRepository) Update(ctx context.Context, id string, u book.Update) (*book.Book, error) {
	if id == "" {
		return nil, book.ErrNullEntity
	}
	values := u.Values()
	if len(values) == 0 {
		return nil, book.ErrNoUpdatableFields
	}

	updates := make(map[string]any, len(values))
	for _, v := range values {
		updates[v.Info.Column] = v.Value
	}

	result := r.getDB(ctx).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, apperrors.Wrap(result.Error, "更新图书失败")
	}

	// RowsAffected为0时FindByID会给出ErrBookNotFound
	return r.FindByID(ctx, id)
}

// Delete 删除图书(物理删除,幂等)
func (r *bookRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return book.ErrNullEntity
	}

	result := r.getDB(ctx).Where("id = ?", id).Delete(&BookModel{})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// 影响0行:已不存在视为成功,仍存在才报错
	_, err := r.FindByID(ctx, id)
	switch {
	case errors.Is(err, book.ErrBookNotFound):
		return nil
	case err != nil:
		return err
	default:
		return book.ErrDeleteFailed
	}
}

// maxID 同前缀下数字最大的主键,没有记录时返回空字符串
func (r *bookRepository) maxID(ctx context.Context, prefix string) (string, error) {
	var ids []string
	err := r.getDB(ctx).
		Where("SUBSTRING(id, 1, ?) = ?", len(prefix), prefix).
		Order(idNumberExpr(len(prefix)) + " DESC").
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return "", apperrors.Wrap(err, "查询最大主键失败")
	}
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}

// toBookModel 领域实体 → GORM模型
func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:          b.ID,
		Author:      b.Author,
		Title:       b.Title,
		Genre:       b.Genre,
		Price:       b.Price,
		PublishDate: b.PublishDateString(),
		Description: b.Description,
	}
}

// toBookEntity GORM模型 → 领域实体
// 未设置的出版日期统一存为0001-01-01(与SQL后端相同),空字符串只为兼容旧数据
func toBookEntity(m *BookModel) (*book.Book, error) {
	var date time.Time
	if m.PublishDate != "" {
		d, err := book.ParsePublishDate(m.PublishDate)
		if err != nil {
			return nil, err
		}
		date = d
	}
	return &book.Book{
		ID:          m.ID,
		Author:      m.Author,
		Title:       m.Title,
		Genre:       m.Genre,
		Price:       m.Price,
		PublishDate: date,
		Description: m.Description,
	}, nil
}
