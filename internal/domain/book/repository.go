package book

import "context"

// Repository 图书仓储接口
// 设计说明:
// 1. 接口定义在domain层,SQL文本/GORM/内存三种实现在infrastructure层
// 2. Create忽略入参ID,由仓储通过idseq分配,返回重新读取的实体
// 3. Update只写入已设置的字段,命中0行返回ErrBookNotFound
// 4. Delete幂等:记录已不存在视为成功
type Repository interface {
	Create(ctx context.Context, b *Book) (*Book, error)
	Read(ctx context.Context, req ReadRequest) ([]*Book, error)
	FindByID(ctx context.Context, id string) (*Book, error)
	Update(ctx context.Context, id string, u Update) (*Book, error)
	Delete(ctx context.Context, id string) error
}
