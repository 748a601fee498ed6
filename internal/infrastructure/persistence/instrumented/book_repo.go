package instrumented

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

const tracerName = "bookcatalog/repository"

// bookRepository 给任意仓储实现加上指标、追踪和日志(装饰器)
// 设计说明:
// 1. 三种后端(sql/orm/memory)共用,backend作为指标标签和Span属性
// 2. 客户端错误(不存在、参数错误)不标记Span失败,只有服务端错误才RecordError
// 3. 不改变被装饰仓储的任何返回值
type bookRepository struct {
	next    book.Repository
	backend string
	log     *slog.Logger
}

// NewBookRepository 包装仓储
func NewBookRepository(next book.Repository, backend string, log *slog.Logger) book.Repository {
	metrics.InitMetrics()
	if log == nil {
		log = logger.Get()
	}
	return &bookRepository{next: next, backend: backend, log: log}
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) (_ *book.Book, err error) {
	ctx, done := r.observe(ctx, "create")
	defer func() { done(err) }()
	return r.next.Create(ctx, b)
}

func (r *bookRepository) Read(ctx context.Context, req book.ReadRequest) (_ []*book.Book, err error) {
	ctx, done := r.observe(ctx, "read",
		attribute.Int("catalog.page", req.Page.PageNumber),
		attribute.Int("catalog.page_size", req.Page.PageSize),
		attribute.Bool("catalog.filtered", req.Filter != nil),
	)
	defer func() { done(err) }()
	return r.next.Read(ctx, req)
}

func (r *bookRepository) FindByID(ctx context.Context, id string) (_ *book.Book, err error) {
	ctx, done := r.observe(ctx, "find_by_id", attribute.String("catalog.book_id", id))
	defer func() { done(err) }()
	return r.next.FindByID(ctx, id)
}

func (r *bookRepository) Update(ctx context.Context, id string, u book.Update) (_ *book.Book, err error) {
	ctx, done := r.observe(ctx, "update", attribute.String("catalog.book_id", id))
	defer func() { done(err) }()
	return r.next.Update(ctx, id, u)
}

func (r *bookRepository) Delete(ctx context.Context, id string) (err error) {
	ctx, done := r.observe(ctx, "delete", attribute.String("catalog.book_id", id))
	defer func() { done(err) }()
	return r.next.Delete(ctx, id)
}

// observe 开始一次操作,返回结束回调
func (r *bookRepository) observe(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	attrs = append(attrs, attribute.String("catalog.backend", r.backend))
	ctx, span := tracing.StartSpan(ctx, tracerName, "BookRepository."+op, trace.WithAttributes(attrs...))

	return ctx, func(err error) {
		elapsed := time.Since(start)
		metrics.ObserveOperation(r.backend, op, err, elapsed)

		log := logger.WithTrace(ctx, r.log).With("backend", r.backend, "operation", op, "elapsed", elapsed)
		switch {
		case err == nil:
			tracing.RecordError(span, nil)
			log.DebugContext(ctx, "仓储操作完成")
		case apperrors.IsClientError(err):
			span.SetAttributes(attribute.String("catalog.error", err.Error()))
			log.DebugContext(ctx, "仓储操作返回业务错误", "error", err)
		default:
			tracing.RecordError(span, err)
			log.ErrorContext(ctx, "仓储操作失败", "error", err)
		}
		span.End()
	}
}
