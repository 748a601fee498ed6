package instrumented

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book/booktest"
	"github.com/xiebiao/bookcatalog/internal/domain/idseq"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

func newMemory() book.Repository {
	alloc := idseq.NewAllocator(idseq.NewSequencer("B", 1), idseq.NewLocalLocker())
	return memory.NewBookRepository(alloc, book.DefaultPageLimits())
}

func TestBookRepositorySemantics(t *testing.T) {
	booktest.Run(t, func(t *testing.T) book.Repository {
		return NewBookRepository(newMemory(), "memory", nil)
	})
}

// failingRepo 模拟数据库故障
type failingRepo struct{ book.Repository }

func (failingRepo) Delete(context.Context, string) error { return errors.New("connection reset") }

func TestObservability(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp, err := tracing.InitWithExporter("test", exporter)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	var buf bytes.Buffer
	log := logger.NewWithWriter(logger.Config{Level: "debug", Format: "json"}, &buf)
	repo := NewBookRepository(failingRepo{newMemory()}, "decorator-test", log)
	ctx := context.Background()

	t.Run("成功操作", func(t *testing.T) {
		exporter.Reset()
		created, err := repo.Create(ctx, &book.Book{Title: "Go"})
		require.NoError(t, err)
		assert.Equal(t, "B1", created.ID)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, "BookRepository.create", spans[0].Name)
		assert.Equal(t, codes.Ok, spans[0].Status.Code)
		assert.Contains(t, spans[0].Attributes, attribute.String("catalog.backend", "decorator-test"))

		assert.Equal(t, 1.0, testutil.ToFloat64(
			metrics.CatalogOperationsTotal.WithLabelValues("decorator-test", "create", metrics.ResultSuccess)))
	})

	t.Run("业务错误不标记Span失败", func(t *testing.T) {
		exporter.Reset()
		_, err := repo.FindByID(ctx, "B404")
		assert.True(t, errors.Is(err, book.ErrBookNotFound), "错误原样透传")

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.NotEqual(t, codes.Error, spans[0].Status.Code)
		assert.Equal(t, 1.0, testutil.ToFloat64(
			metrics.CatalogOperationsTotal.WithLabelValues("decorator-test", "find_by_id", metrics.ResultError)))
	})

	t.Run("服务端错误记录到Span和日志", func(t *testing.T) {
		exporter.Reset()
		buf.Reset()
		err := repo.Delete(ctx, "B1")
		require.Error(t, err)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status.Code)
		assert.Contains(t, buf.String(), "仓储操作失败")
		assert.Contains(t, buf.String(), spans[0].SpanContext.TraceID().String(), "日志应带trace_id")
		t.Log("✓ 失败操作同时出现在Span、指标和日志中")
	})
}
