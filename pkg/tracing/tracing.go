// Package tracing 封装OpenTelemetry分布式追踪
//
// # 核心概念
//
//   - Trace: 一次请求的完整调用链(HTTP → Service → Repository)
//   - Span: 调用链中的一个操作,记录开始/结束时间、属性、状态
//   - TracerProvider: 创建Tracer、管理采样并把Span批量交给Exporter
//
// # 使用示例
//
//	shutdown, err := tracing.InitTracer("bookcatalog", "localhost:4317")
//	if err != nil { ... }
//	defer shutdown(context.Background())
//
//	ctx, span := tracing.StartSpan(ctx, "bookcatalog/repository", "BookRepository.Read")
//	defer span.End()
//	...
//	tracing.RecordError(span, err)
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// DefaultEndpoint Jaeger/Collector的OTLP gRPC默认端点
const DefaultEndpoint = "localhost:4317"

// InitTracer 初始化全局TracerProvider
//
// 设计要点：
// 1. endpoint是host:port(不带协议),为空时使用DefaultEndpoint
// 2. BatchSpanProcessor批量发送,返回的shutdown负责刷新剩余Span
// 3. 同时设置W3C Trace Context传播器,跨服务调用自动携带TraceID
func InitTracer(serviceName, endpoint string) (func(context.Context) error, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(), // 禁用TLS（生产环境应启用）
	)
	if err != nil {
		return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}

	tp, err := newProvider(ctx, serviceName, sdktrace.WithBatcher(exporter))
	if err != nil {
		return nil, err
	}
	install(tp)

	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}
	return shutdown, nil
}

// InitWithExporter 使用自定义Exporter初始化(同步发送),主要给测试用
func InitWithExporter(serviceName string, exporter sdktrace.SpanExporter) (*sdktrace.TracerProvider, error) {
	tp, err := newProvider(context.Background(), serviceName, sdktrace.WithSyncer(exporter))
	if err != nil {
		return nil, err
	}
	install(tp)
	return tp, nil
}

func newProvider(ctx context.Context, serviceName string, opts ...sdktrace.TracerProviderOption) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return nil, fmt.Errorf("创建资源属性失败: %w", err)
	}

	opts = append(opts,
		// 生产环境建议 sdktrace.TraceIDRatioBased(0.01)
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
	)
	return sdktrace.NewTracerProvider(opts...), nil
}

func install(tp *sdktrace.TracerProvider) {
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)
}

// StartSpan 从全局Provider创建Span
// ctx里有父Span时新Span自动成为子Span
func StartSpan(ctx context.Context, tracerName, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, spanName, opts...)
}

// RecordError 记录错误并把Span状态置为Error,err为nil时标记为Ok
func RecordError(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// ExtractTraceID 从context提取TraceID,没有有效Span时返回空字符串
func ExtractTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// ExtractSpanID 从context提取SpanID
func ExtractSpanID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.SpanID().String()
}
