// Package logger 基于log/slog的全局日志
//
// 设计说明:
// 1. Init只生效一次,之后Get()返回同一个*slog.Logger
// 2. 未初始化时Get()回退到info级别的文本输出,测试里无需初始化
// 3. WithTrace把OpenTelemetry的trace_id/span_id附加到日志,日志与链路可互相跳转
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/trace"
)

var (
	once   sync.Once
	mu     sync.RWMutex
	global *slog.Logger
)

// Config 日志配置(与config.LogConfig字段对应)
type Config struct {
	Level     string // debug | info | warn | error
	Format    string // console | json
	Output    string // stdout | stderr | 文件路径
	AddSource bool
}

// Init 初始化全局日志,重复调用无效
func Init(cfg Config) error {
	var initErr error
	once.Do(func() {
		l, err := New(cfg)
		if err != nil {
			initErr = err
			return
		}
		mu.Lock()
		global = l
		mu.Unlock()
		slog.SetDefault(l)
	})
	return initErr
}

// New 按配置创建Logger(不修改全局状态)
func New(cfg Config) (*slog.Logger, error) {
	w, err := openOutput(cfg.Output)
	if err != nil {
		return nil, err
	}
	return NewWithWriter(cfg, w), nil
}

// NewWithWriter 输出到指定Writer,测试用
func NewWithWriter(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}
	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// ParseLevel 解析日志级别,未知值按info处理
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openOutput(output string) (io.Writer, error) {
	switch output {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("打开日志文件失败: %w", err)
		}
		return f, nil
	}
}

// Get 返回全局Logger
func Get() *slog.Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}
	return slog.Default()
}

// WithTrace 附加当前span的trace_id和span_id
func WithTrace(ctx context.Context, l *slog.Logger) *slog.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return l.With("trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String())
}

// 快捷函数
func Info(msg string, args ...any)  { Get().Info(msg, args...) }
func Warn(msg string, args ...any)  { Get().Warn(msg, args...) }
func Error(msg string, args ...any) { Get().Error(msg, args...) }
func Debug(msg string, args ...any) { Get().Debug(msg, args...) }
