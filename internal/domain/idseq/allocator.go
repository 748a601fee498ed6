package idseq

import (
	"context"
	"errors"
	"fmt"
)

// DefaultMaxAttempts 主键冲突时的默认最大尝试次数
const DefaultMaxAttempts = 3

// AttemptFunc 一次分配尝试:读当前最大ID → seq.Next → 插入
// 插入遇到主键冲突时应返回ErrDuplicateID(可用errors.Is识别),其余错误直接终止
type AttemptFunc func(ctx context.Context, seq *Sequencer) (string, error)

// Allocator 串行化的主键分配器
// 教学要点:
// 1. "读最大值再加一"在并发下必然撞号,所以整个尝试在锁内执行
// 2. 锁只覆盖本进程(或同一Redis)的写入者,外部写入仍可能冲突,因此保留有限次重试
// 3. 只有ErrDuplicateID会重试;ErrMalformedID等错误立即返回
type Allocator struct {
	seq         *Sequencer
	locker      Locker
	maxAttempts int
	observe     func(result string)
}

// Option 分配器选项
type Option func(*Allocator)

// WithObserver 每次分配结束回调(success/conflict/error/exhausted),用于打点
func WithObserver(fn func(result string)) Option {
	return func(a *Allocator) { a.observe = fn }
}

// WithMaxAttempts 设置最大尝试次数
func WithMaxAttempts(n int) Option {
	return func(a *Allocator) {
		if n > 0 {
			a.maxAttempts = n
		}
	}
}

// NewAllocator 创建分配器,locker为nil时使用进程内锁
func NewAllocator(seq *Sequencer, locker Locker, opts ...Option) *Allocator {
	if locker == nil {
		locker = NewLocalLocker()
	}
	a := &Allocator{seq: seq, locker: locker, maxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Sequencer 返回底层计算器
func (a *Allocator) Sequencer() *Sequencer { return a.seq }

// Allocate 在锁内执行attempt,冲突时重试
func (a *Allocator) Allocate(ctx context.Context, attempt AttemptFunc) (string, error) {
	var lastErr error
	for i := 0; i < a.maxAttempts; i++ {
		id, err := a.once(ctx, attempt)
		if err == nil {
			a.report("success")
			return id, nil
		}
		if !errors.Is(err, ErrDuplicateID) {
			a.report("error")
			return "", err
		}
		a.report("conflict")
		lastErr = err
	}
	a.report("exhausted")
	return "", ErrAllocationExhausted.WithCause(fmt.Errorf("%d次尝试后仍冲突: %w", a.maxAttempts, lastErr))
}

func (a *Allocator) once(ctx context.Context, attempt AttemptFunc) (string, error) {
	unlock, err := a.locker.Lock(ctx)
	if err != nil {
		return "", fmt.Errorf("获取主键分配锁失败: %w", err)
	}
	defer unlock()
	return attempt(ctx, a.seq)
}

func (a *Allocator) report(result string) {
	if a.observe != nil {
		a.observe(result)
	}
}

// ReadThenInsert 把"读最大值"和"插入"两个步骤组合成AttemptFunc
func ReadThenInsert(
	readMax func(ctx context.Context, prefix string) (string, error),
	insert func(ctx context.Context, id string) error,
) AttemptFunc {
	return func(ctx context.Context, seq *Sequencer) (string, error) {
		current, err := readMax(ctx, seq.Prefix())
		if err != nil {
			return "", err
		}
		id, err := seq.Next(current)
		if err != nil {
			return "", err
		}
		if err := insert(ctx, id); err != nil {
			return "", err
		}
		return id, nil
	}
}
