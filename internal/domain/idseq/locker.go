package idseq

import "context"

// Locker 主键分配锁
// 单实例部署用LocalLocker;多实例共享一个库时换成Redis分布式锁
type Locker interface {
	// Lock 阻塞直到拿到锁或ctx结束,返回的unlock必须调用
	Lock(ctx context.Context) (unlock func(), err error)
}

// LocalLocker 进程内锁
// 用容量为1的channel实现,等待可被ctx取消(sync.Mutex做不到)
type LocalLocker struct {
	sem chan struct{}
}

// NewLocalLocker 创建进程内锁
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{sem: make(chan struct{}, 1)}
}

func (l *LocalLocker) Lock(ctx context.Context) (func(), error) {
	select {
	case l.sem <- struct{}{}:
		return func() { <-l.sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
