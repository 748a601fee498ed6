package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookcatalog/internal/domain/idseq"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/logger"
)

const (
	// DefaultIDLockKey 默认锁Key
	DefaultIDLockKey = "bookcatalog:idseq:lock"
	// DefaultIDLockTTL 锁的过期时间,持有者崩溃时锁自动释放
	DefaultIDLockTTL = 5 * time.Second

	lockRetryInterval = 20 * time.Millisecond
)

// unlockScript 只删除自己持有的锁(比较token后再DEL,原子执行)
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// IDLocker 基于Redis的主键分配锁
// 设计说明:
// 1. SET key token NX PX ttl 加锁,token用UUID区分持有者
// 2. 解锁用Lua脚本比较token,避免误删别人续上的锁
// 3. 拿不到锁时按固定间隔重试,直到ctx结束
// 4. 多个服务实例共享同一个数据库时替代idseq.LocalLocker
type IDLocker struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

var _ idseq.Locker = (*IDLocker)(nil)

// NewIDLocker 创建分布式锁,key/ttl为空时使用默认值
func NewIDLocker(client *redis.Client, key string, ttl time.Duration) *IDLocker {
	if key == "" {
		key = DefaultIDLockKey
	}
	if ttl <= 0 {
		ttl = DefaultIDLockTTL
	}
	return &IDLocker{client: client, key: key, ttl: ttl}
}

// Lock 阻塞直到拿到锁或ctx结束
func (l *IDLocker) Lock(ctx context.Context) (func(), error) {
	token := uuid.NewString()

	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, apperrors.ErrRedisError.WithCause(err)
		}
		if ok {
			return func() { l.unlock(token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *IDLocker) unlock(token string) {
	// 调用方的ctx可能已取消,解锁使用独立的短超时
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	n, err := unlockScript.Run(ctx, l.client, []string{l.key}, token).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		logger.Warn("释放主键分配锁失败", "key", l.key, "error", err)
		return
	}
	if n == 0 {
		logger.Warn("主键分配锁已过期或被他人持有", "key", l.key)
	}
}
