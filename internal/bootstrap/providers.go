// Package bootstrap 组装各层依赖(Wire Provider)
//
// 设计说明:
// 1. cmd/api的Wire注入器和集成测试共用这里的Provider,保证两边装配一致
// 2. catalog.backend决定仓储实现,三种实现外面统一套一层instrumented装饰器
// 3. 需要释放资源的Provider返回cleanup函数,由Wire按逆序调用
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/idseq"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/instrumented"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/sqlite"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

// InfrastructureSet 基础设施:日志、分页约束、主键分配、仓储
var InfrastructureSet = wire.NewSet(
	ProvideLogger,
	ProvidePageLimits,
	ProvideSequencer,
	ProvideRedisClient,
	ProvideLocker,
	ProvideAllocator,
	ProvideBookRepository,
)

// DomainSet 领域服务
var DomainSet = wire.NewSet(
	book.NewService,
)

// ApplicationSet 用例
var ApplicationSet = wire.NewSet(
	appbook.NewPublishBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
)

// HandlerSet HTTP处理器和路由
var HandlerSet = wire.NewSet(
	handler.NewBookHandler,
	handler.NewFeatureHandler,
	handler.NewRouter,
)

// ProviderSet 全部Provider
var ProviderSet = wire.NewSet(
	InfrastructureSet,
	DomainSet,
	ApplicationSet,
	HandlerSet,
)

// ProvideLogger 全局日志(未初始化时为默认文本日志)
func ProvideLogger() *slog.Logger {
	return logger.Get()
}

// ProvidePageLimits 分页约束
func ProvidePageLimits(cfg *config.Config) book.PageLimits {
	return book.PageLimits{
		Default: cfg.Catalog.DefaultPageSize,
		Min:     cfg.Catalog.MinPageSize,
		Max:     cfg.Catalog.MaxPageSize,
	}
}

// ProvideSequencer 主键序号计算器
func ProvideSequencer(cfg *config.Config) *idseq.Sequencer {
	return idseq.NewSequencer(cfg.Catalog.IDPrefix, cfg.Catalog.IDSequenceStart).WithMaxDigits(cfg.Catalog.IDNumberMaxLength)
}

// ProvideRedisClient 只有开启分布式主键锁时才连接Redis,否则返回nil
func ProvideRedisClient(cfg *config.Config) (*goredis.Client, func(), error) {
	if !cfg.Redis.IDLockEnabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Warn("关闭Redis连接失败", "error", err)
		}
	}
	return client, cleanup, nil
}

// ProvideLocker 主键分配锁
// Redis客户端为nil时退回进程内锁(单实例部署)
func ProvideLocker(cfg *config.Config, client *goredis.Client) idseq.Locker {
	if client == nil {
		return idseq.NewLocalLocker()
	}
	return redis.NewIDLocker(client, cfg.Redis.IDLockKey, cfg.Redis.IDLockTTL)
}

// ProvideAllocator 主键分配器,分配结果计入catalog_id_allocations_total
func ProvideAllocator(cfg *config.Config, seq *idseq.Sequencer, locker idseq.Locker) *idseq.Allocator {
	metrics.InitMetrics()
	return idseq.NewAllocator(seq, locker,
		idseq.WithObserver(metrics.ObserveIDAllocation),
		idseq.WithMaxAttempts(cfg.Catalog.IDAllocAttempts),
	)
}

// ProvideBookRepository 按catalog.backend选择仓储实现
// 教学要点:
// 1. sql:手写SQL + database/sql(SQLite驱动)
// 2. orm:GORM(database.driver选择MySQL或SQLite)
// 3. memory:进程内切片,重启即丢失
func ProvideBookRepository(
	cfg *config.Config,
	alloc *idseq.Allocator,
	limits book.PageLimits,
	log *slog.Logger,
) (book.Repository, func(), error) {
	var (
		repo    book.Repository
		cleanup = func() {}
	)

	switch cfg.Catalog.Backend {
	case config.BackendSQL:
		db, err := sqlite.NewDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		qb, err := sqlite.NewQueryBuilder(sqlite.QueryBuilderConfig{
			Table:             cfg.Catalog.Table,
			IDPrefixLength:    cfg.Catalog.IDPrefixLength,
			IDNumberMaxLength: cfg.Catalog.IDNumberMaxLength,
			PageLimits:        limits,
		})
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		repo = sqlite.NewBookRepository(sqlite.NewExecutor(db), qb, alloc)
		cleanup = func() { db.Close() }

	case config.BackendORM:
		db, err := mysql.NewDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		repo = mysql.NewBookRepository(db, mysql.NewTxManager(db), alloc, cfg.Catalog.Table, limits)
		cleanup = func() { sqlDB.Close() }

	case config.BackendMemory:
		repo = memory.NewBookRepository(alloc, limits)

	default:
		return nil, nil, fmt.Errorf("未知的存储后端: %q", cfg.Catalog.Backend)
	}

	log.Info("✓ 图书仓储就绪", "backend", cfg.Catalog.Backend, "table", cfg.Catalog.Table)
	return instrumented.NewBookRepository(repo, cfg.Catalog.Backend, log), cleanup, nil
}

// NewEngine 不经过Wire的手动装配,集成测试使用
// 依赖链:Repository ← Service ← UseCase ← Handler ← *gin.Engine
func NewEngine(cfg *config.Config) (*gin.Engine, func(), error) {
	log := ProvideLogger()
	limits := ProvidePageLimits(cfg)

	client, cleanupRedis, err := ProvideRedisClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	alloc := ProvideAllocator(cfg, ProvideSequencer(cfg), ProvideLocker(cfg, client))

	repo, cleanupRepo, err := ProvideBookRepository(cfg, alloc, limits, log)
	if err != nil {
		cleanupRedis()
		return nil, nil, err
	}

	svc := book.NewService(repo, log)
	bookHandler := handler.NewBookHandler(
		appbook.NewPublishBookUseCase(svc),
		appbook.NewListBooksUseCase(svc, limits),
		appbook.NewGetBookUseCase(svc),
		appbook.NewUpdateBookUseCase(svc),
		appbook.NewDeleteBookUseCase(svc),
	)
	engine := handler.NewRouter(cfg, bookHandler, handler.NewFeatureHandler(cfg))

	return engine, func() {
		cleanupRepo()
		cleanupRedis()
	}, nil
}
