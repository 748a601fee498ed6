//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. Wire在编译期生成依赖创建代码，零运行时反射
// 2. Provider统一放在internal/bootstrap，集成测试复用同一套装配
// 3. 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go
//
// 依赖链：
// *gin.Engine 需要 → *handler.BookHandler
// *handler.BookHandler 需要 → *appbook.ListBooksUseCase 等
// *appbook.ListBooksUseCase 需要 → book.Service
// book.Service 需要 → book.Repository
// book.Repository 需要 → *idseq.Allocator（+ sqlite/gorm/内存 之一）
// *idseq.Allocator 需要 → idseq.Locker（进程内锁或Redis锁）

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	"github.com/xiebiao/bookcatalog/internal/bootstrap"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
)

// InitializeApp 初始化整个应用
// 返回：配置好的Gin引擎、资源清理函数
//
// 教学说明：
// Config作为注入器参数传入，main.go需要先用它初始化日志和追踪
func InitializeApp(cfg *config.Config) (*gin.Engine, func(), error) {
	wire.Build(bootstrap.ProviderSet)
	return nil, nil, nil
}
