package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/xiebiao/bookcatalog/docs"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

// @title           Book Catalog API
// @version         1.0
// @description     图书目录服务:按字段过滤、排序、分页查询,服务端分配"前缀+序号"主键
// @host            localhost:8080
// @BasePath        /

const shutdownTimeout = 10 * time.Second

// main 主程序入口
func main() {
	configPath := flag.String("config", "", "配置文件路径(默认查找./config/config.yaml)")
	flag.Parse()

	// 1. 加载配置
	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	if err := logger.Init(logger.Config{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Output:    cfg.Log.Output,
		AddSource: cfg.Log.EnableCaller,
	}); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	logger.Info("✓ 配置加载成功",
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"backend", cfg.Catalog.Backend,
		"table", cfg.Catalog.Table,
		"id_prefix", cfg.Catalog.IDPrefix,
	)

	// 3. 初始化链路追踪(可选)
	if cfg.Tracing.Enabled {
		shutdownTracer, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化链路追踪失败: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracer(ctx); err != nil {
				logger.Warn("关闭链路追踪失败", "error", err)
			}
		}()
	}

	// 4. 依赖注入(Wire生成)
	engine, cleanup, err := InitializeApp(cfg)
	if err != nil {
		log.Fatalf("初始化应用失败: %v", err)
	}
	defer cleanup()

	// 5. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("🚀 服务启动成功",
			"addr", "http://localhost"+addr,
			"health", "http://localhost"+addr+"/ping",
			"books", "http://localhost"+addr+"/api/v1/books",
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("启动服务失败", "error", err)
			os.Exit(1)
		}
	}()

	// 6. 优雅关闭
	// 教学要点：
	// 1. 监听系统信号（SIGINT、SIGTERM）
	// 2. 收到信号后停止接受新请求，等待现有请求处理完成
	// 3. defer依次关闭数据库/Redis连接和追踪导出器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("📴 收到关闭信号，开始优雅关闭...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务关闭超时", "error", err)
	}

	logger.Info("✅ 服务已安全关闭")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
