// Package sqlite 手写SQL的图书仓储(database/sql + go-sqlite3)
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/pkg/logger"
)

// NewDB 打开SQLite并建表
// 设计说明:
// 1. 内存库(:memory:)每个连接是独立的库,必须限制为单连接
// 2. 文件库也限制写连接数,SQLite同一时刻只允许一个写者
// 3. 表结构启动时幂等创建(CREATE TABLE IF NOT EXISTS)
func NewDB(cfg *config.Config) (*sql.DB, error) {
	db, err := Open(cfg.SQLite)
	if err != nil {
		return nil, err
	}
	if err := Migrate(context.Background(), db, cfg.Catalog.Table); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("✓ SQLite连接成功", "dsn", cfg.SQLite.DSN, "table", cfg.Catalog.Table)
	return db, nil
}

// Open 打开数据库连接并测试
func Open(cfg config.SQLiteConfig) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("打开SQLite失败: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 || cfg.IsMemory() {
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)
	if cfg.IsMemory() {
		// 连接被回收时内存库随之消失
		db.SetConnMaxLifetime(0)
		db.SetMaxIdleConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("SQLite连接测试失败: %w", err)
	}
	return db, nil
}

// Migrate 建表(表名需已校验为合法标识符)
func Migrate(ctx context.Context, db *sql.DB, table string) error {
	if !identifierPattern.MatchString(table) {
		return fmt.Errorf("非法表名: %q", table)
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id           TEXT PRIMARY KEY NOT NULL,
	author       TEXT NOT NULL DEFAULT '',
	title        TEXT NOT NULL DEFAULT '',
	genre        TEXT NOT NULL DEFAULT '',
	price        REAL NOT NULL DEFAULT 0,
	publish_date TEXT NOT NULL DEFAULT '',
	description  TEXT NOT NULL DEFAULT ''
)`, table)
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("建表失败: %w", err)
	}
	return nil
}
