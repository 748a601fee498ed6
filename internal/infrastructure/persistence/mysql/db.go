package mysql

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	applog "github.com/xiebiao/bookcatalog/pkg/logger"
)

// NewDB 创建GORM数据库连接
// 设计说明：
// 1. database.driver=mysql走MySQL,=sqlite复用sqlite.dsn(本地开发/测试)
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. TranslateError把驱动的主键冲突统一翻译成gorm.ErrDuplicatedKey
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLite.DSN)
	default:
		dialector = mysql.Open(cfg.Database.DSN())
	}

	db, err := Open(dialector, logger.Default.LogMode(logLevel))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	if cfg.Database.Driver == "sqlite" {
		// SQLite同一时刻只有一个写者;内存库必须单连接
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}
	applog.Info("✓ 数据库连接成功", "driver", dialector.Name())

	// 自动迁移只建表/加列;生产环境应使用版本化迁移脚本
	if err := AutoMigrate(db, cfg.Catalog.Table); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}
	return db, nil
}

// Open 用指定方言打开GORM
func Open(dialector gorm.Dialector, l logger.Interface) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         l,
		TranslateError: true,
		NowFunc:        time.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}
	return db, nil
}

// AutoMigrate 在指定表名上迁移BookModel
func AutoMigrate(db *gorm.DB, table string) error {
	return db.Table(table).AutoMigrate(&BookModel{})
}

// BookModel GORM图书模型
// 设计说明:
// 1. 主键是"前缀+序号"字符串,不使用自增
// 2. 出版日期以yyyy-MM-dd字符串存储,日期前缀过滤直接用LIKE 'yyyy-MM%'
// 3. 表名可配置,查询统一通过db.Table(name)指定,TableName只是默认值
type BookModel struct {
	ID          string  `gorm:"primaryKey;size:20;comment:主键(前缀+序号)"`
	Author      string  `gorm:"size:100;not null;index:idx_author;comment:作者"`
	Title       string  `gorm:"size:200;not null;comment:书名"`
	Genre       string  `gorm:"size:50;not null;comment:体裁"`
	Price       float64 `gorm:"not null;index:idx_price;comment:价格"`
	PublishDate string  `gorm:"column:publish_date;size:10;not null;index:idx_publish_date;comment:出版日期(yyyy-MM-dd)"`
	Description string  `gorm:"type:text;comment:简介"`
}

// TableName 默认表名
func (BookModel) TableName() string {
	return "books"
}
