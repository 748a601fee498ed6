package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 存储后端
const (
	BackendSQL    = "sql"    // 手写SQL + database/sql(SQLite)
	BackendORM    = "orm"    // GORM(MySQL或SQLite)
	BackendMemory = "memory" // 进程内
)

// Config 全局配置结构
// 设计说明：使用Viper管理配置，支持YAML文件和环境变量覆盖
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // debug | release | test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// CatalogConfig 目录核心配置
// 教学要点:
// 1. Backend相当于功能开关,决定装配哪种仓储
// 2. IDPrefixLength为0时取len(IDPrefix);显式配置时必须与前缀长度一致
type CatalogConfig struct {
	Backend           string `mapstructure:"backend"`
	Table             string `mapstructure:"table"`
	IDPrefix          string `mapstructure:"id_prefix"`
	IDPrefixLength    int    `mapstructure:"id_prefix_length"`
	IDNumberMaxLength int    `mapstructure:"id_number_max_length"`
	IDSequenceStart   uint64 `mapstructure:"id_sequence_start"`
	IDAllocAttempts   int    `mapstructure:"id_alloc_attempts"`
	DefaultPageSize   int    `mapstructure:"default_page_size"`
	MinPageSize       int    `mapstructure:"min_page_size"`
	MaxPageSize       int    `mapstructure:"max_page_size"`
}

// SQLiteConfig 手写SQL后端(及ORM的sqlite驱动)使用的数据库文件
type SQLiteConfig struct {
	DSN          string `mapstructure:"dsn"` // 文件路径或 file::memory:?cache=shared
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// IsMemory 内存库只能使用单连接,否则每个连接看到不同的库
func (s SQLiteConfig) IsMemory() bool {
	return strings.Contains(s.DSN, ":memory:") || strings.Contains(s.DSN, "mode=memory")
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // mysql | sqlite
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	Charset         string        `mapstructure:"charset"`
	ParseTime       bool          `mapstructure:"parse_time"`
	Loc             string        `mapstructure:"loc"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN 生成MySQL连接字符串
// 格式：user:password@tcp(host:port)/dbname?charset=utf8mb4&parseTime=True&loc=Local
func (d DatabaseConfig) DSN() string {
	loc := url.QueryEscape(d.Loc)
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.Charset, d.ParseTime, loc)
}

type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// IDLockEnabled 多实例共享同一个库时开启,主键分配改用Redis分布式锁
	IDLockEnabled bool          `mapstructure:"id_lock_enabled"`
	IDLockKey     string        `mapstructure:"id_lock_key"`
	IDLockTTL     time.Duration `mapstructure:"id_lock_ttl"`
}

// Addr 返回Redis地址
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type LogConfig struct {
	Level        string `mapstructure:"level"`  // debug | info | warn | error
	Format       string `mapstructure:"format"` // console | json
	Output       string `mapstructure:"output"` // stdout | stderr | /path/to/file
	EnableCaller bool   `mapstructure:"enable_caller"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
	Endpoint    string `mapstructure:"endpoint"` // OTLP gRPC, 如 localhost:4317
}

// Load 加载配置文件
// 支持：
// 1. 默认加载config/config.yaml
// 2. 环境变量BOOKCATALOG_ENV指定环境（如config.prod.yaml）
// 3. 环境变量覆盖（如BOOKCATALOG_CATALOG_BACKEND=memory）
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	if env := v.GetString("env"); env != "" {
		v.SetConfigName("config." + env)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return decode(v)
}

// LoadFile 从指定文件加载(测试和命令行 -config 参数使用)
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	// 环境变量绑定（BOOKCATALOG_CATALOG_ID_PREFIX → catalog.id_prefix）
	v.SetEnvPrefix("BOOKCATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")

	v.SetDefault("catalog.backend", BackendSQL)
	v.SetDefault("catalog.table", "books")
	v.SetDefault("catalog.id_prefix", "B")
	v.SetDefault("catalog.id_number_max_length", 9)
	v.SetDefault("catalog.id_sequence_start", 1)
	v.SetDefault("catalog.id_alloc_attempts", 3)
	v.SetDefault("catalog.default_page_size", 20)
	v.SetDefault("catalog.min_page_size", 1)
	v.SetDefault("catalog.max_page_size", 50)

	v.SetDefault("sqlite.dsn", "bookcatalog.db")
	v.SetDefault("sqlite.max_open_conns", 1)

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.loc", "Local")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("redis.id_lock_key", "bookcatalog:idseq:lock")
	v.SetDefault("redis.id_lock_ttl", 5*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("tracing.service_name", "bookcatalog")
	v.SetDefault("tracing.endpoint", "localhost:4317")
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if cfg.Catalog.IDPrefixLength == 0 {
		cfg.Catalog.IDPrefixLength = len(cfg.Catalog.IDPrefix)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validate 配置校验
func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务端口: %d", cfg.Server.Port)
	}

	c := cfg.Catalog
	switch c.Backend {
	case BackendSQL, BackendORM, BackendMemory:
	default:
		return fmt.Errorf("未知的存储后端: %q", c.Backend)
	}
	if !identifierPattern.MatchString(c.Table) {
		return fmt.Errorf("非法表名: %q", c.Table)
	}
	if c.IDPrefix == "" {
		return fmt.Errorf("主键前缀不能为空")
	}
	if c.IDPrefixLength != len(c.IDPrefix) {
		return fmt.Errorf("主键前缀长度%d与前缀%q不一致", c.IDPrefixLength, c.IDPrefix)
	}
	if c.IDNumberMaxLength < 1 || c.IDNumberMaxLength > 18 {
		return fmt.Errorf("主键数字位数必须在1-18之间: %d", c.IDNumberMaxLength)
	}
	if c.MinPageSize < 1 || c.MaxPageSize < c.MinPageSize ||
		c.DefaultPageSize < c.MinPageSize || c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf("分页配置非法: default=%d min=%d max=%d", c.DefaultPageSize, c.MinPageSize, c.MaxPageSize)
	}

	if c.Backend == BackendORM {
		switch cfg.Database.Driver {
		case "mysql", "sqlite":
		default:
			return fmt.Errorf("未知的ORM驱动: %q", cfg.Database.Driver)
		}
	}
	if cfg.Redis.IDLockEnabled && cfg.Redis.IDLockTTL <= 0 {
		return fmt.Errorf("redis.id_lock_ttl必须大于0")
	}
	return nil
}
