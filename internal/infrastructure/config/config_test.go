package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	t.Run("文件值覆盖默认值", func(t *testing.T) {
		cfg, err := LoadFile("testdata/catalog.yaml")
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, BackendORM, cfg.Catalog.Backend)
		assert.Equal(t, "catalog_books", cfg.Catalog.Table)
		assert.Equal(t, "BK", cfg.Catalog.IDPrefix)
		assert.Equal(t, 2, cfg.Catalog.IDPrefixLength, "未配置时取前缀长度")
		assert.Equal(t, uint64(100), cfg.Catalog.IDSequenceStart)
		assert.Equal(t, 30, cfg.Catalog.MaxPageSize)
		assert.True(t, cfg.SQLite.IsMemory())

		// 未出现在文件中的键取默认值
		assert.Equal(t, 20, cfg.Catalog.DefaultPageSize)
		assert.Equal(t, 9, cfg.Catalog.IDNumberMaxLength)
		assert.Equal(t, 5*time.Second, cfg.Redis.IDLockTTL)
		t.Logf("✓ 配置加载成功: backend=%s table=%s", cfg.Catalog.Backend, cfg.Catalog.Table)
	})

	t.Run("环境变量覆盖", func(t *testing.T) {
		t.Setenv("BOOKCATALOG_CATALOG_BACKEND", "memory")
		t.Setenv("BOOKCATALOG_CATALOG_MAX_PAGE_SIZE", "40")

		cfg, err := LoadFile("testdata/catalog.yaml")
		require.NoError(t, err)
		assert.Equal(t, BackendMemory, cfg.Catalog.Backend)
		assert.Equal(t, 40, cfg.Catalog.MaxPageSize)
	})

	t.Run("仓库自带配置可加载", func(t *testing.T) {
		cfg, err := LoadFile("../../../config/config.yaml")
		require.NoError(t, err)
		assert.Equal(t, BackendSQL, cfg.Catalog.Backend)
		assert.Equal(t, "books", cfg.Catalog.Table)
		assert.Equal(t, 1, cfg.Catalog.IDPrefixLength)
	})
}

func TestValidate(t *testing.T) {
	t.Run("非法表名", func(t *testing.T) {
		_, err := LoadFile("testdata/bad_table.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "非法表名")
	})

	t.Run("前缀长度不一致", func(t *testing.T) {
		_, err := LoadFile("testdata/bad_prefix_length.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "不一致")
	})

	t.Run("未知后端", func(t *testing.T) {
		t.Setenv("BOOKCATALOG_CATALOG_BACKEND", "mongo")
		_, err := LoadFile("testdata/catalog.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mongo")
	})
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		User: "root", Password: "pw", Host: "db", Port: 3306, DBName: "catalog",
		Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai",
	}
	assert.Equal(t, "root:pw@tcp(db:3306)/catalog?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai", d.DSN())
}
