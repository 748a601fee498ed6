package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookcatalog/internal/bootstrap"
	"github.com/xiebiao/bookcatalog/internal/domain/book/booktest"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
)

// 教学说明：测试辅助工具
// 1. 服务在进程内启动(httptest)，不依赖外部MySQL/Redis
// 2. 同一组用例分别跑在sql、orm、memory三种后端上
// 3. HTTP请求、JSON解析封装成可复用的函数

const (
	// APIPrefix API路由前缀
	APIPrefix = "/api/v1"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// Backends 参与集成测试的存储后端
var Backends = []string{config.BackendSQL, config.BackendORM, config.BackendMemory}

func init() {
	gin.SetMode(gin.TestMode)
}

// Response 统一响应结构
type Response struct {
	Status  int             `json:"-"` // HTTP状态码
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// BookData 图书响应数据
type BookData struct {
	ID          string  `json:"id"`
	Author      string  `json:"author"`
	Title       string  `json:"title"`
	Genre       string  `json:"genre"`
	Price       float64 `json:"price"`
	PublishDate string  `json:"publish_date"`
	Description string  `json:"description"`
}

// BookListData 图书列表响应数据
type BookListData struct {
	List     []BookData `json:"list"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

// IDs 列表中的主键,便于断言顺序
func (d BookListData) IDs() []string {
	ids := make([]string, len(d.List))
	for i, b := range d.List {
		ids[i] = b.ID
	}
	return ids
}

// NewTestConfig 测试配置:SQLite文件放在临时目录,主键前缀B从1开始
func NewTestConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{Port: 0, Mode: "test"},
		Catalog: config.CatalogConfig{
			Backend:           backend,
			Table:             "books",
			IDPrefix:          "B",
			IDPrefixLength:    1,
			IDNumberMaxLength: 9,
			IDSequenceStart:   1,
			IDAllocAttempts:   3,
			DefaultPageSize:   20,
			MinPageSize:       1,
			MaxPageSize:       50,
		},
		SQLite: config.SQLiteConfig{
			DSN:          filepath.Join(t.TempDir(), "catalog.db"),
			MaxOpenConns: 1,
		},
		Database: config.DatabaseConfig{Driver: "sqlite"},
	}
}

// StartServer 按后端启动进程内服务,返回基础URL(含/api/v1)
func StartServer(t *testing.T, backend string) string {
	t.Helper()
	engine, cleanup, err := bootstrap.NewEngine(NewTestConfig(t, backend))
	require.NoError(t, err, "初始化应用失败")

	srv := httptest.NewServer(engine)
	t.Cleanup(func() {
		srv.Close()
		cleanup()
	})
	return srv.URL + APIPrefix
}

// ForEachBackend 每种后端各启动一个空服务,运行同一组用例
func ForEachBackend(t *testing.T, fn func(t *testing.T, baseURL string)) {
	for _, backend := range Backends {
		t.Run(backend, func(t *testing.T) {
			fn(t, StartServer(t, backend))
		})
	}
}

// PostJSON 发送POST请求并解析JSON响应
//
// 教学说明：
// - 使用*testing.T参数，可以在失败时立即终止测试
// - 使用require包进行断言，失败会立即停止（不继续执行）
// - 返回*Response而非error，简化调用方代码
func PostJSON(t *testing.T, url string, data interface{}) *Response {
	return doJSON(t, http.MethodPost, url, data)
}

// PatchJSON 发送PATCH请求并解析JSON响应
func PatchJSON(t *testing.T, url string, data interface{}) *Response {
	return doJSON(t, http.MethodPatch, url, data)
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string) *Response {
	return doJSON(t, http.MethodGet, url, nil)
}

// Delete 发送DELETE请求,成功时响应体为空
func Delete(t *testing.T, url string) *Response {
	return doJSON(t, http.MethodDelete, url, nil)
}

func doJSON(t *testing.T, method, url string, data interface{}) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	result := Response{Status: resp.StatusCode}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &result), "解析JSON响应失败: %s", string(raw))
	}
	return &result
}

// DecodeBook 解析单本图书
func DecodeBook(t *testing.T, resp *Response) BookData {
	t.Helper()
	var data BookData
	require.NoError(t, json.Unmarshal(resp.Data, &data), "解析图书响应失败")
	return data
}

// ListBooks 查询图书列表
func ListBooks(t *testing.T, baseURL string, query url.Values) (*Response, BookListData) {
	t.Helper()
	u := baseURL + "/books"
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	resp := GetJSON(t, u)

	var data BookListData
	if resp.Code == 0 {
		require.NoError(t, json.Unmarshal(resp.Data, &data), "解析列表响应失败")
	}
	return resp, data
}

// SeedBooks 依次上架12本固定图书,主键应为B1..B12
func SeedBooks(t *testing.T, baseURL string) []BookData {
	t.Helper()
	var out []BookData
	for _, b := range booktest.Fixtures() {
		resp := PostJSON(t, baseURL+"/books", map[string]interface{}{
			"id":           "X99", // 会被忽略
			"author":       b.Author,
			"title":        b.Title,
			"genre":        b.Genre,
			"price":        b.Price,
			"publish_date": b.PublishDateString(),
			"description":  b.Description,
		})
		require.Equal(t, http.StatusCreated, resp.Status, "图书上架失败: %s", resp.Message)
		out = append(out, DecodeBook(t, resp))
	}
	return out
}
