// Package idseq 生成"前缀+序号"形式的图书主键(B1、B2...)
//
// Sequencer本身无状态:每次由调用方传入当前最大ID,计算下一个ID。
// 并发安全由Allocator保证(读最大值→计算→插入 在锁内串行执行)。
package idseq

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

var (
	// ErrMalformedID 存量最大ID带正确前缀但后缀不是整数,属于数据损坏
	ErrMalformedID = apperrors.New(apperrors.ErrCodeMalformedID, "主键格式错误")

	// ErrDuplicateID 插入时主键冲突(并发分配到同一ID)
	ErrDuplicateID = apperrors.New(apperrors.ErrCodeDuplicateEntry, "主键重复")

	// ErrAllocationExhausted 重试次数用尽仍未分配成功
	ErrAllocationExhausted = apperrors.New(apperrors.ErrCodeAllocateID, "主键分配失败")

	// ErrIDSpaceExhausted 下一个序号超出位数上限(或uint64),不能再分配
	ErrIDSpaceExhausted = apperrors.New(apperrors.ErrCodeIDExhausted, "主键序号已用尽")
)

// Sequencer 主键序号计算器
type Sequencer struct {
	prefix    string
	start     uint64
	maxDigits int // 0表示只受uint64限制
}

// NewSequencer 创建计算器,start<1时按1处理
func NewSequencer(prefix string, start uint64) *Sequencer {
	if start < 1 {
		start = 1
	}
	return &Sequencer{prefix: prefix, start: start}
}

// WithMaxDigits 限制序号的十进制位数
// 数据库按SUBSTRING(id, 前缀长度+1, maxDigits)取数字排序,超出位数的主键会排错位置
func (s *Sequencer) WithMaxDigits(n int) *Sequencer {
	if n > 0 {
		s.maxDigits = n
	}
	return s
}

// Prefix 主键前缀
func (s *Sequencer) Prefix() string { return s.prefix }

// PrefixLength 前缀长度(字节)
func (s *Sequencer) PrefixLength() int { return len(s.prefix) }

// First 空表时的第一个主键
func (s *Sequencer) First() string {
	return s.prefix + strconv.FormatUint(s.start, 10)
}

// Next 由当前最大主键计算下一个主键
// 规则:
// 1. currentMax为空 → 前缀+起始值
// 2. currentMax不以前缀开头 → 前缀+起始值(其他前缀的数据不参与编号)
// 3. 后缀解析失败 → ErrMalformedID
// 4. 否则 → 前缀+(后缀+1)
// 结果超出位数上限或uint64时返回ErrIDSpaceExhausted,不会回绕
func (s *Sequencer) Next(currentMax string) (string, error) {
	currentMax = strings.TrimSpace(currentMax)
	if currentMax == "" || !strings.HasPrefix(currentMax, s.prefix) {
		return s.checked(s.start)
	}

	suffix := currentMax[len(s.prefix):]
	n, err := strconv.ParseUint(suffix, 10, 64)
	if err != nil {
		return "", ErrMalformedID.WithCause(fmt.Errorf("id %q: %w", currentMax, err))
	}
	if n == math.MaxUint64 {
		return "", ErrIDSpaceExhausted.WithCause(fmt.Errorf("id %q: 超出uint64", currentMax))
	}
	return s.checked(n + 1)
}

func (s *Sequencer) checked(n uint64) (string, error) {
	digits := strconv.FormatUint(n, 10)
	if s.maxDigits > 0 && len(digits) > s.maxDigits {
		return "", ErrIDSpaceExhausted.WithCause(fmt.Errorf("序号%s超过%d位", digits, s.maxDigits))
	}
	return s.prefix + digits, nil
}
