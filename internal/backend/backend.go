// Package backend 定义原生凭据存储的统一契约。
//
// 每个编译目标只启用一个实现（见 internal/store 的按平台文件）。
// 实现必须在自身边界完成错误归一化：
//   - “未找到”从不作为 error 返回，而是 found=false / deleted=false / 空切片；
//   - 其余失败返回 *errors.XError（InvalidArgument / BackendFailure / EncodingFailure）。
package backend

import (
	"fmt"
	"unicode/utf8"

	"github.com/zx06/keytar/internal/address"
	"github.com/zx06/keytar/internal/errors"
)

// Record 是枚举产生的 (account, secret) 对，返回后归调用方所有。
type Record struct {
	Account  string `json:"account" yaml:"account"`
	Password string `json:"password" yaml:"password"`
}

// Backend 是单个原生凭据存储的能力集合。所有方法同步阻塞，不重试、不缓存。
type Backend interface {
	// Name 返回用于诊断的后端名称。
	Name() string

	// Set 幂等写入；同一地址已存在时覆盖。
	Set(addr address.Address, secret string) error

	// Get 读取 secret；不存在时 found=false 且 err=nil。
	Get(addr address.Address) (secret string, found bool, err error)

	// Delete 删除条目；条目存在并被删除时返回 true。
	Delete(addr address.Address) (deleted bool, err error)

	// FindOne 尽力查找单个匹配：addr 带 account 时精确查找，否则取该 service 下任意一项。
	FindOne(addr address.Address) (secret string, found bool, err error)

	// FindMany 列出 service 下的全部条目；无匹配时返回空切片。顺序不保证。
	FindMany(service string) ([]Record, error)
}

// DecodeSecret 将原生 payload 解码为 UTF-8 文本；非法 UTF-8 返回 EncodingFailure。
func DecodeSecret(payload []byte) (string, error) {
	if !utf8.Valid(payload) {
		return "", errors.EncodingFailure(invalidOffsetDetail(payload), nil)
	}
	return string(payload), nil
}

func invalidOffsetDetail(b []byte) string {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return fmt.Sprintf("invalid UTF-8 sequence at byte offset %d", i)
		}
		i += size
	}
	return "invalid UTF-8 sequence"
}
