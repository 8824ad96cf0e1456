package secret

import (
	"strings"

	"github.com/zx06/keytar/internal/address"
	"github.com/zx06/keytar/internal/errors"
)

const keyringPrefix = "keyring:"

// Options 控制 secret 解析行为。
type Options struct {
	AllowPlaintext bool   // 是否允许明文（默认 false）
	Finder         Finder // 可注入的凭据存储（nil 则用当前平台默认）
}

// Resolve 解析 secret 值：
//  1. keyring:service/account → 从凭据存储读取（只写 service 时取该 service 下任意一项）
//  2. 否则若为明文且允许明文 → 直接返回
//  3. 否则报错
func Resolve(raw string, opts Options) (string, *errors.XError) {
	if strings.HasPrefix(raw, keyringPrefix) {
		ref := strings.TrimPrefix(raw, keyringPrefix)
		if _, xe := parseKeyringRef(ref); xe != nil {
			return "", xe
		}
		finder := opts.Finder
		if finder == nil {
			f, xe := defaultFinder()
			if xe != nil {
				return "", xe
			}
			finder = f
		}
		val, found, xe := finder.FindPassword(ref)
		if xe != nil {
			return "", xe
		}
		if !found {
			return "", errors.New(errors.CodeNotFound, "secret not found in credential store", map[string]any{"ref": ref})
		}
		return val, nil
	}
	// 明文
	if opts.AllowPlaintext {
		return raw, nil
	}
	return "", errors.New(errors.CodeCfgInvalid, "plaintext secret not allowed; use a keyring: reference or enable allow_plaintext_token", nil)
}

// parseKeyringRef 按第一个 "/" 拆分引用（与 find_password 的规则一致）。
func parseKeyringRef(ref string) (address.Address, *errors.XError) {
	addr := address.Parse(ref)
	if addr.Service == "" {
		return address.Address{}, errors.New(errors.CodeCfgInvalid, "invalid keyring reference; expected keyring:service[/account]", map[string]any{"ref": ref})
	}
	return addr, nil
}

// IsKeyringRef 判断值是否为 keyring 引用。
func IsKeyringRef(s string) bool {
	return strings.HasPrefix(s, keyringPrefix)
}
