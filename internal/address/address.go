// Package address 在 (service, account) 与各后端原生键之间转换。
//
// 两种寻址风格：
//   - 复合字符串 "service/account"（Windows 凭据管理器的 TargetName、内核 keyring 的 description、标签）；
//   - 独立属性 {service, account}（macOS Keychain、Secret Service）。
//
// 已知限制：service 或 account 自身可能包含 "/"，因此复合字符串的拆分是有损的。
// 拆分规则固定为“按第一个 / 切分”，所有后端与所有操作（find_password、枚举标签解析）统一使用。
//
// 复合键风格的枚举只匹配前缀 service+"/"（见 ServicePrefix），不做裸前缀或子串匹配：
// 否则枚举 "app" 会混入 "app2/x" 或 "myapp/x" 的条目。
package address

import (
	"strings"
	"unicode/utf8"

	"github.com/zx06/keytar/internal/errors"
)

// Separator 是复合键中 service 与 account 的分隔符。
const Separator = "/"

const (
	AttrService = "service"
	AttrAccount = "account"
)

// Address 是一次调用内构造的凭据地址；不持久化。
type Address struct {
	Service    string
	Account    string
	HasAccount bool
}

// New 构造带 account 的地址（account 可以为空串）。
func New(service, account string) Address {
	return Address{Service: service, Account: account, HasAccount: true}
}

// ServicePrefix 返回复合键风格枚举时 service 下条目的公共前缀。
func ServicePrefix(service string) string {
	return service + Separator
}

// Compose 返回规范复合键 service + "/" + account。
func Compose(service, account string) string {
	return service + Separator + account
}

// Decompose 按第一个 "/" 拆分；没有 "/" 时整个字符串视为 service，且没有 account。
func Decompose(raw string) (service, account string, hasAccount bool) {
	service, account, hasAccount = strings.Cut(raw, Separator)
	return service, account, hasAccount
}

// Parse 将 find_password 风格的输入（"service" 或 "service/account"）解析为 Address。
func Parse(raw string) Address {
	service, account, ok := Decompose(raw)
	return Address{Service: service, Account: account, HasAccount: ok}
}

// Key 返回地址的复合键；没有 account 时只返回 service。
func (a Address) Key() string {
	if !a.HasAccount {
		return a.Service
	}
	return Compose(a.Service, a.Account)
}

// Attributes 返回属性风格的键。
func (a Address) Attributes() map[string]string {
	attrs := map[string]string{AttrService: a.Service}
	if a.HasAccount {
		attrs[AttrAccount] = a.Account
	}
	return attrs
}

func (a Address) String() string { return a.Key() }

// AccountFromLabel 在已知 service 的前提下从复合标签中恢复 account。
// 标签以 service+"/" 开头时直接去掉前缀（无损）；否则退回 Decompose。
func AccountFromLabel(service, label string) string {
	if rest, ok := strings.CutPrefix(label, service+Separator); ok {
		return rest
	}
	_, account, _ := Decompose(label)
	return account
}

// Validate 校验地址：service 非空；service/account 必须是不含 NUL 的合法 UTF-8。
func (a Address) Validate() *errors.XError {
	if a.Service == "" {
		return errors.InvalidArgument("service is required", map[string]any{"field": AttrService})
	}
	if xe := validateText(AttrService, a.Service); xe != nil {
		return xe
	}
	if a.HasAccount {
		if xe := validateText(AttrAccount, a.Account); xe != nil {
			return xe
		}
	}
	return nil
}

// ValidateSecret 校验写入的 secret：公共契约只接受合法 UTF-8 文本。
func ValidateSecret(secret string) *errors.XError {
	if !utf8.ValidString(secret) {
		return errors.InvalidArgument("secret must be valid UTF-8 text", map[string]any{"field": "secret"})
	}
	return nil
}

func validateText(field, s string) *errors.XError {
	if !utf8.ValidString(s) {
		return errors.InvalidArgument(field+" must be valid UTF-8", map[string]any{"field": field})
	}
	if strings.IndexByte(s, 0) >= 0 {
		return errors.InvalidArgument(field+" must not contain NUL characters", map[string]any{"field": field})
	}
	return nil
}
