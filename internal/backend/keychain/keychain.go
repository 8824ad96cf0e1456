// Package keychain 实现基于 macOS Keychain 的后端（需要 cgo）。
//
// 条目为 generic-password：service / account 为独立属性，标签为 service/account。
//
// go-keychain 设置空字符串属性时会删除该属性，空 account 的查询会退化为只按 service 匹配，
// 因此本后端拒绝空 account（InvalidArgument）。
// Security framework 不接受 MatchLimitAll 与 ReturnData 组合：枚举先只取属性，再逐条按 (service, account) 取数据。
package keychain

import (
	stderrors "errors"
	"sort"

	"github.com/zx06/keytar/internal/address"
	"github.com/zx06/keytar/internal/backend"
	"github.com/zx06/keytar/internal/errors"
)

const Name = "keychain"

var (
	errDuplicate    = stderrors.New("keychain: duplicate item")
	errNotFound     = stderrors.New("keychain: item not found")
	errUnsupported  = stderrors.New("keychain: requires darwin with cgo")
	errEmptyAccount = stderrors.New("keychain: empty account cannot be matched")
)

// item 是一条 generic-password 的属性与数据。
type item struct {
	Service string
	Account string
	Label   string
	Data    []byte
}

// query 描述一次 SecItemCopyMatching。
type query struct {
	Service    string
	Account    string
	HasAccount bool
	Label      string // 非空时按标签匹配
	All        bool   // MatchLimitAll；否则 MatchLimitOne
	Data       bool   // 是否返回数据；不能与 All 同时使用
}

// api 是对 Security framework 的最小抽象。
// add 在条目已存在时返回 errDuplicate；remove 在条目不存在时返回 errNotFound；find 未命中时返回空切片。
type api interface {
	add(it item) error
	update(service, account string, data []byte) error
	find(q query) ([]item, error)
	remove(service, account string) error
}

type Backend struct {
	api api
}

var _ backend.Backend = (*Backend)(nil)

func New() *Backend {
	return &Backend{api: securityAPI{}}
}

func (b *Backend) Name() string { return Name }

func (b *Backend) Set(addr address.Address, secret string) error {
	if err := checkAccount(addr); err != nil {
		return err
	}
	data := []byte(secret)
	defer clear(data)

	err := b.api.add(item{Service: addr.Service, Account: addr.Account, Label: addr.Key(), Data: data})
	if stderrors.Is(err, errDuplicate) {
		err = b.api.update(addr.Service, addr.Account, data)
	}
	if err != nil {
		return failure("SecItemAdd", err)
	}
	return nil
}

func (b *Backend) Get(addr address.Address) (string, bool, error) {
	return b.one(addr)
}

func (b *Backend) Delete(addr address.Address) (bool, error) {
	if err := checkAccount(addr); err != nil {
		return false, err
	}
	items, err := b.api.find(query{Service: addr.Service, Account: addr.Account, HasAccount: true})
	if err != nil {
		return false, failure("SecItemCopyMatching", err)
	}
	if len(items) == 0 {
		return false, nil
	}
	err = b.api.remove(addr.Service, addr.Account)
	if stderrors.Is(err, errNotFound) {
		return false, nil
	}
	if err != nil {
		return false, failure("SecItemDelete", err)
	}
	return true, nil
}

func (b *Backend) FindOne(addr address.Address) (string, bool, error) {
	return b.one(addr)
}

func (b *Backend) FindMany(service string) ([]backend.Record, error) {
	items, err := b.api.find(query{Service: service, All: true})
	if err != nil {
		return nil, failure("SecItemCopyMatching", err)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Account < items[j].Account })

	out := make([]backend.Record, 0, len(items))
	for _, it := range items {
		q := query{Service: service, Data: true}
		account := it.Account
		switch {
		case account != "":
			q.Account, q.HasAccount = account, true
		case it.Label != "":
			account = address.AccountFromLabel(service, it.Label)
			q.Label = it.Label
		default:
			// 既无 account 也无标签的条目无法单独寻址。
			continue
		}
		value, found, err := b.read(q)
		if err != nil {
			return nil, err
		}
		// 枚举与读取之间被删除的条目跳过。
		if !found {
			continue
		}
		out = append(out, backend.Record{Account: account, Password: value})
	}
	return out, nil
}

func (b *Backend) one(addr address.Address) (string, bool, error) {
	if err := checkAccount(addr); err != nil {
		return "", false, err
	}
	return b.read(query{Service: addr.Service, Account: addr.Account, HasAccount: addr.HasAccount, Data: true})
}

// read 执行 MatchLimitOne + ReturnData 查询并解码，数据用后清零。
func (b *Backend) read(q query) (string, bool, error) {
	items, err := b.api.find(q)
	if err != nil {
		return "", false, failure("SecItemCopyMatching", err)
	}
	defer release(items)
	if len(items) == 0 {
		return "", false, nil
	}
	value, err := backend.DecodeSecret(items[0].Data)
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// checkAccount 拒绝 go-keychain 无法精确匹配的空 account。
func checkAccount(addr address.Address) error {
	if addr.HasAccount && addr.Account == "" {
		return errors.InvalidArgument("the macOS keychain cannot address an empty account", map[string]any{
			"backend": Name,
			"service": addr.Service,
		})
	}
	return nil
}

func release(items []item) {
	for _, it := range items {
		clear(it.Data)
	}
}

func failure(op string, err error) *errors.XError {
	return errors.BackendFailure(Name, op+": "+err.Error(), err)
}
