// Package credman 实现基于 Windows 凭据管理器的后端。
//
// 条目为 generic 类型凭据：TargetName 为复合键 service/account，UserName 为 account。
package credman

import (
	stderrors "errors"
	"sort"

	"github.com/danieljoos/wincred"

	"github.com/zx06/keytar/internal/address"
	"github.com/zx06/keytar/internal/backend"
	"github.com/zx06/keytar/internal/errors"
)

const Name = "credman"

// 持久化范围。
const (
	PersistSession      = "session"
	PersistLocalMachine = "local_machine"
	PersistEnterprise   = "enterprise"
)

// Options 控制新写入凭据的持久化范围。
type Options struct {
	Persist string // session | local_machine | enterprise；空则 local_machine
}

// vault 是对凭据管理器 API 的最小抽象。
// 实现需保持 wincred 的“未找到”错误（ErrElementNotFound）可被 errors.Is 识别。
type vault interface {
	read(target string) (*wincred.Credential, error)
	write(cred *wincred.GenericCredential) error
	remove(target string) error
	list(filter string) ([]*wincred.Credential, error)
}

type Backend struct {
	persist wincred.CredentialPersistence
	vault   vault
}

var _ backend.Backend = (*Backend)(nil)

func New(opts Options) (*Backend, error) {
	return newWithVault(opts, winVault{})
}

func newWithVault(opts Options, v vault) (*Backend, error) {
	var persist wincred.CredentialPersistence
	switch opts.Persist {
	case "", PersistLocalMachine:
		persist = wincred.PersistLocalMachine
	case PersistSession:
		persist = wincred.PersistSession
	case PersistEnterprise:
		persist = wincred.PersistEnterprise
	default:
		return nil, errors.New(errors.CodeCfgInvalid, "unknown credential persistence", map[string]any{"persist": opts.Persist})
	}
	return &Backend{persist: persist, vault: v}, nil
}

func (b *Backend) Name() string { return Name }

func (b *Backend) Set(addr address.Address, secret string) error {
	target := addr.Key()
	if err := checkWide(target, addr.Account); err != nil {
		return err
	}
	if looksLikeUTF16LE([]byte(secret)) {
		return errors.InvalidArgument("secret would be read back as UTF-16LE", map[string]any{"target": target})
	}
	if len(secret) > MaxBlobSize {
		return errors.BackendFailure(Name, "credential blob exceeds 2560 bytes", nil)
	}

	cred := wincred.NewGenericCredential(target)
	cred.UserName = addr.Account
	cred.CredentialBlob = []byte(secret)
	cred.Persist = b.persist
	defer clear(cred.CredentialBlob)
	if err := b.vault.write(cred); err != nil {
		return failure("CredWrite", err)
	}
	return nil
}

func (b *Backend) Get(addr address.Address) (string, bool, error) {
	target := addr.Key()
	if err := checkWide(target); err != nil {
		return "", false, err
	}
	cred, err := b.vault.read(target)
	if isNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, failure("CredRead", err)
	}
	defer clear(cred.CredentialBlob)
	value, err := decodeBlob(cred.CredentialBlob)
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (b *Backend) Delete(addr address.Address) (bool, error) {
	target := addr.Key()
	if err := checkWide(target); err != nil {
		return false, err
	}
	err := b.vault.remove(target)
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, failure("CredDelete", err)
	}
	return true, nil
}

func (b *Backend) FindOne(addr address.Address) (string, bool, error) {
	if addr.HasAccount {
		return b.Get(addr)
	}
	creds, err := b.enumerate(addr.Service)
	if err != nil || len(creds) == 0 {
		return "", false, err
	}
	defer release(creds)
	value, err := decodeBlob(creds[0].CredentialBlob)
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (b *Backend) FindMany(service string) ([]backend.Record, error) {
	creds, err := b.enumerate(service)
	if err != nil {
		return nil, err
	}
	defer release(creds)

	out := make([]backend.Record, 0, len(creds))
	for _, cred := range creds {
		value, err := decodeBlob(cred.CredentialBlob)
		if err != nil {
			return nil, err
		}
		account := cred.UserName
		if account == "" {
			account = address.AccountFromLabel(service, cred.TargetName)
		}
		out = append(out, backend.Record{Account: account, Password: value})
	}
	return out, nil
}

// enumerate 返回 TargetName 以 service/ 开头的 generic 凭据，按 TargetName 排序。
func (b *Backend) enumerate(service string) ([]*wincred.Credential, error) {
	filter := address.ServicePrefix(service) + "*"
	if err := checkWide(filter); err != nil {
		return nil, err
	}
	creds, err := b.vault.list(filter)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, failure("CredEnumerate", err)
	}
	sort.Slice(creds, func(i, j int) bool { return creds[i].TargetName < creds[j].TargetName })
	return creds, nil
}

// winVault 直接调用 wincred；wincred 在自身调用内释放原生缓冲。
type winVault struct{}

func (winVault) read(target string) (*wincred.Credential, error) {
	cred, err := wincred.GetGenericCredential(target)
	if err != nil {
		return nil, err
	}
	return &cred.Credential, nil
}

func (winVault) write(cred *wincred.GenericCredential) error { return cred.Write() }

func (winVault) remove(target string) error {
	return wincred.NewGenericCredential(target).Delete()
}

func (winVault) list(filter string) ([]*wincred.Credential, error) {
	return wincred.FilteredList(filter)
}

func isNotFound(err error) bool {
	return err != nil && stderrors.Is(err, wincred.ErrElementNotFound)
}

func release(creds []*wincred.Credential) {
	for _, c := range creds {
		clear(c.CredentialBlob)
	}
}

func failure(op string, err error) *errors.XError {
	return errors.BackendFailure(Name, op+": "+err.Error(), err)
}
