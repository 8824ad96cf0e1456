// Package securitycli 是 darwin 无 cgo 构建时的 Keychain 后端，通过 go-keyring 驱动 /usr/bin/security。
//
// security 命令行无法按 service 枚举条目，因此 FindMany 与不带 account 的 FindOne 返回 BackendFailure。
package securitycli

import (
	stderrors "errors"

	"github.com/zalando/go-keyring"

	"github.com/zx06/keytar/internal/address"
	"github.com/zx06/keytar/internal/backend"
	"github.com/zx06/keytar/internal/errors"
)

const Name = "keychain-cli"

const enumerationUnsupported = "enumeration requires a build with cgo enabled (CGO_ENABLED=1)"

type Backend struct{}

var _ backend.Backend = (*Backend)(nil)

func New() *Backend { return &Backend{} }

func (b *Backend) Name() string { return Name }

func (b *Backend) Set(addr address.Address, secret string) error {
	if err := keyring.Set(addr.Service, addr.Account, secret); err != nil {
		return failure("set", err)
	}
	return nil
}

func (b *Backend) Get(addr address.Address) (string, bool, error) {
	secret, err := keyring.Get(addr.Service, addr.Account)
	if stderrors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, failure("get", err)
	}
	value, err := backend.DecodeSecret([]byte(secret))
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (b *Backend) Delete(addr address.Address) (bool, error) {
	err := keyring.Delete(addr.Service, addr.Account)
	if stderrors.Is(err, keyring.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, failure("delete", err)
	}
	return true, nil
}

func (b *Backend) FindOne(addr address.Address) (string, bool, error) {
	if !addr.HasAccount {
		return "", false, errors.BackendFailure(Name, enumerationUnsupported, nil)
	}
	return b.Get(addr)
}

func (b *Backend) FindMany(string) ([]backend.Record, error) {
	return nil, errors.BackendFailure(Name, enumerationUnsupported, nil)
}

func failure(op string, err error) *errors.XError {
	return errors.BackendFailure(Name, op+": "+err.Error(), err)
}
