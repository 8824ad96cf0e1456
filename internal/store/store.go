// Package store 是面向调用方的凭据存储入口。
//
// 当前编译目标只启用一个后端（按平台文件选择）。Store 负责：
//   - 在任何原生调用之前校验输入（InvalidArgument）；
//   - 委托给后端并把结果归一化为 found/deleted/空切片；
//   - 以 debug 级别记录每次操作（从不记录 secret）。
package store

import (
	"io"
	"log/slog"
	"time"

	"github.com/zx06/keytar/internal/address"
	"github.com/zx06/keytar/internal/backend"
	"github.com/zx06/keytar/internal/backend/credman"
	"github.com/zx06/keytar/internal/backend/keyctl"
	"github.com/zx06/keytar/internal/backend/secretservice"
	"github.com/zx06/keytar/internal/errors"
)

// Options 汇总各后端的可选配置；只有当前平台的后端会读取对应字段。
type Options struct {
	Credman       credman.Options
	SecretService secretservice.Options
	Keyctl        keyctl.Options

	Logger *slog.Logger
}

// Store 可被多个 goroutine 并发使用；自身不持有任何原生资源。
type Store struct {
	backend backend.Backend
	log     *slog.Logger
}

// New 使用当前平台的后端创建 Store。
func New(opts Options) (*Store, *errors.XError) {
	b, err := newBackend(opts)
	if err != nil {
		return nil, errors.AsOrWrap(err)
	}
	return NewWithBackend(b, opts.Logger), nil
}

// NewWithBackend 使用指定后端创建 Store（测试或嵌入方自带实现时使用）。
func NewWithBackend(b backend.Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{backend: b, log: logger.With("backend", b.Name())}
}

// Backend 返回活动后端的名称。
func (s *Store) Backend() string { return s.backend.Name() }

// SetPassword 写入（或覆盖）secret；成功时返回 true。
func (s *Store) SetPassword(service, account, secret string) (bool, *errors.XError) {
	addr := address.New(service, account)
	if xe := addr.Validate(); xe != nil {
		return false, xe
	}
	if xe := address.ValidateSecret(secret); xe != nil {
		return false, xe
	}
	start := time.Now()
	err := s.backend.Set(addr, secret)
	s.trace("set", addr, start, err)
	if err != nil {
		return false, errors.AsOrWrap(err)
	}
	return true, nil
}

// GetPassword 读取 secret；不存在时 found=false。
func (s *Store) GetPassword(service, account string) (string, bool, *errors.XError) {
	addr := address.New(service, account)
	if xe := addr.Validate(); xe != nil {
		return "", false, xe
	}
	start := time.Now()
	secret, found, err := s.backend.Get(addr)
	s.trace("get", addr, start, err, "found", found)
	if err != nil {
		return "", false, errors.AsOrWrap(err)
	}
	return secret, found, nil
}

// DeletePassword 删除条目；没有可删除的条目时返回 false。
func (s *Store) DeletePassword(service, account string) (bool, *errors.XError) {
	addr := address.New(service, account)
	if xe := addr.Validate(); xe != nil {
		return false, xe
	}
	start := time.Now()
	deleted, err := s.backend.Delete(addr)
	s.trace("delete", addr, start, err, "deleted", deleted)
	if err != nil {
		return false, errors.AsOrWrap(err)
	}
	return deleted, nil
}

// FindPassword 尽力查找：service 可以是裸 service，也可以是 "service/account"（按第一个 / 拆分）。
func (s *Store) FindPassword(service string) (string, bool, *errors.XError) {
	addr := address.Parse(service)
	if xe := addr.Validate(); xe != nil {
		return "", false, xe
	}
	start := time.Now()
	secret, found, err := s.backend.FindOne(addr)
	s.trace("find_one", addr, start, err, "found", found)
	if err != nil {
		return "", false, errors.AsOrWrap(err)
	}
	return secret, found, nil
}

// FindCredentials 列出 service 下的全部 (account, secret)；无匹配时返回空切片。
func (s *Store) FindCredentials(service string) ([]backend.Record, *errors.XError) {
	addr := address.Address{Service: service}
	if xe := addr.Validate(); xe != nil {
		return nil, xe
	}
	start := time.Now()
	recs, err := s.backend.FindMany(service)
	s.trace("find_many", addr, start, err, "count", len(recs))
	if err != nil {
		return nil, errors.AsOrWrap(err)
	}
	if recs == nil {
		recs = []backend.Record{}
	}
	return recs, nil
}

func (s *Store) trace(op string, addr address.Address, start time.Time, err error, attrs ...any) {
	attrs = append(attrs, "op", op, "service", addr.Service, "elapsed", time.Since(start))
	if addr.HasAccount {
		attrs = append(attrs, "account", addr.Account)
	}
	if err != nil {
		xe := errors.AsOrWrap(err)
		s.log.Debug("credential operation failed", append(attrs, "code", xe.Code, "error", xe.Message)...)
		return
	}
	s.log.Debug("credential operation", attrs...)
}
