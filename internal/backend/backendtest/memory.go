// Package backendtest 提供内存参考后端与后端一致性测试套件。
package backendtest

import (
	"sort"
	"sync"

	"github.com/zx06/keytar/internal/address"
	"github.com/zx06/keytar/internal/backend"
	"github.com/zx06/keytar/internal/errors"
)

// Memory 是只存在于进程内的参考实现，供 facade / CLI / MCP 测试使用。
type Memory struct {
	mu   sync.Mutex
	data map[string]map[string]string // service -> account -> secret

	// FailWith 非 nil 时所有操作返回该错误，用于模拟原生失败。
	FailWith error
}

var _ backend.Backend = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string]string)}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Set(addr address.Address, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if m.data[addr.Service] == nil {
		m.data[addr.Service] = make(map[string]string)
	}
	m.data[addr.Service][addr.Account] = secret
	return nil
}

func (m *Memory) Get(addr address.Address) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return "", false, m.FailWith
	}
	v, ok := m.data[addr.Service][addr.Account]
	return v, ok, nil
}

func (m *Memory) Delete(addr address.Address) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return false, m.FailWith
	}
	svc, ok := m.data[addr.Service]
	if !ok {
		return false, nil
	}
	if _, ok := svc[addr.Account]; !ok {
		return false, nil
	}
	delete(svc, addr.Account)
	if len(svc) == 0 {
		delete(m.data, addr.Service)
	}
	return true, nil
}

func (m *Memory) FindOne(addr address.Address) (string, bool, error) {
	if addr.HasAccount {
		return m.Get(addr)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return "", false, m.FailWith
	}
	accounts := m.sortedAccounts(addr.Service)
	if len(accounts) == 0 {
		return "", false, nil
	}
	return m.data[addr.Service][accounts[0]], true, nil
}

func (m *Memory) FindMany(service string) ([]backend.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	accounts := m.sortedAccounts(service)
	out := make([]backend.Record, 0, len(accounts))
	for _, acct := range accounts {
		out = append(out, backend.Record{Account: acct, Password: m.data[service][acct]})
	}
	return out, nil
}

// Len 返回条目总数。
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, svc := range m.data {
		n += len(svc)
	}
	return n
}

func (m *Memory) sortedAccounts(service string) []string {
	svc := m.data[service]
	out := make([]string, 0, len(svc))
	for acct := range svc {
		out = append(out, acct)
	}
	sort.Strings(out)
	return out
}

// BackendFailure 返回一个模拟原生失败的错误，便于测试错误透传。
func BackendFailure(details string) error {
	return errors.BackendFailure("memory", details, nil)
}
