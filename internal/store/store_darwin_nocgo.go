//go:build darwin && !cgo

package store

import (
	"github.com/zx06/keytar/internal/backend"
	"github.com/zx06/keytar/internal/backend/securitycli"
)

// 无 cgo 时退回 security 命令行；不支持枚举。
func newBackend(Options) (backend.Backend, error) {
	return securitycli.New(), nil
}
