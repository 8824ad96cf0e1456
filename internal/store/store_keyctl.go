//go:build linux && headless

package store

import (
	"github.com/zx06/keytar/internal/backend"
	"github.com/zx06/keytar/internal/backend/keyctl"
)

// headless 构建（无桌面会话）使用内核 keyring。
func newBackend(opts Options) (backend.Backend, error) {
	return keyctl.New(opts.Keyctl)
}
