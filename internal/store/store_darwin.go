//go:build darwin && cgo

package store

import (
	"github.com/zx06/keytar/internal/backend"
	"github.com/zx06/keytar/internal/backend/keychain"
)

func newBackend(Options) (backend.Backend, error) {
	return keychain.New(), nil
}
