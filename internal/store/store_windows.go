//go:build windows

package store

import (
	"github.com/zx06/keytar/internal/backend"
	"github.com/zx06/keytar/internal/backend/credman"
)

func newBackend(opts Options) (backend.Backend, error) {
	return credman.New(opts.Credman)
}
