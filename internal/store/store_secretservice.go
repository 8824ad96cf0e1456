//go:build (linux && !headless) || freebsd || openbsd || netbsd || dragonfly

package store

import (
	"github.com/zx06/keytar/internal/backend"
	"github.com/zx06/keytar/internal/backend/secretservice"
)

func newBackend(opts Options) (backend.Backend, error) {
	return secretservice.New(opts.SecretService), nil
}
