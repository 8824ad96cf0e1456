//go:build !windows && !darwin && !linux && !freebsd && !openbsd && !netbsd && !dragonfly

package store

import (
	"runtime"

	"github.com/zx06/keytar/internal/backend"
	"github.com/zx06/keytar/internal/errors"
)

func newBackend(Options) (backend.Backend, error) {
	return nil, errors.BackendFailure("unsupported", "no credential store available on "+runtime.GOOS, nil)
}
