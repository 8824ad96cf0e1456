//go:build !windows

package credman

import (
	"strings"

	"github.com/zx06/keytar/internal/errors"
)

func checkWide(values ...string) error {
	for _, v := range values {
		if strings.IndexByte(v, 0) >= 0 {
			return errors.InvalidArgument("value cannot be converted to UTF-16", map[string]any{"value": v})
		}
	}
	return nil
}
