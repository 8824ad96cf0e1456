//go:build windows

package credman

import (
	"golang.org/x/sys/windows"

	"github.com/zx06/keytar/internal/errors"
)

// checkWide 确认字符串可以转换为以 NUL 结尾的 UTF-16。
func checkWide(values ...string) error {
	for _, v := range values {
		if _, err := windows.UTF16FromString(v); err != nil {
			return errors.InvalidArgument("value cannot be converted to UTF-16", map[string]any{"value": v})
		}
	}
	return nil
}
