package log

import (
	"io"
	"log/slog"
	"strings"

	"github.com/zx06/keytar/internal/errors"
)

// New 返回写入到 w 的 slog.Logger（默认 level=INFO）。
// 注意：stdout=数据，日志应始终写 stderr（由调用方传入）。
func New(w io.Writer) *slog.Logger {
	return NewWithLevel(w, slog.LevelInfo)
}

func NewWithLevel(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}

// ParseLevel 解析 debug|info|warn|error（不区分大小写）。
func ParseLevel(s string) (slog.Level, *errors.XError) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelWarn, errors.Wrap(errors.CodeCfgInvalid, "invalid log level", map[string]any{"log_level": s}, err)
	}
	return level, nil
}
