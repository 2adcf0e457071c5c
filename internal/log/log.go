package log

import (
	"io"
	"log/slog"
	"strings"

	"github.com/zx06/xsecret/internal/errors"
)

// New 返回写入到 w 的 slog.Logger（默认 level=INFO）。
// 注意：stdout=数据，日志应始终写 stderr（由调用方传入）。
func New(w io.Writer) *slog.Logger {
	return NewWithLevel(w, slog.LevelInfo)
}

// NewWithLevel 同 New，但使用指定的日志级别。
func NewWithLevel(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}

// ParseLevel 解析 debug|info|warn|error（大小写不敏感），空字符串视为 info。
func ParseLevel(s string) (slog.Level, *errors.XError) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.New(errors.CodeCfgInvalid, "invalid log level", map[string]any{"log_level": s})
	}
}
