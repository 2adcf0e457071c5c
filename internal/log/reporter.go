package log

import (
	"log/slog"

	"github.com/zx06/xsecret/internal/errors"
)

// Reporter 把 secret 存储的失败写入结构化日志。
// 只记录错误码、消息与 details，details 中不包含 secret 内容。
type Reporter struct {
	logger *slog.Logger
}

// NewReporter 返回写入 logger 的 Reporter；logger 为 nil 时使用 slog.Default()。
func NewReporter(logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{logger: logger}
}

func (r *Reporter) Report(err error) {
	if err == nil {
		return
	}
	xe := errors.AsOrWrap(err)
	attrs := []any{slog.String("code", string(xe.Code))}
	if len(xe.Details) > 0 {
		group := make([]any, 0, len(xe.Details))
		for k, v := range xe.Details {
			group = append(group, slog.Any(k, v))
		}
		attrs = append(attrs, slog.Group("details", group...))
	}
	if cause := xe.Unwrap(); cause != nil {
		attrs = append(attrs, slog.String("cause", cause.Error()))
	}
	r.logger.Error(xe.Message, attrs...)
}
