package output

import "github.com/zx06/xsecret/internal/errors"

// SchemaVersion 是输出信封的版本号；字段语义变化时递增。
const SchemaVersion = 1

// ErrorObject 是失败信封中的 error 字段。Details 来自 XError，只含定位信息，
// 从不包含 secret 内容。
type ErrorObject struct {
	Code     errors.Code     `json:"code" yaml:"code"`
	ExitCode errors.ExitCode `json:"exit_code" yaml:"exit_code"`
	Message  string          `json:"message" yaml:"message"`
	Details  map[string]any  `json:"details,omitempty" yaml:"details,omitempty"`
}

// Envelope 是所有命令的统一输出：成功时带 data，失败时带 error。
type Envelope struct {
	OK            bool         `json:"ok" yaml:"ok"`
	SchemaVersion int          `json:"schema_version" yaml:"schema_version"`
	Error         *ErrorObject `json:"error,omitempty" yaml:"error,omitempty"`
	Data          any          `json:"data,omitempty" yaml:"data,omitempty"`
}

// OKEnvelope 包装成功结果。
func OKEnvelope(data any) Envelope {
	return Envelope{OK: true, SchemaVersion: SchemaVersion, Data: data}
}

// ErrorEnvelope 把 XError 转成失败信封，exit_code 与进程退出码一致。
func ErrorEnvelope(xe *errors.XError) Envelope {
	return Envelope{
		OK:            false,
		SchemaVersion: SchemaVersion,
		Error: &ErrorObject{
			Code:     xe.Code,
			ExitCode: errors.ExitCodeFor(xe.Code),
			Message:  xe.Message,
			Details:  xe.Details,
		},
	}
}
