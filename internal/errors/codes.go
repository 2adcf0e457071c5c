package errors

// Code 是稳定错误码（字符串），供 AI/agent 与程序判断。
// 只增不改、不复用旧含义。
type Code string

const (
	// Config / args
	CodeCfgNotFound Code = "XSECRET_CFG_NOT_FOUND"
	CodeCfgInvalid  Code = "XSECRET_CFG_INVALID"

	// Secret values
	CodeSecretNotFound Code = "XSECRET_SECRET_NOT_FOUND"
	CodeSecretInvalid  Code = "XSECRET_SECRET_INVALID"
	CodeEncodingFailed Code = "XSECRET_ENCODING_FAILED"

	// Backend
	CodeBackendUnavailable Code = "XSECRET_BACKEND_UNAVAILABLE"
	CodeBackendFailed      Code = "XSECRET_BACKEND_FAILED"

	// Internal
	CodeInternal Code = "XSECRET_INTERNAL"
)

func AllCodes() []Code {
	return []Code{
		CodeCfgNotFound,
		CodeCfgInvalid,
		CodeSecretNotFound,
		CodeSecretInvalid,
		CodeEncodingFailed,
		CodeBackendUnavailable,
		CodeBackendFailed,
		CodeInternal,
	}
}
