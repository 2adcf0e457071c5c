package errors

// ExitCode 是进程退出码（稳定契约）。
type ExitCode int

const (
	ExitOK ExitCode = 0

	// 2: 参数/配置错误
	ExitConfig ExitCode = 2

	// 3: 后端不可用或后端操作失败
	ExitBackend ExitCode = 3

	// 4: secret 不存在
	ExitNotFound ExitCode = 4

	// 5: 编码转换失败
	ExitEncoding ExitCode = 5

	// 10: 内部错误
	ExitInternal ExitCode = 10
)

func ExitCodeFor(code Code) ExitCode {
	switch code {
	case CodeCfgNotFound, CodeCfgInvalid, CodeSecretInvalid:
		return ExitConfig
	case CodeBackendUnavailable, CodeBackendFailed:
		return ExitBackend
	case CodeSecretNotFound:
		return ExitNotFound
	case CodeEncodingFailed:
		return ExitEncoding
	case CodeInternal:
		fallthrough
	default:
		return ExitInternal
	}
}
