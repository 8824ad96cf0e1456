package errors

// ExitCode 是进程退出码（稳定契约）。
type ExitCode int

const (
	ExitOK ExitCode = 0

	// 1: 查询无结果（get/find 未找到、delete 无可删除项）
	ExitNotFound ExitCode = 1

	// 2: 参数/配置错误
	ExitConfig ExitCode = 2

	// 3: 原生凭据存储失败
	ExitBackend ExitCode = 3

	// 4: secret 编码错误
	ExitEncoding ExitCode = 4

	// 10: 内部错误
	ExitInternal ExitCode = 10
)

func ExitCodeFor(code Code) ExitCode {
	switch code {
	case CodeNotFound:
		return ExitNotFound
	case CodeCfgNotFound, CodeCfgInvalid, CodeInvalidArgument:
		return ExitConfig
	case CodeBackendFailure:
		return ExitBackend
	case CodeEncodingFailure:
		return ExitEncoding
	case CodeInternal:
		fallthrough
	default:
		return ExitInternal
	}
}
