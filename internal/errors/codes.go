package errors

// Code 是稳定错误码（字符串），供调用方与 agent 程序判断。
// 只增不改、不复用旧含义。
type Code string

const (
	// Config / args
	CodeCfgNotFound Code = "KEYTAR_CFG_NOT_FOUND"
	CodeCfgInvalid  Code = "KEYTAR_CFG_INVALID"

	// 调用方输入在任何原生调用之前被拒绝（空 service、NUL、非 UTF-8、超长描述等）。
	CodeInvalidArgument Code = "KEYTAR_INVALID_ARGUMENT"

	// 原生凭据存储调用失败；details.backend / details.details 携带诊断信息。
	CodeBackendFailure Code = "KEYTAR_BACKEND_FAILURE"

	// 读到的 secret 字节不是合法 UTF-8。
	CodeEncodingFailure Code = "KEYTAR_ENCODING_FAILURE"

	// 仅用于 CLI / keyring: 引用：查询无结果。库 API 从不返回该码。
	CodeNotFound Code = "KEYTAR_NOT_FOUND"

	// Internal
	CodeInternal Code = "KEYTAR_INTERNAL"
)

func AllCodes() []Code {
	return []Code{
		CodeCfgNotFound,
		CodeCfgInvalid,
		CodeInvalidArgument,
		CodeBackendFailure,
		CodeEncodingFailure,
		CodeNotFound,
		CodeInternal,
	}
}
