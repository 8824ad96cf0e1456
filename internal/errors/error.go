package errors

import (
	stderrors "errors"
	"fmt"
)

// XError 是结构化错误：稳定 Code + 人类可读 Message + 可选 Details。
type XError struct {
	Code    Code           `json:"code" yaml:"code"`
	Message string         `json:"message" yaml:"message"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	cause   error
}

func (e *XError) Error() string {
	if e == nil {
		return ""
	}
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
}

func (e *XError) Unwrap() error { return e.cause }

func New(code Code, message string, details map[string]any) *XError {
	return &XError{Code: code, Message: message, Details: details}
}

func Wrap(code Code, message string, details map[string]any, cause error) *XError {
	return &XError{Code: code, Message: message, Details: details, cause: cause}
}

// InvalidArgument 表示调用方数据在原生调用之前即被拒绝。
func InvalidArgument(message string, details map[string]any) *XError {
	return New(CodeInvalidArgument, message, details)
}

// BackendFailure 包装一次失败的原生调用。details 为原始诊断字符串，仅供运维查看，调用方不应解析。
func BackendFailure(backend, details string, cause error) *XError {
	return Wrap(CodeBackendFailure, "credential backend failure", map[string]any{
		"backend": backend,
		"details": details,
	}, cause)
}

// EncodingFailure 表示读回的 payload 不是合法 UTF-8。
func EncodingFailure(details string, cause error) *XError {
	return Wrap(CodeEncodingFailure, "secret payload is not valid UTF-8", map[string]any{
		"details": details,
	}, cause)
}

func As(err error) (*XError, bool) {
	var xe *XError
	if stderrors.As(err, &xe) {
		return xe, true
	}
	return nil, false
}

func AsOrWrap(err error) *XError {
	if xe, ok := As(err); ok {
		return xe
	}
	return Wrap(CodeInternal, err.Error(), nil, err)
}

// Is 判断 err 链上是否存在指定 Code 的 XError。
func Is(err error, code Code) bool {
	xe, ok := As(err)
	return ok && xe.Code == code
}
