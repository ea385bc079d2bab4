package domain

import "errors"

// ErrorKind 远端访问失败的归一化分类
type ErrorKind string

const (
	KindUnauthorized ErrorKind = "unauthorized"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindNetwork      ErrorKind = "network"
	KindUnknown      ErrorKind = "unknown"
)

// RemoteError 所有走存储网关的失败都收敛成这一种错误
type RemoteError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *RemoteError) Unwrap() error { return e.Err }

func Unauthorized(msg string) *RemoteError {
	return &RemoteError{Kind: KindUnauthorized, Message: msg}
}
func NotFound(msg string) *RemoteError {
	return &RemoteError{Kind: KindNotFound, Message: msg}
}
func Conflict(msg string) *RemoteError {
	return &RemoteError{Kind: KindConflict, Message: msg}
}
func Network(msg string, err error) *RemoteError {
	return &RemoteError{Kind: KindNetwork, Message: msg, Err: err}
}
func Unknown(msg string, err error) *RemoteError {
	return &RemoteError{Kind: KindUnknown, Message: msg, Err: err}
}

// KindOf 取错误分类；非 RemoteError 一律算 unknown
func KindOf(err error) ErrorKind {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindUnknown
}

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
func IsConflict(err error) bool { return KindOf(err) == KindConflict }
