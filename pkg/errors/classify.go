// 错误分类与处理
// 参考表未命中与字段缺失不属于错误 (按文档化默认值处理)，
// 此处只对真正中断运行的故障分级
package errors

import (
	"context"
	"errors"
)

// ErrorLevel 错误级别
type ErrorLevel int

const (
	// L1Recoverable 可恢复错误 - 自动重试
	L1Recoverable ErrorLevel = iota + 1
	// L2Intervention 需要人工干预
	L2Intervention
	// L3Fatal 致命错误 - 熔断告警
	L3Fatal
)

func (l ErrorLevel) String() string {
	switch l {
	case L1Recoverable:
		return "L1_RECOVERABLE"
	case L2Intervention:
		return "L2_INTERVENTION"
	case L3Fatal:
		return "L3_FATAL"
	default:
		return "UNKNOWN"
	}
}

// 预定义错误类型
var (
	ErrRunLockHeld      = errors.New("update run already in progress")
	ErrStoreUnavailable = errors.New("trial store unavailable")
	ErrCacheUnavailable = errors.New("cache unavailable")
	ErrReferenceInvalid = errors.New("invalid reference tables")
	ErrConfigInvalid    = errors.New("invalid configuration")
)

// ClassifiedError 分类后的错误
type ClassifiedError struct {
	Level     ErrorLevel
	Code      string
	Message   string
	Cause     error
	Retryable bool
}

func (e *ClassifiedError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClassifiedError) Unwrap() error {
	return e.Cause
}

// ClassifyError 对错误进行分类
func ClassifyError(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	var classifiedErr *ClassifiedError
	if errors.As(err, &classifiedErr) {
		return classifiedErr
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &ClassifiedError{
			Level:     L1Recoverable,
			Code:      "TIMEOUT",
			Message:   "Operation timed out",
			Cause:     err,
			Retryable: true,
		}

	case errors.Is(err, ErrRunLockHeld):
		// 并发运行被拒绝: 等待下次调度，不重试
		return &ClassifiedError{
			Level:     L2Intervention,
			Code:      "RUN_LOCK_HELD",
			Message:   "Another update run holds the lock",
			Cause:     err,
			Retryable: false,
		}

	case errors.Is(err, ErrStoreUnavailable):
		return &ClassifiedError{
			Level:     L1Recoverable,
			Code:      "STORE_UNAVAILABLE",
			Message:   "Trial store unavailable",
			Cause:     err,
			Retryable: true,
		}

	case errors.Is(err, ErrCacheUnavailable):
		return &ClassifiedError{
			Level:     L1Recoverable,
			Code:      "CACHE_UNAVAILABLE",
			Message:   "Cache service unavailable",
			Cause:     err,
			Retryable: true,
		}

	case errors.Is(err, ErrReferenceInvalid), errors.Is(err, ErrConfigInvalid):
		return &ClassifiedError{
			Level:     L3Fatal,
			Code:      "FATAL_CONFIG",
			Message:   "Fatal reference or configuration error",
			Cause:     err,
			Retryable: false,
		}

	default:
		return &ClassifiedError{
			Level:     L1Recoverable,
			Code:      "UNKNOWN",
			Message:   "Unknown error",
			Cause:     err,
			Retryable: true,
		}
	}
}

// NewClassifiedError 创建分类错误
func NewClassifiedError(level ErrorLevel, code, message string, cause error) *ClassifiedError {
	return &ClassifiedError{
		Level:   level,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
