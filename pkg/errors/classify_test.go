package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantLevel     ErrorLevel
		wantCode      string
		wantRetryable bool
	}{
		{"nil", nil, 0, "", false},
		{"timeout", context.DeadlineExceeded, L1Recoverable, "TIMEOUT", true},
		{"run lock held", ErrRunLockHeld, L2Intervention, "RUN_LOCK_HELD", false},
		{"store unavailable", ErrStoreUnavailable, L1Recoverable, "STORE_UNAVAILABLE", true},
		{"cache unavailable", ErrCacheUnavailable, L1Recoverable, "CACHE_UNAVAILABLE", true},
		{"reference invalid", ErrReferenceInvalid, L3Fatal, "FATAL_CONFIG", false},
		{"config invalid", ErrConfigInvalid, L3Fatal, "FATAL_CONFIG", false},
		{"unknown", errors.New("boom"), L1Recoverable, "UNKNOWN", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err)
			if tt.err == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLevel, got.Level)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantRetryable, got.Retryable)
		})
	}
}

// 包裹后的预定义错误仍按原错误分类
func TestClassifyErrorWrapped(t *testing.T) {
	wrapped := fmt.Errorf("begin run: %w", ErrRunLockHeld)
	got := ClassifyError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, "RUN_LOCK_HELD", got.Code)
	assert.False(t, got.Retryable)
}

// 已分类的错误原样返回，不重复包装
func TestClassifyErrorPassThrough(t *testing.T) {
	original := NewClassifiedError(L2Intervention, "CUSTOM", "custom failure", nil)
	wrapped := fmt.Errorf("outer: %w", original)

	got := ClassifyError(wrapped)
	assert.Same(t, original, got)
}

func TestClassifiedErrorMessage(t *testing.T) {
	e := NewClassifiedError(L1Recoverable, "X", "outer", errors.New("inner"))
	assert.Equal(t, "outer: inner", e.Error())
	assert.EqualError(t, e.Unwrap(), "inner")

	bare := NewClassifiedError(L1Recoverable, "X", "outer", nil)
	assert.Equal(t, "outer", bare.Error())
}
