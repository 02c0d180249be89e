package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_IsMatchesByCode(t *testing.T) {
	err := Invalid("书名不能为空")

	assert.True(t, errors.Is(err, ErrInvalidParams), "同错误码应视为同一类错误")
	assert.False(t, errors.Is(err, ErrBookNotFound))

	wrapped := fmt.Errorf("步骤失败: %w", err)
	assert.True(t, errors.Is(wrapped, ErrInvalidParams), "经fmt.Errorf包装后仍可匹配")
	assert.Equal(t, ErrCodeInvalidParams, GetAppError(wrapped).Code)
}

func TestGetAppError_WrapsPlainError(t *testing.T) {
	appErr := GetAppError(errors.New("boom"))

	assert.Equal(t, ErrCodeInternal, appErr.Code)
	assert.EqualError(t, appErr.Err, "boom")
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code int
		want int
	}{
		{0, http.StatusOK},
		{ErrCodeInvalidParams, http.StatusBadRequest},
		{ErrCodeBindError, http.StatusBadRequest},
		{ErrCodeISBNDuplicate, http.StatusConflict},
		{ErrCodeBookNotFound, http.StatusNotFound},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeInvalidPassword, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeTooManyRequests, http.StatusTooManyRequests},
		{ErrCodeStorageError, http.StatusInternalServerError},
		{ErrCodeDatabaseError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d", tc.code), func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.code))
		})
	}
}
