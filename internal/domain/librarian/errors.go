package librarian

import (
	apperrors "github.com/xiebiao/horizon-library/pkg/errors"
)

var (
	ErrLibrarianNotFound = apperrors.New(apperrors.ErrCodeLibrarianNotFound, "馆员不存在")
	ErrUsernameDuplicate = apperrors.New(apperrors.ErrCodeUsernameDuplicate, "用户名已存在")
	ErrInvalidUsername   = apperrors.New(apperrors.ErrCodeInvalidParams, "用户名长度应为3-50个字符")
	ErrWeakPassword      = apperrors.New(apperrors.ErrCodeInvalidParams, "密码长度至少8位")
)
