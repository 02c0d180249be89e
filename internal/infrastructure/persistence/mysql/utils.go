package mysql

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/xiebiao/horizon-library/pkg/errors"
)

// isDuplicateError 判断是否为唯一索引冲突错误
// 1. TranslateError开启时GORM返回gorm.ErrDuplicatedKey
// 2. 兼容检查错误信息：MySQL 1062 "Duplicate entry",SQLite "UNIQUE constraint failed"
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

// dbError 包装数据库错误（内部原因只写日志，不返回给客户端）
func dbError(err error, message string) error {
	return apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, message)
}
