package book

import (
	apperrors "github.com/xiebiao/horizon-library/pkg/errors"
)

// 图书领域错误定义
// 所有校验错误共用ErrCodeInvalidParams,errors.Is(err, apperrors.ErrInvalidParams)可统一判断
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeISBNDuplicate, "ISBN号已存在")

	ErrTitleRequired         = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空")
	ErrAuthorRequired        = apperrors.New(apperrors.ErrCodeInvalidParams, "作者不能为空")
	ErrISBNRequired          = apperrors.New(apperrors.ErrCodeInvalidParams, "ISBN不能为空")
	ErrPublishedDateRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "出版日期不能为空")

	// ErrInvalidPublishedDate 出版日期格式不正确
	ErrInvalidPublishedDate = apperrors.New(apperrors.ErrCodeInvalidParams, "出版日期格式不正确,应为YYYY-MM-DD")

	// ErrUnsupportedCover 上传的文件不是图片
	ErrUnsupportedCover = apperrors.New(apperrors.ErrCodeInvalidParams, "封面必须是图片文件")

	// ErrCoverTooLarge 上传的文件超过大小限制
	ErrCoverTooLarge = apperrors.New(apperrors.ErrCodeInvalidParams, "封面文件过大")

	// ErrInvalidCoverRef 封面引用不属于本存储（路径穿越等）
	ErrInvalidCoverRef = apperrors.New(apperrors.ErrCodeStorageError, "无效的封面引用")
)
