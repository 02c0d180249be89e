package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/horizon-library/pkg/errors"
	"github.com/xiebiao/horizon-library/pkg/logger"
)

// Response 统一响应结构
// 设计说明：
// 1. Code是业务错误码，HTTP状态码由Code映射而来（apperrors.HTTPStatus）
// 2. Message是用户友好的提示信息
// 3. Data是业务数据，成功时返回，失败时为null
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应（Code=0表示成功）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应（HTTP 201）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	book, err := uc.Execute(...)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := apperrors.HTTPStatus(appErr.Code)

	// 内部错误只写日志，不返回给客户端
	if appErr.Err != nil || status >= http.StatusInternalServerError {
		logger.FromGin(c).Error("request failed",
			zap.Int("code", appErr.Code),
			zap.String("message", appErr.Message),
			zap.Error(appErr.Err),
		)
	}

	c.JSON(status, Response{
		Code:    appErr.Code,
		Message: appErr.Message,
		Data:    nil,
	})
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(apperrors.HTTPStatus(code), Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// Abort 错误响应并终止后续Handler（中间件使用）
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// =========================================
// 分页响应结构
// =========================================

// PageData 分页数据封装
type PageData struct {
	List       interface{} `json:"list"`                  // 数据列表
	Total      int64       `json:"total"`                 // 总记录数
	Page       int         `json:"page,omitempty"`        // 当前页码
	PageSize   int         `json:"page_size,omitempty"`   // 每页大小
	TotalPages int         `json:"total_pages,omitempty"` // 总页数
}

// NewPageData 创建分页数据
// pageSize<=0 表示不分页（返回全部记录）
func NewPageData(list interface{}, total int64, page, pageSize int) *PageData {
	if pageSize <= 0 {
		return &PageData{List: list, Total: total}
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	return &PageData{
		List:       list,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	Success(c, NewPageData(list, total, page, pageSize))
}
