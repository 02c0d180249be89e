package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/horizon-library/internal/interface/http/middleware"
	"github.com/xiebiao/horizon-library/pkg/response"
)

// StudentArea 学生区域（占位接口，需要student角色）
// @Summary      学生区域
// @Tags         学生
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Failure      403 {object} response.Response "无权限"
// @Router       /api/v1/student [get]
func StudentArea(c *gin.Context) {
	response.Success(c, gin.H{
		"message":  "学生功能正在开发中",
		"username": middleware.GetUsername(c),
	})
}
