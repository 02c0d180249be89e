package handler

import (
	"github.com/gin-gonic/gin"

	applibrarian "github.com/xiebiao/horizon-library/internal/application/librarian"
	"github.com/xiebiao/horizon-library/internal/interface/http/dto"
	apperrors "github.com/xiebiao/horizon-library/pkg/errors"
	"github.com/xiebiao/horizon-library/pkg/response"
)

// LibrarianHandler 馆员HTTP处理器
type LibrarianHandler struct {
	loginUseCase *applibrarian.LoginUseCase
}

// NewLibrarianHandler 创建馆员处理器
func NewLibrarianHandler(loginUseCase *applibrarian.LoginUseCase) *LibrarianHandler {
	return &LibrarianHandler{loginUseCase: loginUseCase}
}

// Login 馆员登录
// @Summary      馆员登录
// @Description  验证用户名密码，返回JWT Token
// @Tags         馆员
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=applibrarian.LoginResponse} "登录成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "用户名或密码错误"
// @Failure      429 {object} response.Response "请求过于频繁"
// @Router       /api/v1/librarian/login [post]
func (h *LibrarianHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), applibrarian.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
