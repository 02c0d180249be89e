package librarian

import (
	"context"

	"github.com/xiebiao/horizon-library/internal/domain/librarian"
	"github.com/xiebiao/horizon-library/pkg/jwt"
)

// LoginUseCase 馆员登录用例
// 设计说明：
// 1. 验证用户名密码（领域服务）
// 2. 签发携带角色的JWT，鉴权中间件只依赖Token本身
// 3. 无状态：不保存会话，Token过期即失效
type LoginUseCase struct {
	librarianService librarian.Service
	jwtManager       *jwt.Manager
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(librarianService librarian.Service, jwtManager *jwt.Manager) *LoginUseCase {
	return &LoginUseCase{
		librarianService: librarianService,
		jwtManager:       jwtManager,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string
	Password string
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	Username  string `json:"username"`
	ExpiresIn int64  `json:"expires_in"` // 过期时间（秒）
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	l, err := uc.librarianService.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	token, err := uc.jwtManager.GenerateToken(l.ID, l.Username, l.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:     token.AccessToken,
		Role:      l.Role,
		Username:  l.Username,
		ExpiresIn: token.ExpiresIn,
	}, nil
}
