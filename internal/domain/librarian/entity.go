package librarian

import (
	"time"
)

// 角色（扁平字符串，鉴权中间件按白名单比较）
const (
	RoleLibrarian = "librarian"
	RoleStudent   = "student"
)

// Librarian 馆员实体（聚合根）
// 设计说明：
// 1. 只有馆员可以登录并修改图书，账号由管理员CLI创建（没有公开注册）
// 2. PasswordHash是bcrypt哈希值，明文密码不离开Service
type Librarian struct {
	ID           uint
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewLibrarian 创建新馆员（工厂方法）
func NewLibrarian(username, passwordHash string) *Librarian {
	now := time.Now()
	return &Librarian{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         RoleLibrarian,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
