package librarian

import (
	"context"
)

// Repository 馆员仓储接口
type Repository interface {
	// Create 创建馆员，用户名已存在返回ErrUsernameDuplicate
	Create(ctx context.Context, l *Librarian) error

	// FindByUsername 根据用户名查找，不存在返回ErrLibrarianNotFound
	FindByUsername(ctx context.Context, username string) (*Librarian, error)

	// UpdatePassword 更新密码哈希
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
}
