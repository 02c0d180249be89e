package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/horizon-library/internal/domain/librarian"
)

// librarianRepository 馆员仓储实现（MySQL）
// 用户名唯一性由数据库UNIQUE索引保证，冲突转换为ErrUsernameDuplicate
type librarianRepository struct {
	db *gorm.DB
}

// NewLibrarianRepository 创建馆员仓储
func NewLibrarianRepository(db *gorm.DB) librarian.Repository {
	return &librarianRepository{db: db}
}

// Create 创建馆员
func (r *librarianRepository) Create(ctx context.Context, l *librarian.Librarian) error {
	model := &LibrarianModel{
		Username:     l.Username,
		PasswordHash: l.PasswordHash,
		Role:         l.Role,
	}

	if err := dbFromContext(ctx, r.db).WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return librarian.ErrUsernameDuplicate
		}
		return dbError(err, "创建馆员失败")
	}

	l.ID = model.ID
	l.CreatedAt = model.CreatedAt
	l.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByUsername 根据用户名查找
func (r *librarianRepository) FindByUsername(ctx context.Context, username string) (*librarian.Librarian, error) {
	var model LibrarianModel
	err := dbFromContext(ctx, r.db).WithContext(ctx).Where("username = ?", username).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, librarian.ErrLibrarianNotFound
		}
		return nil, dbError(err, "查询馆员失败")
	}

	return toLibrarianEntity(&model), nil
}

// UpdatePassword 更新密码哈希
func (r *librarianRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&LibrarianModel{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return dbError(result.Error, "更新密码失败")
	}
	if result.RowsAffected == 0 {
		return librarian.ErrLibrarianNotFound
	}
	return nil
}

// toLibrarianEntity GORM模型 → 领域实体
func toLibrarianEntity(model *LibrarianModel) *librarian.Librarian {
	return &librarian.Librarian{
		ID:           model.ID,
		Username:     model.Username,
		PasswordHash: model.PasswordHash,
		Role:         model.Role,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}
