package librarian

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/horizon-library/pkg/errors"
)

// DefaultBcryptCost bcrypt加密成本（cost每+1，耗时翻倍）
const DefaultBcryptCost = 12

// Service 馆员领域服务
type Service interface {
	// Login 校验用户名密码
	// 用户不存在和密码错误都返回apperrors.ErrInvalidPassword，不暴露用户名是否存在
	Login(ctx context.Context, username, password string) (*Librarian, error)

	// Create 创建馆员账号（管理员CLI使用）
	Create(ctx context.Context, username, password string) (*Librarian, error)

	// ChangePassword 重置密码（管理员CLI使用）
	ChangePassword(ctx context.Context, username, password string) error
}

type service struct {
	repo Repository
	cost int
}

// NewService 创建馆员服务，cost<=0时使用DefaultBcryptCost
func NewService(repo Repository, cost int) Service {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	return &service{repo: repo, cost: cost}
}

// Login 馆员登录
func (s *service) Login(ctx context.Context, username, password string) (*Librarian, error) {
	l, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrLibrarianNotFound) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(l.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, apperrors.Wrap(err, "密码验证失败")
	}

	return l, nil
}

// Create 创建馆员
// 用户名唯一性由数据库UNIQUE索引保证，Repository转换为ErrUsernameDuplicate
func (s *service) Create(ctx context.Context, username, password string) (*Librarian, error) {
	username = strings.TrimSpace(username)
	if n := utf8.RuneCountInString(username); n < 3 || n > 50 {
		return nil, ErrInvalidUsername
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	l := NewLibrarian(username, hash)
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ChangePassword 重置密码
func (s *service) ChangePassword(ctx context.Context, username, password string) error {
	l, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return err
	}

	hash, err := s.hash(password)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, l.ID, hash)
}

func (s *service) hash(password string) (string, error) {
	// bcrypt只使用前72字节
	if len(password) < 8 || len(password) > 72 {
		return "", ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", apperrors.Wrap(err, "密码加密失败")
	}
	return string(hashed), nil
}
