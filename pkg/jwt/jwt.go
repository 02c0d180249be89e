package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/xiebiao/horizon-library/pkg/errors"
)

const issuer = "horizon-library"

// Manager JWT管理器
// 设计说明：
// 1. 单Token机制：登录签发一个短期Access Token（默认1小时）
// 2. Token中携带角色（role），鉴权中间件只依赖Token本身，不查库
type Manager struct {
	secret            string        // JWT签名密钥
	accessTokenExpire time.Duration // Access Token有效期
}

// NewManager 创建JWT管理器
func NewManager(secret string, accessTokenExpire time.Duration) *Manager {
	return &Manager{
		secret:            secret,
		accessTokenExpire: accessTokenExpire,
	}
}

// Claims 自定义JWT Claims
// 嵌入jwt.RegisteredClaims获取标准字段（exp、iat、nbf、sub）
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Token 签发结果
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"` // 过期时间（秒）
	ExpiresAt   time.Time `json:"-"`
}

// GenerateToken 签发Token
func (m *Manager) GenerateToken(userID uint, username, role string) (*Token, error) {
	now := time.Now()
	expiresAt := now.Add(m.accessTokenExpire)

	claims := Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.secret))
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Token失败")
	}

	return &Token{
		AccessToken: signed,
		ExpiresIn:   int64(m.accessTokenExpire.Seconds()),
		ExpiresAt:   expiresAt,
	}, nil
}

// ParseToken 解析并验证Token
// 1. 验证签名算法与签名
// 2. 验证过期时间（exp）与生效时间（nbf）
// 过期返回ErrTokenExpired，其余失败一律ErrInvalidToken
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		// jwt/v5的错误是包装过的，必须用errors.Is判断
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, apperrors.ErrInvalidToken
}
