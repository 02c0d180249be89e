package dto

// LoginRequest 馆员登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"librarian"`
	Password string `json:"password" binding:"required" example:"password123"`
}
