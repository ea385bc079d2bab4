package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID 行主键：去掉连字符的 uuid v4
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewVerifyToken 邮箱验证令牌
func NewVerifyToken() string {
	return uuid.NewString()
}
