package domain

import (
	"context"
	"errors"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ErrEmailUnverified 登录被验证门禁拦下
var ErrEmailUnverified = errors.New("email not verified")

type Profile struct {
	ID              string     `gorm:"primaryKey;size:32" json:"id"`
	Email           string     `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash    string     `gorm:"size:100;not null" json:"-"`
	Role            string     `gorm:"size:16;not null;default:user" json:"role"`
	VerifyToken     string     `gorm:"size:64;index" json:"-"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (Profile) TableName() string { return "profiles" }

func (p *Profile) Verified() bool { return p.EmailVerifiedAt != nil }

type ProfileRepository interface {
	Create(ctx context.Context, p *Profile) error
	FindByID(ctx context.Context, id string) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	FindByVerifyToken(ctx context.Context, token string) (*Profile, error)
	SetVerifyToken(ctx context.Context, id, token string) error
	MarkVerified(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, offset, limit int, q string) ([]Profile, int64, error)
}
