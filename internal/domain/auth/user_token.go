package auth

import (
	"time"

	"github.com/yungbote/foodgram-backend/internal/domain/user"
)

type UserToken struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	User        *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	AccessToken string     `gorm:"uniqueIndex;not null;column:access_token" json:"-"`
	ExpiresAt   time.Time  `gorm:"column:expires_at;index" json:"expires_at"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (UserToken) TableName() string { return "user_token" }
