package user

import "time"

type User struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email           string    `gorm:"uniqueIndex;not null;size:254;column:email" json:"email"`
	Username        string    `gorm:"uniqueIndex;not null;size:150;column:username" json:"username"`
	Password        string    `gorm:"not null;column:password" json:"-"`
	FirstName       string    `gorm:"not null;size:150;column:first_name" json:"first_name"`
	LastName        string    `gorm:"not null;size:150;column:last_name" json:"last_name"`
	IsStaff         bool      `gorm:"not null;default:false;column:is_staff" json:"-"`
	AvatarBucketKey string    `gorm:"column:avatar_bucket_key" json:"-"`
	AvatarURL       string    `gorm:"column:avatar_url" json:"avatar"`
	CreatedAt       time.Time `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt       time.Time `gorm:"not null;autoUpdateTime" json:"-"`
}

func (User) TableName() string { return "user" }
