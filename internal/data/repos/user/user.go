package user

import (
	"gorm.io/gorm"

	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error)
	GetByIDs(dbc dbctx.Context, userIDs []uint) ([]*types.User, error)
	GetByEmails(dbc dbctx.Context, userEmails []string) ([]*types.User, error)
	EmailExists(dbc dbctx.Context, userEmail string) (bool, error)
	UsernameExists(dbc dbctx.Context, username string) (bool, error)
	List(dbc dbctx.Context, limit, offset int) ([]*types.User, error)
	Count(dbc dbctx.Context) (int64, error)
	UpdatePassword(dbc dbctx.Context, userID uint, passwordHash string) error
	UpdateAvatarFields(dbc dbctx.Context, userID uint, bucketKey, avatarURL string) error
	SetStaff(dbc dbctx.Context, userID uint, isStaff bool) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error) {
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	if err := dbc.Pick(ur.db).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (ur *userRepo) GetByIDs(dbc dbctx.Context, userIDs []uint) ([]*types.User, error) {
	var results []*types.User
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := dbc.Pick(ur.db).
		Where("id IN ?", userIDs).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) GetByEmails(dbc dbctx.Context, userEmails []string) ([]*types.User, error) {
	var results []*types.User
	if len(userEmails) == 0 {
		return results, nil
	}
	if err := dbc.Pick(ur.db).
		Where("email IN ?", userEmails).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) EmailExists(dbc dbctx.Context, userEmail string) (bool, error) {
	return ur.exists(dbc, "email = ?", userEmail)
}

func (ur *userRepo) UsernameExists(dbc dbctx.Context, username string) (bool, error) {
	return ur.exists(dbc, "username = ?", username)
}

func (ur *userRepo) exists(dbc dbctx.Context, cond string, arg any) (bool, error) {
	var count int64
	if err := dbc.Pick(ur.db).
		Model(&types.User{}).
		Where(cond, arg).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ur *userRepo) List(dbc dbctx.Context, limit, offset int) ([]*types.User, error) {
	var results []*types.User
	if err := dbc.Pick(ur.db).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) Count(dbc dbctx.Context) (int64, error) {
	var count int64
	err := dbc.Pick(ur.db).Model(&types.User{}).Count(&count).Error
	return count, err
}

func (ur *userRepo) UpdatePassword(dbc dbctx.Context, userID uint, passwordHash string) error {
	return dbc.Pick(ur.db).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("password", passwordHash).Error
}

func (ur *userRepo) UpdateAvatarFields(dbc dbctx.Context, userID uint, bucketKey, avatarURL string) error {
	return dbc.Pick(ur.db).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"avatar_bucket_key": bucketKey,
			"avatar_url":        avatarURL,
		}).Error
}

func (ur *userRepo) SetStaff(dbc dbctx.Context, userID uint, isStaff bool) error {
	return dbc.Pick(ur.db).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("is_staff", isStaff).Error
}
