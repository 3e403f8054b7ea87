package social

import (
	"gorm.io/gorm"

	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

type SubscriptionRepo interface {
	Add(dbc dbctx.Context, userID, authorID uint) error
	Remove(dbc dbctx.Context, userID, authorID uint) (int64, error)
	Exists(dbc dbctx.Context, userID, authorID uint) (bool, error)
	AuthorIDsFor(dbc dbctx.Context, userID uint, authorIDs []uint) (map[uint]bool, error)
	// ListAuthorIDs pages through the authors a user follows, oldest subscription first.
	ListAuthorIDs(dbc dbctx.Context, userID uint, limit, offset int) ([]uint, error)
	CountAuthors(dbc dbctx.Context, userID uint) (int64, error)
}

type subscriptionRepo struct{ m *membership }

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	return &subscriptionRepo{m: &membership{
		db:        db,
		log:       baseLog.With("repo", "SubscriptionRepo"),
		table:     "subscription",
		targetCol: "author_id",
		newRow: func(userID, authorID uint) any {
			return &types.Subscription{UserID: userID, AuthorID: authorID}
		},
	}}
}

func (r *subscriptionRepo) Add(dbc dbctx.Context, userID, authorID uint) error {
	return r.m.add(dbc, userID, authorID)
}

func (r *subscriptionRepo) Remove(dbc dbctx.Context, userID, authorID uint) (int64, error) {
	return r.m.remove(dbc, userID, authorID)
}

func (r *subscriptionRepo) Exists(dbc dbctx.Context, userID, authorID uint) (bool, error) {
	return r.m.exists(dbc, userID, authorID)
}

func (r *subscriptionRepo) AuthorIDsFor(dbc dbctx.Context, userID uint, authorIDs []uint) (map[uint]bool, error) {
	return r.m.targetsFor(dbc, userID, authorIDs)
}

func (r *subscriptionRepo) ListAuthorIDs(dbc dbctx.Context, userID uint, limit, offset int) ([]uint, error) {
	var ids []uint
	q := dbc.Pick(r.m.db).
		Model(&types.Subscription{}).
		Where("user_id = ?", userID).
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Pluck("author_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *subscriptionRepo) CountAuthors(dbc dbctx.Context, userID uint) (int64, error) {
	var count int64
	err := dbc.Pick(r.m.db).Model(&types.Subscription{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
