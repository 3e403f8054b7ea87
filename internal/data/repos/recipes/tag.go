package recipes

import (
	"gorm.io/gorm"

	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

type TagRepo interface {
	Create(dbc dbctx.Context, tags []*types.Tag) ([]*types.Tag, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Tag, error)
	List(dbc dbctx.Context) ([]*types.Tag, error)
}

type tagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTagRepo(db *gorm.DB, baseLog *logger.Logger) TagRepo {
	return &tagRepo{db: db, log: baseLog.With("repo", "TagRepo")}
}

func (r *tagRepo) Create(dbc dbctx.Context, tags []*types.Tag) ([]*types.Tag, error) {
	if len(tags) == 0 {
		return []*types.Tag{}, nil
	}
	if err := dbc.Pick(r.db).Create(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Tag, error) {
	var results []*types.Tag
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.Pick(r.db).Where("id IN ?", ids).Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *tagRepo) List(dbc dbctx.Context) ([]*types.Tag, error) {
	var results []*types.Tag
	if err := dbc.Pick(r.db).Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
