package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/foodgram-backend/internal/data/repos"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/platform/apierr"
	"github.com/yungbote/foodgram-backend/internal/platform/cache"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

const tagCacheNamespace = "tags"

type TagInput struct {
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color" validate:"required,color6"`
	Slug  string `json:"slug" validate:"required,max=200,slug"`
}

type TagService interface {
	List(ctx context.Context) ([]types.Tag, error)
	Get(ctx context.Context, id uint) (types.Tag, error)
	Create(ctx context.Context, in TagInput) (types.Tag, error)
}

type tagService struct {
	log     *logger.Logger
	tagRepo repos.TagRepo
	cache   cache.Cache
}

func NewTagService(log *logger.Logger, tagRepo repos.TagRepo, c cache.Cache) TagService {
	if c == nil {
		c = cache.Nop()
	}
	return &tagService{log: log.With("service", "TagService"), tagRepo: tagRepo, cache: c}
}

func (ts *tagService) List(ctx context.Context) ([]types.Tag, error) {
	var cached []types.Tag
	if ts.cache.GetJSON(ctx, tagCacheNamespace, "all", &cached) {
		return cached, nil
	}
	rows, err := ts.tagRepo.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	out := make([]types.Tag, 0, len(rows))
	for _, t := range rows {
		out = append(out, *t)
	}
	ts.cache.SetJSON(ctx, tagCacheNamespace, "all", out)
	return out, nil
}

func (ts *tagService) Get(ctx context.Context, id uint) (types.Tag, error) {
	rows, err := ts.tagRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []uint{id})
	if err != nil {
		return types.Tag{}, fmt.Errorf("load tag: %w", err)
	}
	if len(rows) == 0 {
		return types.Tag{}, apierr.NotFound("tag_not_found", "tag not found")
	}
	return *rows[0], nil
}

func (ts *tagService) Create(ctx context.Context, in TagInput) (types.Tag, error) {
	if err := requireStaff(ctx); err != nil {
		return types.Tag{}, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Color = strings.ToUpper(strings.TrimSpace(in.Color))
	if err := checkStruct(&in); err != nil {
		return types.Tag{}, err
	}

	dbc := dbctx.Context{Ctx: ctx}
	existing, err := ts.tagRepo.List(dbc)
	if err != nil {
		return types.Tag{}, fmt.Errorf("list tags: %w", err)
	}
	for _, t := range existing {
		switch {
		case t.Name == in.Name:
			return types.Tag{}, apierr.BadRequest("tag_exists", "name: tag with this name already exists")
		case strings.EqualFold(t.Color, in.Color):
			return types.Tag{}, apierr.BadRequest("tag_exists", "color: tag with this color already exists")
		case t.Slug == in.Slug:
			return types.Tag{}, apierr.BadRequest("tag_exists", "slug: tag with this slug already exists")
		}
	}

	tag := &types.Tag{Name: in.Name, Color: in.Color, Slug: in.Slug}
	if _, err := ts.tagRepo.Create(dbc, []*types.Tag{tag}); err != nil {
		return types.Tag{}, fmt.Errorf("create tag: %w", err)
	}
	ts.cache.Invalidate(ctx, tagCacheNamespace)
	ts.log.Info("Tag created", "tag_id", tag.ID, "slug", tag.Slug)
	return *tag, nil
}
