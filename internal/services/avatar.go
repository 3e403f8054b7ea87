package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"
	"unicode"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	_ "golang.org/x/image/webp"

	"github.com/yungbote/foodgram-backend/internal/data/repos"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/gcp"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

const avatarSize = 512

var avatarPalette = []color.NRGBA{
	{R: 0xE2, G: 0x6D, B: 0x5C, A: 0xFF},
	{R: 0x49, G: 0xB6, B: 0x4E, A: 0xFF},
	{R: 0xF9, G: 0xA6, B: 0x2B, A: 0xFF},
	{R: 0x8B, G: 0x5C, B: 0xF6, A: 0xFF},
	{R: 0x2A, G: 0x9D, B: 0x8F, A: 0xFF},
	{R: 0x26, G: 0x46, B: 0x53, A: 0xFF},
	{R: 0xE7, G: 0x6F, B: 0x51, A: 0xFF},
	{R: 0x3A, G: 0x86, B: 0xFF, A: 0xFF},
}

type AvatarService interface {
	CreateAndUploadUserAvatar(dbc dbctx.Context, user *types.User) error
	CreateAndUploadUserAvatarFromImage(dbc dbctx.Context, user *types.User, raw []byte) error
	DeleteUserAvatar(dbc dbctx.Context, user *types.User) error
	GenerateUserAvatar(user *types.User) (bytes.Buffer, error)
}

type avatarService struct {
	log           *logger.Logger
	userRepo      repos.UserRepo
	bucketService gcp.BucketService
	fontFace      font.Face
	now           func() time.Time
}

func NewAvatarService(log *logger.Logger, userRepo repos.UserRepo, bucketService gcp.BucketService) (AvatarService, error) {
	face, err := loadFontFace(goregular.TTF, 206)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}
	return &avatarService{
		log:           log.With("service", "AvatarService"),
		userRepo:      userRepo,
		bucketService: bucketService,
		fontFace:      face,
		now:           time.Now,
	}, nil
}

func (as *avatarService) CreateAndUploadUserAvatar(dbc dbctx.Context, user *types.User) error {
	buf, err := as.GenerateUserAvatar(user)
	if err != nil {
		return err
	}
	return as.store(dbc, user, buf.Bytes())
}

func (as *avatarService) CreateAndUploadUserAvatarFromImage(dbc dbctx.Context, user *types.User, raw []byte) error {
	processed, err := processUploadedAvatar(raw, avatarSize)
	if err != nil {
		return err
	}
	return as.store(dbc, user, processed.Bytes())
}

// store uploads png under a fresh key, points the user at it and then drops the previous object.
func (as *avatarService) store(dbc dbctx.Context, user *types.User, png []byte) error {
	if user == nil || user.ID == 0 {
		return fmt.Errorf("user required")
	}
	oldKey := strings.TrimSpace(user.AvatarBucketKey)
	newKey := fmt.Sprintf("user_avatar/%d/%d.png", user.ID, as.now().UnixNano())

	if err := as.bucketService.UploadFile(dbc, gcp.BucketCategoryAvatar, newKey, bytes.NewReader(png)); err != nil {
		return fmt.Errorf("failed to upload user avatar: %w", err)
	}
	url := as.bucketService.GetPublicURL(gcp.BucketCategoryAvatar, newKey)
	if err := as.userRepo.UpdateAvatarFields(dbc, user.ID, newKey, url); err != nil {
		return fmt.Errorf("failed to save avatar fields: %w", err)
	}
	user.AvatarBucketKey = newKey
	user.AvatarURL = url

	if oldKey != "" && oldKey != newKey {
		if err := as.bucketService.DeleteFile(dbctx.Context{Ctx: dbc.Ctx}, gcp.BucketCategoryAvatar, oldKey); err != nil {
			as.log.Warn("failed to delete old avatar (ignored)", "oldKey", oldKey, "error", err)
		}
	}
	return nil
}

func (as *avatarService) DeleteUserAvatar(dbc dbctx.Context, user *types.User) error {
	if user == nil || user.ID == 0 {
		return fmt.Errorf("user required")
	}
	oldKey := strings.TrimSpace(user.AvatarBucketKey)
	if err := as.userRepo.UpdateAvatarFields(dbc, user.ID, "", ""); err != nil {
		return fmt.Errorf("failed to clear avatar fields: %w", err)
	}
	user.AvatarBucketKey = ""
	user.AvatarURL = ""
	if oldKey != "" {
		if err := as.bucketService.DeleteFile(dbctx.Context{Ctx: dbc.Ctx}, gcp.BucketCategoryAvatar, oldKey); err != nil {
			as.log.Warn("failed to delete avatar object (ignored)", "oldKey", oldKey, "error", err)
		}
	}
	return nil
}

func (as *avatarService) GenerateUserAvatar(user *types.User) (bytes.Buffer, error) {
	dc := gg.NewContext(avatarSize, avatarSize)

	dc.DrawCircle(float64(avatarSize)/2, float64(avatarSize)/2, float64(avatarSize)/2)
	dc.Clip()

	dc.SetColor(paletteColor(user.ID))
	dc.DrawRectangle(0, 0, float64(avatarSize), float64(avatarSize))
	dc.Fill()

	initials := computeInitials(user.FirstName, user.LastName)
	dc.SetFontFace(as.fontFace)
	tw, th := dc.MeasureString(initials)
	cx, cy := float64(avatarSize)/2, float64(avatarSize)/2

	dc.SetColor(color.White)
	dc.DrawString(initials, cx-(tw/2), cy+(th/2)-10)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

// processUploadedAvatar center-crops raw to a square, scales it to size and clips it to a circle.
func processUploadedAvatar(raw []byte, size int) (bytes.Buffer, error) {
	var out bytes.Buffer

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return out, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	side := w
	if h < w {
		side = h
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2

	cropRect := image.Rect(0, 0, side, side)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()
	dc.DrawImage(dst, 0, 0)

	if err := dc.EncodePNG(&out); err != nil {
		return out, fmt.Errorf("encode png: %w", err)
	}
	return out, nil
}

func paletteColor(userID uint) color.NRGBA {
	return avatarPalette[int(userID)%len(avatarPalette)]
}

func computeInitials(first, last string) string {
	return initial(first) + initial(last)
}

func initial(s string) string {
	for _, r := range strings.TrimSpace(s) {
		return string(unicode.ToUpper(r))
	}
	return "?"
}

func loadFontFace(ttf []byte, size float64) (font.Face, error) {
	parsedFont, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
