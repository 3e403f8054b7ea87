package gcp

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

func TestLocalBucketRoundTrip(t *testing.T) {
	bs, err := NewLocalBucketService(logger.Nop(), t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewLocalBucketService: %v", err)
	}
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	if err := bs.UploadFile(dbc, BucketCategoryRecipeImage, "recipes/7/cover.png", strings.NewReader("png-bytes")); err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	rc, err := bs.DownloadFile(ctx, BucketCategoryRecipeImage, "recipes/7/cover.png")
	if err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(b) != "png-bytes" {
		t.Fatalf("DownloadFile: got=%q", string(b))
	}

	keys, err := bs.ListKeys(ctx, BucketCategoryRecipeImage, "recipes/7/")
	if err != nil {
		t.Fatalf("ListKeys: %v", err)
	}
	if len(keys) != 1 || keys[0] != "recipes/7/cover.png" {
		t.Fatalf("ListKeys: got=%v", keys)
	}

	if err := bs.DeleteFile(dbc, BucketCategoryRecipeImage, "recipes/7/cover.png"); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if _, err := bs.DownloadFile(ctx, BucketCategoryRecipeImage, "recipes/7/cover.png"); err == nil {
		t.Fatalf("DownloadFile after delete: expected error")
	}
}

func TestLocalBucketRejectsEscapingKeys(t *testing.T) {
	root := t.TempDir()
	bs, err := NewLocalBucketService(logger.Nop(), root, "")
	if err != nil {
		t.Fatalf("NewLocalBucketService: %v", err)
	}
	lb := bs.(*localBucketService)
	p, err := lb.path(BucketCategoryAvatar, "../../etc/passwd")
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if !strings.HasPrefix(p, root) {
		t.Fatalf("path escaped root: %s", p)
	}
	if _, err := lb.path(BucketCategory("other"), "a.png"); err == nil {
		t.Fatalf("unknown category: expected error")
	}
}

func TestLocalBucketPublicURL(t *testing.T) {
	bs, err := NewLocalBucketService(logger.Nop(), t.TempDir(), "http://localhost:8080/")
	if err != nil {
		t.Fatalf("NewLocalBucketService: %v", err)
	}
	got := bs.GetPublicURL(BucketCategoryAvatar, "/user_avatar/3/1.png")
	want := "http://localhost:8080/media/avatar/user_avatar/3/1.png"
	if got != want {
		t.Fatalf("GetPublicURL: want=%q got=%q", want, got)
	}
	if root, ok := LocalRoot(bs); !ok || root == "" {
		t.Fatalf("LocalRoot: want local root")
	}
}
