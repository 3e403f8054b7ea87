package gcp

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

// LocalMediaRoute is where the HTTP server exposes a local media directory.
const LocalMediaRoute = "/media"

// localBucketService stores objects under <root>/<category>/<key>. It backs development
// setups and tests where no GCS project is available.
type localBucketService struct {
	log           *logger.Logger
	root          string
	publicBaseURL string
}

func NewLocalBucketService(log *logger.Logger, root, publicBaseURL string) (BucketService, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, &ObjectStorageConfigError{Code: ObjectStorageConfigErrorMissingLocalDir, Mode: string(ObjectStorageModeLocal)}
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create local media dir: %w", err)
	}
	serviceLog := log.With("service", "LocalBucketService")
	serviceLog.Info("Object storage initialized", "mode", ObjectStorageModeLocal, "root", root)
	return &localBucketService{
		log:           serviceLog,
		root:          root,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// LocalRoot reports the media directory when bs stores on local disk.
func LocalRoot(bs BucketService) (string, bool) {
	l, ok := bs.(*localBucketService)
	if !ok {
		return "", false
	}
	return l.root, true
}

func (l *localBucketService) path(category BucketCategory, key string) (string, error) {
	switch category {
	case BucketCategoryAvatar, BucketCategoryRecipeImage:
	default:
		return "", fmt.Errorf("unknown bucket category: %s", category)
	}
	clean := filepath.Clean("/" + strings.TrimSpace(key))
	if clean == "/" {
		return "", fmt.Errorf("empty object key")
	}
	return filepath.Join(l.root, string(category), clean), nil
}

func (l *localBucketService) UploadFile(dbc dbctx.Context, category BucketCategory, key string, file io.Reader) error {
	p, err := l.path(category, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create object dir: %w", err)
	}
	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("create object file: %w", err)
	}
	if _, err := io.Copy(f, file); err != nil {
		_ = f.Close()
		return fmt.Errorf("write object file: %w", err)
	}
	return f.Close()
}

func (l *localBucketService) DeleteFile(dbc dbctx.Context, category BucketCategory, key string) error {
	p, err := l.path(category, key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		return fmt.Errorf("failed to delete local object %q: %w", key, err)
	}
	return nil
}

func (l *localBucketService) DownloadFile(ctx context.Context, category BucketCategory, key string) (io.ReadCloser, error) {
	p, err := l.path(category, key)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

func (l *localBucketService) ListKeys(ctx context.Context, category BucketCategory, prefix string) ([]string, error) {
	base, err := l.path(category, "_")
	if err != nil {
		return nil, err
	}
	base = filepath.Dir(base)
	out := []string{}
	err = filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			out = append(out, key)
		}
		return nil
	})
	return out, err
}

func (l *localBucketService) GetPublicURL(category BucketCategory, key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	return fmt.Sprintf("%s%s/%s/%s", l.publicBaseURL, LocalMediaRoute, category, key)
}
