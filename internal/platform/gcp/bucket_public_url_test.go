package gcp

import "testing"

func TestResolveObjectStoragePublicBaseURLGCSDefault(t *testing.T) {
	t.Setenv("OBJECT_STORAGE_PUBLIC_BASE_URL", "")

	baseURL, source, err := resolveObjectStoragePublicBaseURL(ObjectStorageConfig{
		Mode: ObjectStorageModeGCS,
	})
	if err != nil {
		t.Fatalf("resolveObjectStoragePublicBaseURL: %v", err)
	}
	if baseURL != "" {
		t.Fatalf("baseURL: want empty got=%q", baseURL)
	}
	if source != "gcs_default" {
		t.Fatalf("source: want=%q got=%q", "gcs_default", source)
	}
}

func TestResolveObjectStoragePublicBaseURLEmulatorFallback(t *testing.T) {
	t.Setenv("OBJECT_STORAGE_PUBLIC_BASE_URL", "")

	baseURL, source, err := resolveObjectStoragePublicBaseURL(ObjectStorageConfig{
		Mode:         ObjectStorageModeGCSEmulator,
		EmulatorHost: "http://fake-gcs:4443",
	})
	if err != nil {
		t.Fatalf("resolveObjectStoragePublicBaseURL: %v", err)
	}
	if baseURL != "http://fake-gcs:4443" {
		t.Fatalf("baseURL: want=%q got=%q", "http://fake-gcs:4443", baseURL)
	}
	if source != "storage_emulator_host" {
		t.Fatalf("source: want=%q got=%q", "storage_emulator_host", source)
	}
}

func TestResolveObjectStoragePublicBaseURLEnvOverride(t *testing.T) {
	t.Setenv("OBJECT_STORAGE_PUBLIC_BASE_URL", "http://localhost:4443/")

	baseURL, source, err := resolveObjectStoragePublicBaseURL(ObjectStorageConfig{
		Mode:         ObjectStorageModeGCSEmulator,
		EmulatorHost: "http://fake-gcs:4443",
	})
	if err != nil {
		t.Fatalf("resolveObjectStoragePublicBaseURL: %v", err)
	}
	if baseURL != "http://localhost:4443" {
		t.Fatalf("baseURL: want=%q got=%q", "http://localhost:4443", baseURL)
	}
	if source != "object_storage_public_base_url" {
		t.Fatalf("source: want=%q got=%q", "object_storage_public_base_url", source)
	}
}

func TestResolveObjectStoragePublicBaseURLInvalidEnv(t *testing.T) {
	t.Setenv("OBJECT_STORAGE_PUBLIC_BASE_URL", "localhost:4443")

	_, _, err := resolveObjectStoragePublicBaseURL(ObjectStorageConfig{
		Mode:         ObjectStorageModeGCSEmulator,
		EmulatorHost: "http://fake-gcs:4443",
	})
	if err == nil {
		t.Fatalf("resolveObjectStoragePublicBaseURL: expected error, got nil")
	}
}

func TestGetPublicURLGCSDefault(t *testing.T) {
	bs := &bucketService{
		avatarBucket: bucketConfig{name: "avatar-bucket"},
	}

	got := bs.GetPublicURL(BucketCategoryAvatar, "avatars/user.png")
	want := "https://storage.googleapis.com/avatar-bucket/avatars/user.png"
	if got != want {
		t.Fatalf("GetPublicURL: want=%q got=%q", want, got)
	}
}

func TestGetPublicURLUsesCDNDomain(t *testing.T) {
	bs := &bucketService{
		recipeBucket: bucketConfig{
			name:      "recipe-bucket",
			cdnDomain: "cdn.example.com",
		},
	}

	got := bs.GetPublicURL(BucketCategoryRecipeImage, "recipes/file.png")
	want := "https://cdn.example.com/recipes/file.png"
	if got != want {
		t.Fatalf("GetPublicURL: want=%q got=%q", want, got)
	}
}

func TestGetPublicURLUsesPublicBaseURL(t *testing.T) {
	bs := &bucketService{
		publicBaseURL: "http://localhost:4443",
		recipeBucket: bucketConfig{
			name: "recipe-bucket",
		},
	}

	got := bs.GetPublicURL(BucketCategoryRecipeImage, "/recipes/file.png")
	want := "http://localhost:4443/recipe-bucket/recipes/file.png"
	if got != want {
		t.Fatalf("GetPublicURL: want=%q got=%q", want, got)
	}
}

func TestGetPublicURLUsesEmulatorMediaEndpoint(t *testing.T) {
	bs := &bucketService{
		storageMode:   ObjectStorageModeGCSEmulator,
		publicBaseURL: "http://localhost:4443",
		avatarBucket: bucketConfig{
			name: "avatar-bucket",
		},
	}

	got := bs.GetPublicURL(BucketCategoryAvatar, "user_avatar/abc/123.png")
	want := "http://localhost:4443/storage/v1/b/avatar-bucket/o/user_avatar%2Fabc%2F123.png?alt=media"
	if got != want {
		t.Fatalf("GetPublicURL: want=%q got=%q", want, got)
	}
}

func TestGetPublicURLUsesEmulatorHostWhenPublicBaseMissing(t *testing.T) {
	bs := &bucketService{
		storageMode:  ObjectStorageModeGCSEmulator,
		emulatorHost: "http://fake-gcs:4443",
		avatarBucket: bucketConfig{
			name: "avatar-bucket",
		},
	}

	got := bs.GetPublicURL(BucketCategoryAvatar, "/user_avatar/abc/123.png")
	want := "http://fake-gcs:4443/storage/v1/b/avatar-bucket/o/user_avatar%2Fabc%2F123.png?alt=media"
	if got != want {
		t.Fatalf("GetPublicURL: want=%q got=%q", want, got)
	}
}

func TestContentTypeForKey(t *testing.T) {
	cases := map[string]string{
		"recipes/1/cover.PNG":   "image/png",
		"recipes/1/cover.jpeg":  "image/jpeg",
		"user_avatar/2/a.webp":  "image/webp",
		"recipes/1/anim.gif":    "image/gif",
		"exports/list.txt?x=1":  "text/plain",
		"recipes/1/unknown.bin": "",
		"":                      "",
	}
	for key, want := range cases {
		if got := contentTypeForKey(key); got != want {
			t.Fatalf("contentTypeForKey(%q): want=%q got=%q", key, want, got)
		}
	}
}
