package services

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetMeAndList(t *testing.T) {
	env := newTestEnv(t)
	first := env.register(t)
	for i := 0; i < 2; i++ {
		env.register(t)
	}

	_, err := env.users.GetMe(context.Background())
	wantStatus(t, err, http.StatusUnauthorized)

	me, err := env.users.GetMe(authed(first))
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if me.ID != first.ID || me.Email != first.Email || me.IsSubscribed {
		t.Fatalf("unexpected me: %+v", me)
	}

	page, err := env.users.List(context.Background(), PageRequest{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Count != 3 || len(page.Results) != 2 || !page.HasNext() {
		t.Fatalf("page one: count=%d results=%d next=%v", page.Count, len(page.Results), page.HasNext())
	}
	if page.Results[0].ID != first.ID {
		t.Fatalf("expected id ordering, got %d first", page.Results[0].ID)
	}
	page, err = env.users.List(context.Background(), PageRequest{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(page.Results) != 1 || page.HasNext() {
		t.Fatalf("page two: results=%d next=%v", len(page.Results), page.HasNext())
	}

	_, err = env.users.GetByID(context.Background(), first.ID+100)
	wantStatus(t, err, http.StatusNotFound)
}

func TestSetAndDeleteAvatar(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t)
	initial := u.AvatarURL

	_, err := env.users.SetAvatar(authed(u), "")
	wantBadRequest(t, err)
	_, err = env.users.SetAvatar(authed(u), "data:text/plain;base64,aGVsbG8=")
	wantBadRequest(t, err)
	_, err = env.users.SetAvatar(context.Background(), pngDataURI(t))
	wantStatus(t, err, http.StatusUnauthorized)

	url, err := env.users.SetAvatar(authed(u), pngDataURI(t))
	if err != nil {
		t.Fatalf("SetAvatar: %v", err)
	}
	if url == initial || !strings.HasPrefix(url, "http://media.test/media/avatar/user_avatar/") {
		t.Fatalf("unexpected avatar url %q", url)
	}
	key := strings.TrimPrefix(url, "http://media.test/media/avatar/")
	if _, err := os.Stat(filepath.Join(env.mediaRoot, "avatar", filepath.FromSlash(key))); err != nil {
		t.Fatalf("avatar object missing: %v", err)
	}

	if err := env.users.DeleteAvatar(authed(u)); err != nil {
		t.Fatalf("DeleteAvatar: %v", err)
	}
	me, err := env.users.GetMe(authed(u))
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if me.Avatar != "" {
		t.Fatalf("avatar should be cleared, got %q", me.Avatar)
	}
}
