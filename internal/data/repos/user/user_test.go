package user

import (
	"context"
	"testing"

	"github.com/yungbote/foodgram-backend/internal/data/repos/testutil"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	created, err := repo.Create(dbc, []*types.User{
		{
			Email:     "userrepo@example.com",
			Username:  "userrepo",
			Password:  "pw",
			FirstName: "A",
			LastName:  "B",
		},
		{
			Email:     "second@example.com",
			Username:  "second",
			Password:  "pw",
			FirstName: "C",
			LastName:  "D",
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 2 || created[0].ID == 0 {
		t.Fatalf("Create: unexpected result: %+v", created)
	}

	gotByIDs, err := repo.GetByIDs(dbc, []uint{created[0].ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(gotByIDs) != 1 || gotByIDs[0].ID != created[0].ID {
		t.Fatalf("GetByIDs: unexpected result: %+v", gotByIDs)
	}

	gotByEmails, err := repo.GetByEmails(dbc, []string{created[0].Email})
	if err != nil {
		t.Fatalf("GetByEmails: %v", err)
	}
	if len(gotByEmails) != 1 || gotByEmails[0].Email != created[0].Email {
		t.Fatalf("GetByEmails: unexpected result: %+v", gotByEmails)
	}

	if exists, err := repo.EmailExists(dbc, created[0].Email); err != nil || !exists {
		t.Fatalf("EmailExists: exists=%v err=%v", exists, err)
	}
	if exists, err := repo.EmailExists(dbc, "does-not-exist@example.com"); err != nil || exists {
		t.Fatalf("EmailExists (missing): exists=%v err=%v", exists, err)
	}
	if exists, err := repo.UsernameExists(dbc, "second"); err != nil || !exists {
		t.Fatalf("UsernameExists: exists=%v err=%v", exists, err)
	}

	page, err := repo.List(dbc, 1, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page) != 1 || page[0].ID != created[1].ID {
		t.Fatalf("List: unexpected page: %+v", page)
	}
	if n, err := repo.Count(dbc); err != nil || n != 2 {
		t.Fatalf("Count: n=%d err=%v", n, err)
	}

	if err := repo.UpdatePassword(dbc, created[0].ID, "new-hash"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	if err := repo.UpdateAvatarFields(dbc, created[0].ID, "user_avatar/1/a.png", "http://cdn/a.png"); err != nil {
		t.Fatalf("UpdateAvatarFields: %v", err)
	}
	if err := repo.SetStaff(dbc, created[0].ID, true); err != nil {
		t.Fatalf("SetStaff: %v", err)
	}
	rows, _ := repo.GetByIDs(dbc, []uint{created[0].ID})
	if rows[0].Password != "new-hash" || rows[0].AvatarURL != "http://cdn/a.png" || !rows[0].IsStaff {
		t.Fatalf("updates not applied: %+v", rows[0])
	}
}
