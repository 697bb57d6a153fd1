package guard

import (
	"testing"

	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	"github.com/gearboxapp/gearbox-backend/pkg/errors"
)

var (
	owner    = &models.User{ID: 1}
	stranger = &models.User{ID: 2}
	admin    = &models.User{ID: 3, IsAdmin: true}
)

func wantCode(t *testing.T, err error, code errors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	typed := errors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s (%v)", code, typed.Code(), err)
	}
}

func TestAuthorizeMatrix(t *testing.T) {
	tests := []struct {
		name     string
		actor    *models.User
		res      Resource
		action   Action
		wantCode errors.Code // empty means allow
	}{
		{name: "anonymous reads post", actor: nil, res: Resource{Kind: KindPost, OwnerID: 1}, action: ActionRead},
		{name: "anonymous cannot write post", actor: nil, res: Resource{Kind: KindPost, OwnerID: 1}, action: ActionWrite, wantCode: errors.CodeUnauthorized},
		{name: "owner edits post", actor: owner, res: Resource{Kind: KindPost, OwnerID: 1}, action: ActionWrite},
		{name: "stranger cannot edit post", actor: stranger, res: Resource{Kind: KindPost, OwnerID: 1}, action: ActionWrite, wantCode: errors.CodeForbidden},
		{name: "admin gets no post bypass", actor: admin, res: Resource{Kind: KindPost, OwnerID: 1}, action: ActionDelete, wantCode: errors.CodeForbidden},

		{name: "comments are create-once", actor: owner, res: Resource{Kind: KindComment, OwnerID: 1}, action: ActionWrite, wantCode: errors.CodeForbidden},
		{name: "author deletes comment", actor: owner, res: Resource{Kind: KindComment, OwnerID: 1}, action: ActionDelete},
		{name: "stranger cannot delete comment", actor: stranger, res: Resource{Kind: KindComment, OwnerID: 1}, action: ActionDelete, wantCode: errors.CodeForbidden},

		{name: "like has no write action", actor: owner, res: Resource{Kind: KindLike, OwnerID: 1}, action: ActionWrite, wantCode: errors.CodeForbidden},
		{name: "subject removes own like", actor: owner, res: Resource{Kind: KindLike, OwnerID: 1}, action: ActionDelete},
		{name: "stranger cannot remove like", actor: stranger, res: Resource{Kind: KindLike, OwnerID: 1}, action: ActionDelete, wantCode: errors.CodeForbidden},

		{name: "follower creates own follow", actor: owner, res: Resource{Kind: KindFollow, OwnerID: 1}, action: ActionWrite},
		{name: "follower removes own follow", actor: owner, res: Resource{Kind: KindFollow, OwnerID: 1}, action: ActionDelete},
		{name: "stranger cannot remove follow", actor: stranger, res: Resource{Kind: KindFollow, OwnerID: 1}, action: ActionDelete, wantCode: errors.CodeForbidden},

		{name: "owner modifies build", actor: owner, res: Resource{Kind: KindBuild, OwnerID: 1}, action: ActionWrite},
		{name: "non-owner cannot modify build", actor: stranger, res: Resource{Kind: KindBuild, OwnerID: 1}, action: ActionWrite, wantCode: errors.CodeForbidden},
		{name: "non-owner cannot delete build", actor: stranger, res: Resource{Kind: KindBuild, OwnerID: 1}, action: ActionDelete, wantCode: errors.CodeForbidden},
		{name: "admin gets no build bypass", actor: admin, res: Resource{Kind: KindBuild, OwnerID: 1}, action: ActionDelete, wantCode: errors.CodeForbidden},

		{name: "submitter edits unverified part", actor: owner, res: Resource{Kind: KindPart, OwnerID: 1}, action: ActionWrite},
		{name: "submitter deletes unverified part", actor: owner, res: Resource{Kind: KindPart, OwnerID: 1}, action: ActionDelete},
		{name: "submitter cannot delete verified part", actor: owner, res: Resource{Kind: KindPart, OwnerID: 1, PartVerified: true}, action: ActionDelete, wantCode: errors.CodeForbidden},
		{name: "stranger cannot delete part", actor: stranger, res: Resource{Kind: KindPart, OwnerID: 1}, action: ActionDelete, wantCode: errors.CodeForbidden},

		{name: "self edits profile", actor: owner, res: Resource{Kind: KindUser, OwnerID: 1}, action: ActionWrite},
		{name: "admin edits any profile", actor: admin, res: Resource{Kind: KindUser, OwnerID: 1}, action: ActionWrite},
		{name: "admin deletes any user", actor: admin, res: Resource{Kind: KindUser, OwnerID: 1}, action: ActionDelete},
		{name: "stranger cannot delete user", actor: stranger, res: Resource{Kind: KindUser, OwnerID: 1}, action: ActionDelete, wantCode: errors.CodeForbidden},

		{name: "unknown kind denied", actor: admin, res: Resource{Kind: Kind("widget"), OwnerID: 3}, action: ActionRead, wantCode: errors.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.actor, tt.res, tt.action)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("expected allow, got %v", err)
				}
				return
			}
			wantCode(t, err, tt.wantCode)
		})
	}
}
