package follows

import (
	"context"
	"testing"

	"github.com/gearboxapp/gearbox-backend/internal/users"
	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	pkgerrors "github.com/gearboxapp/gearbox-backend/pkg/errors"
	"github.com/gearboxapp/gearbox-backend/pkg/pagination"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupFollowService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Follow{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(conn),
		UserRepo: users.NewRepository(conn),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func seedUser(t *testing.T, conn *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Subject:  "sub-" + username,
		Username: username,
		Email:    username + "@example.com",
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func wantCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestFollowAndUnfollow(t *testing.T) {
	ctx := context.Background()
	svc, conn := setupFollowService(t)
	alice := seedUser(t, conn, "alice")
	bob := seedUser(t, conn, "bob")

	follow, err := svc.Follow(ctx, alice, bob.ID)
	if err != nil {
		t.Fatalf("follow: %v", err)
	}
	if follow.FollowerID != alice.ID || follow.FollowingID != bob.ID {
		t.Fatalf("unexpected follow %+v", follow)
	}

	count, err := svc.FollowerCount(ctx, bob.ID)
	if err != nil || count != 1 {
		t.Fatalf("expected one follower, got %d (%v)", count, err)
	}

	if err := svc.Unfollow(ctx, alice, bob.ID); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	count, err = svc.FollowerCount(ctx, bob.ID)
	if err != nil || count != 0 {
		t.Fatalf("expected zero followers, got %d (%v)", count, err)
	}
}

func TestSelfFollowIsInvalid(t *testing.T) {
	ctx := context.Background()
	svc, conn := setupFollowService(t)
	alice := seedUser(t, conn, "alice")

	_, err := svc.Follow(ctx, alice, alice.ID)
	wantCode(t, err, pkgerrors.CodeValidation)

	// also rejected when the id does not exist: self-reference is checked
	// before anything touches the database
	ghost := &models.User{ID: 999, Username: "ghost"}
	_, err = svc.Follow(ctx, ghost, ghost.ID)
	wantCode(t, err, pkgerrors.CodeValidation)
}

func TestDoubleFollowConflicts(t *testing.T) {
	ctx := context.Background()
	svc, conn := setupFollowService(t)
	alice := seedUser(t, conn, "alice")
	bob := seedUser(t, conn, "bob")

	if _, err := svc.Follow(ctx, alice, bob.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	_, err := svc.Follow(ctx, alice, bob.ID)
	wantCode(t, err, pkgerrors.CodeConflict)

	count, err := svc.FollowerCount(ctx, bob.ID)
	if err != nil || count != 1 {
		t.Fatalf("expected exactly one follower, got %d (%v)", count, err)
	}
}

func TestFollowMissingUserIs404(t *testing.T) {
	ctx := context.Background()
	svc, conn := setupFollowService(t)
	alice := seedUser(t, conn, "alice")

	_, err := svc.Follow(ctx, alice, 999)
	wantCode(t, err, pkgerrors.CodeNotFound)

	err = svc.Unfollow(ctx, alice, 999)
	wantCode(t, err, pkgerrors.CodeNotFound)
}

func TestUnfollowWithoutFollowIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, conn := setupFollowService(t)
	alice := seedUser(t, conn, "alice")
	bob := seedUser(t, conn, "bob")

	err := svc.Unfollow(ctx, alice, bob.ID)
	wantCode(t, err, pkgerrors.CodeNotFound)
}

func TestFollowersListIsScopedToTarget(t *testing.T) {
	ctx := context.Background()
	svc, conn := setupFollowService(t)
	alice := seedUser(t, conn, "alice")
	bob := seedUser(t, conn, "bob")
	carol := seedUser(t, conn, "carol")

	if _, err := svc.Follow(ctx, alice, carol.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if _, err := svc.Follow(ctx, bob, carol.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if _, err := svc.Follow(ctx, carol, alice.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}

	rows, err := svc.Followers(ctx, carol.ID, pagination.Params{})
	if err != nil {
		t.Fatalf("followers: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 followers, got %d", len(rows))
	}
	for _, row := range rows {
		if row.FollowingID != carol.ID {
			t.Fatalf("unexpected row %+v", row)
		}
	}

	_, err = svc.Followers(ctx, 999, pagination.Params{})
	wantCode(t, err, pkgerrors.CodeNotFound)
}

func TestFollowingListIsScopedToFollower(t *testing.T) {
	ctx := context.Background()
	svc, conn := setupFollowService(t)
	alice := seedUser(t, conn, "alice")
	bob := seedUser(t, conn, "bob")
	carol := seedUser(t, conn, "carol")

	if _, err := svc.Follow(ctx, alice, bob.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if _, err := svc.Follow(ctx, alice, carol.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if _, err := svc.Follow(ctx, bob, carol.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}

	rows, err := svc.Following(ctx, alice.ID, pagination.Params{})
	if err != nil {
		t.Fatalf("following: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 followed users, got %d", len(rows))
	}
	for _, row := range rows {
		if row.FollowerID != alice.ID {
			t.Fatalf("unexpected row %+v", row)
		}
	}

	count, err := svc.FollowingCount(ctx, alice.ID)
	if err != nil || count != 2 {
		t.Fatalf("expected following count 2, got %d (%v)", count, err)
	}
	count, err = svc.FollowingCount(ctx, carol.ID)
	if err != nil || count != 0 {
		t.Fatalf("expected following count 0, got %d (%v)", count, err)
	}
}
