package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"devshare/internal/model"
	"devshare/internal/queue"
)

// =============================================================================
// PROVISIONING
// =============================================================================

func TestUserService_Provision_ExistingAccount(t *testing.T) {
	userRepo := &mockUserRepository{
		getByIdpSubjectFn: func(_ context.Context, subject string) (*model.User, error) {
			if subject == "auth0|abc" {
				return &model.User{ID: 1, IdpSubject: subject}, nil
			}
			return nil, model.ErrUserNotFound
		},
	}
	publisher := &mockPublisher{}

	svc := NewUserService(userRepo, publisher)
	user, err := svc.Provision(context.Background(), "auth0|abc")
	if err != nil {
		t.Fatalf("Provision returned error: %v", err)
	}
	if user.ID != 1 {
		t.Errorf("user ID = %d, want 1", user.ID)
	}
	if len(userRepo.createCalls) != 0 {
		t.Error("Create called for an existing account")
	}
	if len(publisher.published) != 0 {
		t.Error("event published for an existing account")
	}
}

func TestUserService_Provision_FirstLogin(t *testing.T) {
	userRepo := &mockUserRepository{
		createFn: func(_ context.Context, user *model.User) error {
			user.ID = 7
			return nil
		},
	}
	publisher := &mockPublisher{}

	svc := NewUserService(userRepo, publisher)
	user, err := svc.Provision(context.Background(), "auth0|new")
	if err != nil {
		t.Fatalf("Provision returned error: %v", err)
	}

	if user.ID != 7 {
		t.Errorf("user ID = %d, want 7", user.ID)
	}
	if user.Role != model.RoleUser {
		t.Errorf("role = %q, want %q", user.Role, model.RoleUser)
	}
	if user.Username != nil {
		t.Errorf("username = %v, want nil until the worker assigns one", *user.Username)
	}

	if len(publisher.published) != 1 {
		t.Fatalf("published %d events, want 1", len(publisher.published))
	}
	event := publisher.published[0]
	if event.Type != queue.EventUserProvisioned || event.UserID != 7 {
		t.Errorf("event = %+v, want user_provisioned for user 7", event)
	}
}

// Two concurrent first logins race on the unique subject; the loser of the
// insert falls back to reading the winner's row.
func TestUserService_Provision_CreateRace(t *testing.T) {
	lookups := 0
	userRepo := &mockUserRepository{
		getByIdpSubjectFn: func(_ context.Context, _ string) (*model.User, error) {
			lookups++
			if lookups == 1 {
				return nil, model.ErrUserNotFound
			}
			return &model.User{ID: 3}, nil
		},
		createFn: func(_ context.Context, _ *model.User) error {
			return errors.New("duplicate key value violates unique constraint")
		},
	}

	svc := NewUserService(userRepo, nil)
	user, err := svc.Provision(context.Background(), "auth0|race")
	if err != nil {
		t.Fatalf("Provision returned error: %v", err)
	}
	if user.ID != 3 {
		t.Errorf("user ID = %d, want the winner's row 3", user.ID)
	}
}

// =============================================================================
// USERNAMES
// =============================================================================

func TestUserService_AssignPlaceholderUsername(t *testing.T) {
	var assigned string
	userRepo := &mockUserRepository{
		assignUsernameIfEmptyFn: func(_ context.Context, _ int64, username string) (bool, error) {
			assigned = username
			return true, nil
		},
	}

	svc := NewUserService(userRepo, nil)
	if err := svc.AssignPlaceholderUsername(context.Background(), 1); err != nil {
		t.Fatalf("AssignPlaceholderUsername returned error: %v", err)
	}

	if !strings.HasPrefix(assigned, "dev-") || len(assigned) != len("dev-")+8 {
		t.Errorf("assigned username = %q, want dev- prefix and 8 hex chars", assigned)
	}
}

func TestUserService_AssignPlaceholderUsername_RetriesOnCollision(t *testing.T) {
	attempts := 0
	userRepo := &mockUserRepository{
		assignUsernameIfEmptyFn: func(_ context.Context, _ int64, _ string) (bool, error) {
			attempts++
			if attempts == 1 {
				return false, model.ErrUsernameExists
			}
			return true, nil
		},
	}

	svc := NewUserService(userRepo, nil)
	if err := svc.AssignPlaceholderUsername(context.Background(), 1); err != nil {
		t.Fatalf("AssignPlaceholderUsername returned error: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestUserService_UpdateProfile_UsernameClaim(t *testing.T) {
	tests := []struct {
		name     string
		username string
		taken    bool
		wantErr  error
	}{
		{"valid claim", "gopher_22", false, nil},
		{"taken username", "gopher_22", true, model.ErrUsernameExists},
		{"too short", "ab", false, ErrInvalidUsername},
		{"illegal characters", "no spaces!", false, ErrInvalidUsername},
		{"leading dash", "-gopher", false, ErrInvalidUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := &mockUserRepository{
				getByIDFn: func(_ context.Context, id int64) (*model.User, error) {
					return &model.User{ID: id}, nil
				},
				existsByUsernameFn: func(_ context.Context, _ string) (bool, error) {
					return tt.taken, nil
				},
			}

			svc := NewUserService(userRepo, nil)
			username := tt.username
			_, err := svc.UpdateProfile(context.Background(), 1, &model.UpdateProfileRequest{Username: &username})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("UpdateProfile error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// Usernames are normalized to lower case before validation and storage.
func TestUserService_UpdateProfile_NormalizesUsername(t *testing.T) {
	var stored *string
	userRepo := &mockUserRepository{
		getByIDFn: func(_ context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id}, nil
		},
		updateProfileFn: func(_ context.Context, id int64, username, displayName, bio *string) (*model.User, error) {
			stored = username
			return &model.User{ID: id, Username: username}, nil
		},
	}

	svc := NewUserService(userRepo, nil)
	username := "  Gopher_22 "
	if _, err := svc.UpdateProfile(context.Background(), 1, &model.UpdateProfileRequest{Username: &username}); err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if stored == nil || *stored != "gopher_22" {
		t.Errorf("stored username = %v, want gopher_22", stored)
	}
}

// =============================================================================
// ADMIN OPERATIONS
// =============================================================================

func TestUserService_SetRole(t *testing.T) {
	userRepo := &mockUserRepository{
		getByIDFn: func(_ context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id}, nil
		},
	}
	svc := NewUserService(userRepo, nil)

	if err := svc.SetRole(context.Background(), 1, model.RoleAdmin); err != nil {
		t.Errorf("SetRole(admin) returned error: %v", err)
	}
	if err := svc.SetRole(context.Background(), 1, "superuser"); !errors.Is(err, model.ErrInvalidRole) {
		t.Errorf("SetRole(superuser) error = %v, want ErrInvalidRole", err)
	}
}
