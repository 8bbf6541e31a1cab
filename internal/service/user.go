package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"devshare/internal/model"
	"devshare/internal/queue"
	"devshare/internal/repository"
)

const (
	UserSearchDefaultLimit = 20

	// usernameAssignAttempts bounds the retry loop when a generated
	// placeholder collides with an existing username.
	usernameAssignAttempts = 3
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{2,29}$`)

var ErrInvalidUsername = errors.New("invalid username")

type UserService struct {
	userRepo  repository.UserRepository
	publisher queue.Publisher
}

func NewUserService(userRepo repository.UserRepository, publisher queue.Publisher) *UserService {
	return &UserService{userRepo: userRepo, publisher: publisher}
}

// Provision finds the account for an identity-provider subject, creating it
// on first sight. New accounts start without a username; a worker assigns a
// placeholder asynchronously.
func (s *UserService) Provision(ctx context.Context, idpSubject string) (*model.User, error) {
	user, err := s.userRepo.GetByIdpSubject(ctx, idpSubject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	user = &model.User{
		IdpSubject: idpSubject,
		Role:       model.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent first login may have won the race.
		existing, lookupErr := s.userRepo.GetByIdpSubject(ctx, idpSubject)
		if lookupErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to provision user: %w", err)
	}

	if s.publisher != nil {
		event := queue.NewUserProvisionedEvent(user.ID)
		if _, err := s.publisher.Publish(ctx, queue.StreamActivity, event); err != nil {
			log.Printf("[UserService] Failed to publish UserProvisioned event: user=%d err=%v", user.ID, err)
		}
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

// UpdateProfile applies partial updates to the caller's own profile. A
// username claim is validated and checked for uniqueness first.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.User, error) {
	if req.Username != nil {
		normalized := strings.ToLower(strings.TrimSpace(*req.Username))
		if !usernamePattern.MatchString(normalized) {
			return nil, ErrInvalidUsername
		}
		current, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if current.Username == nil || *current.Username != normalized {
			taken, err := s.userRepo.ExistsByUsername(ctx, normalized)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, model.ErrUsernameExists
			}
		}
		req.Username = &normalized
	}

	return s.userRepo.UpdateProfile(ctx, userID, req.Username, req.DisplayName, req.Bio)
}

// AssignPlaceholderUsername gives a freshly provisioned user a generated
// username of the form dev-xxxxxxxx. A no-op when the user already claimed
// one before the worker got to the event.
func (s *UserService) AssignPlaceholderUsername(ctx context.Context, userID int64) error {
	for attempt := 0; attempt < usernameAssignAttempts; attempt++ {
		candidate := "dev-" + uuid.NewString()[:8]
		// A false return means the user already claimed a username before
		// the worker got here, which is fine.
		if _, err := s.userRepo.AssignUsernameIfEmpty(ctx, userID, candidate); err != nil {
			if errors.Is(err, model.ErrUsernameExists) {
				continue
			}
			return err
		}
		return nil
	}
	return fmt.Errorf("failed to assign placeholder username for user %d", userID)
}

func (s *UserService) Search(ctx context.Context, query string, limit int) ([]model.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.UserSummary{}, nil
	}
	if limit <= 0 {
		limit = UserSearchDefaultLimit
	}
	users, err := s.userRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.UserSummary{}
	}
	return users, nil
}

// SetSuspended toggles account-level suspension. Admin only; enforced at the
// transport layer.
func (s *UserService) SetSuspended(ctx context.Context, userID int64, suspended bool) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.SetSuspended(ctx, userID, suspended)
}

func (s *UserService) SetRole(ctx context.Context, userID int64, role string) error {
	if role != model.RoleUser && role != model.RoleAdmin {
		return model.ErrInvalidRole
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.SetRole(ctx, userID, role)
}
