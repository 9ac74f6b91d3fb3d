package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"melodex/internal/domain"
	"melodex/internal/repository"
)

// UserService describes account lifecycle operations.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id int64, params UpdateUserParams) (*domain.User, error)
	ChangePassword(ctx context.Context, id int64, currentPassword, newPassword string) error
	UpdateProfilePicture(ctx context.Context, id int64, pictureRef string) (*domain.User, error)
	Delete(ctx context.Context, id int64) (domain.DeleteStatus, error)
}

// UpdateUserParams carries the optional fields of a partial update. Nil
// means "leave unchanged".
type UpdateUserParams struct {
	Username *string
	Email    *string
	Password *string
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

// Register creates a password account. A blank password is rejected here;
// OAuth-only accounts are provisioned through OAuthService instead.
func (s *userService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.Conflictf("email already exists")
	} else if !domain.IsKind(err, domain.KindNotFound) {
		return nil, err
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, domain.Conflictf("username already exists")
	} else if !domain.IsKind(err, domain.KindNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		// the schema's unique constraints are the authoritative guard
		if domain.IsKind(err, domain.KindConflict) {
			return nil, domain.Conflictf("username or email already exists")
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

// Authenticate resolves email + password to a user. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// Update applies a partial update, re-validating only the supplied fields
// and allowing self-collision on username/email.
func (s *userService) Update(ctx context.Context, id int64, params UpdateUserParams) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Username != nil {
		username := strings.TrimSpace(*params.Username)
		if err := validateUsername(username); err != nil {
			return nil, err
		}
		if other, err := s.users.GetByUsername(ctx, username); err == nil && other.ID != id {
			return nil, domain.Conflictf("username already taken")
		} else if err != nil && !domain.IsKind(err, domain.KindNotFound) {
			return nil, err
		}
		user.Username = username
	}

	if params.Email != nil {
		email := strings.TrimSpace(*params.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		if other, err := s.users.GetByEmail(ctx, email); err == nil && other.ID != id {
			return nil, domain.Conflictf("email already taken")
		} else if err != nil && !domain.IsKind(err, domain.KindNotFound) {
			return nil, err
		}
		user.Email = email
	}

	if params.Password != nil {
		if err := validatePassword(*params.Password); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*params.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.users.Update(ctx, user); err != nil {
		if domain.IsKind(err, domain.KindConflict) {
			return nil, domain.Conflictf("username or email already taken")
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

// ChangePassword verifies the current password before setting a new one.
func (s *userService) ChangePassword(ctx context.Context, id int64, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.PasswordHash == "" {
		return domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return domain.ErrInvalidCredentials
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	return s.users.Update(ctx, user)
}

func (s *userService) UpdateProfilePicture(ctx context.Context, id int64, pictureRef string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.ProfilePicture = pictureRef
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

// Delete reports absence as a status tag rather than an error. Owned
// playlists, favorites, offline entries and the biometric record cascade
// in the schema; uploaded music is orphaned.
func (s *userService) Delete(ctx context.Context, id int64) (domain.DeleteStatus, error) {
	if err := s.users.Delete(ctx, id); err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return domain.DeleteNotFound, nil
		}
		return "", err
	}
	return domain.Deleted, nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clone := *user
	clone.PasswordHash = ""
	return &clone
}
