package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"melodex/internal/domain"
	"melodex/internal/repository"
)

// ProviderClaims are the identity attributes extracted from an OAuth
// provider after token verification.
type ProviderClaims struct {
	SubjectID   string
	Email       string
	DisplayName string
}

// OAuthService reconciles provider identities with local accounts.
type OAuthService interface {
	Resolve(ctx context.Context, claims ProviderClaims) (*domain.User, error)
}

type oauthService struct {
	users repository.UserRepository
}

func NewOAuthService(users repository.UserRepository) OAuthService {
	return &oauthService{users: users}
}

// Resolve returns the local account for a provider subject, linking or
// creating one as needed. Repeated logins with the same subject are
// idempotent: the subject lookup short-circuits before any account is
// created.
func (s *oauthService) Resolve(ctx context.Context, claims ProviderClaims) (*domain.User, error) {
	subject := strings.TrimSpace(claims.SubjectID)
	email := strings.TrimSpace(claims.Email)
	if subject == "" {
		return nil, domain.Validationf("oauth subject id is required")
	}
	if email == "" {
		return nil, domain.Validationf("oauth email is required")
	}

	if user, err := s.users.GetByOAuthSubject(ctx, subject); err == nil {
		return sanitizeUser(user), nil
	} else if !domain.IsKind(err, domain.KindNotFound) {
		return nil, err
	}

	// a prior local account with the same email gets the subject linked
	if user, err := s.users.GetByEmail(ctx, email); err == nil {
		if user.OAuthSubject == "" {
			user.OAuthSubject = subject
			if err := s.users.Update(ctx, user); err != nil {
				return nil, err
			}
		}
		return sanitizeUser(user), nil
	} else if !domain.IsKind(err, domain.KindNotFound) {
		return nil, err
	}

	username, err := s.availableUsername(ctx, baseUsername(claims.DisplayName, email))
	if err != nil {
		return nil, err
	}

	// the placeholder hash makes the row satisfy the password column
	// without ever matching a password login
	placeholder, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash placeholder password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(placeholder),
		OAuthSubject: subject,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		// a racing login with the same subject may have won; fetch theirs
		if domain.IsKind(err, domain.KindConflict) {
			if existing, lookupErr := s.users.GetByOAuthSubject(ctx, subject); lookupErr == nil {
				return sanitizeUser(existing), nil
			}
			return nil, err
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

// availableUsername returns base, or base with the first free _1, _2, …
// suffix appended.
func (s *oauthService) availableUsername(ctx context.Context, base string) (string, error) {
	taken, err := s.users.ExistsUsername(ctx, base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", base, i)
		taken, err := s.users.ExistsUsername(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}

// baseUsername derives a username from the provider display name, falling
// back to the email local-part, normalized to the allowed charset.
func baseUsername(displayName, email string) string {
	base := normalizeUsername(displayName)
	if base == "" {
		local, _, _ := strings.Cut(email, "@")
		base = normalizeUsername(local)
	}
	if base == "" {
		base = "listener"
	}
	if len(base) > 30 {
		base = base[:30]
	}
	for len(base) < 3 {
		base += "_"
	}
	return base
}

func normalizeUsername(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '.':
			b.WriteRune('_')
		}
	}
	return b.String()
}
