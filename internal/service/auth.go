package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MitchellAV/mern-logging-app/internal/models"
	"github.com/MitchellAV/mern-logging-app/internal/repository"
	"github.com/MitchellAV/mern-logging-app/internal/validation"
)

// UserRepository defines the persistence operations required by the
// authentication service.
type UserRepository interface {
	// FindByEmail returns the user with the given email, or
	// repository.ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByUsername returns the user with the given username, or
	// repository.ErrNotFound.
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// Create inserts a new user record. A unique-index rejection is
	// returned as repository.ErrDuplicate.
	Create(ctx context.Context, username, email string, passwordHash []byte) (*models.User, error)
}

// Hasher is the one-way password hashing collaborator.
type Hasher interface {
	Hash(password string) ([]byte, error)
	Verify(hash []byte, password string) bool
}

// TokenIssuer signs a claims payload into a bearer token.
type TokenIssuer interface {
	Issue(userID, username string) (string, error)
}

// AuthService orchestrates the signup and login flows:
// validate, look up, hash or compare, issue token.
type AuthService struct {
	repo   UserRepository
	hasher Hasher
	tokens TokenIssuer
}

// NewAuthService constructs the service from its collaborators.
func NewAuthService(repo UserRepository, hasher Hasher, tokens TokenIssuer) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens}
}

// Session is the outcome of a successful signup or login.
type Session struct {
	// User is the authenticated (or freshly created) user.
	User *models.User
	// Token is the signed bearer token. It travels only in the session
	// cookie, never in a response body.
	Token string
}

// SignUp registers a new user and issues a session token.
//
// The duplicate check runs before any hash computation so a taken email is
// rejected cheaply. The store's unique indexes remain the real arbiter: if a
// concurrent signup wins the race between check and insert, the insert's
// uniqueness rejection is reported as ErrDuplicateUser, not as a generic
// failure.
func (s *AuthService) SignUp(ctx context.Context, in validation.SignupInput) (*Session, error) {
	in, violations := validation.Signup(in)
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	_, err := s.repo.FindByEmail(ctx, in.Email)
	if err == nil {
		return nil, ErrDuplicateUser
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, in.Username, in.Email, hash)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrDuplicateUser
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &Session{User: user, Token: token}, nil
}

// LoginWithProfile establishes a session for an identity asserted by an
// external provider. A first login provisions a local user from the profile
// email; no password check is involved.
func (s *AuthService) LoginWithProfile(ctx context.Context, email string) (*Session, error) {
	email = strings.ToLower(email)

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		user, err = s.provisionUser(ctx, email)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve provider user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{User: user, Token: token}, nil
}

// provisionUser creates a user for a provider-asserted email. The username
// defaults to the address's local part, disambiguated once if taken. The
// password is a random value the user never sees, hashed like any other, so
// credential login stays impossible until a password is set through some
// other channel.
func (s *AuthService) provisionUser(ctx context.Context, email string) (*models.User, error) {
	hash, err := s.hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("hash placeholder password: %w", err)
	}

	username := strings.SplitN(email, "@", 2)[0]
	user, err := s.repo.Create(ctx, username, email, hash)
	if errors.Is(err, repository.ErrDuplicate) {
		// The email was free a moment ago, so the clash is most likely
		// the username; retry once with a suffix.
		user, err = s.repo.Create(ctx, username+"-"+uuid.NewString()[:8], email, hash)
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrDuplicateUser
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a session token. A missing user and a
// wrong password are reported distinctly (ErrUserNotFound vs
// ErrInvalidCredentials), matching the external contract.
func (s *AuthService) Login(ctx context.Context, in validation.LoginInput) (*Session, error) {
	in, violations := validation.Login(in)
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	user, err := s.repo.FindByUsername(ctx, in.Username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &Session{User: user, Token: token}, nil
}
