package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MitchellAV/mern-logging-app/internal/auth"
	"github.com/MitchellAV/mern-logging-app/internal/models"
	"github.com/MitchellAV/mern-logging-app/internal/repository"
	"github.com/MitchellAV/mern-logging-app/internal/validation"
)

// memoryUserRepo enforces unique-index semantics the way the database does,
// so the full signup/login chain can run without postgres.
type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User // keyed by email
	next  int
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*models.User)}
}

func (m *memoryUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[email]; ok {
		return user, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memoryUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryUserRepo) Create(ctx context.Context, username, email string, passwordHash []byte) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[email]; ok {
		return nil, repository.ErrDuplicate
	}
	for _, user := range m.users {
		if user.Username == username {
			return nil, repository.ErrDuplicate
		}
	}
	m.next++
	user := &models.User{
		ID:           fmt.Sprintf("user-%d", m.next),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	m.users[email] = user
	return user, nil
}

func newFlowService() (*AuthService, *memoryUserRepo, *auth.TokenIssuer) {
	repo := newMemoryUserRepo()
	issuer := auth.NewTokenIssuer([]byte("flow-secret"), time.Hour)
	svc := NewAuthService(repo, auth.NewPasswordHasher(bcrypt.MinCost), issuer)
	return svc, repo, issuer
}

func TestFlow_SignupThenLogin(t *testing.T) {
	svc, repo, issuer := newFlowService()
	ctx := context.Background()

	_, err := svc.SignUp(ctx, validation.SignupInput{
		Username: "alice",
		Email:    "ALICE@X.com",
		Password: "longenough1",
	})
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}

	stored, err := repo.FindByEmail(ctx, "alice@x.com")
	if err != nil {
		t.Fatalf("stored user not found under normalized email: %v", err)
	}
	if string(stored.PasswordHash) == "longenough1" {
		t.Fatal("plaintext password persisted")
	}

	session, err := svc.Login(ctx, validation.LoginInput{Username: "alice", Password: "longenough1"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	claims, err := issuer.Parse(session.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID != stored.ID {
		t.Errorf("token UserID = %q; want %q", claims.UserID, stored.ID)
	}
	if claims.Username != "alice" {
		t.Errorf("token Username = %q; want %q", claims.Username, "alice")
	}
}

func TestFlow_DuplicateEmail(t *testing.T) {
	svc, _, _ := newFlowService()
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, validation.SignupInput{Username: "alice", Email: "alice@x.com", Password: "longenough1"}); err != nil {
		t.Fatalf("first SignUp returned error: %v", err)
	}

	_, err := svc.SignUp(ctx, validation.SignupInput{Username: "other", Email: "alice@x.com", Password: "different1"})
	if !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser for reused email, got %v", err)
	}
}

func TestFlow_ConcurrentSignupsOneWinner(t *testing.T) {
	svc, repo, _ := newFlowService()
	ctx := context.Background()

	const attempts = 8
	results := make(chan error, attempts)
	var start sync.WaitGroup
	start.Add(1)
	for i := 0; i < attempts; i++ {
		go func() {
			start.Wait()
			_, err := svc.SignUp(ctx, validation.SignupInput{
				Username: "alice",
				Email:    "alice@x.com",
				Password: "longenough1",
			})
			results <- err
		}()
	}
	start.Done()

	var successes, duplicates int
	for i := 0; i < attempts; i++ {
		err := <-results
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrDuplicateUser):
			duplicates++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("successes = %d; want exactly 1", successes)
	}
	if duplicates != attempts-1 {
		t.Errorf("duplicates = %d; want %d", duplicates, attempts-1)
	}
	if len(repo.users) != 1 {
		t.Errorf("persisted users = %d; want 1", len(repo.users))
	}
}

func TestFlow_WrongPasswordNotAServerError(t *testing.T) {
	svc, _, _ := newFlowService()
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, validation.SignupInput{Username: "alice", Email: "alice@x.com", Password: "longenough1"}); err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}

	_, err := svc.Login(ctx, validation.LoginInput{Username: "alice", Password: "longenough2"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
