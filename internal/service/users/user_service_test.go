package users

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/cargobooking/internal/domain"
	"github.com/Domenick1991/cargobooking/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func TestSignup_Success(t *testing.T) {
	repo := &MockUserRepository{}
	service := NewService(repo, "secret", time.Hour)

	ctx := context.Background()

	repo.On("GetByEmail", ctx, "new@example.com").Return(nil, repository.ErrUserNotFound).Once()
	repo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "new@example.com" && u.ID != "" && u.PasswordHash != "password"
	})).Return(nil).Once()

	user, err := service.Signup(ctx, SignupInput{Email: "new@example.com", Password: "password", Name: "Test"})

	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password")))
	repo.AssertExpectations(t)
}

func TestSignup_EmailTaken(t *testing.T) {
	repo := &MockUserRepository{}
	service := NewService(repo, "secret", time.Hour)

	ctx := context.Background()

	repo.On("GetByEmail", ctx, "taken@example.com").Return(&domain.User{Email: "taken@example.com"}, nil).Once()

	user, err := service.Signup(ctx, SignupInput{Email: "taken@example.com", Password: "password", Name: "Test"})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrEmailTaken)
	repo.AssertNotCalled(t, "Create")
}

func TestLogin_IssuesParsableToken(t *testing.T) {
	repo := &MockUserRepository{}
	service := NewService(repo, "secret", time.Hour)

	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo.On("GetByEmail", ctx, "user@example.com").Return(&domain.User{
		ID:           "user123",
		Email:        "user@example.com",
		PasswordHash: string(hash),
	}, nil).Once()

	token, user, err := service.Login(ctx, "user@example.com", "password")

	require.NoError(t, err)
	assert.Equal(t, "user123", user.ID)

	claims, err := service.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user123", claims.Sub)
	assert.Equal(t, "user@example.com", claims.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := &MockUserRepository{}
	service := NewService(repo, "secret", time.Hour)

	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo.On("GetByEmail", ctx, "user@example.com").Return(&domain.User{PasswordHash: string(hash)}, nil).Once()

	token, user, err := service.Login(ctx, "user@example.com", "wrong")

	assert.Empty(t, token)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := &MockUserRepository{}
	service := NewService(repo, "secret", time.Hour)

	ctx := context.Background()

	repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, repository.ErrUserNotFound).Once()

	_, _, err := service.Login(ctx, "ghost@example.com", "password")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseToken_WrongSecret(t *testing.T) {
	repo := &MockUserRepository{}
	issuer := NewService(repo, "secret", time.Hour)
	verifier := NewService(repo, "other-secret", time.Hour)

	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo.On("GetByEmail", ctx, "user@example.com").Return(&domain.User{ID: "user123", PasswordHash: string(hash)}, nil).Once()

	token, _, err := issuer.Login(ctx, "user@example.com", "password")
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}
