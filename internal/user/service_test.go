package user

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, email, password, role string) (User, error) {
	args := m.Called(ctx, email, password, role)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id uint) (User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(User), args.Error(1)
}

func TestService_Register(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Create", ctx, "a@b.com", mock.AnythingOfType("string"), "user").
			Return(User{ID: 1, Email: "a@b.com", Role: RoleUser}, nil)

		svc := NewService(repo)
		token, u, err := svc.Register(ctx, "a@b.com", "password123")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, uint(1), u.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Create", ctx, "a@b.com", mock.AnythingOfType("string"), "user").
			Return(User{}, errors.New(`pq: duplicate key value violates unique constraint "users_email_key"`))

		svc := NewService(repo)
		_, _, err := svc.Register(ctx, "a@b.com", "password123")

		assert.ErrorIs(t, err, ErrEmailExists)
	})
}

func TestService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")
	ctx := context.Background()

	hashed, _ := HashPassword("password123")

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, "a@b.com").
			Return(User{ID: 1, Email: "a@b.com", Password: hashed, Role: RoleUser}, nil)

		svc := NewService(repo)
		token, u, err := svc.Login(ctx, "a@b.com", "password123")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "a@b.com", u.Email)
	})

	t.Run("Unknown email", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, "x@b.com").Return(User{}, sql.ErrNoRows)

		svc := NewService(repo)
		_, _, err := svc.Login(ctx, "x@b.com", "password123")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Wrong password", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, "a@b.com").
			Return(User{ID: 1, Email: "a@b.com", Password: hashed}, nil)

		svc := NewService(repo)
		_, _, err := svc.Login(ctx, "a@b.com", "wrongpass")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestGenerateAndParseJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")

	token, err := GenerateJWT(42, "admin", "admin@shop.test")
	assert.NoError(t, err)

	claims, err := ParseJWT(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "admin@shop.test", claims.Email)
}

func TestParseJWT_Invalid(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")

	_, err := ParseJWT("not-a-token")
	assert.Error(t, err)
}
