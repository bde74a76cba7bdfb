package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"orb-service/internal/adapter/session"
	domain "orb-service/internal/domain/user"
	pkgerrors "orb-service/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockSessionStore is a mock implementation of the session.Store interface
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, userID int64) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) Get(ctx context.Context, token string) (int64, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func setupTestService(t *testing.T) (*Service, *MockRepository, *MockSessionStore) {
	mockRepo := new(MockRepository)
	mockSessions := new(MockSessionStore)
	logger := zaptest.NewLogger(t)
	svc := New(mockRepo, mockSessions, logger)
	return svc, mockRepo, mockSessions
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}

// ==================== LOGIN TESTS ====================

func TestLogin_Success(t *testing.T) {
	svc, mockRepo, mockSessions := setupTestService(t)
	ctx := context.Background()

	u := &domain.User{
		ID:           1,
		Username:     "deckhand",
		Email:        "deckhand@example.com",
		PasswordHash: hashPassword(t, "correct-horse"),
		Role:         domain.RoleCrew,
	}
	mockRepo.On("GetByUsername", ctx, "deckhand").Return(u, nil)
	mockSessions.On("Create", ctx, int64(1)).Return("token-abc", nil)

	resp, err := svc.Login(ctx, LoginRequest{Username: "deckhand", Password: "correct-horse"})

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, "token-abc", resp.Token)
	assert.Equal(t, int64(1), resp.User.ID)
	assert.Equal(t, "deckhand", resp.User.Username)

	mockRepo.AssertExpectations(t)
	mockSessions.AssertExpectations(t)
}

func TestLogin_UnknownUsername(t *testing.T) {
	svc, mockRepo, _ := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByUsername", ctx, "nobody42").Return(nil, nil)

	resp, err := svc.Login(ctx, LoginRequest{Username: "nobody42", Password: "whatever123"})

	assert.Nil(t, resp)
	var authErr *pkgerrors.AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, mockRepo, mockSessions := setupTestService(t)
	ctx := context.Background()

	u := &domain.User{
		ID:           1,
		Username:     "deckhand",
		PasswordHash: hashPassword(t, "correct-horse"),
		Role:         domain.RoleCrew,
	}
	mockRepo.On("GetByUsername", ctx, "deckhand").Return(u, nil)

	resp, err := svc.Login(ctx, LoginRequest{Username: "deckhand", Password: "wrong-horse-1"})

	assert.Nil(t, resp)
	var authErr *pkgerrors.AuthError
	assert.ErrorAs(t, err, &authErr)

	// A bad password never issues a session.
	mockSessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	svc, mockRepo, _ := setupTestService(t)
	ctx := context.Background()

	u := &domain.User{
		ID:           1,
		Username:     "deckhand",
		PasswordHash: hashPassword(t, "correct-horse"),
	}
	mockRepo.On("GetByUsername", ctx, "deckhand").Return(u, nil)
	mockRepo.On("GetByUsername", ctx, "stranger1").Return(nil, nil)

	_, badPass := svc.Login(ctx, LoginRequest{Username: "deckhand", Password: "wrong-horse-1"})
	_, badUser := svc.Login(ctx, LoginRequest{Username: "stranger1", Password: "wrong-horse-1"})

	assert.Equal(t, badPass.Error(), badUser.Error())
}

func TestLogin_ValidationFailure(t *testing.T) {
	svc, mockRepo, _ := setupTestService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{Username: "ab", Password: "short"})

	assert.Nil(t, resp)
	var valErr *pkgerrors.ValidationError
	assert.ErrorAs(t, err, &valErr)
	mockRepo.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
}

func TestLogin_RepositoryError(t *testing.T) {
	svc, mockRepo, _ := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByUsername", ctx, "deckhand").Return(nil, errors.New("connection refused"))

	resp, err := svc.Login(ctx, LoginRequest{Username: "deckhand", Password: "correct-horse"})

	assert.Nil(t, resp)
	var internalErr *pkgerrors.InternalError
	assert.ErrorAs(t, err, &internalErr)
}

// ==================== LOGOUT TESTS ====================

func TestLogout_EmptyTokenIsNoop(t *testing.T) {
	svc, _, mockSessions := setupTestService(t)

	err := svc.Logout(context.Background(), "")

	assert.NoError(t, err)
	mockSessions.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, _, mockSessions := setupTestService(t)
	ctx := context.Background()

	mockSessions.On("Delete", ctx, "token-abc").Return(nil)

	err := svc.Logout(ctx, "token-abc")

	assert.NoError(t, err)
	mockSessions.AssertExpectations(t)
}

// ==================== RESTORE TESTS ====================

func TestRestore_EmptyToken(t *testing.T) {
	svc, _, _ := setupTestService(t)

	u, err := svc.Restore(context.Background(), "")

	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestRestore_DeadToken(t *testing.T) {
	svc, _, mockSessions := setupTestService(t)
	ctx := context.Background()

	mockSessions.On("Get", ctx, "expired").Return(int64(0), session.ErrNoSession)

	u, err := svc.Restore(ctx, "expired")

	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestRestore_Success(t *testing.T) {
	svc, mockRepo, mockSessions := setupTestService(t)
	ctx := context.Background()

	mockSessions.On("Get", ctx, "token-abc").Return(int64(7), nil)
	mockRepo.On("GetByID", ctx, int64(7)).Return(&domain.User{ID: 7, Username: "deckhand"}, nil)

	u, err := svc.Restore(ctx, "token-abc")

	assert.NoError(t, err)
	assert.NotNil(t, u)
	assert.Equal(t, int64(7), u.ID)
}

func TestRestore_UserDisappeared(t *testing.T) {
	svc, mockRepo, mockSessions := setupTestService(t)
	ctx := context.Background()

	mockSessions.On("Get", ctx, "token-abc").Return(int64(7), nil)
	mockRepo.On("GetByID", ctx, int64(7)).
		Return(nil, pkgerrors.NewNotFoundError("user", "user 7 not found"))

	u, err := svc.Restore(ctx, "token-abc")

	assert.NoError(t, err)
	assert.Nil(t, u)
}

// ==================== LOAD USER TESTS ====================

func TestLoadUser_NonNumericID(t *testing.T) {
	svc, mockRepo, _ := setupTestService(t)

	u, err := svc.LoadUser(context.Background(), "not-a-number")

	assert.NoError(t, err)
	assert.Nil(t, u)
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestLoadUser_Success(t *testing.T) {
	svc, mockRepo, _ := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(42)).Return(&domain.User{ID: 42}, nil)

	u, err := svc.LoadUser(ctx, "42")

	assert.NoError(t, err)
	assert.Equal(t, int64(42), u.ID)
}

// ==================== REGISTER TESTS ====================

func TestRegister_Success(t *testing.T) {
	svc, mockRepo, _ := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByUsername", ctx, "newcrew").Return(nil, nil)
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		if u.Username != "newcrew" || u.Role != domain.RoleCrew {
			return false
		}
		// The stored hash must verify against the plaintext password.
		return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("seaworthy-pass")) == nil
	})).Return(int64(3), nil)

	resp, err := svc.Register(ctx, RegisterRequest{
		Username: "newcrew",
		Email:    "newcrew@example.com",
		Password: "seaworthy-pass",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), resp.ID)
	mockRepo.AssertExpectations(t)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, mockRepo, _ := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByUsername", ctx, "deckhand").Return(&domain.User{ID: 1, Username: "deckhand"}, nil)

	resp, err := svc.Register(ctx, RegisterRequest{
		Username: "deckhand",
		Email:    "dup@example.com",
		Password: "seaworthy-pass",
	})

	assert.Nil(t, resp)
	var existsErr *pkgerrors.AlreadyExistsError
	assert.ErrorAs(t, err, &existsErr)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_InvalidRole(t *testing.T) {
	svc, _, _ := setupTestService(t)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Username: "newcrew",
		Email:    "newcrew@example.com",
		Password: "seaworthy-pass",
		Role:     "captain",
	})

	assert.Nil(t, resp)
	var valErr *pkgerrors.ValidationError
	assert.ErrorAs(t, err, &valErr)
}
