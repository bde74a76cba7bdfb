package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"orb-service/internal/adapter/session"
	domain "orb-service/internal/domain/user"
	pkgerrors "orb-service/pkg/errors"
)

// Repository defines the interface for user data access operations.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (int64, error)                // Create a new user
	GetByID(ctx context.Context, id int64) (*domain.User, error)              // Retrieve user by ID
	GetByUsername(ctx context.Context, username string) (*domain.User, error) // Retrieve user by username, (nil, nil) when absent
}

// Service implements authentication and session management on top of a user
// repository and a session token store.
type Service struct {
	repo     Repository
	sessions session.Store
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new authentication Service.
func New(r Repository, sessions session.Store, log *zap.Logger) *Service {
	return &Service{repo: r, sessions: sessions, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a field-level
// ValidationError.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
			case "email":
				messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
			case "min":
				messages = append(messages, fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param()))
			case "max":
				messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
			case "oneof":
				messages = append(messages, fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param()))
			default:
				messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
			}
		}
		return pkgerrors.NewValidationError("", strings.Join(messages, ", "))
	}
	return err
}

// Login authenticates the credentials and issues a session token. A wrong
// username and a wrong password produce the same AuthError.
func (s *Service) Login(ctx context.Context, in LoginRequest) (*LoginResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("login validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	u, err := s.repo.GetByUsername(ctx, in.Username)
	if err != nil {
		s.log.Error("failed to look up user for login", zap.String("username", in.Username), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to look up user", err)
	}
	if u == nil {
		s.log.Info("login rejected, unknown username", zap.String("username", in.Username))
		return nil, pkgerrors.NewAuthError("invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		s.log.Info("login rejected, bad password", zap.String("username", in.Username))
		return nil, pkgerrors.NewAuthError("invalid username or password")
	}

	token, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		s.log.Error("failed to create session", zap.Int64("user_id", u.ID), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to create session", err)
	}

	s.log.Info("user logged in", zap.Int64("user_id", u.ID), zap.String("username", u.Username))

	return &LoginResponse{
		Token: token,
		User: UserInfo{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			Role:     u.Role,
		},
	}, nil
}

// Logout revokes the session token. Revoking an already-dead token succeeds.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		s.log.Error("failed to revoke session", zap.Error(err))
		return pkgerrors.NewInternalError("failed to revoke session", err)
	}
	return nil
}

// Restore reconstructs the authenticated user from a session token. A dead
// token or a user that has since disappeared yields (nil, nil) — "not logged
// in" is a normal outcome, not an error.
func (s *Service) Restore(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}

	userID, err := s.sessions.Get(ctx, token)
	if errors.Is(err, session.ErrNoSession) {
		return nil, nil
	}
	if err != nil {
		s.log.Error("failed to resolve session token", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to resolve session", err)
	}

	return s.LoadUser(ctx, strconv.FormatInt(userID, 10))
}

// LoadUser fetches a user by the string form of their identifier. Identifiers
// that do not parse or do not match a persisted user yield (nil, nil).
func (s *Service) LoadUser(ctx context.Context, id string) (*domain.User, error) {
	userID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		s.log.Debug("user loader got non-numeric id", zap.String("id", id))
		return nil, nil
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		var nf *pkgerrors.NotFoundError
		if errors.As(err, &nf) {
			return nil, nil
		}
		s.log.Error("failed to load user", zap.Int64("user_id", userID), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to load user", err)
	}

	return u, nil
}

// Register creates a crew account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, in RegisterRequest) (*RegisterResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("register validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	existing, err := s.repo.GetByUsername(ctx, in.Username)
	if err != nil {
		s.log.Error("failed to check username uniqueness", zap.String("username", in.Username), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to check username uniqueness", err)
	}
	if existing != nil {
		return nil, pkgerrors.NewAlreadyExistsError("user", fmt.Sprintf("username %q already exists", in.Username))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("failed to hash password", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to hash password", err)
	}

	role := in.Role
	if role == "" {
		role = domain.RoleCrew
	}

	id, err := s.repo.Create(ctx, &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		s.log.Error("failed to create user", zap.String("username", in.Username), zap.Error(err))
		return nil, err
	}

	s.log.Info("user registered", zap.Int64("user_id", id), zap.String("username", in.Username))
	return &RegisterResponse{ID: id}, nil
}
