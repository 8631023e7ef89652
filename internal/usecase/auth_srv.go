package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"pizza-ordering/internal/data/entity"
	"pizza-ordering/internal/data/repository"
	"pizza-ordering/internal/dto/request"
	"pizza-ordering/internal/dto/response"
	"pizza-ordering/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Signup(ctx context.Context, req *request.SignupRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(repo *repository.Repository, config *utils.Config, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Signup(ctx context.Context, req *request.SignupRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Signup validation failed", zap.Any("errors", errs))
		return nil, invalidFields("Validation failed", errs)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, failed("Signup failed", err)
	}
	if existing != nil {
		return nil, conflict("Email already in use.")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, failed("Signup failed", err)
	}

	now := time.Now()
	user := &entity.User{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Address:      strings.TrimSpace(req.Address),
		PasswordHash: hashed,
		Role:         entity.RoleUser,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("Email already in use.")
		}
		return nil, failed("Signup failed", err)
	}

	s.log.Info("User signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return s.issueToken(user)
}

// Login answers unknown email and wrong password alike.
func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, invalidFields("Validation failed", errs)
	}

	user, err := s.repo.User.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, failed("Login failed", err)
	}
	if user == nil {
		s.log.Warn("Login for unknown email", zap.String("email", req.Email))
		return nil, invalid("Invalid credentials")
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, invalid("Invalid credentials")
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	return s.issueToken(user)
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, failed("Failed to fetch profile", err)
	}
	if user == nil {
		return nil, notFound("User not found")
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) issueToken(user *entity.User) (*response.AuthResponse, error) {
	token, expiresAt, err := utils.GenerateToken(s.config.JWT, user.ID, string(user.Role))
	if err != nil {
		s.log.Error("Failed to sign token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, failed("Failed to issue token", err)
	}

	return &response.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Role:      string(user.Role),
		User:      toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) response.UserResponse {
	return response.UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Address:   u.Address,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
