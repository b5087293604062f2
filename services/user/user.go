package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"artisthub/database/repository"
	userRepo "artisthub/database/repository/user"
	"artisthub/models"
	"artisthub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles customer registration and login.
type UserService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.AuthResponse, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type TokenIssuer interface {
	GenerateToken(subject, email, role string) (string, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo   userRepo.UserRepository
	Tokens TokenIssuer
	Logger *zap.Logger
}

func NewDefaultUserService(repo userRepo.UserRepository, tokens TokenIssuer, logger *zap.Logger) (*DefaultUserService, error) {
	if repo == nil || tokens == nil {
		return nil, fmt.Errorf("user service initialization error: one or more dependencies are nil")
	}
	if logger == nil {
		logger = utils.GetLogger()
	}
	return &DefaultUserService{Repo: repo, Tokens: tokens, Logger: logger}, nil
}

func (s *DefaultUserService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = utils.NormalizeEmail(req.Email)
	if err := utils.ValidationFailure(utils.ValidateStruct(req)); err != nil {
		return nil, err
	}

	if _, err := s.Repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, utils.NewAppError(utils.CodeConflict, "A user with this email already exists.", nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, utils.PersistenceError(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.PersistenceError(err)
	}

	u := &models.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.NewAppError(utils.CodeConflict, "A user with this email already exists.", err)
		}
		return nil, utils.PersistenceError(err)
	}

	s.Logger.Info("User registered", zap.String("userId", u.ID))
	return u, nil
}

func (s *DefaultUserService) Authenticate(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, utils.ValidationError("email and password are required")
	}

	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.ErrUnauthorized
		}
		return nil, utils.PersistenceError(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.Logger.Warn("User login failed", zap.String("email", email))
		return nil, utils.ErrUnauthorized
	}

	token, err := s.Tokens.GenerateToken(u.ID, u.Email, utils.RoleUser)
	if err != nil {
		return nil, utils.PersistenceError(err)
	}
	return &models.AuthResponse{Token: token, ID: u.ID, Name: u.Name, Email: u.Email, Role: utils.RoleUser}, nil
}

func (s *DefaultUserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFoundError("User not found.", err)
		}
		return nil, utils.PersistenceError(err)
	}
	return u, nil
}
