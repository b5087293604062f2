package provider

import (
	"context"
	"errors"
	"strings"
	"time"

	"artisthub/database/repository"
	"artisthub/models"
	"artisthub/services/availability"
	"artisthub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// CreateProvider validates input, hashes the password, sets IDs and timestamps,
// and creates a new artist record. Initial availability is normalized and deduplicated.
func (s *DefaultProviderService) CreateProvider(ctx context.Context, req models.CreateProviderRequest) (*models.Provider, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = utils.NormalizeEmail(req.Email)
	req.Category = strings.TrimSpace(req.Category)
	if err := utils.ValidationFailure(utils.ValidateStruct(req)); err != nil {
		return nil, err
	}

	slots, err := availability.Dedupe(req.Availability)
	if err != nil {
		return nil, utils.NewAppError(utils.CodeValidation, "", err)
	}

	// Check for duplicate artist by email.
	if _, err := s.Repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, utils.NewAppError(utils.CodeConflict, "An artist with this email already exists.", nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, translate(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.PersistenceError(err)
	}

	now := time.Now().UTC()
	p := &models.Provider{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   string(hashedPassword),
		Category:       req.Category,
		PricePerHour:   req.PricePerHour,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
		OfferedSlots:   slots,
		Bookings:       []models.Booking{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, translate(err)
	}

	s.Logger.Info("Artist created", zap.String("artistId", p.ID), zap.String("email", p.Email))
	return p, nil
}

// UpdateProvider applies the non-nil fields of update to the artist's profile.
func (s *DefaultProviderService) UpdateProvider(ctx context.Context, id string, update models.ProviderProfileUpdate) (*models.Provider, error) {
	if err := utils.ValidationFailure(utils.ValidateStruct(update)); err != nil {
		return nil, err
	}

	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, utils.ValidationError("name must not be empty")
		}
		p.Name = name
	}
	if update.Email != nil {
		email := utils.NormalizeEmail(*update.Email)
		if !utils.IsEmail(email) {
			return nil, utils.ValidationError("email is invalid")
		}
		if email != p.Email {
			if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
				return nil, utils.NewAppError(utils.CodeConflict, "An artist with this email already exists.", nil)
			} else if !errors.Is(err, repository.ErrNotFound) {
				return nil, translate(err)
			}
		}
		p.Email = email
	}
	if update.Password != nil {
		if len(*update.Password) < 8 {
			return nil, utils.ValidationError("password must be at least 8 characters")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, utils.PersistenceError(err)
		}
		p.PasswordHash = string(hashed)
	}
	if update.Category != nil {
		category := strings.TrimSpace(*update.Category)
		if category == "" {
			return nil, utils.ValidationError("category must not be empty")
		}
		p.Category = category
	}
	if update.PricePerHour != nil {
		if *update.PricePerHour < 0 {
			return nil, utils.ValidationError("pricePerHour must be >= 0")
		}
		p.PricePerHour = *update.PricePerHour
	}
	if update.Bio != nil {
		p.Bio = *update.Bio
	}
	if update.ProfilePicture != nil {
		p.ProfilePicture = *update.ProfilePicture
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.Repo.UpdateProfile(ctx, p); err != nil {
		return nil, translate(err)
	}
	s.Logger.Info("Artist updated", zap.String("artistId", p.ID))
	return p, nil
}

// Authenticate verifies the email and password for artist login.
func (s *DefaultProviderService) Authenticate(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, utils.ValidationError("email and password are required")
	}

	p, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.ErrUnauthorized
		}
		return nil, translate(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		s.Logger.Warn("Artist login failed", zap.String("email", email))
		return nil, utils.ErrUnauthorized
	}

	token, err := s.Tokens.GenerateToken(p.ID, p.Email, utils.RoleArtist)
	if err != nil {
		return nil, utils.PersistenceError(err)
	}
	return &models.AuthResponse{Token: token, ID: p.ID, Name: p.Name, Email: p.Email, Role: utils.RoleArtist}, nil
}
