package service

import (
	"context"
	"strings"

	"darkbin/internal/models"
	"darkbin/internal/repository"
	"darkbin/internal/validation"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, credential checks, and the optional TOTP
// second factor.
type AuthService struct {
	userRepo repository.UserRepository
}

type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies the username and password, and the TOTP code when the
// account has a second factor enrolled. The same Unauthorized error covers
// unknown usernames and wrong passwords so responses don't reveal which.
func (s *AuthService) Authenticate(ctx context.Context, username, password, code string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	if user.TOTPSecret != "" {
		if code == "" {
			return nil, models.NewSecondFactorRequiredError()
		}
		if !totp.Validate(code, user.TOTPSecret) {
			return nil, models.NewSecondFactorInvalidError()
		}
	}

	return user, nil
}

// SecondFactorEnrollment is returned by EnableSecondFactor; the otpauth URL
// is shown once for QR enrollment and never stored.
type SecondFactorEnrollment struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

func (s *AuthService) EnableSecondFactor(ctx context.Context, userID string) (*SecondFactorEnrollment, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TOTPSecret != "" {
		return nil, models.NewConflictError("second factor already enabled")
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "darkbin",
		AccountName: user.Username,
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user.TOTPSecret = key.Secret()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return &SecondFactorEnrollment{
		Secret: key.Secret(),
		URL:    key.URL(),
	}, nil
}
