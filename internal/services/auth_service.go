package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yukikurage/resource-planning-api/internal/constants"
	"github.com/yukikurage/resource-planning-api/internal/models"
	"github.com/yukikurage/resource-planning-api/internal/repository"
	"github.com/yukikurage/resource-planning-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCode          = errors.New("invalid or expired code")
	ErrUserInactive         = errors.New("user account is disabled")
	ErrLoginNotStarted      = errors.New("please request a login code first")
	ErrFailedToGenerateCode = errors.New("failed to generate login code")
	ErrFailedToSendCode     = errors.New("failed to send login code")
)

// OTPSender delivers a login code to a user.
type OTPSender interface {
	SendOTP(ctx context.Context, email, code string) error
}

// LogOTPSender writes codes to the log instead of delivering them. Meant for
// development and for deployments that relay codes out of band.
type LogOTPSender struct {
	logger zerolog.Logger
}

func NewLogOTPSender(logger zerolog.Logger) *LogOTPSender {
	return &LogOTPSender{logger: logger}
}

func (s *LogOTPSender) SendOTP(_ context.Context, email, code string) error {
	s.logger.Info().Str("email", email).Str("code", code).Msg("login code issued")
	return nil
}

// AuthConfig tunes one-time code issuance.
type AuthConfig struct {
	CodeTTL time.Duration
	// DevCode is accepted for any active user when non-empty.
	DevCode string
}

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	orgRepo  repository.OrganizationRepository
	otpRepo  repository.OTPRepository
	sender   OTPSender
	cfg      AuthConfig
	now      func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	otpRepo repository.OTPRepository,
	sender OTPSender,
	cfg AuthConfig,
) *AuthService {
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = constants.DefaultOTPTTL
	}
	return &AuthService{
		userRepo: userRepo,
		orgRepo:  orgRepo,
		otpRepo:  otpRepo,
		sender:   sender,
		cfg:      cfg,
		now:      time.Now,
	}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RequestCode issues a fresh code for an active user and hands it to the
// sender. Earlier codes for the same email stop working.
func (s *AuthService) RequestCode(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return newValidationError("email", "is required")
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return lookupError("find user", err, ErrUserNotFound)
	}
	if !user.IsActive {
		return ErrUserInactive
	}

	code, err := utils.GenerateNumericCode(constants.OTPLength)
	if err != nil {
		return ErrFailedToGenerateCode
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToGenerateCode
	}

	otp := &models.OneTimeCode{
		Email:     email,
		CodeHash:  string(hash),
		ExpiresAt: s.now().Add(s.cfg.CodeTTL),
	}
	if err := s.otpRepo.Replace(otp); err != nil {
		return storageError("store login code", err)
	}

	if err := s.sender.SendOTP(ctx, email, code); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSendCode, err)
	}

	return nil
}

// VerifyCode checks a code for the email and consumes it on success.
func (s *AuthService) VerifyCode(email, code string) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrLoginNotStarted
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, newValidationError("otp", "is required")
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, lookupError("find user", err, ErrUserNotFound)
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if s.cfg.DevCode != "" && code == s.cfg.DevCode {
		return user, nil
	}

	codes, err := s.otpRepo.ListValid(email, s.now())
	if err != nil {
		return nil, storageError("list login codes", err)
	}

	for _, candidate := range codes {
		if bcrypt.CompareHashAndPassword([]byte(candidate.CodeHash), []byte(code)) != nil {
			continue
		}
		if err := s.otpRepo.Invalidate(candidate.ID); err != nil {
			return nil, storageError("invalidate login code", err)
		}
		return user, nil
	}

	return nil, ErrInvalidCode
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, lookupError("find user", err, ErrUserNotFound)
	}
	return user, nil
}

// Memberships lists the organizations a user belongs to, oldest first.
func (s *AuthService) Memberships(userID uint64) ([]models.OrganizationMember, error) {
	memberships, err := s.orgRepo.ListMembersByUserID(userID)
	if err != nil {
		return nil, storageError("list memberships", err)
	}
	return memberships, nil
}
