package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/collabhub/collabhub-api/internal/constants"
	"github.com/collabhub/collabhub-api/internal/mail"
	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/collabhub/collabhub-api/internal/repository"
	"github.com/collabhub/collabhub-api/internal/token"
)

var (
	ErrDuplicateUser        = errors.New("username or email already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidVerifyToken   = errors.New("invalid verification token")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToSendMail     = errors.New("failed to send verification mail")
)

// AuthService handles registration, credentials, and session tokens.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *token.Service
	mailer   mail.Sender
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *token.Service, mailer mail.Sender) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		mailer:   mailer,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	IPAddress string
}

// Register creates a new, unverified user and mails the verification code.
// The mail goes out before the row is written, so a delivery failure leaves
// no half-registered account behind.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if err := s.ensureNotTaken(username, input.Email); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	code, err := mail.GenerateVerificationCode(constants.VerificationCodeLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification code: %w", err)
	}

	if err := s.mailer.SendSignupVerification(input.Email, code, input.IPAddress); err != nil {
		slog.Error("verification mail delivery failed", "email", input.Email, "error", err)
		return nil, ErrFailedToSendMail
	}

	user := &models.User{
		Username:          username,
		Email:             input.Email,
		FirstName:         input.FirstName,
		LastName:          input.LastName,
		PasswordHash:      string(hashed),
		Role:              models.RoleUser,
		IsVerified:        false,
		VerificationToken: &code,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the user together with a freshly
// issued session token. No token is issued on any failure.
func (s *AuthService) Login(input LoginInput) (*models.User, string, error) {
	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user.ID, time.Now())
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, signed, nil
}

// Logout revokes the session token. Revoking an already revoked token
// succeeds.
func (s *AuthService) Logout(tokenStr string) error {
	if err := s.tokens.Revoke(tokenStr); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// VerifyRegistration marks the account holding the code as verified.
// Verifying an already verified account succeeds.
func (s *AuthService) VerifyRegistration(code string) (*models.User, error) {
	user, err := s.userRepo.FindByVerificationToken(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidVerifyToken
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.IsVerified {
		return user, nil
	}

	user.IsVerified = true
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := s.mailer.SendWelcome(user.Email); err != nil {
		// Verification already succeeded; the welcome mail is best effort.
		slog.Warn("welcome mail delivery failed", "email", user.Email, "error", err)
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// GetUsername returns the username for a user ID.
func (s *AuthService) GetUsername(id string) (string, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

// UpdateProfileInput carries the editable profile fields. Nil means leave
// unchanged.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// UpdateProfile edits the user's profile fields.
func (s *AuthService) UpdateProfile(id string, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		if _, err := s.userRepo.FindByEmail(*input.Email); err == nil {
			return nil, ErrDuplicateUser
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes the account. Assignment edges are cleared in the same
// transaction so no task keeps a dangling assignee.
func (s *AuthService) DeleteUser(id string) error {
	if err := s.userRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *AuthService) ensureNotTaken(username, email string) error {
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return ErrDuplicateUser
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return ErrDuplicateUser
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	return nil
}
