package services

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/maoucrm/crm/internal/constants"
	"github.com/maoucrm/crm/internal/models"
	"github.com/maoucrm/crm/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxUsernameLength = 50
	maxEmailLength    = 120
	maxRoleLength     = 20
	maxPasswordBytes  = 72
)

// AuthService is the identity store: it provisions users and checks
// credentials.
type AuthService struct {
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// HashPassword derives a salted bcrypt hash. The plaintext cannot be
// recovered from it.
func HashPassword(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", invalid("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToHashPassword, err)
	}
	return string(hashed), nil
}

// CheckPassword re-derives the hash from plaintext and compares.
func CheckPassword(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// CreateUserInput represents the information needed to provision a user.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// CreateUser provisions a new account. Username and email must be unused.
func (s *AuthService) CreateUser(input CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = constants.RoleUser
	}

	switch {
	case username == "":
		return nil, invalid("username", "is required")
	case len(username) > maxUsernameLength:
		return nil, invalid("username", fmt.Sprintf("must be at most %d characters", maxUsernameLength))
	case email == "":
		return nil, invalid("email", "is required")
	case len(email) > maxEmailLength:
		return nil, invalid("email", fmt.Sprintf("must be at most %d characters", maxEmailLength))
	case len(role) > maxRoleLength:
		return nil, invalid("role", fmt.Sprintf("must be at most %d characters", maxRoleLength))
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalid("email", "is not a valid address")
	}
	if err := checkPasswordPolicy(input.Password); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeError("check username", err)
	}
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeError("check email", err)
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, storeError("create user", err)
	}

	return user, nil
}

// EnsureAdminInput describes the reserved administrative account.
type EnsureAdminInput struct {
	Username string
	Email    string
	Password string
}

// EnsureAdmin creates the administrative account unless a user with the
// reserved username already exists. It reports whether it created one.
func (s *AuthService) EnsureAdmin(input EnsureAdminInput) (bool, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return false, invalid("username", "is required")
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, storeError("look up admin", err)
	}

	if _, err := s.CreateUser(CreateUserInput{
		Username: username,
		Email:    input.Email,
		Password: input.Password,
		Role:     constants.RoleAdmin,
	}); err != nil {
		return false, err
	}

	return true, nil
}

// Authenticate verifies credentials by exact username match and stamps the
// last-login time. Unknown users, inactive users and wrong passwords all
// yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, lookupError("find user", err, ErrInvalidCredentials)
	}

	if !CheckPassword(user.PasswordHash, password) || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.userRepo.UpdateLastLogin(user.ID, now); err != nil {
		return nil, storeError("record login", err)
	}
	user.LastLoginAt = &now

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, lookupError("find user", err, ErrUserNotFound)
	}
	return user, nil
}

func (s *AuthService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, storeError("list users", err)
	}
	return users, nil
}

// ChangePassword replaces the password after re-checking the current one.
func (s *AuthService) ChangePassword(userID uint64, current, next string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return lookupError("find user", err, ErrUserNotFound)
	}

	if !CheckPassword(user.PasswordHash, current) {
		return ErrInvalidCredentials
	}
	if err := checkPasswordPolicy(next); err != nil {
		return err
	}

	hash, err := HashPassword(next)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	if err := s.userRepo.Update(user); err != nil {
		return storeError("update password", err)
	}
	return nil
}

// SetActive enables or disables an account. Disabled accounts cannot log in.
func (s *AuthService) SetActive(userID uint64, active bool) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, lookupError("find user", err, ErrUserNotFound)
	}

	user.IsActive = active
	if err := s.userRepo.Update(user); err != nil {
		return nil, storeError("update user", err)
	}
	return user, nil
}

func checkPasswordPolicy(password string) error {
	if len(password) < constants.MinPasswordLength {
		return invalid("password", fmt.Sprintf("must be at least %d characters", constants.MinPasswordLength))
	}
	if len(password) > maxPasswordBytes {
		return invalid("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}
	return nil
}
