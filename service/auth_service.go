package service

import (
	"bankdash-api/config"
	"bankdash-api/logger"
	"bankdash-api/model"
	"bankdash-api/repository"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("this account has been deactivated")
	ErrEmailTaken         = errors.New("email is already registered")
)

func getJwtKey() []byte {
	return []byte(config.AppConfig.JWT.SecretKey)
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// AuthService handles registration, sign-in and session token issuance.
type AuthService struct {
	userRepo    repository.IUserRepository
	accountRepo repository.IAccountRepository
}

func NewAuthService(userRepo repository.IUserRepository, accountRepo repository.IAccountRepository) *AuthService {
	return &AuthService{userRepo: userRepo, accountRepo: accountRepo}
}

// Register creates a regular user together with their single account.
func (s *AuthService) Register(req model.RegisterRequest) (*model.User, error) {
	if _, err := s.userRepo.GetUserByEmail(req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:    req.Email,
		Name:     req.Name,
		Password: hashedPassword,
		Role:     model.RoleUser,
		IsActive: true,
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, err
	}

	lastNumber, err := s.accountRepo.GetLastAccountNumber()
	if err != nil {
		return nil, err
	}
	account := &model.Account{
		UserID:        user.ID,
		AccountNumber: lastNumber + 1,
	}
	if err := s.accountRepo.CreateAccount(account); err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

// Login authenticates the credentials and returns a signed session token.
func (s *AuthService) Login(req model.LoginRequest) (string, *model.User, error) {
	user, err := s.userRepo.GetUserByEmail(req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !CheckPasswordHash(req.Password, user.Password) {
		return "", nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, ErrUserInactive
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		return "", nil, err
	}

	if err := s.userRepo.TouchLastSeen(user.ID); err != nil {
		logger.Log.WithError(err).WithField("user_id", user.ID).Warn("Failed to update last seen")
	}

	logger.Log.WithField("user_id", user.ID).Info("User logged in")
	return token, user, nil
}

// GenerateJWT signs a session token carrying the principal id and role.
func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	expiryHours := config.AppConfig.JWT.ExpiryHours
	if expiryHours <= 0 {
		expiryHours = 24
	}

	claims := &model.AppClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expiryHours) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(getJwtKey())
	if err != nil {
		logger.Log.WithError(err).WithField("email", user.Email).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}

	return tokenString, nil
}
