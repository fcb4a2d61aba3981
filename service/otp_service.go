package service

import (
	"bankdash-api/config"
	"bankdash-api/logger"
	"bankdash-api/model"
	"bankdash-api/repository"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCodeNotFound    = errors.New("one-time code not found")
	ErrCodeExpired     = errors.New("one-time code has expired")
	ErrTooManyAttempts = errors.New("too many incorrect attempts")
	ErrInvalidCode     = errors.New("incorrect one-time code")
	ErrCodeAlreadyUsed = errors.New("one-time code has already been used")
)

// ICodeIssuer is the code issuer contract the transfer orchestrator depends
// on. The plaintext returned by Issue exists only for out-of-band delivery
// and is never persisted.
type ICodeIssuer interface {
	Issue(ctx context.Context, userID int) (codeID, plaintext string, err error)
	Verify(ctx context.Context, codeID, submitted string) error
	Discard(ctx context.Context, codeID string) error
}

// OTPService issues and verifies one-time numeric codes. Verification runs
// inside a database transaction holding the code's row lock, so the attempt
// counter stays exact under concurrent submissions.
type OTPService struct {
	db      *sql.DB
	otpRepo repository.IOTPRepository
}

func NewOTPService(db *sql.DB, otpRepo repository.IOTPRepository) *OTPService {
	return &OTPService{db: db, otpRepo: otpRepo}
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// generateCode draws each digit uniformly from crypto/rand.
func generateCode(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate code digit: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

// Issue generates a fresh code for the user, persists its hash and expiry,
// and returns the plaintext for delivery.
func (s *OTPService) Issue(ctx context.Context, userID int) (string, string, error) {
	cfg := config.AppConfig.OTP

	plaintext, err := generateCode(cfg.Length)
	if err != nil {
		return "", "", err
	}

	code := &model.OneTimeCode{
		ID:        uuid.NewString(),
		UserID:    userID,
		CodeHash:  hashCode(plaintext),
		ExpiresAt: time.Now().Add(time.Duration(cfg.ExpiryMinutes) * time.Minute),
	}
	if err := s.otpRepo.CreateCode(code); err != nil {
		return "", "", err
	}

	logger.Log.WithField("user_id", userID).Info("One-time code issued")
	return code.ID, plaintext, nil
}

// Verify checks a submitted code against the stored record. Every failed
// comparison increments the attempt counter exactly once; a successful match
// consumes the code so a second verification fails with ErrCodeAlreadyUsed.
// All side effects are committed before returning.
func (s *OTPService) Verify(ctx context.Context, codeID, submitted string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	code, err := s.otpRepo.GetCodeForUpdate(tx, codeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrCodeNotFound
		}
		return err
	}

	if code.Consumed {
		return ErrCodeAlreadyUsed
	}
	if time.Now().After(code.ExpiresAt) {
		return ErrCodeExpired
	}
	if code.Attempts >= config.AppConfig.OTP.MaxAttempts {
		return ErrTooManyAttempts
	}

	if hashCode(submitted) != code.CodeHash {
		if err := s.otpRepo.IncrementAttempts(tx, codeID); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("could not record failed attempt: %w", err)
		}
		return ErrInvalidCode
	}

	if err := s.otpRepo.MarkConsumed(tx, codeID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not consume code: %w", err)
	}

	logger.Log.WithField("code_id", codeID).Info("One-time code verified")
	return nil
}

// Discard removes a code record, rolling back an issuance whose delivery
// failed or whose transfer was abandoned.
func (s *OTPService) Discard(ctx context.Context, codeID string) error {
	return s.otpRepo.DeleteCode(codeID)
}
