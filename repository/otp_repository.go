package repository

import (
	"bankdash-api/logger"
	"bankdash-api/model"
	"database/sql"
)

// IOTPRepository defines the contract for one-time code database operations.
// Verification reads the row FOR UPDATE so the attempt counter serializes
// under concurrent submissions.
type IOTPRepository interface {
	CreateCode(code *model.OneTimeCode) error
	GetCodeForUpdate(tx *sql.Tx, id string) (*model.OneTimeCode, error)
	IncrementAttempts(tx *sql.Tx, id string) error
	MarkConsumed(tx *sql.Tx, id string) error
	DeleteCode(id string) error
}

type OTPRepository struct {
	DB *sql.DB
}

func NewOTPRepository(db *sql.DB) *OTPRepository {
	return &OTPRepository{DB: db}
}

func (r *OTPRepository) CreateCode(code *model.OneTimeCode) error {
	log := logger.Log.WithField("user_id", code.UserID)
	log.Info("Executing query to create a one-time code")

	query := `INSERT INTO otp_codes (id, user_id, code_hash, expires_at, attempts, consumed) VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`
	err := r.DB.QueryRow(query, code.ID, code.UserID, code.CodeHash, code.ExpiresAt, code.Attempts, code.Consumed).Scan(&code.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create one-time code query")
		return err
	}
	return nil
}

func (r *OTPRepository) GetCodeForUpdate(tx *sql.Tx, id string) (*model.OneTimeCode, error) {
	log := logger.Log.WithField("code_id", id)
	log.Info("Executing query to get one-time code for update")

	code := &model.OneTimeCode{}
	query := `SELECT id, user_id, code_hash, expires_at, attempts, consumed, created_at FROM otp_codes WHERE id = $1 FOR UPDATE`
	err := tx.QueryRow(query, id).Scan(&code.ID, &code.UserID, &code.CodeHash, &code.ExpiresAt, &code.Attempts, &code.Consumed, &code.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("One-time code not found for update")
		} else {
			log.WithError(err).Error("Failed to execute get one-time code for update query")
		}
		return nil, err
	}
	return code, nil
}

// IncrementAttempts bumps the attempt counter in place. Runs inside the
// caller's transaction while the row lock is held.
func (r *OTPRepository) IncrementAttempts(tx *sql.Tx, id string) error {
	query := `UPDATE otp_codes SET attempts = attempts + 1 WHERE id = $1`
	_, err := tx.Exec(query, id)
	if err != nil {
		logger.Log.WithField("code_id", id).WithError(err).Error("Failed to execute increment attempts query")
		return err
	}
	return nil
}

func (r *OTPRepository) MarkConsumed(tx *sql.Tx, id string) error {
	query := `UPDATE otp_codes SET consumed = TRUE WHERE id = $1`
	_, err := tx.Exec(query, id)
	if err != nil {
		logger.Log.WithField("code_id", id).WithError(err).Error("Failed to execute mark consumed query")
		return err
	}
	return nil
}

// DeleteCode removes a code record, used to roll back issuance when the
// delivery email fails.
func (r *OTPRepository) DeleteCode(id string) error {
	query := `DELETE FROM otp_codes WHERE id = $1`
	_, err := r.DB.Exec(query, id)
	if err != nil {
		logger.Log.WithField("code_id", id).WithError(err).Error("Failed to execute delete one-time code query")
		return err
	}
	return nil
}
