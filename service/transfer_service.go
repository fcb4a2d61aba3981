package service

import (
	"bankdash-api/config"
	"bankdash-api/logger"
	"bankdash-api/model"
	"bankdash-api/repository"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var (
	ErrMissingField       = errors.New("recipient name, bank, account number and destination country are required")
	ErrInvalidAmount      = errors.New("transfer amount must be greater than zero")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidRoutingCode = errors.New("invalid routing code for the destination country")
	ErrDeliveryFailure    = errors.New("could not deliver the verification code")
	ErrTransferNotFound   = errors.New("no transfer in progress for this code")
)

// TransferRequest carries the details the user enters on the transfer form.
// Field presence is checked by Validate rather than validator tags so the
// caller gets the taxonomy errors back.
type TransferRequest struct {
	RecipientName    string  `json:"recipient_name"`
	RecipientBank    string  `json:"recipient_bank"`
	RecipientAccount string  `json:"recipient_account"`
	RecipientCountry string  `json:"recipient_country"`
	RoutingCode      string  `json:"routing_code"`
	Amount           float64 `json:"amount"`
	Description      string  `json:"description"`
}

// IOTPMailer is the email half of the notification sink. The send is awaited;
// issuance only counts once delivery succeeded.
type IOTPMailer interface {
	SendTransferCode(to, name, recipientName string, amount float64, code string) error
}

// pendingTransfer is the per-transfer state held between Initiate and
// Complete, keyed by the issued code id. It expires with the code.
type pendingTransfer struct {
	UserID    int             `json:"user_id"`
	AccountID int             `json:"account_id"`
	Details   TransferRequest `json:"details"`
}

func transferStateKey(codeID string) string {
	return fmt.Sprintf("transfer:pending:%s", codeID)
}

// TransferService drives the transfer flow: validate the details, issue and
// deliver a one-time code, and on successful verification debit the account
// and create the pending transaction in a single database transaction.
type TransferService struct {
	db          *sql.DB
	accountRepo repository.IAccountRepository
	txnRepo     repository.ITransactionRepository
	userRepo    repository.IUserRepository
	issuer      ICodeIssuer
	mailer      IOTPMailer
	cache       ICacheClient
	notices     INoticeRecorder
}

func NewTransferService(
	db *sql.DB,
	accountRepo repository.IAccountRepository,
	txnRepo repository.ITransactionRepository,
	userRepo repository.IUserRepository,
	issuer ICodeIssuer,
	mailer IOTPMailer,
	cache ICacheClient,
	notices INoticeRecorder,
) *TransferService {
	return &TransferService{
		db:          db,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		userRepo:    userRepo,
		issuer:      issuer,
		mailer:      mailer,
		cache:       cache,
		notices:     notices,
	}
}

// validateTransfer applies the field, amount, funds and routing checks in
// that order against the given balance.
func validateTransfer(req TransferRequest, balance float64) error {
	if req.RecipientName == "" || req.RecipientBank == "" || req.RecipientAccount == "" || req.RecipientCountry == "" {
		return ErrMissingField
	}
	if req.Amount <= 0 {
		return ErrInvalidAmount
	}
	if req.Amount > balance {
		return ErrInsufficientFunds
	}
	if !model.CheckRoutingCode(req.RecipientCountry, req.RoutingCode) {
		return ErrInvalidRoutingCode
	}
	return nil
}

// Validate checks the transfer details against the user's current balance
// without mutating anything.
func (s *TransferService) Validate(ctx context.Context, userID int, req TransferRequest) error {
	account, err := s.accountRepo.GetAccountByUserID(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrAccountNotFound
		}
		return err
	}
	return validateTransfer(req, account.Balance)
}

// Initiate validates the details, issues a one-time code and emails it to
// the account owner. The balance is not touched here; the debit happens in
// Complete once the code has been verified. A failed delivery discards the
// just-issued code and reports ErrDeliveryFailure.
func (s *TransferService) Initiate(ctx context.Context, userID int, req TransferRequest) (string, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"amount":  req.Amount,
		"country": req.RecipientCountry,
	})
	log.Info("Initiating transfer")

	account, err := s.accountRepo.GetAccountByUserID(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrAccountNotFound
		}
		return "", err
	}
	if err := validateTransfer(req, account.Balance); err != nil {
		return "", err
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return "", err
	}

	codeID, plaintext, err := s.issuer.Issue(ctx, userID)
	if err != nil {
		return "", err
	}

	if err := s.mailer.SendTransferCode(user.Email, user.Name, req.RecipientName, req.Amount, plaintext); err != nil {
		log.WithError(err).Error("Verification code delivery failed, discarding code")
		if derr := s.issuer.Discard(ctx, codeID); derr != nil {
			log.WithError(derr).Warn("Failed to discard undelivered code")
		}
		return "", ErrDeliveryFailure
	}

	state := pendingTransfer{UserID: userID, AccountID: account.ID, Details: req}
	data, err := json.Marshal(state)
	if err != nil {
		return "", err
	}
	ttl := time.Duration(config.AppConfig.OTP.ExpiryMinutes) * time.Minute
	if err := s.cache.Set(ctx, transferStateKey(codeID), data, ttl).Err(); err != nil {
		log.WithError(err).Error("Failed to store pending transfer state")
		if derr := s.issuer.Discard(ctx, codeID); derr != nil {
			log.WithError(derr).Warn("Failed to discard orphaned code")
		}
		return "", err
	}

	log.WithField("code_id", codeID).Info("Transfer initiated, verification code sent")
	return codeID, nil
}

// Complete verifies the submitted code and, on success, debits the account
// and creates the PENDING outgoing transaction atomically. Any verification
// failure leaves the balance and the transaction set untouched.
func (s *TransferService) Complete(ctx context.Context, userID int, codeID, submitted string) (*model.Transaction, error) {
	stateData, err := s.cache.Get(ctx, transferStateKey(codeID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrTransferNotFound
		}
		return nil, err
	}
	var state pendingTransfer
	if err := json.Unmarshal([]byte(stateData), &state); err != nil {
		return nil, fmt.Errorf("corrupt pending transfer state: %w", err)
	}
	if state.UserID != userID {
		return nil, ErrPermissionDenied
	}

	if err := s.issuer.Verify(ctx, codeID, submitted); err != nil {
		return nil, err
	}

	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    userID,
		"account_id": state.AccountID,
		"amount":     state.Details.Amount,
	})

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	account, err := s.accountRepo.GetAccountForUpdate(tx, state.AccountID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	// The balance may have moved since Initiate, re-check under the lock.
	if account.Balance < state.Details.Amount {
		return nil, ErrInsufficientFunds
	}

	if err := s.accountRepo.UpdateAccountBalance(tx, account.ID, account.Balance-state.Details.Amount); err != nil {
		return nil, fmt.Errorf("could not debit account: %w", err)
	}

	transaction := &model.Transaction{
		AccountID:        account.ID,
		Reference:        uuid.NewString(),
		Type:             model.TypeOutgoing,
		Amount:           state.Details.Amount,
		RecipientName:    state.Details.RecipientName,
		RecipientBank:    state.Details.RecipientBank,
		RecipientAccount: state.Details.RecipientAccount,
		RecipientCountry: state.Details.RecipientCountry,
		RoutingCode:      state.Details.RoutingCode,
		Description:      state.Details.Description,
		Status:           model.StatusPending,
	}
	if err := s.txnRepo.CreateTransaction(tx, transaction); err != nil {
		return nil, fmt.Errorf("could not create transaction record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	s.cache.Del(ctx, transferStateKey(codeID), accountCacheKey(userID))
	s.notices.Record(fmt.Sprintf("New transfer of $%.2f to %s is awaiting approval", transaction.Amount, transaction.RecipientName))

	log.WithField("reference", transaction.Reference).Info("Transfer completed, transaction pending approval")
	return transaction, nil
}

// Cancel abandons an initiated transfer: the pending state and the unused
// code are dropped. Nothing was debited, so there is nothing to undo.
func (s *TransferService) Cancel(ctx context.Context, userID int, codeID string) error {
	stateData, err := s.cache.Get(ctx, transferStateKey(codeID)).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrTransferNotFound
		}
		return err
	}
	var state pendingTransfer
	if err := json.Unmarshal([]byte(stateData), &state); err != nil {
		return fmt.Errorf("corrupt pending transfer state: %w", err)
	}
	if state.UserID != userID {
		return ErrPermissionDenied
	}

	s.cache.Del(ctx, transferStateKey(codeID))
	if err := s.issuer.Discard(ctx, codeID); err != nil {
		logger.Log.WithError(err).WithField("code_id", codeID).Warn("Failed to discard code for abandoned transfer")
	}

	logger.Log.WithFields(logrus.Fields{"user_id": userID, "code_id": codeID}).Info("Transfer abandoned")
	return nil
}
