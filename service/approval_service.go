package service

import (
	"bankdash-api/logger"
	"bankdash-api/model"
	"bankdash-api/repository"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadyResolved     = errors.New("transaction has already been resolved")
)

// ApprovalService is the admin review workflow. Approving keeps the debit
// that was applied when the transaction was created; rejecting an outgoing
// transaction refunds it. Refund and status flip commit together or not at
// all.
type ApprovalService struct {
	db          *sql.DB
	txnRepo     repository.ITransactionRepository
	accountRepo repository.IAccountRepository
	cache       ICacheClient
	notices     INoticeRecorder
}

func NewApprovalService(
	db *sql.DB,
	txnRepo repository.ITransactionRepository,
	accountRepo repository.IAccountRepository,
	cache ICacheClient,
	notices INoticeRecorder,
) *ApprovalService {
	return &ApprovalService{
		db:          db,
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
		cache:       cache,
		notices:     notices,
	}
}

// ListPending returns the transactions awaiting review, newest first.
func (s *ApprovalService) ListPending(ctx context.Context) ([]*model.Transaction, error) {
	return s.txnRepo.GetPendingTransactions()
}

// ListAll returns every transaction, newest first. Admin console history view.
func (s *ApprovalService) ListAll(ctx context.Context) ([]*model.Transaction, error) {
	return s.txnRepo.GetAllTransactions()
}

// TransactionsForAccount returns one account's history, newest first.
func (s *ApprovalService) TransactionsForAccount(ctx context.Context, accountID int) ([]*model.Transaction, error) {
	return s.txnRepo.GetTransactionsByAccountID(accountID)
}

// Approve finalizes a pending transaction. The balance does not change, the
// debit was already applied when the transaction was created. A second call
// on the same id fails with ErrAlreadyResolved and changes nothing.
func (s *ApprovalService) Approve(ctx context.Context, transactionID int) (*model.Transaction, error) {
	log := logger.Log.WithField("transaction_id", transactionID)
	log.Info("Approving transaction")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	transaction, err := s.txnRepo.GetTransactionForUpdate(tx, transactionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if transaction.Resolved() {
		return nil, ErrAlreadyResolved
	}

	if err := s.txnRepo.UpdateTransactionStatus(tx, transactionID, model.StatusSuccessful); err != nil {
		return nil, fmt.Errorf("could not update transaction status: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit approval: %w", err)
	}

	transaction.Status = model.StatusSuccessful
	s.notices.Record(fmt.Sprintf("Transaction %s approved", transaction.Reference))

	log.Info("Transaction approved")
	return transaction, nil
}

// Reject resolves a pending transaction as rejected. For outgoing transfers
// the originating account is credited back the full amount under the row
// lock; refund and status flip are one atomic database transaction.
func (s *ApprovalService) Reject(ctx context.Context, transactionID int) (*model.Transaction, error) {
	log := logger.Log.WithField("transaction_id", transactionID)
	log.Info("Rejecting transaction")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	transaction, err := s.txnRepo.GetTransactionForUpdate(tx, transactionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if transaction.Resolved() {
		return nil, ErrAlreadyResolved
	}

	var refundedUserID int
	if transaction.Type == model.TypeOutgoing {
		account, err := s.accountRepo.GetAccountForUpdate(tx, transaction.AccountID)
		if err != nil {
			return nil, fmt.Errorf("could not lock account for refund: %w", err)
		}
		if err := s.accountRepo.UpdateAccountBalance(tx, account.ID, account.Balance+transaction.Amount); err != nil {
			return nil, fmt.Errorf("could not refund account: %w", err)
		}
		refundedUserID = account.UserID
	}

	if err := s.txnRepo.UpdateTransactionStatus(tx, transactionID, model.StatusRejected); err != nil {
		return nil, fmt.Errorf("could not update transaction status: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit rejection: %w", err)
	}

	transaction.Status = model.StatusRejected
	if refundedUserID != 0 {
		s.cache.Del(ctx, accountCacheKey(refundedUserID))
		s.notices.Record(fmt.Sprintf("Transaction %s rejected, $%.2f refunded", transaction.Reference, transaction.Amount))
	} else {
		s.notices.Record(fmt.Sprintf("Transaction %s rejected", transaction.Reference))
	}

	log.WithFields(logrus.Fields{"type": transaction.Type, "amount": transaction.Amount}).Info("Transaction rejected")
	return transaction, nil
}

// Stats recomputes the dashboard aggregate from the full transaction set on
// every call. Approvals and rejections happen out of band, so nothing here
// is cached incrementally.
func (s *ApprovalService) Stats(ctx context.Context) (*model.TransactionStats, error) {
	transactions, err := s.txnRepo.GetAllTransactions()
	if err != nil {
		return nil, err
	}
	return foldStats(transactions), nil
}

// StatsForAccount is the per-account variant used by the user dashboard.
func (s *ApprovalService) StatsForAccount(ctx context.Context, accountID int) (*model.TransactionStats, error) {
	transactions, err := s.txnRepo.GetTransactionsByAccountID(accountID)
	if err != nil {
		return nil, err
	}
	return foldStats(transactions), nil
}

func foldStats(transactions []*model.Transaction) *model.TransactionStats {
	stats := &model.TransactionStats{TransactionCount: len(transactions)}
	for _, t := range transactions {
		switch {
		case t.Status == model.StatusPending:
			stats.PendingCount++
		case t.Status == model.StatusSuccessful && t.Type == model.TypeIncoming:
			stats.IncomingTotal += t.Amount
		case t.Status == model.StatusSuccessful && t.Type == model.TypeOutgoing:
			stats.OutgoingTotal += t.Amount
		}
	}
	return stats
}
