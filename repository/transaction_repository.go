package repository

import (
	"bankdash-api/logger"
	"bankdash-api/model"
	"database/sql"

	"github.com/sirupsen/logrus"
)

// ITransactionRepository defines the contract for transaction database
// operations. Writes take a *sql.Tx so a debit/refund and its status change
// commit together or not at all.
type ITransactionRepository interface {
	CreateTransaction(tx *sql.Tx, transaction *model.Transaction) error
	GetTransactionsByAccountID(accountID int) ([]*model.Transaction, error)
	GetAllTransactions() ([]*model.Transaction, error)
	GetPendingTransactions() ([]*model.Transaction, error)
	GetTransactionForUpdate(tx *sql.Tx, id int) (*model.Transaction, error)
	UpdateTransactionStatus(tx *sql.Tx, id int, status model.TransactionStatus) error
}

type TransactionRepository struct {
	DB *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

const transactionColumns = `id, account_id, reference, type, amount, recipient_name, recipient_bank, recipient_account, recipient_country, routing_code, description, status, created_at, updated_at`

func scanTransaction(row interface{ Scan(...interface{}) error }, t *model.Transaction) error {
	return row.Scan(&t.ID, &t.AccountID, &t.Reference, &t.Type, &t.Amount,
		&t.RecipientName, &t.RecipientBank, &t.RecipientAccount, &t.RecipientCountry,
		&t.RoutingCode, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TransactionRepository) CreateTransaction(tx *sql.Tx, transaction *model.Transaction) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id": transaction.AccountID,
		"type":       transaction.Type,
		"amount":     transaction.Amount,
		"reference":  transaction.Reference,
	})
	log.Info("Executing query to create a new transaction")

	query := `INSERT INTO transactions (account_id, reference, type, amount, recipient_name, recipient_bank, recipient_account, recipient_country, routing_code, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`
	err := tx.QueryRow(query,
		transaction.AccountID, transaction.Reference, transaction.Type, transaction.Amount,
		transaction.RecipientName, transaction.RecipientBank, transaction.RecipientAccount,
		transaction.RecipientCountry, transaction.RoutingCode, transaction.Description,
		transaction.Status,
	).Scan(&transaction.ID, &transaction.CreatedAt, &transaction.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create transaction query")
		return err
	}
	return nil
}

// GetTransactionsByAccountID retrieves the transaction history for one
// account, newest first.
func (r *TransactionRepository) GetTransactionsByAccountID(accountID int) ([]*model.Transaction, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Info("Executing query to get transactions by account ID")

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE account_id = $1 ORDER BY created_at DESC`
	return r.queryTransactions(query, accountID)
}

// GetAllTransactions retrieves every transaction, newest first. Admin only.
func (r *TransactionRepository) GetAllTransactions() ([]*model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY created_at DESC`
	return r.queryTransactions(query)
}

// GetPendingTransactions retrieves all transactions awaiting review, newest
// first.
func (r *TransactionRepository) GetPendingTransactions() ([]*model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE status = $1 ORDER BY created_at DESC`
	return r.queryTransactions(query, model.StatusPending)
}

func (r *TransactionRepository) queryTransactions(query string, args ...interface{}) ([]*model.Transaction, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute transaction list query")
		return nil, err
	}
	defer rows.Close()

	var transactions []*model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			logger.Log.WithError(err).Error("Failed to scan transaction row")
			return nil, err
		}
		transactions = append(transactions, &t)
	}
	return transactions, nil
}

// GetTransactionForUpdate locks a transaction row for the duration of the
// surrounding database transaction.
func (r *TransactionRepository) GetTransactionForUpdate(tx *sql.Tx, id int) (*model.Transaction, error) {
	log := logger.Log.WithField("transaction_id", id)
	log.Info("Executing query to get transaction for update")

	t := &model.Transaction{}
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 FOR UPDATE`
	if err := scanTransaction(tx.QueryRow(query, id), t); err != nil {
		if err == sql.ErrNoRows {
			log.Info("Transaction not found for update")
		} else {
			log.WithError(err).Error("Failed to execute get transaction for update query")
		}
		return nil, err
	}
	return t, nil
}

func (r *TransactionRepository) UpdateTransactionStatus(tx *sql.Tx, id int, status model.TransactionStatus) error {
	log := logger.Log.WithFields(logrus.Fields{
		"transaction_id": id,
		"status":         status,
	})
	log.Info("Executing query to update transaction status")

	query := `UPDATE transactions SET status = $1, updated_at = now() WHERE id = $2`
	_, err := tx.Exec(query, status, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute update transaction status query")
		return err
	}
	return nil
}
