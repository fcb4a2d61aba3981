package repository

import (
	"bankdash-api/logger"
	"bankdash-api/model"
	"database/sql"

	"github.com/sirupsen/logrus"
)

// IAccountRepository defines the contract for account database operations.
// Balance mutations go through GetAccountForUpdate/UpdateAccountBalance so the
// caller holds the row lock for the whole read-modify-write.
type IAccountRepository interface {
	CreateAccount(account *model.Account) error
	GetAccountByUserID(userID int) (*model.Account, error)
	GetAccountByID(id int) (*model.Account, error)
	GetAllAccounts() ([]*model.Account, error)
	GetLastAccountNumber() (int64, error)
	GetAccountForUpdate(tx *sql.Tx, accountID int) (*model.Account, error)
	UpdateAccountBalance(tx *sql.Tx, accountID int, newBalance float64) error
}

type AccountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{DB: db}
}

// CreateAccount adds a new account to the database.
func (r *AccountRepository) CreateAccount(account *model.Account) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":        account.UserID,
		"account_number": account.AccountNumber,
	})
	log.Info("Executing query to create a new account")

	query := `INSERT INTO accounts (user_id, account_number, balance) VALUES ($1, $2, $3) RETURNING id, updated_at, created_at`
	err := r.DB.QueryRow(query, account.UserID, account.AccountNumber, account.Balance).Scan(&account.ID, &account.UpdatedAt, &account.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create account query")
		return err
	}
	return nil
}

// GetAccountByUserID retrieves the account attached to a user. Each user has
// exactly one.
func (r *AccountRepository) GetAccountByUserID(userID int) (*model.Account, error) {
	account := &model.Account{}
	query := `SELECT id, user_id, account_number, balance, updated_at, created_at FROM accounts WHERE user_id = $1`
	err := r.DB.QueryRow(query, userID).Scan(&account.ID, &account.UserID, &account.AccountNumber, &account.Balance, &account.UpdatedAt, &account.CreatedAt)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *AccountRepository) GetAccountByID(id int) (*model.Account, error) {
	account := &model.Account{}
	query := `SELECT id, user_id, account_number, balance, updated_at, created_at FROM accounts WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&account.ID, &account.UserID, &account.AccountNumber, &account.Balance, &account.UpdatedAt, &account.CreatedAt)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// GetAllAccounts retrieves all accounts. Used by the admin console and the
// balance watcher.
func (r *AccountRepository) GetAllAccounts() ([]*model.Account, error) {
	log := logger.Log
	log.Debug("Executing query to get all accounts")

	query := `SELECT id, user_id, account_number, balance, updated_at, created_at FROM accounts`
	rows, err := r.DB.Query(query)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for all accounts")
		return nil, err
	}
	defer rows.Close()

	var accounts []*model.Account
	for rows.Next() {
		var acc model.Account
		if err := rows.Scan(&acc.ID, &acc.UserID, &acc.AccountNumber, &acc.Balance, &acc.UpdatedAt, &acc.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan account row")
			return nil, err
		}
		accounts = append(accounts, &acc)
	}
	return accounts, nil
}

// GetLastAccountNumber returns the highest assigned account number, for
// sequential account number generation.
func (r *AccountRepository) GetLastAccountNumber() (int64, error) {
	var last int64
	query := `SELECT COALESCE(MAX(account_number), 1000000000) FROM accounts`
	if err := r.DB.QueryRow(query).Scan(&last); err != nil {
		logger.Log.WithError(err).Error("Failed to execute last account number query")
		return 0, err
	}
	return last, nil
}

func (r *AccountRepository) GetAccountForUpdate(tx *sql.Tx, accountID int) (*model.Account, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Info("Executing query to get account for update")

	account := &model.Account{}
	query := `SELECT id, user_id, account_number, balance FROM accounts WHERE id = $1 FOR UPDATE`
	err := tx.QueryRow(query, accountID).Scan(&account.ID, &account.UserID, &account.AccountNumber, &account.Balance)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("Account not found for update")
		} else {
			log.WithError(err).Error("Failed to execute get account for update query")
		}
		return nil, err
	}
	return account, nil
}

func (r *AccountRepository) UpdateAccountBalance(tx *sql.Tx, accountID int, newBalance float64) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id":  accountID,
		"new_balance": newBalance,
	})
	log.Info("Executing query to update account balance")

	query := `UPDATE accounts SET balance = $1, updated_at = now() WHERE id = $2`
	_, err := tx.Exec(query, newBalance, accountID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update account balance query")
		return err
	}
	return nil
}
