package repository

import (
	"bankdash-api/logger"
	"bankdash-api/model"
	"database/sql"
)

// IUserRepository defines the contract for user profile database operations.
type IUserRepository interface {
	CreateUser(user *model.User) error
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	GetAllUsers() ([]*model.User, error)
	UpdateUserRole(id int, role string) error
	SetUserActive(id int, active bool) error
	TouchLastSeen(id int) error
}

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) CreateUser(user *model.User) error {
	query := `INSERT INTO users (email, name, password, role, is_active) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	return r.DB.QueryRow(query, user.Email, user.Name, user.Password, user.Role, user.IsActive).Scan(&user.ID, &user.CreatedAt)
}

func (r *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, email, name, password, role, is_active, last_seen, created_at FROM users WHERE email = $1`
	err := r.DB.QueryRow(query, email).Scan(&user.ID, &user.Email, &user.Name, &user.Password, &user.Role, &user.IsActive, &user.LastSeen, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByID(id int) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, email, name, password, role, is_active, last_seen, created_at FROM users WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&user.ID, &user.Email, &user.Name, &user.Password, &user.Role, &user.IsActive, &user.LastSeen, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetAllUsers returns every profile. Role-based visibility filtering happens
// in the service layer, not here.
func (r *UserRepository) GetAllUsers() ([]*model.User, error) {
	log := logger.Log
	log.Info("Executing query to get all users")

	query := `SELECT id, email, name, password, role, is_active, last_seen, created_at FROM users ORDER BY created_at DESC`
	rows, err := r.DB.Query(query)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for all users")
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Password, &u.Role, &u.IsActive, &u.LastSeen, &u.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan user row")
			return nil, err
		}
		users = append(users, &u)
	}
	return users, nil
}

func (r *UserRepository) UpdateUserRole(id int, role string) error {
	log := logger.Log.WithField("user_id", id)
	log.Info("Executing query to update user role")

	query := `UPDATE users SET role = $1 WHERE id = $2`
	_, err := r.DB.Exec(query, role, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute update user role query")
		return err
	}
	return nil
}

func (r *UserRepository) SetUserActive(id int, active bool) error {
	log := logger.Log.WithField("user_id", id)
	log.Info("Executing query to update user active flag")

	query := `UPDATE users SET is_active = $1 WHERE id = $2`
	_, err := r.DB.Exec(query, active, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute update user active query")
		return err
	}
	return nil
}

// TouchLastSeen bumps the user's last-activity timestamp.
func (r *UserRepository) TouchLastSeen(id int) error {
	query := `UPDATE users SET last_seen = now() WHERE id = $1`
	_, err := r.DB.Exec(query, id)
	return err
}
