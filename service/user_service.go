package service

import (
	"bankdash-api/logger"
	"bankdash-api/model"
	"bankdash-api/repository"
	"database/sql"
	"errors"

	"github.com/sirupsen/logrus"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidRole  = errors.New("invalid role specified")
)

// UserService is the admin console's user management. All visibility and
// edit decisions go through the CanViewUser/CanEditUser predicates; an
// ordinary admin never sees or touches a master admin row.
type UserService struct {
	userRepo    repository.IUserRepository
	accountRepo repository.IAccountRepository
}

func NewUserService(userRepo repository.IUserRepository, accountRepo repository.IAccountRepository) *UserService {
	return &UserService{userRepo: userRepo, accountRepo: accountRepo}
}

// ListUsers returns the profiles the actor is allowed to see.
func (s *UserService) ListUsers(actorRole model.Role) ([]*model.User, error) {
	users, err := s.userRepo.GetAllUsers()
	if err != nil {
		return nil, err
	}

	visible := make([]*model.User, 0, len(users))
	for _, u := range users {
		if CanViewUser(actorRole, u.Role) {
			visible = append(visible, u)
		}
	}
	return visible, nil
}

// CreateUser provisions a user and their account from the admin console.
// Only a master admin may choose the role; for everyone else the requested
// role is ignored and the user comes out as a plain user.
func (s *UserService) CreateUser(actorRole model.Role, req model.CreateUserRequest) (*model.User, error) {
	if !actorRole.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	if actorRole != model.RoleMasterAdmin {
		role = model.RoleUser
	}

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
		Role:     role,
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
		Balance:       req.InitialBalance,
	}
	if err := s.accountRepo.CreateAccount(account); err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("User provisioned from admin console")
	return user, nil
}

// UpdateUserRole changes a user's role, subject to the edit predicate.
// Granting master_admin is itself a master-admin-only action.
func (s *UserService) UpdateUserRole(actorRole model.Role, targetID int, newRole model.Role) error {
	if newRole != model.RoleUser && newRole != model.RoleAdmin && newRole != model.RoleMasterAdmin {
		return ErrInvalidRole
	}

	target, err := s.userRepo.GetUserByID(targetID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		return err
	}

	if !CanEditUser(actorRole, target.Role) {
		return ErrPermissionDenied
	}
	if newRole == model.RoleMasterAdmin && actorRole != model.RoleMasterAdmin {
		return ErrPermissionDenied
	}

	return s.userRepo.UpdateUserRole(targetID, string(newRole))
}

// SetUserActive toggles a user's active flag, subject to the edit predicate.
func (s *UserService) SetUserActive(actorRole model.Role, targetID int, active bool) error {
	target, err := s.userRepo.GetUserByID(targetID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		return err
	}

	if !CanEditUser(actorRole, target.Role) {
		return ErrPermissionDenied
	}

	return s.userRepo.SetUserActive(targetID, active)
}
