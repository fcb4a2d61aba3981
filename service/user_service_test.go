package service

import (
	"bankdash-api/model"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestUserService_ListUsers(t *testing.T) {
	allUsers := []*model.User{
		{ID: 1, Email: "root@example.com", Role: model.RoleMasterAdmin},
		{ID: 2, Email: "admin@example.com", Role: model.RoleAdmin},
		{ID: 3, Email: "user@example.com", Role: model.RoleUser},
	}

	t.Run("master admin sees everyone", func(t *testing.T) {
		mockUserRepo := new(AuthMockUserRepo)
		mockUserRepo.On("GetAllUsers").Return(allUsers, nil).Once()

		userService := NewUserService(mockUserRepo, nil)

		users, err := userService.ListUsers(model.RoleMasterAdmin)

		assert.NoError(t, err)
		assert.Len(t, users, 3)
	})

	t.Run("admin does not see master admins", func(t *testing.T) {
		mockUserRepo := new(AuthMockUserRepo)
		mockUserRepo.On("GetAllUsers").Return(allUsers, nil).Once()

		userService := NewUserService(mockUserRepo, nil)

		users, err := userService.ListUsers(model.RoleAdmin)

		assert.NoError(t, err)
		assert.Len(t, users, 2)
		for _, u := range users {
			assert.NotEqual(t, model.RoleMasterAdmin, u.Role)
		}
	})
}

func TestUserService_CreateUser(t *testing.T) {
	req := model.CreateUserRequest{
		Email:          "provisioned@example.com",
		Name:           "Provisioned User",
		Password:       "password123",
		Role:           model.RoleAdmin,
		InitialBalance: 500.00,
	}

	t.Run("master admin may pick the role", func(t *testing.T) {
		mockUserRepo := new(AuthMockUserRepo)
		mockAccountRepo := new(AuthMockAccountRepo)

		mockUserRepo.On("GetUserByEmail", req.Email).Return(nil, sql.ErrNoRows).Once()
		mockUserRepo.On("CreateUser", mock.MatchedBy(func(u *model.User) bool {
			return u.Role == model.RoleAdmin
		})).Run(func(args mock.Arguments) {
			args.Get(0).(*model.User).ID = 50
		}).Return(nil).Once()
		mockAccountRepo.On("GetLastAccountNumber").Return(int64(1000000010), nil).Once()
		mockAccountRepo.On("CreateAccount", mock.MatchedBy(func(a *model.Account) bool {
			return a.UserID == 50 && a.Balance == 500.00
		})).Return(nil).Once()

		userService := NewUserService(mockUserRepo, mockAccountRepo)

		user, err := userService.CreateUser(model.RoleMasterAdmin, req)

		assert.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, user.Role)
		mockAccountRepo.AssertExpectations(t)
	})

	t.Run("ordinary admin gets the requested role ignored", func(t *testing.T) {
		mockUserRepo := new(AuthMockUserRepo)
		mockAccountRepo := new(AuthMockAccountRepo)

		mockUserRepo.On("GetUserByEmail", req.Email).Return(nil, sql.ErrNoRows).Once()
		mockUserRepo.On("CreateUser", mock.MatchedBy(func(u *model.User) bool {
			return u.Role == model.RoleUser
		})).Return(nil).Once()
		mockAccountRepo.On("GetLastAccountNumber").Return(int64(1000000010), nil).Once()
		mockAccountRepo.On("CreateAccount", mock.Anything).Return(nil).Once()

		userService := NewUserService(mockUserRepo, mockAccountRepo)

		user, err := userService.CreateUser(model.RoleAdmin, req)

		assert.NoError(t, err)
		assert.Equal(t, model.RoleUser, user.Role)
	})

	t.Run("regular user may not provision", func(t *testing.T) {
		userService := NewUserService(nil, nil)

		_, err := userService.CreateUser(model.RoleUser, req)

		assert.Equal(t, ErrPermissionDenied, err)
	})
}

func TestUserService_UpdateUserRole(t *testing.T) {
	t.Run("master admin promotes a user to admin", func(t *testing.T) {
		mockUserRepo := new(AuthMockUserRepo)
		mockUserRepo.On("GetUserByID", 3).Return(&model.User{ID: 3, Role: model.RoleUser}, nil).Once()
		mockUserRepo.On("UpdateUserRole", 3, string(model.RoleAdmin)).Return(nil).Once()

		userService := NewUserService(mockUserRepo, nil)

		err := userService.UpdateUserRole(model.RoleMasterAdmin, 3, model.RoleAdmin)

		assert.NoError(t, err)
		mockUserRepo.AssertExpectations(t)
	})

	t.Run("admin cannot touch a master admin", func(t *testing.T) {
		mockUserRepo := new(AuthMockUserRepo)
		mockUserRepo.On("GetUserByID", 1).Return(&model.User{ID: 1, Role: model.RoleMasterAdmin}, nil).Once()

		userService := NewUserService(mockUserRepo, nil)

		err := userService.UpdateUserRole(model.RoleAdmin, 1, model.RoleUser)

		assert.Equal(t, ErrPermissionDenied, err)
		mockUserRepo.AssertNotCalled(t, "UpdateUserRole")
	})

	t.Run("only a master admin may grant master admin", func(t *testing.T) {
		mockUserRepo := new(AuthMockUserRepo)
		mockUserRepo.On("GetUserByID", 3).Return(&model.User{ID: 3, Role: model.RoleUser}, nil).Once()

		userService := NewUserService(mockUserRepo, nil)

		err := userService.UpdateUserRole(model.RoleAdmin, 3, model.RoleMasterAdmin)

		assert.Equal(t, ErrPermissionDenied, err)
		mockUserRepo.AssertNotCalled(t, "UpdateUserRole")
	})

	t.Run("rejects unknown role values", func(t *testing.T) {
		userService := NewUserService(nil, nil)

		err := userService.UpdateUserRole(model.RoleMasterAdmin, 3, model.Role("superuser"))

		assert.Equal(t, ErrInvalidRole, err)
	})

	t.Run("unknown target user", func(t *testing.T) {
		mockUserRepo := new(AuthMockUserRepo)
		mockUserRepo.On("GetUserByID", 99).Return(nil, sql.ErrNoRows).Once()

		userService := NewUserService(mockUserRepo, nil)

		err := userService.UpdateUserRole(model.RoleMasterAdmin, 99, model.RoleAdmin)

		assert.Equal(t, ErrUserNotFound, err)
	})
}

func TestUserService_SetUserActive(t *testing.T) {
	t.Run("admin deactivates a regular user", func(t *testing.T) {
		mockUserRepo := new(AuthMockUserRepo)
		mockUserRepo.On("GetUserByID", 3).Return(&model.User{ID: 3, Role: model.RoleUser}, nil).Once()
		mockUserRepo.On("SetUserActive", 3, false).Return(nil).Once()

		userService := NewUserService(mockUserRepo, nil)

		err := userService.SetUserActive(model.RoleAdmin, 3, false)

		assert.NoError(t, err)
		mockUserRepo.AssertExpectations(t)
	})

	t.Run("admin cannot deactivate a master admin", func(t *testing.T) {
		mockUserRepo := new(AuthMockUserRepo)
		mockUserRepo.On("GetUserByID", 1).Return(&model.User{ID: 1, Role: model.RoleMasterAdmin}, nil).Once()

		userService := NewUserService(mockUserRepo, nil)

		err := userService.SetUserActive(model.RoleAdmin, 1, false)

		assert.Equal(t, ErrPermissionDenied, err)
		mockUserRepo.AssertNotCalled(t, "SetUserActive")
	})
}
