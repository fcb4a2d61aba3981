package model

// RegisterRequest defines the payload for self-service user registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// CreateUserRequest is the admin-console payload for provisioning a user and
// their account. Role is honored for master admins only; everyone else gets
// a plain user.
type CreateUserRequest struct {
	Name           string  `json:"name" validate:"required,min=2,max=100"`
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=8"`
	Role           Role    `json:"role" validate:"omitempty,oneof=user admin master_admin"`
	InitialBalance float64 `json:"initial_balance" validate:"gte=0"`
}

// UpdateUserRoleRequest defines the payload for updating a user's role.
type UpdateUserRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=user admin master_admin"`
}

// UpdateUserActiveRequest toggles a user's active flag.
type UpdateUserActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// CompleteTransferRequest submits the one-time code for a transfer that was
// previously initiated.
type CompleteTransferRequest struct {
	CodeID string `json:"code_id" validate:"required,uuid4"`
	Code   string `json:"code" validate:"required"`
}
