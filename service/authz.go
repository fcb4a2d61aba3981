package service

import (
	"bankdash-api/model"
	"errors"
)

// ErrPermissionDenied is returned whenever an actor reaches for a profile or
// transfer outside their authority.
var ErrPermissionDenied = errors.New("permission denied")

// CanViewUser is the single authorization predicate for profile visibility:
// a master admin sees everyone, an ordinary admin sees everyone except
// master admins, and regular users see nobody through the console.
func CanViewUser(actorRole, targetRole model.Role) bool {
	switch actorRole {
	case model.RoleMasterAdmin:
		return true
	case model.RoleAdmin:
		return targetRole != model.RoleMasterAdmin
	default:
		return false
	}
}

// CanEditUser mirrors CanViewUser for mutations. Kept separate so the edit
// rules can tighten without touching visibility.
func CanEditUser(actorRole, targetRole model.Role) bool {
	switch actorRole {
	case model.RoleMasterAdmin:
		return true
	case model.RoleAdmin:
		return targetRole != model.RoleMasterAdmin
	default:
		return false
	}
}
