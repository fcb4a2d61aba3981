package handler

import (
	"bankdash-api/common"
	"bankdash-api/model"
	"bankdash-api/service"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// AdminHandler is the admin console surface: transaction review, user
// management and the notification feed.
type AdminHandler struct {
	approvals *service.ApprovalService
	users     *service.UserService
	notices   *service.NoticeService
}

func NewAdminHandler(approvals *service.ApprovalService, users *service.UserService, notices *service.NoticeService) *AdminHandler {
	return &AdminHandler{approvals: approvals, users: users, notices: notices}
}

func actorRole(r *http.Request) (model.Role, *common.AppError) {
	role, ok := r.Context().Value(UserRoleKey).(model.Role)
	if !ok {
		return "", common.NewAppError(http.StatusUnauthorized, "Invalid role in token", nil)
	}
	return role, nil
}

func pathID(r *http.Request, name string) (int, *common.AppError) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, common.NewAppError(http.StatusBadRequest, "Invalid ID in URL path", err)
	}
	return id, nil
}

// ListTransactions returns the full transaction history.
func (h *AdminHandler) ListTransactions(w http.ResponseWriter, r *http.Request) *common.AppError {
	transactions, err := h.approvals.ListAll(r.Context())
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve transactions", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transactions)
	return nil
}

// ListPendingTransactions returns the approval queue, newest first.
func (h *AdminHandler) ListPendingTransactions(w http.ResponseWriter, r *http.Request) *common.AppError {
	transactions, err := h.approvals.ListPending(r.Context())
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve pending transactions", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transactions)
	return nil
}

func (h *AdminHandler) sendResolution(w http.ResponseWriter, transaction *model.Transaction, err error) *common.AppError {
	if err != nil {
		switch err {
		case service.ErrTransactionNotFound:
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		case service.ErrAlreadyResolved:
			return common.NewAppError(http.StatusConflict, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not resolve transaction", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transaction)
	return nil
}

// ApproveTransaction finalizes a pending transaction.
func (h *AdminHandler) ApproveTransaction(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}
	transaction, err := h.approvals.Approve(r.Context(), id)
	return h.sendResolution(w, transaction, err)
}

// RejectTransaction rejects a pending transaction, refunding outgoing ones.
func (h *AdminHandler) RejectTransaction(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}
	transaction, err := h.approvals.Reject(r.Context(), id)
	return h.sendResolution(w, transaction, err)
}

// GetStats returns the console-wide dashboard aggregate.
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) *common.AppError {
	stats, err := h.approvals.Stats(r.Context())
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not compute stats", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
	return nil
}

// ListUsers returns the profiles visible to the acting admin.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	role, appErr := actorRole(r)
	if appErr != nil {
		return appErr
	}

	users, err := h.users.ListUsers(role)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve users", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
	return nil
}

// CreateUser provisions a user with an account from the admin console.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	role, appErr := actorRole(r)
	if appErr != nil {
		return appErr
	}

	var req model.CreateUserRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	user, err := h.users.CreateUser(role, req)
	if err != nil {
		switch err {
		case service.ErrPermissionDenied:
			return common.NewAppError(http.StatusForbidden, err.Error(), err)
		case service.ErrEmailTaken:
			return common.NewAppError(http.StatusConflict, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not create user", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
	return nil
}

// UpdateUserRole changes a user's role.
func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) *common.AppError {
	role, appErr := actorRole(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	var req model.UpdateUserRoleRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	if err := h.users.UpdateUserRole(role, id, req.Role); err != nil {
		switch err {
		case service.ErrUserNotFound:
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		case service.ErrPermissionDenied:
			return common.NewAppError(http.StatusForbidden, err.Error(), err)
		case service.ErrInvalidRole:
			return common.NewAppError(http.StatusBadRequest, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not update role", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// SetUserActive toggles a user's active flag.
func (h *AdminHandler) SetUserActive(w http.ResponseWriter, r *http.Request) *common.AppError {
	role, appErr := actorRole(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	var req model.UpdateUserActiveRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	if err := h.users.SetUserActive(role, id, *req.IsActive); err != nil {
		switch err {
		case service.ErrUserNotFound:
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		case service.ErrPermissionDenied:
			return common.NewAppError(http.StatusForbidden, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not update user", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// ListNotices returns the most recent admin notices.
func (h *AdminHandler) ListNotices(w http.ResponseWriter, r *http.Request) *common.AppError {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	notices, err := h.notices.List(r.Context(), limit)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve notices", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notices)
	return nil
}
