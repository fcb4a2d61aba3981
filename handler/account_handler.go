package handler

import (
	"bankdash-api/common"
	"bankdash-api/service"
	"encoding/json"
	"net/http"
)

// AccountHandler serves the signed-in user's own dashboard data.
type AccountHandler struct {
	accounts  *service.AccountService
	approvals *service.ApprovalService
}

func NewAccountHandler(accounts *service.AccountService, approvals *service.ApprovalService) *AccountHandler {
	return &AccountHandler{accounts: accounts, approvals: approvals}
}

// GetMyAccount returns the caller's account with its current balance.
func (h *AccountHandler) GetMyAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	account, err := h.accounts.GetAccountForUser(r.Context(), userID)
	if err != nil {
		if err == service.ErrAccountNotFound {
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve account", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(account)
	return nil
}

// ListMyTransactions returns the caller's transaction history, newest first.
func (h *AccountHandler) ListMyTransactions(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	account, err := h.accounts.GetAccountForUser(r.Context(), userID)
	if err != nil {
		if err == service.ErrAccountNotFound {
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve account", err)
	}

	transactions, err := h.approvals.TransactionsForAccount(r.Context(), account.ID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve transactions", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transactions)
	return nil
}

// GetMyStats returns the caller's dashboard aggregate, recomputed from the
// full transaction set.
func (h *AccountHandler) GetMyStats(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	account, err := h.accounts.GetAccountForUser(r.Context(), userID)
	if err != nil {
		if err == service.ErrAccountNotFound {
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve account", err)
	}

	stats, err := h.approvals.StatsForAccount(r.Context(), account.ID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not compute stats", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
	return nil
}
