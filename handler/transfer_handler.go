package handler

import (
	"bankdash-api/common"
	"bankdash-api/model"
	"bankdash-api/service"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// TransferHandler drives the user-side transfer flow: initiate with details,
// complete with the emailed code, or cancel.
type TransferHandler struct {
	service *service.TransferService
}

func NewTransferHandler(s *service.TransferService) *TransferHandler {
	return &TransferHandler{service: s}
}

// InitiateTransfer validates the details and sends a verification code.
func (h *TransferHandler) InitiateTransfer(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req service.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid request body", err)
	}

	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	codeID, err := h.service.Initiate(r.Context(), userID, req)
	if err != nil {
		switch err {
		case service.ErrMissingField, service.ErrInvalidAmount, service.ErrInsufficientFunds, service.ErrInvalidRoutingCode:
			return common.NewAppError(http.StatusBadRequest, err.Error(), err)
		case service.ErrAccountNotFound:
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		case service.ErrDeliveryFailure:
			return common.NewAppError(http.StatusBadGateway, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not initiate transfer", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"code_id": codeID})
	return nil
}

// CompleteTransfer verifies the submitted code and commits the transfer.
func (h *TransferHandler) CompleteTransfer(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CompleteTransferRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	transaction, err := h.service.Complete(r.Context(), userID, req.CodeID, req.Code)
	if err != nil {
		switch err {
		case service.ErrTransferNotFound, service.ErrCodeNotFound, service.ErrAccountNotFound:
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		case service.ErrPermissionDenied:
			return common.NewAppError(http.StatusForbidden, err.Error(), err)
		case service.ErrCodeExpired, service.ErrInvalidCode, service.ErrInsufficientFunds:
			return common.NewAppError(http.StatusBadRequest, err.Error(), err)
		case service.ErrCodeAlreadyUsed:
			return common.NewAppError(http.StatusConflict, err.Error(), err)
		case service.ErrTooManyAttempts:
			return common.NewAppError(http.StatusTooManyRequests, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not complete transfer", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(transaction)
	return nil
}

// CancelTransfer abandons an initiated transfer before completion.
func (h *TransferHandler) CancelTransfer(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	codeID := mux.Vars(r)["codeId"]

	if err := h.service.Cancel(r.Context(), userID, codeID); err != nil {
		switch err {
		case service.ErrTransferNotFound:
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		case service.ErrPermissionDenied:
			return common.NewAppError(http.StatusForbidden, err.Error(), err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not cancel transfer", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// ListRoutingCountries exposes the routing-code reference table so the
// transfer form can render per-country labels and placeholders.
func (h *TransferHandler) ListRoutingCountries(w http.ResponseWriter, r *http.Request) *common.AppError {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.RoutingCountries())
	return nil
}
