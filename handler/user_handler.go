package handler

import (
	"bankdash-api/common"
	"bankdash-api/repository"
	"encoding/json"
	"net/http"
)

type UserHandler struct {
	Repo repository.IUserRepository
}

func NewUserHandler(repo repository.IUserRepository) *UserHandler {
	return &UserHandler{Repo: repo}
}

// Me returns the signed-in user's own profile.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	user, err := h.Repo.GetUserByID(userID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve profile", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
	return nil
}
