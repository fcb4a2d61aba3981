package handler

import (
	"bankdash-api/common"
	"bankdash-api/config"
	"bankdash-api/logger"
	"bankdash-api/model"
	"bankdash-api/repository"
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	UserIDKey   contextKey = "userID"
	UserRoleKey contextKey = "userRole"
)

// AuthMiddleware parses the bearer token and then revalidates the principal
// against the users table: the token is untrusted input, a deactivated user
// or a role that drifted since the token was signed gets rejected here.
func AuthMiddleware(users repository.IUserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				common.NewAppError(http.StatusUnauthorized, "Authorization header is required", nil).Send(w)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				common.NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil).Send(w)
				return
			}

			tokenString := headerParts[1]
			claims := &model.AppClaims{}

			jwtKey := []byte(config.AppConfig.JWT.SecretKey)

			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				return jwtKey, nil
			})
			if err != nil || !token.Valid {
				common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", err).Send(w)
				return
			}

			user, err := users.GetUserByID(claims.UserID)
			if err != nil {
				common.NewAppError(http.StatusUnauthorized, "Unknown principal", err).Send(w)
				return
			}
			if !user.IsActive {
				common.NewAppError(http.StatusUnauthorized, "This account has been deactivated", nil).Send(w)
				return
			}
			if user.Role != claims.Role {
				common.NewAppError(http.StatusUnauthorized, "Session is stale, please sign in again", nil).Send(w)
				return
			}

			if err := users.TouchLastSeen(user.ID); err != nil {
				logger.Log.WithError(err).WithField("user_id", user.ID).Warn("Failed to update last seen")
			}

			ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
			ctx = context.WithValue(ctx, UserRoleKey, user.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminMiddleware gates the admin console routes.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(UserRoleKey).(model.Role)

		if !ok || !role.IsAdmin() {
			common.NewAppError(http.StatusForbidden, "Access denied. Admin privileges required.", nil).Send(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}
