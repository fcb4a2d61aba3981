package model

import "github.com/golang-jwt/jwt/v5"

// AppClaims is the JWT payload. The claims are treated as untrusted input:
// the auth middleware revalidates them against the users table on every
// request before they reach a handler.
type AppClaims struct {
	UserID int  `json:"user_id"`
	Role   Role `json:"role"`
	jwt.RegisteredClaims
}
