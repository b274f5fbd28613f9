package model

import "github.com/golang-jwt/jwt/v5"

// AppClaims is the payload carried by both the access and the refresh
// token. Only the account identifier is embedded; role and verification
// state are always resolved from the store at request time.
type AppClaims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}
