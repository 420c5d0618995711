// Package jwt wraps token verification. Tokens are minted by the identity
// service; this application only verifies them and reads claims.
package jwt

import (
	"github.com/go-chi/jwtauth/v5"
)

type Service interface {
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}
