// Package auth implements the credential boundary: issuing bearer
// tokens and resolving them back into an actor. The dispatch framework
// only consumes the Resolver function; it never sees token formats.
package auth

import (
	"errors"
	"fmt"
	"time"

	"edubackend/internal/dispatch"
	"edubackend/internal/domain"
	"edubackend/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredential = errors.New("auth: invalid credential")

// Resolver turns a raw credential into the actor it identifies.
// Resolution failure means the credential is absent, expired, or
// malformed; middleware decides whether that is fatal for the route.
type Resolver func(credential string) (dispatch.Actor, error)

// NewJWTResolver builds a Resolver over HS256 tokens signed with secret.
// The subject claim carries the user id as a decimal string, same as
// every other identifier on the wire.
func NewJWTResolver(secret []byte) Resolver {
	return func(credential string) (dispatch.Actor, error) {
		if credential == "" {
			return dispatch.Anonymous, ErrInvalidCredential
		}
		token, err := jwt.Parse(credential, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			return dispatch.Anonymous, ErrInvalidCredential
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return dispatch.Anonymous, ErrInvalidCredential
		}
		sub, _ := claims["sub"].(string)
		userID, err := domain.ParseID(sub)
		if err != nil {
			return dispatch.Anonymous, ErrInvalidCredential
		}
		role, _ := claims["role"].(string)
		return dispatch.Actor{
			UserID:        userID,
			Authenticated: true,
			Role:          domain.ParseRole(role),
		}, nil
	}
}

// IssueToken signs an HS256 token for the user, valid for ttl.
func IssueToken(secret []byte, user models.User, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"exp":  time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}

// HashPassword wraps bcrypt at default cost.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
