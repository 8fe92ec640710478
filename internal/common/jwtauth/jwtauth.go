// Package jwtauth issues and verifies the HS256 access tokens shared by the
// services.
package jwtauth

import (
	"errors"
	"fmt"
	"time"

	"taxi-booking/internal/common/authz"
	"taxi-booking/internal/common/types"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid access token")
	ErrExpiredToken = errors.New("access token has expired")
	ErrMissingToken = errors.New("access token is missing")
)

type accessClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	RoleID string `json:"role_id,omitempty"`
	jwt.StandardClaims
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for id and returns it with its expiry.
func (m *Manager) Issue(id authz.Identity) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)

	claims := accessClaims{
		UserID: id.UserID.String(),
		Role:   id.Role.String(),
		StandardClaims: jwt.StandardClaims{
			Subject:   id.UserID.String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: exp.Unix(),
			Id:        uuid.NewString(),
		},
	}
	if id.RoleID != uuid.Nil {
		claims.RoleID = id.RoleID.String()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, exp, nil
}

// Verify parses tokenString and returns the identity it carries.
func (m *Manager) Verify(tokenString string) (authz.Identity, error) {
	if tokenString == "" {
		return authz.Identity{}, ErrMissingToken
	}

	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return authz.Identity{}, ErrExpiredToken
		}
		return authz.Identity{}, ErrInvalidToken
	}
	if !token.Valid {
		return authz.Identity{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return authz.Identity{}, ErrInvalidToken
	}
	role, err := types.ParseRole(claims.Role)
	if err != nil {
		return authz.Identity{}, ErrInvalidToken
	}

	id := authz.Identity{UserID: userID, Role: role}
	if claims.RoleID != "" {
		roleID, err := uuid.Parse(claims.RoleID)
		if err != nil {
			return authz.Identity{}, ErrInvalidToken
		}
		id.RoleID = roleID
	}
	return id, nil
}
