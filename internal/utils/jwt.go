// Package utils issues and verifies admin access tokens and hashes admin
// passwords.
package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken is a signed JWT and its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// AdminClaims is what an access token says about its holder.
type AdminClaims struct {
	AdminID uint64
	Role    string
}

// NewAccessToken signs an HS256 token for the admin.  sub carries the
// admin ID, role the admin's username.
func NewAccessToken(secret string, adminID uint64, role string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(adminID, 10),
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies signature and expiry and extracts the claims.
// Only HMAC-signed tokens are accepted.
func ParseAccessToken(secret, raw string) (AdminClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return AdminClaims{}, err
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return AdminClaims{}, errors.New("invalid claims")
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return AdminClaims{}, err
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return AdminClaims{}, errors.New("invalid subject")
	}
	role, _ := claims["role"].(string)
	return AdminClaims{AdminID: id, Role: role}, nil
}
