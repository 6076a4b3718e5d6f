package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenUnreadable is returned when an access token cannot be parsed
// or carries no usable time claims.
var ErrTokenUnreadable = errors.New("access token unreadable")

var tokenParser = jwt.NewParser(jwt.WithoutClaimsValidation())

// TokenIssuedAt extracts the iat claim from a JWT access token without
// verifying its signature. Verification is the provider's job; this
// package only needs the timestamp to estimate session age.
func TokenIssuedAt(accessToken string) (time.Time, error) {
	claims, err := tokenClaims(accessToken)
	if err != nil {
		return time.Time{}, err
	}
	iat, err := claims.GetIssuedAt()
	if err != nil || iat == nil {
		return time.Time{}, ErrTokenUnreadable
	}
	return iat.Time, nil
}

// TokenExpiresAt extracts the exp claim from a JWT access token without
// verifying its signature.
func TokenExpiresAt(accessToken string) (time.Time, error) {
	claims, err := tokenClaims(accessToken)
	if err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, ErrTokenUnreadable
	}
	return exp.Time, nil
}

func tokenClaims(accessToken string) (jwt.MapClaims, error) {
	if accessToken == "" {
		return nil, ErrTokenUnreadable
	}
	token, _, err := tokenParser.ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil {
		return nil, ErrTokenUnreadable
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenUnreadable
	}
	return claims, nil
}
