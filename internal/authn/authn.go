package authn

import (
	"errors"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid bearer token")

// Claims carried by a board bearer token. The subject is the user id.
type Claims struct {
	jwt.StandardClaims
	Username string `json:"username"`
}

// MintToken signs a long-lived bearer token for the user. Tokens are minted
// once at first login and stored with the user; account deletion revokes
// them because the middleware compares against the stored copy.
func MintToken(userID uuid.UUID, username, signingKey string) (string, error) {
	claims := Claims{
		StandardClaims: jwt.StandardClaims{Subject: userID.String()},
		Username:       username,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
}

// ParseClaims verifies the token signature and returns its claims.
func ParseClaims(token, signingKey string) (Claims, error) {
	claims := Claims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(signingKey), nil
	})
	if err != nil || !parsed.Valid {
		return claims, ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return claims, ErrInvalidToken
	}
	return claims, nil
}
