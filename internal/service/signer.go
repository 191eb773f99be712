package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer is the token capability the session service consumes: sign a claims
// payload, or verify a token back into claims.
type Signer interface {
	Sign(claims jwt.MapClaims) (string, error)
	Verify(token string) (jwt.MapClaims, error)
}

type hmacSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner returns an HS256 signer issuing tokens with the given lifetime.
func NewSigner(secret []byte, ttl time.Duration) Signer {
	return &hmacSigner{secret: secret, ttl: ttl}
}

func (s *hmacSigner) Sign(claims jwt.MapClaims) (string, error) {
	now := time.Now()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(s.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *hmacSigner) Verify(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
