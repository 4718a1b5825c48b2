// Package tokens issues and validates the two JWT flavours the API
// uses: long-lived session tokens and short-lived temp tokens that
// assert "this email passed OTP verification for this purpose". Temp
// tokens are never accepted as sessions and vice versa.
package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	SessionTTL = 30 * 24 * time.Hour
	TempTTL    = 15 * time.Minute
)

var (
	ErrInvalidToken    = errors.New("token verification failed")
	ErrWrongTokenScope = errors.New("token used outside its scope")
)

type SessionClaims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	Scope  string `json:"scope"`
	jwt.RegisteredClaims
}

type TempClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	Scope   string `json:"scope"`
	jwt.RegisteredClaims
}

type Service struct {
	secret []byte
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// NewSessionToken signs a session token carrying the user id and role.
func (s *Service) NewSessionToken(userID, role string) (string, error) {
	claims := SessionClaims{
		UserID: userID,
		Role:   role,
		Scope:  "session",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseSessionToken validates a session token and returns its claims.
func (s *Service) ParseSessionToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Scope != "session" {
		return nil, ErrWrongTokenScope
	}
	return claims, nil
}

// NewTempToken signs the short-lived verified-email assertion issued
// after a successful OTP check.
func (s *Service) NewTempToken(email, purpose string) (string, error) {
	claims := TempClaims{
		Email:   email,
		Purpose: purpose,
		Scope:   "temp",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TempTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseTempToken validates a temp token and checks that it was issued
// for the expected email and purpose.
func (s *Service) ParseTempToken(tokenString, email, purpose string) (*TempClaims, error) {
	claims := &TempClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Scope != "temp" {
		return nil, ErrWrongTokenScope
	}
	if claims.Email != email || claims.Purpose != purpose {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
