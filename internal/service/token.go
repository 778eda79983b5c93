package service

import (
	"errors"
	"time"

	"github.com/dropcart/dropcart/internal/models"
	"github.com/golang-jwt/jwt/v4"
)

// TokenService issues and verifies service-to-service auth tokens for
// the operational API.
type TokenService interface {
	CreateToken(service string) (string, error)
	VerifyToken(tokenString string) (*models.TokenPayload, error)
}

var errInvalidToken = errors.New("invalid token")

// JWTTokenService implements TokenService with HMAC-signed JWTs.
type JWTTokenService struct {
	key []byte
	ttl time.Duration
}

// NewJWTTokenService creates new JWTTokenService instance
func NewJWTTokenService(key []byte, ttl time.Duration) *JWTTokenService {
	return &JWTTokenService{key: key, ttl: ttl}
}

type serviceClaims struct {
	jwt.RegisteredClaims
	Service string `json:"svc"`
}

// CreateToken issues a token for the named calling service
func (ts *JWTTokenService) CreateToken(service string) (string, error) {
	now := time.Now()
	claims := serviceClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
		Service: service,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ts.key)
}

// VerifyToken validates the signature and expiry and returns the payload
func (ts *JWTTokenService) VerifyToken(tokenString string) (*models.TokenPayload, error) {
	claims := serviceClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return ts.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errInvalidToken
	}

	payload := &models.TokenPayload{Service: claims.Service}
	if claims.IssuedAt != nil {
		payload.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		payload.ExpiresAt = claims.ExpiresAt.Time
	}

	return payload, nil
}
