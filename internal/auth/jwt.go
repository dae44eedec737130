package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MhisterKhing6/shortly/internal/config"
)

// Claims represents the JWT claims carried by shortly access tokens
type Claims struct {
	jwt.RegisteredClaims
	Name        string `json:"name"`
	PhoneNumber string `json:"phone"`
	Role        string `json:"role"`
	OfficeID    string `json:"office"`
}

// TokenService validates bearer tokens and extracts the caller identity.
// Token issuance belongs to the user service; only validation lives here.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a token service from configuration
func NewTokenService(cfg *config.JWTConfig) *TokenService {
	return &TokenService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
	}
}

// ValidateToken parses and verifies a bearer token, returning the caller
func (s *TokenService) ValidateToken(tokenString string) (*Caller, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return &Caller{
		ID:          claims.Subject,
		Name:        claims.Name,
		PhoneNumber: claims.PhoneNumber,
		Role:        Role(claims.Role),
		OfficeID:    claims.OfficeID,
	}, nil
}

// GenerateToken signs a token for the given caller. Used by tests and
// local tooling; production tokens come from the user service.
func (s *TokenService) GenerateToken(caller Caller, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   caller.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name:        caller.Name,
		PhoneNumber: caller.PhoneNumber,
		Role:        string(caller.Role),
		OfficeID:    caller.OfficeID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
