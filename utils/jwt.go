package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// Roles carried in the "role" claim.
const (
	RoleUser   = "user"
	RoleArtist = "artist"
)

// Claims is the verified content of a bearer token.
type Claims struct {
	Subject string
	Email   string
	Role    string
}

// TokenService signs and verifies HS256 tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateToken creates a signed JWT token with the given subject (userID or artist ID), email and role.
// The token expires after the configured TTL.
func (s *TokenService) GenerateToken(subject, email, role string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"role":  role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses and validates a token string and returns its claims.
func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}
	role, _ := claims["role"].(string)
	email, _ := claims["email"].(string)

	return &Claims{Subject: sub, Email: email, Role: role}, nil
}
