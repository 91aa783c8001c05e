package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"feedgram/apperror"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

// Payload is the identity carried inside both access and refresh tokens.
type Payload struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	FullName string `json:"fullName,omitempty"`
}

// Pair is an access/refresh token pair issued together.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type claims struct {
	Payload
	jwt.RegisteredClaims
}

// Service signs and verifies JWTs. Access and refresh tokens use distinct
// secrets so one cannot stand in for the other.
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
}

func NewService(accessSecret, refreshSecret string) *Service {
	return &Service{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
	}
}

// GenerateAccessToken issues a 1-day HS256 token.
func (s *Service) GenerateAccessToken(p Payload) (string, error) {
	return sign(p, s.accessSecret, accessTokenTTL)
}

// GenerateRefreshToken issues a 30-day HS256 token with the refresh secret.
func (s *Service) GenerateRefreshToken(p Payload) (string, error) {
	return sign(p, s.refreshSecret, refreshTokenTTL)
}

// GeneratePair issues both tokens for the same payload.
func (s *Service) GeneratePair(p Payload) (*Pair, error) {
	access, err := s.GenerateAccessToken(p)
	if err != nil {
		return nil, err
	}
	refresh, err := s.GenerateRefreshToken(p)
	if err != nil {
		return nil, err
	}
	return &Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccessToken validates signature and expiry and returns the payload.
func (s *Service) VerifyAccessToken(tokenString string) (*Payload, error) {
	p, err := verify(tokenString, s.accessSecret)
	if err != nil {
		return nil, apperror.Wrap(apperror.Unauthorized("Invalid or expired access token"), err)
	}
	return p, nil
}

// VerifyRefreshToken is VerifyAccessToken with the refresh secret.
func (s *Service) VerifyRefreshToken(tokenString string) (*Payload, error) {
	p, err := verify(tokenString, s.refreshSecret)
	if err != nil {
		return nil, apperror.Wrap(apperror.Unauthorized("Invalid or expired refresh token"), err)
	}
	return p, nil
}

func sign(p Payload, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	c := claims{
		Payload: p,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
}

func verify(tokenString string, secret []byte) (*Payload, error) {
	c := &claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	return &c.Payload, nil
}
