package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"journal-review-api/config"
)

// ErrInvalidToken covers bad signatures, malformed tokens and expiry.
var ErrInvalidToken = errors.New("invalid or expired token")

// CapabilityTTL bounds reviewer invitation links.
const CapabilityTTL = 7 * 24 * time.Hour

// Claims carried by both session tokens and reviewer capability tokens.
// For capability tokens Subject holds the journal id the link is scoped to.
type Claims struct {
	UserID uint   `json:"user_id,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 tokens. The same key and claims
// encoding back both login sessions and reviewer invitation links.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		secret: []byte(cfg.JWTSecret),
		ttl:    time.Duration(cfg.JWTExpireHours) * time.Hour,
	}
}

// Issue creates a session token for the given user.
func (s *TokenService) Issue(userID uint, role string) (string, error) {
	return s.sign(Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
}

// IssueCapability creates a reviewer-scoped token tied to one journal,
// embedded in invitation links.
func (s *TokenService) IssueCapability(journalID uint) (string, error) {
	return s.sign(Claims{
		Role: "reviewer",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(journalID), 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(CapabilityTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
}

// Verify parses and validates a token, returning its claims.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenService) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
