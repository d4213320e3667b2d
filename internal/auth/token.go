package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

const (
	DefaultAccessTokenTTL  = 30 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrWrongTokenType = fmt.Errorf("%w: unexpected token type", ErrInvalidToken)
)

// Claims carries the user id twice: as the standard subject and as id_usuario,
// the claim name older clients read.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uint      `json:"id_usuario"`
	TokenType TokenType `json:"token_type"`
}

// TokenPair is what login and refresh hand back
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenManager issues and verifies HS256 tokens signed with a single secret
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type TokenOption func(*TokenManager)

// WithClock overrides time.Now
func WithClock(now func() time.Time) TokenOption {
	return func(m *TokenManager) {
		m.now = now
	}
}

func NewTokenManager(secret []byte, accessTTL, refreshTTL time.Duration, opts ...TokenOption) *TokenManager {
	if accessTTL == 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	if refreshTTL == 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}
	m := &TokenManager{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *TokenManager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }

func (m *TokenManager) IssueAccessToken(userID uint) (string, error) {
	return m.issue(userID, AccessToken, m.accessTTL)
}

func (m *TokenManager) IssueRefreshToken(userID uint) (string, error) {
	return m.issue(userID, RefreshToken, m.refreshTTL)
}

// IssuePair mints a fresh access and refresh token for userID
func (m *TokenManager) IssuePair(userID uint) (*TokenPair, error) {
	access, err := m.IssueAccessToken(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := m.IssueRefreshToken(userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (m *TokenManager) VerifyAccessToken(token string) (uint, error) {
	return m.verify(token, AccessToken)
}

func (m *TokenManager) VerifyRefreshToken(token string) (uint, error) {
	return m.verify(token, RefreshToken)
}

func (m *TokenManager) issue(userID uint, typ TokenType, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:    userID,
		TokenType: typ,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", typ, err)
	}
	return signed, nil
}

func (m *TokenManager) verify(tokenString string, want TokenType) (uint, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return 0, ErrInvalidToken
	}
	if claims.TokenType != want {
		return 0, ErrWrongTokenType
	}
	if claims.UserID == 0 {
		return 0, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	return claims.UserID, nil
}
