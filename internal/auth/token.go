package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

type TokenKind string

const (
	TokenKindUndefined  TokenKind = ""
	TokenKindAccess     TokenKind = "access"
	TokenKindRefresh    TokenKind = "refresh"
	TokenKindActivation TokenKind = "activation"
	TokenKindReset      TokenKind = "reset"
)

type TokenClaims struct {
	Kind TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// TokenTTL holds the lifetime of each token kind.
type TokenTTL struct {
	Access     time.Duration
	Refresh    time.Duration
	Activation time.Duration
	Reset      time.Duration
}

// TokenManager issues and verifies the four purpose-scoped token kinds.
// A token of one kind never verifies as another.
type TokenManager struct {
	secret []byte
	ttl    TokenTTL
}

func NewTokenManager(secret string, ttl TokenTTL) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (m *TokenManager) Issue(kind TokenKind, userID int64) (string, error) {
	claims := TokenClaims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.kindTTL(kind))),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks signature, expiry and kind, returning the subject user id.
// All failure modes collapse into ErrInvalidToken so callers cannot tell a
// forged token from an expired or cross-kind one.
func (m *TokenManager) Verify(tokenString string, expected TokenKind) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Wrap(ErrInvalidSigningMethod, token.Header["alg"].(string))
		}
		return m.secret, nil
	})
	if err != nil {
		return 0, errors.Wrap(ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	if claims.Kind != expected {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	return userID, nil
}

// IssuePair mints a fresh access+refresh pair. Refresh rotation goes
// through here; the previous refresh token is not revoked and simply ages
// out.
func (m *TokenManager) IssuePair(userID int64) (access, refresh string, err error) {
	if access, err = m.Issue(TokenKindAccess, userID); err != nil {
		return "", "", err
	}
	if refresh, err = m.Issue(TokenKindRefresh, userID); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (m *TokenManager) kindTTL(kind TokenKind) time.Duration {
	switch kind {
	case TokenKindAccess:
		return m.ttl.Access
	case TokenKindRefresh:
		return m.ttl.Refresh
	case TokenKindActivation:
		return m.ttl.Activation
	case TokenKindReset:
		return m.ttl.Reset
	default:
		return 0
	}
}
