package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "test-secret-key-for-predictable-results"

func testTokenManager() *TokenManager {
	return NewTokenManager(testSecretKey, TokenTTL{
		Access:     30 * time.Minute,
		Refresh:    7 * 24 * time.Hour,
		Activation: 24 * time.Hour,
		Reset:      time.Hour,
	})
}

func TestTokenManager_Issue(t *testing.T) {
	m := testTokenManager()

	tests := []struct {
		name     string
		kind     TokenKind
		userID   int64
		duration time.Duration
	}{
		{
			name:     "success: issue access token",
			kind:     TokenKindAccess,
			userID:   1,
			duration: 30 * time.Minute,
		},
		{
			name:     "success: issue refresh token",
			kind:     TokenKindRefresh,
			userID:   42,
			duration: 7 * 24 * time.Hour,
		},
		{
			name:     "success: issue activation token",
			kind:     TokenKindActivation,
			userID:   7,
			duration: 24 * time.Hour,
		},
		{
			name:     "success: issue reset token",
			kind:     TokenKindReset,
			userID:   7,
			duration: time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenString, err := m.Issue(tt.kind, tt.userID)
			require.NoError(t, err)
			require.NotEmpty(t, tokenString)

			userID, err := m.Verify(tokenString, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, userID)

			claims := &TokenClaims{}
			_, err = jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
				return []byte(testSecretKey), nil
			})
			require.NoError(t, err)
			assert.Equal(t, tt.kind, claims.Kind)
			assert.WithinDuration(t, time.Now().Add(tt.duration), claims.ExpiresAt.Time, time.Second*5)
		})
	}
}

func TestTokenManager_Verify(t *testing.T) {
	m := testTokenManager()
	other := NewTokenManager("different-secret-key", TokenTTL{Access: time.Hour})

	validAccessToken, _ := m.Issue(TokenKindAccess, 1)
	refreshToken, _ := m.Issue(TokenKindRefresh, 1)
	foreignToken, _ := other.Issue(TokenKindAccess, 1)

	expired := NewTokenManager(testSecretKey, TokenTTL{Access: -time.Hour})
	expiredToken, _ := expired.Issue(TokenKindAccess, 1)

	// A second before expiry is still valid.
	almostExpired := NewTokenManager(testSecretKey, TokenTTL{Access: time.Second})
	almostExpiredToken, _ := almostExpired.Issue(TokenKindAccess, 1)

	claimsWithWrongMethod := TokenClaims{
		Kind: TokenKindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tokenWithWrongMethod := jwt.NewWithClaims(jwt.SigningMethodNone, claimsWithWrongMethod)
	wrongMethodTokenString, _ := tokenWithWrongMethod.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name           string
		tokenString    string
		expectedKind   TokenKind
		expectError    bool
		expectedUserID int64
	}{
		{
			name:           "success: verify valid access token",
			tokenString:    validAccessToken,
			expectedKind:   TokenKindAccess,
			expectedUserID: 1,
		},
		{
			name:           "success: verify token just before expiry",
			tokenString:    almostExpiredToken,
			expectedKind:   TokenKindAccess,
			expectedUserID: 1,
		},
		{
			name:         "failure: access token is not a refresh token",
			tokenString:  validAccessToken,
			expectedKind: TokenKindRefresh,
			expectError:  true,
		},
		{
			name:         "failure: refresh token is not an access token",
			tokenString:  refreshToken,
			expectedKind: TokenKindAccess,
			expectError:  true,
		},
		{
			name:         "failure: verify expired token",
			tokenString:  expiredToken,
			expectedKind: TokenKindAccess,
			expectError:  true,
		},
		{
			name:         "failure: verify token signed with another secret",
			tokenString:  foreignToken,
			expectedKind: TokenKindAccess,
			expectError:  true,
		},
		{
			name:         "failure: verify malformed token",
			tokenString:  "not-a-valid-jwt-token",
			expectedKind: TokenKindAccess,
			expectError:  true,
		},
		{
			name:         "failure: verify token with wrong signing method",
			tokenString:  wrongMethodTokenString,
			expectedKind: TokenKindAccess,
			expectError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID, err := m.Verify(tt.tokenString, tt.expectedKind)

			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidToken)
				assert.Zero(t, userID)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedUserID, userID)
			}
		})
	}
}

func TestTokenManager_IssuePair(t *testing.T) {
	m := testTokenManager()

	access, refresh, err := m.IssuePair(5)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	userID, err := m.Verify(access, TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, int64(5), userID)

	userID, err = m.Verify(refresh, TokenKindRefresh)
	require.NoError(t, err)
	assert.Equal(t, int64(5), userID)

	_, err = m.Verify(refresh, TokenKindAccess)
	assert.Error(t, err)
}
