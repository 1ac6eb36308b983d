package auth

import (
	"testing"
	"time"

	"foodshare-service/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testUser(t *testing.T, role domain.Role) *domain.User {
	t.Helper()
	u, err := domain.NewUser("Alice", "alice@example.com", "555-0101", role, time.Now())
	require.NoError(t, err)
	return u
}

func TestGenerateAndValidateToken(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, zap.NewNop())
	user := testUser(t, domain.RoleRestaurant)

	token, err := manager.GenerateToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, domain.RoleRestaurant, claims.Role)
	assert.Equal(t, user.ID.String(), claims.Subject)
}

func TestValidateTokenExpired(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Minute, zap.NewNop())
	manager.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := manager.GenerateToken(testUser(t, domain.RoleUser))
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenRejectsForgeries(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, zap.NewNop())
	other := NewJWTManager("other-secret", time.Hour, zap.NewNop())

	forged, err := other.GenerateToken(testUser(t, domain.RoleAdmin))
	require.NoError(t, err)
	_, err = manager.ValidateToken(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = manager.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// alg "none" is never accepted.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: uuid.New(),
		Role:   domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = manager.ValidateToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsUnknownRole(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, zap.NewNop())
	user := testUser(t, domain.RoleUser)
	user.Role = "ROOT"

	token, err := manager.GenerateToken(user)
	require.NoError(t, err)
	_, err = manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
