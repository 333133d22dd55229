package auth_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/auth"
	"github.com/kardexcare/service-api/internal/config"
	"github.com/kardexcare/service-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(secret string, ttl int) *auth.JWTValidator {
	return auth.NewJWTValidator(&config.AuthConfig{Secret: secret, TokenTTL: ttl})
}

func testUser(role domain.UserRole) *domain.User {
	return &domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Email:     "tech@example.com",
		Name:      "Field Tech",
		Role:      role,
	}
}

func TestJWTRoundTrip(t *testing.T) {
	v := newValidator("test-secret", 3600)

	zoneID := uuid.New()
	user := testUser(domain.RoleZoneManager)

	token, err := v.IssueToken(user, []uuid.UUID{zoneID})
	require.NoError(t, err)

	userCtx, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userCtx.UserID)
	assert.Equal(t, user.Email, userCtx.Email)
	assert.Equal(t, user.Name, userCtx.DisplayName)
	assert.Equal(t, domain.RoleZoneManager, userCtx.Role)
	assert.Equal(t, []uuid.UUID{zoneID}, userCtx.ZoneIDs)
	assert.Nil(t, userCtx.CustomerID)
}

func TestJWTCustomerClaims(t *testing.T) {
	v := newValidator("test-secret", 3600)

	customerID := uuid.New()
	user := testUser(domain.RoleCustomerOwner)
	user.CustomerID = &customerID

	token, err := v.IssueToken(user, nil)
	require.NoError(t, err)

	userCtx, err := v.ValidateToken(token)
	require.NoError(t, err)
	require.NotNil(t, userCtx.CustomerID)
	assert.Equal(t, customerID, *userCtx.CustomerID)
}

func TestJWTRejections(t *testing.T) {
	v := newValidator("test-secret", 3600)

	t.Run("wrong secret", func(t *testing.T) {
		other := newValidator("other-secret", 3600)
		token, err := other.IssueToken(testUser(domain.RoleAdmin), nil)
		require.NoError(t, err)

		_, err = v.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := newValidator("test-secret", -60)
		token, err := expired.IssueToken(testUser(domain.RoleAdmin), nil)
		require.NoError(t, err)

		_, err = v.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrExpiredToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := v.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("unknown role claim", func(t *testing.T) {
		token, err := v.IssueToken(testUser("SUPERVISOR"), nil)
		require.NoError(t, err)

		_, err = v.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
