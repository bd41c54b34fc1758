package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truckrecruit/internal/model"
)

func testProfile() *model.Profile {
	return &model.Profile{ID: uuid.New(), Email: "recruiter@fleet.example.com", Role: model.RoleRecruiter}
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")
	profile := testProfile()

	token, err := svc.GenerateAccessToken(profile)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, profile.ID.String(), claims.UserID)
	assert.Equal(t, model.RoleRecruiter, claims.Role)
	assert.NotEmpty(t, claims.ID)

	id, err := claims.UserUUID()
	require.NoError(t, err)
	assert.Equal(t, profile.ID, id)
}

func TestJWTService_RefreshTokenID(t *testing.T) {
	svc := NewJWTService("test-secret")

	tokenID, token, err := svc.GenerateRefreshToken(testProfile())
	require.NoError(t, err)

	extracted, err := svc.ExtractTokenID(token)
	require.NoError(t, err)
	assert.Equal(t, tokenID, extracted)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService("test-secret")
	token, err := svc.GenerateAccessToken(testProfile())
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewJWTService("other").ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewJWTService("test-secret")
		later.now = func() time.Time { return time.Now().Add(AccessTokenExpiry + time.Minute) }
		_, err := later.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.Error(t, err)
	})
}

func TestJWTService_RemainingTTL(t *testing.T) {
	svc := NewJWTService("test-secret")
	token, err := svc.GenerateAccessToken(testProfile())
	require.NoError(t, err)
	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	ttl := svc.RemainingTTL(claims)
	assert.True(t, ttl > 0 && ttl <= AccessTokenExpiry)
	assert.Zero(t, svc.RemainingTTL(&Claims{}))
}
