package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", "salonpro-api", time.Hour, 24*time.Hour)
	userID := uuid.New()

	access, err := m.GenerateAccessToken(userID, "front@salon.test", []string{"staff"}, []string{"manage-sales"})
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, []string{"manage-sales"}, claims.Permissions)

	refresh, err := m.GenerateRefreshToken(userID)
	require.NoError(t, err)

	got, err := m.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestJWTRejectsWrongTokenKind(t *testing.T) {
	m := NewJWTManager("secret", "salonpro-api", time.Hour, time.Hour)
	userID := uuid.New()

	access, err := m.GenerateAccessToken(userID, "a@b.c", nil, nil)
	require.NoError(t, err)
	_, err = m.ValidateRefreshToken(access)
	assert.Error(t, err)

	refresh, err := m.GenerateRefreshToken(userID)
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err)
}

func TestJWTRejectsForeignSecret(t *testing.T) {
	issuer := NewJWTManager("one", "salonpro-api", time.Hour, time.Hour)
	other := NewJWTManager("two", "salonpro-api", time.Hour, time.Hour)

	token, err := issuer.GenerateAccessToken(uuid.New(), "a@b.c", nil, nil)
	require.NoError(t, err)
	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hair-care-products", Slugify("  Hair Care & Products "))
	assert.Equal(t, "nails", Slugify("--Nails--"))
}

func TestTimestampReference(t *testing.T) {
	at := time.UnixMilli(1767225600000)
	ref := TimestampReference("SALE", at)
	assert.Regexp(t, `^SALE-1767225600000-[0-9A-F]{6}$`, ref)
	assert.NotEqual(t, ref, TimestampReference("SALE", at))
	assert.True(t, strings.HasPrefix(GenerateSKU(), "SKU-"))
}
