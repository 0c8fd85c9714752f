package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/access"
	"foodgram/internal/domain"
)

func TestService_RoundTrip(t *testing.T) {
	s := New("secret", time.Hour)

	token, err := s.GenerateToken(7, "admin")
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestClaims_Actor(t *testing.T) {
	s := New("secret", time.Hour)

	cases := []struct {
		role domain.UserRole
		want access.Actor
	}{
		{domain.RoleAdmin, access.Actor{ID: 3, Admin: true}},
		{domain.RoleUser, access.Actor{ID: 3}},
		{"moderator", access.Actor{ID: 3}},
	}
	for _, tc := range cases {
		token, err := s.GenerateToken(3, tc.role)
		require.NoError(t, err)

		claims, err := s.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, tc.want, claims.Actor(), string(tc.role))
	}
}

func TestService_RejectsForeignSecret(t *testing.T) {
	token, err := New("one", time.Hour).GenerateToken(7, "user")
	require.NoError(t, err)

	_, err = New("two", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestService_RejectsExpired(t *testing.T) {
	s := New("secret", -time.Minute)
	token, err := s.GenerateToken(7, "user")
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.Error(t, err)
}

func TestService_RejectsMissingUser(t *testing.T) {
	s := New("secret", time.Hour)
	token, err := s.GenerateToken(0, "user")
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.Error(t, err)
}
