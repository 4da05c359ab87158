package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "unit-test-secret",
		AccessTokenExp: exp,
		TokenIssuer:    "studisdb-test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := testService(time.Hour)

	token, expiresIn, err := svc.GenerateToken("user-1", "ann@example.edu", "student")
	require.NoError(t, err)
	assert.Equal(t, 3600, expiresIn)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ann@example.edu", claims.Email)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, "studisdb-test", claims.Issuer)
}

func TestValidateTokenErrors(t *testing.T) {
	svc := testService(time.Hour)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)

	// Signed with a different key.
	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "x"})
	token, _, err := other.GenerateToken("user-1", "ann@example.edu", "")
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	require.Error(t, err)

	// Already expired.
	expired := testService(-time.Minute)
	token, _, err = expired.GenerateToken("user-1", "ann@example.edu", "")
	require.NoError(t, err)
	_, err = testService(-time.Minute).ValidateToken(token)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"with prefix", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"raw token accepted", "abc.def.ghi", "abc.def.ghi", false},
		{"empty header", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
