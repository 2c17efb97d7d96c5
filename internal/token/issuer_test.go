package token_test

import (
	"testing"
	"time"

	"github.com/priya/course-platform/internal/domain"
	"github.com/priya/course-platform/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(accessExpire, refreshExpire time.Duration) *token.Issuer {
	return token.NewIssuer("activation-secret", "access-secret", "refresh-secret", accessExpire, refreshExpire)
}

func TestIssuer_AccessTokenRoundTrip(t *testing.T) {
	issuer := newTestIssuer(time.Minute, time.Hour)

	signed, err := issuer.IssueAccessToken("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	userID, err := issuer.VerifyAccessToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestIssuer_TokenClassesAreNotInterchangeable(t *testing.T) {
	issuer := newTestIssuer(time.Minute, time.Hour)

	access, err := issuer.IssueAccessToken("user-123")
	require.NoError(t, err)
	refresh, err := issuer.IssueRefreshToken("user-123")
	require.NoError(t, err)

	_, err = issuer.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = issuer.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestIssuer_WrongSecretRejected(t *testing.T) {
	issuer := newTestIssuer(time.Minute, time.Hour)
	other := token.NewIssuer("activation-secret", "other-access-secret", "refresh-secret", time.Minute, time.Hour)

	signed, err := issuer.IssueAccessToken("user-123")
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(signed)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestIssuer_ExpiredAccessToken(t *testing.T) {
	issuer := newTestIssuer(time.Second, time.Hour)

	signed, err := issuer.IssueAccessToken("user-123")
	require.NoError(t, err)

	time.Sleep(2 * time.Second)

	_, err = issuer.VerifyAccessToken(signed)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestIssuer_MalformedToken(t *testing.T) {
	issuer := newTestIssuer(time.Minute, time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-token"},
		{name: "truncated", token: "eyJhbGciOiJIUzI1NiJ9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.VerifyAccessToken(tt.token)
			assert.ErrorIs(t, err, domain.ErrTokenInvalid)
		})
	}
}

func TestIssuer_ActivationTokenRoundTrip(t *testing.T) {
	issuer := newTestIssuer(time.Minute, time.Hour)

	pending := domain.PendingUser{
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	}

	signed, code, err := issuer.IssueActivationToken(pending)
	require.NoError(t, err)
	require.Len(t, code, 4)
	assert.GreaterOrEqual(t, code, "1000")
	assert.LessOrEqual(t, code, "9999")

	decoded, decodedCode, err := issuer.VerifyActivationToken(signed)
	require.NoError(t, err)
	assert.Equal(t, pending, *decoded)
	assert.Equal(t, code, decodedCode)
}

func TestIssuer_ActivationCodeRange(t *testing.T) {
	issuer := newTestIssuer(time.Minute, time.Hour)

	for i := 0; i < 50; i++ {
		_, code, err := issuer.IssueActivationToken(domain.PendingUser{Email: "a@b.co"})
		require.NoError(t, err)
		require.Len(t, code, 4)
		assert.GreaterOrEqual(t, code, "1000")
		assert.LessOrEqual(t, code, "9999")
	}
}

func TestIssuer_ActivationTokenWrongSecret(t *testing.T) {
	issuer := newTestIssuer(time.Minute, time.Hour)
	other := token.NewIssuer("other-activation-secret", "access-secret", "refresh-secret", time.Minute, time.Hour)

	signed, _, err := issuer.IssueActivationToken(domain.PendingUser{Email: "a@b.co"})
	require.NoError(t, err)

	_, _, err = other.VerifyActivationToken(signed)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
