package identity

import (
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/vaultacks/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon art"

func TestNewMnemonic(t *testing.T) {
	m, err := NewMnemonic()
	require.NoError(t, err)
	assert.Len(t, strings.Fields(m), 24)

	_, err = FromMnemonic(m)
	assert.NoError(t, err)
}

func TestFromMnemonic_Deterministic(t *testing.T) {
	a, err := FromMnemonic(testMnemonic)
	require.NoError(t, err)
	b, err := FromMnemonic("  " + strings.ToUpper(testMnemonic) + "\n")
	require.NoError(t, err)

	assert.Equal(t, a.Address, b.Address)
	assert.Equal(t, a.ContentKey(), b.ContentKey())
	assert.Len(t, a.ContentKey(), 32)
	assert.True(t, strings.HasPrefix(a.Address, "ST"))
	assert.Len(t, a.Address, 2+40)
	assert.Equal(t, strings.ToUpper(a.Address), a.Address)
}

func TestFromMnemonic_Invalid(t *testing.T) {
	_, err := FromMnemonic("not a valid phrase")
	assert.ErrorIs(t, err, common.ErrInvalidMnemonic)
}

func TestWipe(t *testing.T) {
	id, err := FromMnemonic(testMnemonic)
	require.NoError(t, err)

	id.Wipe()
	assert.Equal(t, make([]byte, 32), id.ContentKey())
}

func TestToken_RoundTrip(t *testing.T) {
	id, err := FromMnemonic(testMnemonic)
	require.NoError(t, err)

	tok, err := IssueToken(id, time.Minute)
	require.NoError(t, err)

	addr, err := ParseToken(tok, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, id.Address, addr)
}

func TestToken_Expired(t *testing.T) {
	id, err := FromMnemonic(testMnemonic)
	require.NoError(t, err)

	tok, err := IssueToken(id, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(tok, 0)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestToken_Garbage(t *testing.T) {
	_, err := ParseToken("abc.def.ghi", 0)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestToken_ForgedSubject(t *testing.T) {
	id, err := FromMnemonic(testMnemonic)
	require.NoError(t, err)

	now := time.Now()
	forged := jwt.NewWithClaims(jwt.SigningMethodEdDSA, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ST0000000000000000000000000000000000000000",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
		PublicKey: mustIssuePub(t, id),
	})
	tok, err := forged.SignedString(id.privateKey)
	require.NoError(t, err)

	_, err = ParseToken(tok, 0)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestToken_HMACRejected(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseToken(tok, 0)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func mustIssuePub(t *testing.T, id *Identity) string {
	t.Helper()
	tok, err := IssueToken(id, time.Minute)
	require.NoError(t, err)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)
	return claims.PublicKey
}
