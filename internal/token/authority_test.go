package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestAuthority(clock *fakeClock) *Authority {
	return New("secret", 24*time.Hour, WithClock(clock.Now))
}

func TestAuthority_IssueAndDecode(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	a := newTestAuthority(clock)

	tok, err := a.Issue(7, "alice", "admin", 3)
	require.NoError(t, err)
	require.NoError(t, a.Validate(tok))

	claims, err := a.Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.ActorID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, 3, claims.SessionVersion)
	assert.Equal(t, clock.t.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestAuthority_Expired(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	a := newTestAuthority(clock)

	tok, err := a.Issue(1, "bob", "user", 1)
	require.NoError(t, err)

	clock.Advance(24*time.Hour + time.Second)
	assert.ErrorIs(t, a.Validate(tok), ErrTokenExpired)

	_, err = a.Decode(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAuthority_Invalid(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	a := newTestAuthority(clock)

	tok, err := a.Issue(1, "bob", "user", 1)
	require.NoError(t, err)

	other := New("another-secret", time.Hour, WithClock(clock.Now))

	tests := []struct {
		name  string
		token string
		auth  *Authority
	}{
		{name: "empty", token: "", auth: a},
		{name: "garbage", token: "not.a.jwt", auth: a},
		{name: "tampered payload", token: tok[:len(tok)-4] + "abcd", auth: a},
		{name: "foreign secret", token: tok, auth: other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.auth.Validate(tt.token), ErrTokenInvalid)
		})
	}
}

func TestAuthority_RejectsOtherAlgorithms(t *testing.T) {
	a := New("secret", time.Hour)

	claims := Claims{
		ActorID: 1,
		Role:    "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	assert.ErrorIs(t, a.Validate(none), ErrTokenInvalid)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(a.secret)
	require.NoError(t, err)
	assert.ErrorIs(t, a.Validate(hs512), ErrTokenInvalid)
}

func TestAuthority_RequiresExpiry(t *testing.T) {
	a := New("secret", time.Hour)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{ActorID: 1}).SignedString(a.secret)
	require.NoError(t, err)
	assert.ErrorIs(t, a.Validate(noExp), ErrTokenInvalid)
}

func TestAuthority_RefreshPreservesIdentity(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	a := newTestAuthority(clock)

	original, err := a.Issue(42, "carol", "user", 5)
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	refreshed, err := a.Refresh(original)
	require.NoError(t, err)
	assert.NotEqual(t, original, refreshed)

	before, err := a.Decode(original)
	require.NoError(t, err)
	after, err := a.Decode(refreshed)
	require.NoError(t, err)

	assert.Equal(t, before.ActorID, after.ActorID)
	assert.Equal(t, before.Username, after.Username)
	assert.Equal(t, before.Subject, after.Subject)
	assert.Equal(t, before.Role, after.Role)
	assert.Equal(t, before.SessionVersion, after.SessionVersion)
	assert.Equal(t, before.IssuedAt.Add(2*time.Hour).Unix(), after.IssuedAt.Unix())
	assert.Equal(t, before.ExpiresAt.Add(2*time.Hour).Unix(), after.ExpiresAt.Unix())
}

func TestAuthority_RefreshRejectsExpired(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	a := newTestAuthority(clock)

	tok, err := a.Issue(1, "dave", "admin", 1)
	require.NoError(t, err)

	clock.Advance(25 * time.Hour)
	_, err = a.Refresh(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestStretchSecret(t *testing.T) {
	assert.Len(t, stretchSecret("abc"), 33)
	assert.Equal(t, []byte("0123456789abcdef0123456789abcdef!"), stretchSecret("0123456789abcdef0123456789abcdef!"))
	assert.GreaterOrEqual(t, len(stretchSecret("")), minSecretLength)
}
