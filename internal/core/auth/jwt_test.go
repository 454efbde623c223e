package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newJWTer() *JWTer {
	return &JWTer{
		Secret:     []byte("test-secret"),
		Issuer:     "tienda-api",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 168 * time.Hour,
	}
}

func TestIssuePairRoundTrip(t *testing.T) {
	j := newJWTer()

	pair, err := j.IssuePair(42, "admin")
	require.NoError(t, err)

	c, err := j.ParseAccess(pair.Access)
	require.NoError(t, err)
	require.EqualValues(t, 42, c.UID)
	require.Equal(t, "admin", c.Role)
	require.Equal(t, TypeAccess, c.Typ)

	c, err = j.Parse(pair.Refresh)
	require.NoError(t, err)
	require.Equal(t, TypeRefresh, c.Typ)
}

func TestParseAccessRejectsRefreshToken(t *testing.T) {
	j := newJWTer()
	pair, err := j.IssuePair(1, "cliente")
	require.NoError(t, err)

	_, err = j.ParseAccess(pair.Refresh)
	require.Error(t, err)
}

func TestParseRejectsForeignTokens(t *testing.T) {
	j := newJWTer()
	pair, err := j.IssuePair(1, "cliente")
	require.NoError(t, err)

	other := newJWTer()
	other.Secret = []byte("otro-secreto")
	_, err = other.Parse(pair.Access)
	require.Error(t, err)

	other = newJWTer()
	other.Issuer = "otro-servicio"
	_, err = other.Parse(pair.Access)
	require.Error(t, err)

	_, err = j.Parse("no-es-un-token")
	require.Error(t, err)
}

func TestExpiredTokenOutsideLeeway(t *testing.T) {
	j := newJWTer()
	j.AccessTTL = -2 * time.Minute // beyond the 60s leeway

	pair, err := j.IssuePair(1, "cliente")
	require.NoError(t, err)

	_, err = j.ParseAccess(pair.Access)
	require.Error(t, err)
}
