package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/shipdash/internal/models"
)

func TestIssueAndParse(t *testing.T) {
	iss, err := NewIssuer("secret", time.Minute)
	require.NoError(t, err)

	tok, exp, err := iss.Issue(models.Identity{Username: "alice", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	id, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, models.Identity{Username: "alice", Role: models.RoleAdmin}, *id)
}

func TestParse_Rejects(t *testing.T) {
	iss, _ := NewIssuer("secret", time.Minute)
	other, _ := NewIssuer("other-secret", time.Minute)

	foreign, _, err := other.Issue(models.Identity{Username: "alice", Role: models.RoleUser})
	require.NoError(t, err)

	past := time.Now().Add(-2 * time.Hour)
	expiredIss, _ := NewIssuer("secret", time.Minute)
	expiredIss.now = func() time.Time { return past }
	expired, _, err := expiredIss.Issue(models.Identity{Username: "alice", Role: models.RoleUser})
	require.NoError(t, err)

	badRole, _, err := iss.Issue(models.Identity{Username: "alice", Role: "root"})
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"expired":      expired,
		"unknown role": badRole,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := iss.Parse(tok)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestNewIssuer(t *testing.T) {
	_, err := NewIssuer("", time.Minute)
	assert.Error(t, err)

	iss, err := NewIssuer("s", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, iss.ttl)
}
