package token

import (
	"testing"
	"time"

	"fitcoach/workout-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_IssueVerify_RoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	tok, err := m.Issue(Identity{UserID: "abc123", Email: "a@x.com", Role: domain.RoleTrainer})
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	identity, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "abc123", identity.UserID)
	assert.Equal(t, "a@x.com", identity.Email)
	assert.Equal(t, domain.RoleTrainer, identity.Role)
}

func TestManager_Verify_Expired(t *testing.T) {
	m := NewManager("test-secret", time.Millisecond)

	tok, err := m.Issue(Identity{UserID: "abc123", Email: "a@x.com", Role: domain.RoleClient})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = m.Verify(tok)
	require.Error(t, err)
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
	assert.Contains(t, err.Error(), "expired")
}

func TestManager_Verify_WrongSecret(t *testing.T) {
	issuer := NewManager("issuer-secret", time.Hour)
	verifier := NewManager("other-secret", time.Hour)

	tok, err := issuer.Issue(Identity{UserID: "abc123", Email: "a@x.com", Role: domain.RoleClient})
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	require.Error(t, err)
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
}

func TestManager_Verify_Malformed(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := m.Verify(tok)
		require.Error(t, err, "token %q", tok)
		assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
	}
}

func TestNewManager_EmptySecretPanics(t *testing.T) {
	assert.Panics(t, func() { NewManager("", time.Hour) })
}
