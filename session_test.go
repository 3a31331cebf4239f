package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sessionAt(id string, expiresAt time.Time) SessionEntry {
	return SessionEntry{ID: id, ExpiresAt: expiresAt, Device: DeviceDesktop}
}

func TestAppendSessionPrunesExpired(t *testing.T) {
	now := time.Now()
	u := &User{}

	u.AppendSession(sessionAt("stale", now.Add(-time.Minute)), now.Add(-2*time.Hour))
	u.AppendSession(sessionAt("live", now.Add(time.Hour)), now)
	u.AppendSession(sessionAt("fresh", now.Add(time.Hour)), now)

	assert.Len(t, u.Sessions, 2)
	assert.Equal(t, "live", u.Sessions[0].ID)
	assert.Equal(t, "fresh", u.Sessions[1].ID)
}

func TestRemoveSession(t *testing.T) {
	now := time.Now()
	u := &User{Sessions: []SessionEntry{
		sessionAt("a", now.Add(time.Hour)),
		sessionAt("b", now.Add(time.Hour)),
	}}

	u.RemoveSession("a")
	assert.Len(t, u.Sessions, 1)
	assert.Equal(t, "b", u.Sessions[0].ID)

	// Removing an unknown id is a no-op.
	u.RemoveSession("a")
	assert.Len(t, u.Sessions, 1)
}

func TestClearSessions(t *testing.T) {
	now := time.Now()
	u := &User{Sessions: []SessionEntry{
		sessionAt("a", now.Add(time.Hour)),
		sessionAt("b", now.Add(time.Hour)),
	}}

	u.ClearSessions()
	assert.Empty(t, u.Sessions)
}

func TestLiveSession(t *testing.T) {
	now := time.Now()
	u := &User{Sessions: []SessionEntry{
		sessionAt("live", now.Add(time.Hour)),
		sessionAt("expired", now.Add(-time.Minute)),
	}}

	assert.True(t, u.LiveSession("live", now))
	assert.False(t, u.LiveSession("expired", now), "expired entry counts as revoked")
	assert.False(t, u.LiveSession("missing", now))
}
