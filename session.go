package auth

import "time"

// AppendSession records a new session entry. Expired entries are pruned
// before the append so the registry only grows with live logins.
func (u *User) AppendSession(entry SessionEntry, now time.Time) {
	u.PruneSessions(now)
	u.Sessions = append(u.Sessions, entry)
}

// RemoveSession drops the entry with the given id. Unknown ids are a no-op,
// logout of an already removed session is not an error.
func (u *User) RemoveSession(sessionID string) {
	if len(u.Sessions) == 0 {
		return
	}

	kept := u.Sessions[:0]
	for _, s := range u.Sessions {
		if s.ID != sessionID {
			kept = append(kept, s)
		}
	}
	u.Sessions = kept
}

// ClearSessions revokes every live login.
func (u *User) ClearSessions() {
	u.Sessions = nil
}

// PruneSessions drops entries whose expiry has passed.
func (u *User) PruneSessions(now time.Time) {
	if len(u.Sessions) == 0 {
		return
	}

	kept := u.Sessions[:0]
	for _, s := range u.Sessions {
		if s.ExpiresAt.After(now) {
			kept = append(kept, s)
		}
	}
	u.Sessions = kept
}

// LiveSession reports whether the registry holds an unexpired entry with the
// given id. An expired entry counts as revoked.
func (u *User) LiveSession(sessionID string, now time.Time) bool {
	for _, s := range u.Sessions {
		if s.ID == sessionID {
			return s.ExpiresAt.After(now)
		}
	}
	return false
}
