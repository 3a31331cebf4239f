package auth

import (
	"context"
	"database/sql"
	"sync"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/studiolane/campus-auth/social"
)

// memStore is an in-memory UserStore backing the service tests. Reads hand
// out copies so mutations only stick through SaveTx, mirroring how the real
// repository behaves.
type memStore struct {
	mu   sync.Mutex
	byID map[string]*User
}

func newMemStore() *memStore {
	return &memStore{byID: map[string]*User{}}
}

func (m *memStore) clone(u *User) *User {
	cp := *u
	cp.Sessions = append([]SessionEntry(nil), u.Sessions...)
	return &cp
}

func (m *memStore) ByID(ctx context.Context, id string) (*User, error) {
	return m.ByIDTx(ctx, nil, id)
}

func (m *memStore) ByIDTx(_ context.Context, _ bun.IDB, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.byID[id]; ok {
		return m.clone(u), nil
	}
	return nil, repository.NewRecordNotFound()
}

func (m *memStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	return m.GetByEmailTx(ctx, nil, email)
}

func (m *memStore) GetByEmailTx(_ context.Context, _ bun.IDB, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.byID {
		if u.Email == email {
			return m.clone(u), nil
		}
	}
	return nil, repository.NewRecordNotFound()
}

func (m *memStore) RegisterTx(_ context.Context, _ bun.IDB, user *User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.byID[user.ID.String()] = m.clone(user)
	return m.clone(user), nil
}

func (m *memStore) SaveTx(_ context.Context, _ bun.IDB, user *User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.byID[user.ID.String()] = m.clone(user)
	return m.clone(user), nil
}

// passthroughTx satisfies repository.TransactionManager without a database.
type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, _ *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

// recordingMailer captures sent messages and can be told to fail.
type recordingMailer struct {
	mu   sync.Mutex
	sent []Message
	fail error
}

func (m *recordingMailer) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *recordingMailer) last() Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

// recordingDashboards counts workspace provisions per user.
type recordingDashboards struct {
	mu      sync.Mutex
	created map[string]int
	fail    error
}

func newRecordingDashboards() *recordingDashboards {
	return &recordingDashboards{created: map[string]int{}}
}

func (d *recordingDashboards) CreateForUserTx(_ context.Context, _ bun.IDB, userID uuid.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.fail != nil {
		return d.fail
	}
	d.created[userID.String()]++
	return nil
}

func (d *recordingDashboards) countFor(userID string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.created[userID]
}

// stubProvider is a canned social.Provider.
type stubProvider struct {
	exchangeErr error
	userInfoErr error
	profile     *social.Profile
}

func (p *stubProvider) Name() string { return "google" }

func (p *stubProvider) Exchange(context.Context, string) (*social.Token, error) {
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}
	return &social.Token{AccessToken: "provider-access-token"}, nil
}

func (p *stubProvider) UserInfo(context.Context, *social.Token) (*social.Profile, error) {
	if p.userInfoErr != nil {
		return nil, p.userInfoErr
	}
	return p.profile, nil
}
