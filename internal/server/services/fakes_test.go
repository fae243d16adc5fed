package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/pulsecity/internal/common"
	"github.com/dmitrijs2005/pulsecity/internal/dbx"
	"github.com/dmitrijs2005/pulsecity/internal/logging"
	"github.com/dmitrijs2005/pulsecity/internal/server/models"
	"github.com/dmitrijs2005/pulsecity/internal/server/repositories/identities"
	"github.com/dmitrijs2005/pulsecity/internal/server/repositories/posts"
	"github.com/dmitrijs2005/pulsecity/internal/server/repositories/profiles"
)

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

// --- identity provider ---

type fakeIdentityProvider struct {
	mu        sync.Mutex
	byEmail   map[string]*models.Identity
	nextUID   int
	lookupErr error
	createErr error
	claimsErr error
	creates   int
}

func newFakeIdentityProvider() *fakeIdentityProvider {
	return &fakeIdentityProvider{byEmail: map[string]*models.Identity{}}
}

func (f *fakeIdentityProvider) GetUserByEmail(_ context.Context, email string) (*models.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	if i, ok := f.byEmail[email]; ok {
		return i, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeIdentityProvider) CreateUser(_ context.Context, email, password string) (*models.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	f.nextUID++
	f.creates++
	i := &models.Identity{
		UID:          "uid-" + string(rune('0'+f.nextUID)),
		Email:        email,
		PasswordHash: "hash:" + password,
		CustomClaims: map[string]any{},
	}
	f.byEmail[email] = i
	return i, nil
}

func (f *fakeIdentityProvider) SetCustomClaims(_ context.Context, uid string, claims map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.claimsErr != nil {
		return f.claimsErr
	}
	for _, i := range f.byEmail {
		if i.UID == uid {
			i.CustomClaims = claims
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeIdentityProvider) SignIn(_ context.Context, email, password string) (string, time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, ok := f.byEmail[email]
	if !ok || i.PasswordHash != "hash:"+password {
		return "", 0, common.ErrorUnauthorized
	}
	return "token-for-" + i.UID, time.Hour, nil
}

// --- profiles ---

type fakeProfilesRepo struct {
	mu       sync.Mutex
	byUID    map[string]*models.Profile
	setErr   error
	getErr   error
	setCalls int
	now      time.Time
}

func newFakeProfilesRepo() *fakeProfilesRepo {
	return &fakeProfilesRepo{
		byUID: map[string]*models.Profile{},
		now:   time.Date(2025, 7, 1, 9, 30, 0, 123456789, time.UTC),
	}
}

func (f *fakeProfilesRepo) Set(_ context.Context, uid string, account models.Account) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	if f.setErr != nil {
		return time.Time{}, f.setErr
	}
	f.byUID[uid] = &models.Profile{UID: uid, Account: account, UpdatedAt: f.now}
	return f.now, nil
}

func (f *fakeProfilesRepo) Get(_ context.Context, uid string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.byUID[uid]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfilesRepo) SetRole(_ context.Context, uid string, role models.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byUID[uid]
	if !ok {
		return common.ErrorNotFound
	}
	p.Account.Role = role
	return nil
}

// --- posts ---

type fakePostsRepo struct {
	mu          sync.Mutex
	rows        map[string]*models.Post
	stagingErr  error
	finalizeErr error
	stale       []*models.Post
	staleErr    error
	deleted     []string
	failed      []string
	cutoff      time.Time
}

func newFakePostsRepo() *fakePostsRepo {
	return &fakePostsRepo{rows: map[string]*models.Post{}}
}

func (f *fakePostsRepo) CreateStaging(_ context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stagingErr != nil {
		return f.stagingErr
	}
	post.Status = models.PostPending
	post.CreatedAt = time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	cp := *post
	f.rows[post.ID] = &cp
	return nil
}

func (f *fakePostsRepo) Finalize(_ context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.finalizeErr != nil {
		return f.finalizeErr
	}
	row, ok := f.rows[post.ID]
	if !ok || row.Status != models.PostPending {
		return common.ErrorNotFound
	}
	published := time.Date(2025, 7, 1, 9, 0, 1, 0, time.UTC)
	post.Status = models.PostPublished
	post.PublishedAt = &published
	cp := *post
	f.rows[post.ID] = &cp
	return nil
}

func (f *fakePostsRepo) MarkFailed(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = append(f.failed, id)
	if row, ok := f.rows[id]; ok && row.Status == models.PostPending {
		row.Status = models.PostFailed
	}
	return nil
}

func (f *fakePostsRepo) LockStale(_ context.Context, createdBefore time.Time, _ int) ([]*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoff = createdBefore
	return f.stale, f.staleErr
}

func (f *fakePostsRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	delete(f.rows, id)
	return nil
}

// --- repository manager ---

type fakeRepoManager struct {
	profiles *fakeProfilesRepo
	posts    *fakePostsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Identities(dbx.DBTX) identities.Repository    { return nil }
func (m *fakeRepoManager) Profiles(dbx.DBTX) profiles.Repository        { return m.profiles }
func (m *fakeRepoManager) Posts(dbx.DBTX) posts.Repository              { return m.posts }

// --- storage and speech ---

type fakeStore struct {
	mu      sync.Mutex
	puts    map[string]string
	deleted []string
	putErr  map[string]error
	delErr  map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{puts: map[string]string{}, putErr: map[string]error{}, delErr: map[string]error{}}
}

func (f *fakeStore) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.putErr[key]; err != nil {
		return "", err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.puts[key] = string(b)
	return "https://media.test/" + key, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.delErr[key]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeTranscriber struct {
	segments []string
	err      error
	got      []byte
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audio []byte) (string, error) {
	f.got = audio
	if f.err != nil {
		return "", f.err
	}
	out := ""
	for _, s := range f.segments {
		out += s
	}
	return out, nil
}

var errBoom = errors.New("boom")
