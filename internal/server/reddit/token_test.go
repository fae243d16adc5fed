package reddit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/pulsecity/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenServer struct {
	*httptest.Server
	calls  atomic.Int32
	status atomic.Int32
}

func newTokenServer(t *testing.T) *tokenServer {
	t.Helper()
	ts := &tokenServer{}
	ts.status.Store(http.StatusOK)
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.calls.Add(1)

		id, secret, ok := r.BasicAuth()
		if r.Method != http.MethodPost || !ok || id != "client-id" || secret != "client-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if s := int(ts.status.Load()); s != http.StatusOK {
			w.WriteHeader(s)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","token_type":"bearer","expires_in":3600}`))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newCache(ts *tokenServer) *CredentialCache {
	return NewCredentialCache("client-id", "client-secret", ts.URL, ts.Client())
}

func TestToken_ExchangesOnceWhileValid(t *testing.T) {
	ts := newTokenServer(t)
	c := newCache(ts)

	tok, err := c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
	assert.Equal(t, int32(1), ts.calls.Load())

	tok, err = c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
	assert.Equal(t, int32(1), ts.calls.Load(), "cached token must not trigger another exchange")
}

func TestToken_RefreshesAfterExpiry(t *testing.T) {
	ts := newTokenServer(t)
	c := newCache(ts)

	_, err := c.Token(context.Background())
	require.NoError(t, err)

	// the safety margin puts the cached expiry 59 minutes out
	c.now = func() time.Time { return time.Now().Add(59*time.Minute + 30*time.Second) }
	_, err = c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), ts.calls.Load())

	c.now = time.Now
	_, err = c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), ts.calls.Load())
}

func TestToken_ExpiryHonorsSafetyMargin(t *testing.T) {
	ts := newTokenServer(t)
	c := newCache(ts)

	before := time.Now()
	_, err := c.Token(context.Background())
	require.NoError(t, err)

	want := before.Add(3600*time.Second - expirySafetyMargin)
	assert.WithinDuration(t, want, c.expiry, 5*time.Second)
}

func TestToken_ConcurrentCallersShareOneExchange(t *testing.T) {
	ts := newTokenServer(t)
	c := newCache(ts)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Token(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ts.calls.Load())
}

func TestToken_ExchangeFailure(t *testing.T) {
	ts := newTokenServer(t)
	ts.status.Store(http.StatusInternalServerError)
	c := newCache(ts)

	_, err := c.Token(context.Background())
	assert.ErrorIs(t, err, common.ErrUpstreamAuth)
	assert.Equal(t, int32(1), ts.calls.Load(), "no retry")

	ts.status.Store(http.StatusOK)
	tok, err := c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
}

func TestToken_BadCredentials(t *testing.T) {
	ts := newTokenServer(t)
	c := NewCredentialCache("client-id", "wrong", ts.URL, ts.Client())

	_, err := c.Token(context.Background())
	assert.ErrorIs(t, err, common.ErrUpstreamAuth)
}
