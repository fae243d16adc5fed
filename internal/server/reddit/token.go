// Package reddit reads the newest posts of a subreddit through the Reddit
// OAuth API using an application-only client credentials token.
package reddit

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/pulsecity/internal/common"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// expirySafetyMargin is subtracted from the lifetime reported by the token
// endpoint so a token is never used right at its expiry.
const expirySafetyMargin = 60 * time.Second

// CredentialCache holds one bearer token and refreshes it lazily.
// Concurrent callers share a single refresh.
type CredentialCache struct {
	conf       *clientcredentials.Config
	httpClient *http.Client
	now        func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func NewCredentialCache(clientID, clientSecret, tokenURL string, httpClient *http.Client) *CredentialCache {
	return &CredentialCache{
		conf: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: httpClient,
		now:        time.Now,
	}
}

// Token returns the cached token, exchanging client credentials first when
// the slot is empty or its expiry is not in the future. A failed exchange
// yields common.ErrUpstreamAuth and leaves the slot untouched.
func (c *CredentialCache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expiry) {
		return c.token, nil
	}

	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}

	tok, err := c.conf.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUpstreamAuth, err)
	}

	c.token = tok.AccessToken
	c.expiry = tok.Expiry.Add(-expirySafetyMargin)

	return c.token, nil
}
