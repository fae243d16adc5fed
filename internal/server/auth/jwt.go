package auth

import (
	"crypto/rsa"
	"errors"
	"time"

	"github.com/dmitrijs2005/pulsecity/internal/common"
	"github.com/dmitrijs2005/pulsecity/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// IDTokenClaims are the claims of an ID token. Role carries the role custom
// claim of the identity at the time the token was issued.
type IDTokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// TokenSigner issues and verifies RS256 ID tokens.
type TokenSigner struct {
	key      *rsa.PrivateKey
	issuer   string
	validity time.Duration
	now      func() time.Time
}

func NewTokenSigner(key *rsa.PrivateKey, issuer string, validity time.Duration) *TokenSigner {
	return &TokenSigner{key: key, issuer: issuer, validity: validity, now: time.Now}
}

func (s *TokenSigner) Validity() time.Duration {
	return s.validity
}

// Issue signs an ID token for the identity.
func (s *TokenSigner) Issue(identity *models.Identity) (string, error) {
	now := s.now()
	claims := IDTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
		},
		Email: identity.Email,
		Role:  string(identity.RoleClaim()),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return tok.SignedString(s.key)
}

// Verify checks the signature, issuer and expiry of an ID token and returns
// its claims. Expired tokens yield common.ErrTokenExpired, anything else
// common.ErrInvalidToken.
func (s *TokenSigner) Verify(tokenString string) (*IDTokenClaims, error) {
	claims := &IDTokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return &s.key.PublicKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
