package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

const generatedKeyBits = 2048

var generateRSAKey = func() (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(rand.Reader, generatedKeyBits)
}

// LoadSigningKey reads a PEM encoded RSA private key from path. With an empty
// path it generates an ephemeral key instead and reports generated=true;
// tokens signed with it do not survive a restart.
func LoadSigningKey(path string) (key *rsa.PrivateKey, generated bool, err error) {
	if path == "" {
		key, err = generateRSAKey()
		if err != nil {
			return nil, false, fmt.Errorf("generate signing key: %w", err)
		}
		return key, true, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("read signing key %s: %w", path, err)
	}

	key, err = jwt.ParseRSAPrivateKeyFromPEM(data)
	if err != nil {
		return nil, false, fmt.Errorf("parse signing key %s: %w", path, err)
	}

	return key, false, nil
}
