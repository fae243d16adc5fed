package cryptox

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_Format(t *testing.T) {
	h := HashPassword("s3cret")

	parts := strings.Split(h, "$")
	require.Len(t, parts, 3)
	assert.Equal(t, "argon2id", parts[0])
	assert.NotEmpty(t, parts[1])
	assert.NotEmpty(t, parts[2])
	assert.NotContains(t, h, "s3cret")
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	assert.NotEqual(t, HashPassword("same"), HashPassword("same"))
}

func TestHashPassword_DeterministicWithFixedSalt(t *testing.T) {
	orig := generateSalt
	t.Cleanup(func() { generateSalt = orig })
	generateSalt = func() []byte { return bytes.Repeat([]byte{7}, saltLen) }

	assert.Equal(t, HashPassword("pw"), HashPassword("pw"))
}

func TestVerifyPassword(t *testing.T) {
	h := HashPassword("correct horse")

	ok, err := VerifyPassword(h, "correct horse")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(h, "battery staple")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"wrong prefix", "bcrypt$abc$def"},
		{"too few parts", "argon2id$abc"},
		{"bad salt", "argon2id$!!!$AAAA"},
		{"bad key", "argon2id$AAAA$!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := VerifyPassword(tt.encoded, "pw")
			assert.False(t, ok)
			assert.ErrorIs(t, err, ErrMalformedHash)
		})
	}
}
