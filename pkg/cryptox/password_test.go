package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashers(t *testing.T) map[string]Hasher {
	t.Helper()
	return map[string]Hasher{
		"bcrypt":   BcryptHasher{Cost: bcrypt.MinCost},
		"argon2id": Argon2idHasher{},
	}
}

func TestHashVerifyRoundTrip(t *testing.T) {
	passwords := []string{
		"longenough",
		"P@ssw0rd!#$%^&*()",
		"   spaces   ",
		"пароль🔒密码",
	}

	for name, h := range hashers(t) {
		t.Run(name, func(t *testing.T) {
			for _, p := range passwords {
				hash, err := h.Hash(p)
				require.NoError(t, err)
				require.NotContains(t, hash, p)

				ok, err := h.Verify(p, hash)
				require.NoError(t, err)
				require.True(t, ok, "password %q should verify", p)
			}
		})
	}
}

func TestHashIsSalted(t *testing.T) {
	for name, h := range hashers(t) {
		t.Run(name, func(t *testing.T) {
			a, err := h.Hash("samepassword")
			require.NoError(t, err)
			b, err := h.Hash("samepassword")
			require.NoError(t, err)

			require.NotEqual(t, a, b, "hashes should differ due to unique salts")

			for _, hash := range []string{a, b} {
				ok, err := h.Verify("samepassword", hash)
				require.NoError(t, err)
				require.True(t, ok)
			}
		})
	}
}

func TestVerifyWrongPassword(t *testing.T) {
	for name, h := range hashers(t) {
		t.Run(name, func(t *testing.T) {
			hash, err := h.Hash("correct horse")
			require.NoError(t, err)

			ok, err := h.Verify("battery staple", hash)
			require.NoError(t, err, "a mismatch is not an error")
			require.False(t, ok)
		})
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	const salt, key = "c2FsdHNhbHRzYWx0c2FsdA", "a2V5a2V5a2V5a2V5a2V5a2V5a2V5a2V5a2V5a2V5a2U"
	malformed := []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=abc$salt$hash",
		"$argon2id$v=18$m=65536,t=1,p=4$AAAA$AAAA",
		"$2a$10$short",
		"$argon2id$v=19$m=65536,t=0,p=4$" + salt + "$" + key,
		"$argon2id$v=19$m=65536,t=1,p=0$" + salt + "$" + key,
		"$argon2id$v=19$m=0,t=1,p=4$" + salt + "$" + key,
		"$argon2id$v=19$m=65536,t=1000000,p=4$" + salt + "$" + key,
		"$argon2id$v=19$m=4294967295,t=1,p=4$" + salt + "$" + key,
		"$argon2id$v=19$m=65536,t=1,p=300$" + salt + "$" + key,
	}

	all := hashers(t)
	for _, alg := range []string{AlgorithmBcrypt, AlgorithmArgon2id} {
		h, err := NewHasher(alg, bcrypt.MinCost)
		require.NoError(t, err)
		all["configured "+alg] = h
	}

	for name, h := range all {
		t.Run(name, func(t *testing.T) {
			for _, m := range malformed {
				ok, err := h.Verify("whatever", m)
				require.False(t, ok)
				require.ErrorIs(t, err, ErrInvalidHash, "hash %q", m)
			}
		})
	}
}

func TestBcryptUsesConfiguredCost(t *testing.T) {
	h, err := NewHasher(AlgorithmBcrypt, 0)
	require.NoError(t, err)
	hash, err := h.Hash("longenough")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, DefaultBcryptCost, cost)

	hash, err = BcryptHasher{Cost: 5}.Hash("longenough")
	require.NoError(t, err)
	cost, err = bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, 5, cost)
}

func TestNewHasher(t *testing.T) {
	t.Run("argon2id", func(t *testing.T) {
		h, err := NewHasher("ARGON2ID", 0)
		require.NoError(t, err)
		hash, err := h.Hash("longenough")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))
	})

	t.Run("verifies either scheme", func(t *testing.T) {
		bcryptHash, err := BcryptHasher{Cost: bcrypt.MinCost}.Hash("longenough")
		require.NoError(t, err)
		argonHash, err := Argon2idHasher{}.Hash("longenough")
		require.NoError(t, err)

		for _, alg := range []string{AlgorithmBcrypt, AlgorithmArgon2id} {
			h, err := NewHasher(alg, bcrypt.MinCost)
			require.NoError(t, err)
			for _, stored := range []string{bcryptHash, argonHash} {
				ok, err := h.Verify("longenough", stored)
				require.NoError(t, err, "%s verifying %q", alg, stored)
				require.True(t, ok)

				ok, err = h.Verify("wrong password", stored)
				require.NoError(t, err)
				require.False(t, ok)
			}
		}
	})

	t.Run("cost out of range", func(t *testing.T) {
		_, err := NewHasher(AlgorithmBcrypt, 99)
		require.Error(t, err)
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		_, err := NewHasher("md5", 0)
		require.ErrorIs(t, err, ErrUnknownAlgorithm)
		require.True(t, strings.Contains(err.Error(), "md5"))
	})
}
