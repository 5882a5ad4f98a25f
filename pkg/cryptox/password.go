package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 10

// Argon2id parameters. Stored in the PHC string so they can change later
// without breaking existing hashes.
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2SaltLen = 16
	argon2KeyLen  = 32

	// Upper bounds accepted from a stored hash. Anything larger is treated as
	// corrupt rather than spent on.
	argon2MaxTime   = 64
	argon2MaxMemory = 4 * 1024 * 1024 // KiB
	argon2MaxKeyLen = 1024
)

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

var (
	// ErrInvalidHash reports a stored hash that cannot be parsed. A wrong
	// password is never reported through this error.
	ErrInvalidHash = errors.New("cryptox: invalid password hash")

	ErrUnknownAlgorithm = errors.New("cryptox: unknown password algorithm")
)

// Hasher derives salted one-way password hashes and checks plaintexts
// against them.
type Hasher interface {
	// Hash returns a freshly salted hash; two calls never return the same value.
	Hash(password string) (string, error)

	// Verify returns (true, nil) on match, (false, nil) on mismatch and
	// (false, ErrInvalidHash) when hash is malformed.
	Verify(password, hash string) (bool, error)
}

// NewHasher returns a hasher that hashes with algorithm and verifies any
// supported scheme, so switching algorithm keeps existing hashes valid.
// cost only applies to bcrypt; zero selects DefaultBcryptCost.
func NewHasher(algorithm string, cost int) (Hasher, error) {
	switch strings.ToLower(algorithm) {
	case "", AlgorithmBcrypt:
		if cost == 0 {
			cost = DefaultBcryptCost
		}
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return nil, fmt.Errorf("cryptox: bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
		}
		return schemeHasher{Hasher: BcryptHasher{Cost: cost}}, nil
	case AlgorithmArgon2id:
		return schemeHasher{Hasher: Argon2idHasher{}}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}

// schemeHasher hashes with the embedded Hasher and verifies by the scheme
// prefix of the stored hash.
type schemeHasher struct {
	Hasher
}

func (schemeHasher) Verify(password, hash string) (bool, error) {
	switch {
	case strings.HasPrefix(hash, "$argon2id$"):
		return Argon2idHasher{}.Verify(password, hash)
	case strings.HasPrefix(hash, "$2"):
		return BcryptHasher{}.Verify(password, hash)
	default:
		return false, fmt.Errorf("%w: unrecognised scheme", ErrInvalidHash)
	}
}

// BcryptHasher hashes with bcrypt at a fixed cost.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("cryptox: bcrypt: %w", err)
	}
	return string(out), nil
}

func (h BcryptHasher) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", ErrInvalidHash, err)
	}
}

// Argon2idHasher produces PHC-format Argon2id hashes.
type Argon2idHasher struct{}

func (Argon2idHasher) Hash(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (Argon2idHasher) Verify(password, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")

	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, fmt.Errorf("%w: not a PHC argon2id string", ErrInvalidHash)
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return false, fmt.Errorf("%w: unsupported version %q", ErrInvalidHash, parts[2])
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return false, fmt.Errorf("%w: parameters: %w", ErrInvalidHash, err)
	}
	if iters < 1 || iters > argon2MaxTime || par < 1 ||
		mem < 8*uint32(par) || mem > argon2MaxMemory {
		return false, fmt.Errorf("%w: parameters out of range %q", ErrInvalidHash, parts[3])
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("%w: salt: %w", ErrInvalidHash, err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 || len(expected) > argon2MaxKeyLen {
		return false, fmt.Errorf("%w: key", ErrInvalidHash)
	}

	computed := argon2.IDKey([]byte(password), salt, iters, mem, par, uint32(len(expected))) // #nosec G115
	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}
