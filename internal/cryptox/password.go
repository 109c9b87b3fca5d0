// Package cryptox implements one-way password verification.
//
// Two schemes exist. SchemeSHA256 is a single unsalted SHA-256 digest, kept
// so that rows written under it stay verifiable; it is fast and unsalted and
// therefore weak against offline guessing. SchemeArgon2id derives the digest
// with argon2id from a random per-user salt and is the default for new users.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/dmitrijs2005/assistant/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	SchemeSHA256   = "sha256"
	SchemeArgon2id = "argon2id"
)

// Digest is what gets persisted for a password.
type Digest struct {
	Hash   string // hex encoded
	Salt   []byte // nil for SchemeSHA256
	Scheme string
}

// PasswordHasher produces digests for new passwords.
type PasswordHasher interface {
	Scheme() string
	Hash(password string) (Digest, error)
}

// SHA256Hasher is the baseline deterministic digest.
type SHA256Hasher struct{}

func (SHA256Hasher) Scheme() string { return SchemeSHA256 }

func (SHA256Hasher) Hash(password string) (Digest, error) {
	return Digest{Hash: SHA256Hex(password), Scheme: SchemeSHA256}, nil
}

// SHA256Hex returns the 64 character hex SHA-256 of password.
func SHA256Hex(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Argon2Hasher derives digests with argon2id.
type Argon2Hasher struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

// NewArgon2Hasher returns a hasher with 64 MiB memory, one pass, four lanes.
func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32, SaltLen: 16}
}

func (h *Argon2Hasher) Scheme() string { return SchemeArgon2id }

func (h *Argon2Hasher) Hash(password string) (Digest, error) {
	salt := common.GenerateRandByteArray(h.SaltLen)
	return Digest{Hash: h.HashWithSalt(password, salt), Salt: salt, Scheme: SchemeArgon2id}, nil
}

// HashWithSalt is deterministic for a fixed salt.
func (h *Argon2Hasher) HashWithSalt(password string, salt []byte) string {
	pw := []byte(password)
	defer common.WipeByteArray(pw)
	return hex.EncodeToString(argon2.IDKey(pw, salt, h.Time, h.Memory, h.Threads, h.KeyLen))
}

// NewHasher returns the hasher registered for scheme.
func NewHasher(scheme string) (PasswordHasher, error) {
	switch scheme {
	case SchemeSHA256:
		return SHA256Hasher{}, nil
	case SchemeArgon2id, "":
		return NewArgon2Hasher(), nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
}

// Verify recomputes the digest of password under the scheme recorded in d
// and compares it in constant time.
func Verify(password string, d Digest) (bool, error) {
	var candidate string
	switch d.Scheme {
	case SchemeSHA256:
		candidate = SHA256Hex(password)
	case SchemeArgon2id:
		candidate = NewArgon2Hasher().HashWithSalt(password, d.Salt)
	default:
		return false, fmt.Errorf("unknown password scheme %q", d.Scheme)
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(d.Hash)) == 1, nil
}
