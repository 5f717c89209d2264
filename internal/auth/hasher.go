package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const argon2idPrefix = "$argon2id$"

// Hasher derives and verifies credential digests. New digests use salted
// argon2id encoded in PHC string format. Verify also accepts the legacy
// unsalted SHA-256 hex format so credentials stored before the migration
// keep working; they are never produced for new accounts.
type Hasher struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen uint32
}

func NewHasher(opts ...HasherOption) *Hasher {
	h := &Hasher{
		time:    1,
		memory:  64 * 1024,
		threads: 4,
		keyLen:  32,
		saltLen: 16,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

type HasherOption func(h *Hasher)

func WithTime(time uint32) HasherOption {
	return func(h *Hasher) {
		h.time = time
	}
}

func WithMemory(memory uint32) HasherOption {
	return func(h *Hasher) {
		h.memory = memory
	}
}

func WithThreads(threads uint8) HasherOption {
	return func(h *Hasher) {
		h.threads = threads
	}
}

// Digest derives a salted one-way digest of the plaintext password.
// Leading and trailing whitespace is trimmed before hashing, matching the
// normalization applied by every stored digest format.
func (h *Hasher) Digest(plaintext string) (string, error) {
	plaintext = strings.TrimSpace(plaintext)

	salt := make([]byte, h.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("rand.Read: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, h.time, h.memory, h.threads, h.keyLen)

	digest := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return digest, nil
}

// Verify reports whether plaintext matches the stored digest. The digest
// format is detected from the stored value, so a mixed table of legacy and
// migrated credentials verifies transparently.
func (h *Hasher) Verify(plaintext, stored string) bool {
	plaintext = strings.TrimSpace(plaintext)

	if strings.HasPrefix(stored, argon2idPrefix) {
		return verifyArgon2id(plaintext, stored)
	}

	return verifyLegacySHA256(plaintext, stored)
}

func verifyArgon2id(plaintext, stored string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 6 {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, timeCost uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &timeCost, &threads); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	derived := argon2.IDKey([]byte(plaintext), salt, timeCost, memory, threads, uint32(len(key)))

	return subtle.ConstantTimeCompare(derived, key) == 1
}

func verifyLegacySHA256(plaintext, stored string) bool {
	sum := sha256.Sum256([]byte(plaintext))
	digest := hex.EncodeToString(sum[:])

	return subtle.ConstantTimeCompare([]byte(digest), []byte(stored)) == 1
}
