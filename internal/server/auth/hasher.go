package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/streamtube/streamtube/internal/common"
)

// argon2id parameters (OWASP recommendations).
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // KiB
	argon2Threads = 4
	argon2SaltLen = 16
	argon2KeyLen  = 32
)

// HashPassword derives an argon2id digest of the password with a fresh random
// salt, encoded in PHC string format:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
//
// This is the only path that produces a password digest.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: empty password", common.ErrValidation)
	}

	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)

	return encoded, nil
}

// VerifyPassword recomputes the digest with the parameters and salt embedded
// in encodedDigest and compares in constant time. A wrong password yields
// (false, nil); only a malformed digest yields an error, wrapping
// common.ErrCorruptDigest.
func VerifyPassword(password, encodedDigest string) (bool, error) {
	parts := strings.Split(encodedDigest, "$")
	if len(parts) != 6 {
		return false, fmt.Errorf("%w: invalid format", common.ErrCorruptDigest)
	}
	if parts[1] != "argon2id" {
		return false, fmt.Errorf("%w: unsupported algorithm %q", common.ErrCorruptDigest, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrCorruptDigest, err)
	}

	var memory, iterations, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrCorruptDigest, err)
	}
	if threads == 0 || threads > 255 {
		return false, fmt.Errorf("%w: threads value %d out of range", common.ErrCorruptDigest, threads)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrCorruptDigest, err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrCorruptDigest, err)
	}
	if len(expected) == 0 {
		return false, fmt.Errorf("%w: empty hash", common.ErrCorruptDigest)
	}

	computed := argon2.IDKey([]byte(password), salt, iterations, memory, uint8(threads), uint32(len(expected)))

	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}
