package api

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/awnumar/memguard"

	"github.com/jmcleod/hashlock/internal/util"
)

// Credentials holds the static credential pair and the optional hash token,
// sealed in memguard enclaves so the plaintext secrets are encrypted at rest
// in process memory. Values are immutable for the process lifetime.
type Credentials struct {
	username  *memguard.Enclave
	password  *memguard.Enclave
	hashToken *memguard.Enclave
}

// NewCredentials seals the configured secrets. The username and password are
// NFKD-normalized before sealing so comparison is insensitive to Unicode
// encoding form. An empty hashToken disables the hash-auth path.
func NewCredentials(username, password, hashToken string) *Credentials {
	return &Credentials{
		username:  seal(util.Normalize(username)),
		password:  seal(util.Normalize(password)),
		hashToken: seal(hashToken),
	}
}

// Check reports whether the submitted pair matches the configured one.
// Both fields are compared unconditionally via SHA-256 digests and
// subtle.ConstantTimeCompare, so the mismatch position does not change the
// timing profile.
func (c *Credentials) Check(username, password string) bool {
	userOK := digestsEqual(enclaveDigest(c.username), digest(util.Normalize(username)))
	passOK := digestsEqual(enclaveDigest(c.password), digest(util.Normalize(password)))
	return userOK && passOK
}

// HashAuthEnabled reports whether a hash token was configured.
func (c *Credentials) HashAuthEnabled() bool {
	return c.hashToken != nil
}

// HashMatches reports whether candidate equals the configured hash token.
// Always false when hash auth is disabled.
func (c *Credentials) HashMatches(candidate string) bool {
	if c.hashToken == nil {
		return false
	}
	return digestsEqual(enclaveDigest(c.hashToken), digest(candidate))
}

// UsernameConfigured reports whether a non-empty username was provided.
func (c *Credentials) UsernameConfigured() bool { return c.username != nil }

// PasswordConfigured reports whether a non-empty password was provided.
func (c *Credentials) PasswordConfigured() bool { return c.password != nil }

func seal(s string) *memguard.Enclave {
	if s == "" {
		return nil
	}
	return memguard.NewEnclave([]byte(s))
}

// enclaveDigest opens the enclave just long enough to hash its contents.
// A nil enclave digests as the empty string, which preserves the exact-match
// semantics for unconfigured values.
func enclaveDigest(sealed *memguard.Enclave) [sha256.Size]byte {
	if sealed == nil {
		return digest("")
	}
	buf, err := sealed.Open()
	if err != nil {
		// Unopenable enclave: return a digest no input can produce a
		// preimage for, so every comparison fails.
		return [sha256.Size]byte{}
	}
	defer buf.Destroy()
	return sha256.Sum256(buf.Bytes())
}

func digest(s string) [sha256.Size]byte {
	return sha256.Sum256([]byte(s))
}

func digestsEqual(a, b [sha256.Size]byte) bool {
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}
