package security

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/GehirnInc/crypt"
	"github.com/GehirnInc/crypt/sha256_crypt"
	"github.com/GehirnInc/crypt/sha512_crypt"

	"file-vault-api/internal/app/config"
	"file-vault-api/internal/app/ports"
)

// DefaultHasher produces glibc crypt(3) SHA-256/SHA-512 hashes
// (`$5|6$rounds=<N>$<salt>$<digest>`): salted, slow, one-way. Verify
// delegates to the crypter, which compares digests in constant time.
type DefaultHasher struct {
	rr             io.Reader
	defaultAlgId   int
	defaultCrypter crypt.Crypter
	defaultRounds  int
	defaultSaltLen int
}

// Enforce compile-time conformance to the interface
var _ ports.Hasher = (*DefaultHasher)(nil)

// NewDefaultHasher returns a hasher with sane defaults (sha256, rounds=5000, salt=16).
func NewDefaultHasher() (*DefaultHasher, error) {
	return NewDefaultHasherFromConfig(config.HasherConfig{
		DefaultAlgorithm: "crypt-sha256",
		DefaultRounds:    5000,
		DefaultSaltLen:   16,
	})
}

func NewDefaultHasherFromConfig(cfg config.HasherConfig) (*DefaultHasher, error) {
	alg, err := ports.ParseHashAlgo(cfg.DefaultAlgorithm)
	if err != nil {
		return nil, err
	}
	if err := validateParams(cfg.DefaultRounds, cfg.DefaultSaltLen); err != nil {
		return nil, err
	}
	algId, crypter, err := resolveCrypter(alg)
	if err != nil {
		return nil, err
	}
	return &DefaultHasher{
		rr:             rand.Reader,
		defaultAlgId:   algId,
		defaultCrypter: crypter,
		defaultRounds:  cfg.DefaultRounds,
		defaultSaltLen: cfg.DefaultSaltLen,
	}, nil
}

func validateParams(rounds int, saltLen int) error {
	if rounds < 1000 || rounds > 1000000 {
		return fmt.Errorf("rounds must be positive between 1000 and 1000000")
	}
	if saltLen <= 0 || saltLen > 16 {
		return fmt.Errorf("salt length must be positive and <= 16")
	}
	return nil
}

// DefaultHash returns a crypt string like `$5|6$rounds=5000$<salt>$<hash>`
func (c *DefaultHasher) DefaultHash(plain string) (hash string, err error) {
	salt, err := randomSalt(c.defaultSaltLen, c.rr)
	if err != nil {
		return "", err
	}
	// Salt spec per crypt(3): $algId$rounds=N$<salt>
	saltSpec := fmt.Sprintf("$%d$rounds=%d$%s", c.defaultAlgId, c.defaultRounds, salt)
	return c.defaultCrypter.Generate([]byte(plain), []byte(saltSpec))
}

// Verify compares a stored crypt hash against the provided plaintext.
// Never compares raw passwords; the crypter recomputes and matches
// digests in constant time.
func (c *DefaultHasher) Verify(hashed, plain string) (verified bool, err error) {
	alg, err := ports.DetectHashAlgo(hashed)
	if err != nil {
		return false, err
	}
	switch alg {
	case ports.AlgoCryptSHA512:
		return sha512_crypt.New().Verify(hashed, []byte(plain)) == nil, nil
	case ports.AlgoCryptSHA256:
		return sha256_crypt.New().Verify(hashed, []byte(plain)) == nil, nil
	default:
		return false, ports.ErrUnsupportedAlgorithm
	}
}

// Helpers

// Crypt uses the classic crypt(3) base64 alphabet for salt: [./0-9A-Za-z]
const cryptAlphabet = "./0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

func resolveCrypter(alg ports.HashAlgo) (id int, crypter crypt.Crypter, err error) {
	switch alg {
	case ports.AlgoCryptSHA256:
		return 5, sha256_crypt.New(), nil // $5$
	case ports.AlgoCryptSHA512:
		return 6, sha512_crypt.New(), nil // $6$
	default:
		return 0, nil, fmt.Errorf("cannot create crypter for algorithm %s: %w", alg, ports.ErrUnsupportedAlgorithm)
	}
}

// randomSalt generates a salt of length n using the crypt(3) alphabet.
func randomSalt(n int, rng io.Reader) (string, error) {
	if rng == nil {
		rng = rand.Reader
	}
	buf := make([]byte, n)
	out := make([]byte, n)
	if _, err := io.ReadFull(rng, buf); err != nil {
		return "", err
	}
	for i := 0; i < n; i++ {
		out[i] = cryptAlphabet[int(buf[i])%len(cryptAlphabet)]
	}
	return string(out), nil
}
