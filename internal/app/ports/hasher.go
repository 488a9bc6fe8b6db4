package ports

import "strings"

type HashAlgo string

const (
	AlgoCryptSHA256 HashAlgo = "crypt-sha256" // $5$
	AlgoCryptSHA512 HashAlgo = "crypt-sha512" // $6$
)

// Hasher produces and verifies salted crypt(3) password hashes.
type Hasher interface {
	DefaultHash(plain string) (hash string, err error)
	Verify(hashed, plain string) (verified bool, err error)
}

func ParseHashAlgo(s string) (HashAlgo, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "crypt-sha256":
		return AlgoCryptSHA256, nil
	case "crypt-sha512":
		return AlgoCryptSHA512, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}

// DetectHashAlgo inspects the stored hash marker and returns its algorithm.
func DetectHashAlgo(hashed string) (HashAlgo, error) {
	s := strings.TrimSpace(hashed)
	switch {
	case strings.HasPrefix(s, "$6$"):
		return AlgoCryptSHA512, nil
	case strings.HasPrefix(s, "$5$"):
		return AlgoCryptSHA256, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
