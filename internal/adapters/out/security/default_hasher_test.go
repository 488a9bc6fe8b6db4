package security_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"file-vault-api/internal/adapters/out/security"
	"file-vault-api/internal/app/config"
	"file-vault-api/internal/app/ports"
)

const password = "Secret123!"

var _ = Describe("Hasher", func() {
	var hasher ports.Hasher

	BeforeEach(func() {
		cfg := config.HasherConfig{
			DefaultAlgorithm: "crypt-sha256",
			DefaultRounds:    5000,
			DefaultSaltLen:   16,
		}
		hasher, _ = security.NewDefaultHasherFromConfig(cfg)
	})

	It("should hash and verify the correct password using default algorithm", func() {
		hash, err := hasher.DefaultHash(password)
		Expect(err).ToNot(HaveOccurred())
		Expect(hash).ToNot(BeEmpty())
		Expect(hash).To(HavePrefix("$5$"))

		ok, err := hasher.Verify(hash, password)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue(), "default hash must be verified")
	})

	It("should reject a wrong password", func() {
		hash, err := hasher.DefaultHash(password)
		Expect(err).ToNot(HaveOccurred())

		ok, err := hasher.Verify(hash, "WrongPassword")
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse(), "Verify must fail for a wrong password")
	})

	It("should produce different hashes for the same password (salted)", func() {
		hash1, err1 := hasher.DefaultHash(password)
		hash2, err2 := hasher.DefaultHash(password)

		Expect(err1).ToNot(HaveOccurred())
		Expect(err2).ToNot(HaveOccurred())
		Expect(hash1).ToNot(Equal(hash2), "Hashing should be salted and produce different values")
	})

	It("should hash and verify with crypt-sha512 when configured", func() {
		cfg := config.HasherConfig{
			DefaultAlgorithm: "crypt-sha512",
			DefaultRounds:    5000,
			DefaultSaltLen:   16,
		}
		h512, err := security.NewDefaultHasherFromConfig(cfg)
		Expect(err).ToNot(HaveOccurred())

		hash, err := h512.DefaultHash(password)
		Expect(err).ToNot(HaveOccurred())
		Expect(hash).To(HavePrefix("$6$"))

		ok, err := h512.Verify(hash, password)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("should verify a hash produced with either algorithm regardless of the default", func() {
		cfg := config.HasherConfig{
			DefaultAlgorithm: "crypt-sha512",
			DefaultRounds:    5000,
			DefaultSaltLen:   16,
		}
		h512, err := security.NewDefaultHasherFromConfig(cfg)
		Expect(err).ToNot(HaveOccurred())

		hash512, err := h512.DefaultHash(password)
		Expect(err).ToNot(HaveOccurred())

		ok, err := hasher.Verify(hash512, password)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue(), "sha256-default hasher must still verify sha512 hashes")
	})

	It("should reject an unrecognized hash format", func() {
		_, err := hasher.Verify("plaintext-not-a-hash", password)
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, ports.ErrUnsupportedAlgorithm)).To(BeTrue())
	})

	It("should reject unsafe hashing parameters", func() {
		_, err := security.NewDefaultHasherFromConfig(config.HasherConfig{
			DefaultAlgorithm: "crypt-sha256",
			DefaultRounds:    10,
			DefaultSaltLen:   16,
		})
		Expect(err).To(HaveOccurred())

		_, err = security.NewDefaultHasherFromConfig(config.HasherConfig{
			DefaultAlgorithm: "crypt-sha256",
			DefaultRounds:    5000,
			DefaultSaltLen:   64,
		})
		Expect(err).To(HaveOccurred())
	})
})
