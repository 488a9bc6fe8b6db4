package api_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"file-vault-api/internal/app/api"
	"file-vault-api/internal/app/ports"
)

var _ = Describe("Registration and authentication (unit)", Ordered, func() {
	var vault ports.VaultServer
	const user = "bob"
	const passwd = "Secr3t!"

	BeforeAll(func() {
		vault = newTestServerFromConfig(TestConfigPath)
	})

	It("Register: creates the user with a hashed credential", func() {
		u, err := vault.Register(user, passwd, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(u.Username).To(Equal(user))
		Expect(u.RootFolder).To(Equal(api.DefaultRootFolder))
		Expect(u.PasswordHash).NotTo(BeEmpty())
		Expect(u.PasswordHash).NotTo(ContainSubstring(passwd))
	})

	It("Register: rejects a duplicate username", func() {
		_, err := vault.Register(user, "OtherPass1", "")
		Expect(errors.Is(err, ports.ErrUsernameTaken)).To(BeTrue())
	})

	It("Register: sanitizes the requested root folder", func() {
		u, err := vault.Register("carol", passwd, "../../shared")
		Expect(err).NotTo(HaveOccurred())
		Expect(u.RootFolder).To(Equal("shared"))
	})

	It("Register: rejects missing username or password", func() {
		_, err := vault.Register("", passwd, "")
		Expect(errors.Is(err, ports.ErrInvalidInput)).To(BeTrue())

		_, err = vault.Register("dave", "", "")
		Expect(errors.Is(err, ports.ErrInvalidInput)).To(BeTrue())
	})

	It("Register: rejects usernames with path separators", func() {
		for _, bad := range []string{"..", "a/b", "a\\b"} {
			_, err := vault.Register(bad, passwd, "")
			Expect(errors.Is(err, ports.ErrInvalidInput)).To(BeTrue(), "username %q should be rejected", bad)
		}
	})

	It("AuthenticateUser: accepts the registered credential", func() {
		id, err := vault.AuthenticateUser(user, passwd)
		Expect(err).NotTo(HaveOccurred())
		Expect(id.Username).To(Equal(user))
		Expect(id.RootFolder).To(Equal(api.DefaultRootFolder))
	})

	It("AuthenticateUser: unknown user and wrong password fail identically", func() {
		_, errUnknown := vault.AuthenticateUser("nobody", passwd)
		_, errWrong := vault.AuthenticateUser(user, "WrongPass")
		Expect(errors.Is(errUnknown, ports.ErrInvalidCredentials)).To(BeTrue())
		Expect(errors.Is(errWrong, ports.ErrInvalidCredentials)).To(BeTrue())
		Expect(errUnknown.Error()).To(Equal(errWrong.Error()))
	})

	It("AuthenticateAdmin: accepts the configured admin credential", func() {
		admin, err := vault.AuthenticateAdmin("admin", "test-admin-secret")
		Expect(err).NotTo(HaveOccurred())
		Expect(admin.Username).To(Equal("admin"))
	})

	It("AuthenticateAdmin: rejects user credentials on the admin surface", func() {
		_, err := vault.AuthenticateAdmin(user, passwd)
		Expect(errors.Is(err, ports.ErrInvalidCredentials)).To(BeTrue())
	})

	It("AuthenticateUser: rejects admin credentials on the user surface", func() {
		_, err := vault.AuthenticateUser("admin", "test-admin-secret")
		Expect(errors.Is(err, ports.ErrInvalidCredentials)).To(BeTrue())
	})

	It("ListUsers: returns registered users sorted, without exposing hashes over JSON", func() {
		users, err := vault.ListUsers()
		Expect(err).NotTo(HaveOccurred())
		Expect(len(users)).To(BeNumerically(">=", 2))
		for i := 1; i < len(users); i++ {
			Expect(users[i-1].Username < users[i].Username).To(BeTrue(), "users must be sorted by username")
		}
	})
})
