package registry

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"file-vault-api/internal/app/ports"
)

var _ = Describe("FileUserRegistry", func() {
	var (
		path string
		reg  *FileUserRegistry
	)

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "state", "users.yml")
		var err error
		reg, err = NewFileUserRegistry(path, true)
		Expect(err).ToNot(HaveOccurred())
	})

	It("loads an empty mapping when no record exists yet", func() {
		users, err := reg.Load()
		Expect(err).ToNot(HaveOccurred())
		Expect(users).To(BeEmpty())
	})

	It("round-trips the user mapping through save and load", func() {
		in := map[string]ports.User{
			"alice": {Username: "alice", PasswordHash: "$5$rounds=1000$salt$hash", RootFolder: "files"},
			"bob":   {Username: "bob", PasswordHash: "$6$rounds=1000$salt$hash", RootFolder: "data"},
		}
		Expect(reg.Save(in)).To(Succeed())

		out, err := reg.Load()
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(Equal(in))
	})

	It("keys the loaded user by its map key even when the record disagrees", func() {
		Expect(reg.Save(map[string]ports.User{
			"alice": {Username: "stale-name", RootFolder: "files"},
		})).To(Succeed())

		u, err := reg.GetUser("alice")
		Expect(err).ToNot(HaveOccurred())
		Expect(u.Username).To(Equal("alice"))
	})

	It("reports an unknown user as not found", func() {
		_, err := reg.GetUser("nobody")
		Expect(errors.Is(err, ports.ErrNotFound)).To(BeTrue())
	})

	It("rejects a duplicate registration", func() {
		_, err := reg.AddUser(ports.User{Username: "alice", RootFolder: "files"})
		Expect(err).ToNot(HaveOccurred())

		_, err = reg.AddUser(ports.User{Username: "alice", RootFolder: "other"})
		Expect(errors.Is(err, ports.ErrUsernameTaken)).To(BeTrue())

		u, err := reg.GetUser("alice")
		Expect(err).ToNot(HaveOccurred())
		Expect(u.RootFolder).To(Equal("files"), "the first registration must survive")
	})

	It("quarantines an unparsable record and continues empty", func() {
		Expect(os.WriteFile(path, []byte("users: [not: a: mapping"), 0o600)).To(Succeed())

		users, err := reg.Load()
		Expect(err).ToNot(HaveOccurred())
		Expect(users).To(BeEmpty())

		// the broken record is moved aside, not destroyed
		backup, err := os.ReadFile(path + CorruptBackupSuffix)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(backup)).To(ContainSubstring("not: a: mapping"))

		// the registry is usable again right away
		_, err = reg.AddUser(ports.User{Username: "fresh", RootFolder: "files"})
		Expect(err).ToNot(HaveOccurred())
	})

	It("admits exactly one winner under concurrent registration of the same name", func() {
		const racers = 8
		var wg sync.WaitGroup
		var mu sync.Mutex
		winners := 0
		for i := 0; i < racers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer GinkgoRecover()
				_, err := reg.AddUser(ports.User{Username: "contested", RootFolder: "files"})
				if err == nil {
					mu.Lock()
					winners++
					mu.Unlock()
				} else {
					Expect(errors.Is(err, ports.ErrUsernameTaken)).To(BeTrue())
				}
			}()
		}
		wg.Wait()
		Expect(winners).To(Equal(1))
	})

	It("leaves no temp file behind after a save", func() {
		Expect(reg.Save(map[string]ports.User{"a": {Username: "a"}})).To(Succeed())
		_, err := os.Stat(path + ".tmp")
		Expect(os.IsNotExist(err)).To(BeTrue())
	})
})

var _ = Describe("InMemUserRegistry", func() {
	It("isolates callers from its internal state", func() {
		reg := NewInMemUserRegistry()
		_, err := reg.AddUser(ports.User{Username: "alice", RootFolder: "files"})
		Expect(err).ToNot(HaveOccurred())

		snapshot, err := reg.Load()
		Expect(err).ToNot(HaveOccurred())
		snapshot["mallory"] = ports.User{Username: "mallory"}

		_, err = reg.GetUser("mallory")
		Expect(errors.Is(err, ports.ErrNotFound)).To(BeTrue())
	})

	It("rejects a duplicate registration", func() {
		reg := NewInMemUserRegistry()
		_, err := reg.AddUser(ports.User{Username: "alice"})
		Expect(err).ToNot(HaveOccurred())
		_, err = reg.AddUser(ports.User{Username: "alice"})
		Expect(errors.Is(err, ports.ErrUsernameTaken)).To(BeTrue())
	})
})
