package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"file-vault-api/internal/app/config"
)

const TestConfigPath = "../../../config.test.yml"

var _ = Describe("LoadConfig", func() {

	When("the file does not exist", func() {
		It("returns an error and nil config", func() {
			cfg, err := config.LoadConfig("this-file-does-not-exist.yaml")
			Expect(err).To(HaveOccurred())
			Expect(cfg).To(BeNil())
		})
	})

	When("the file contains invalid YAML", func() {
		It("returns a parse error and nil config", func() {
			f, err := os.CreateTemp("", "invalid-*.yaml")
			Expect(err).ToNot(HaveOccurred())
			defer func(name string) {
				_ = os.Remove(name)
			}(f.Name())

			_, err = f.WriteString("not valid yaml: : :")
			Expect(err).ToNot(HaveOccurred())
			_ = f.Close()

			cfg, loadErr := config.LoadConfig(f.Name())
			Expect(loadErr).To(HaveOccurred())
			Expect(cfg).To(BeNil())
		})
	})

	When("loading from an in-memory YAML string", func() {
		It("parses, expands env vars and applies defaults", func() {
			Expect(os.Setenv("VAULT_DIR", "/var/lib/file-vault-test")).To(Succeed())
			defer func() {
				_ = os.Unsetenv("VAULT_DIR")
			}()

			yamlStr := `
storage:
  base_dir: ${VAULT_DIR:-/default/vault}
http_server: {}
registry:
  type: inmem
security:
  admin:
    password: s3cret
metrics: {}
`
			cfg, err := config.LoadConfigString(yamlStr)
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg).ToNot(BeNil())

			// env expanded
			Expect(cfg.Storage.BaseDir).To(Equal("/var/lib/file-vault-test"))

			// defaults from struct tags (go-defaults)
			Expect(cfg.Storage.Implementation).To(Equal("unix"))
			Expect(cfg.HttpServer.ListenAddress).To(Equal(":8080"))
			Expect(cfg.HttpServer.TelemetryPath).To(Equal("/metrics"))
			Expect(cfg.HttpServer.MaxUploadBytes).To(Equal(int64(33554432)))
			Expect(cfg.Metrics.Namespace).To(Equal("fva"))
			Expect(cfg.Security.Admin.Username).To(Equal("admin"))
			Expect(cfg.Security.Hasher.DefaultAlgorithm).To(Equal("crypt-sha256"))
			Expect(cfg.Security.Hasher.DefaultRounds).To(Equal(5000))
			Expect(cfg.Security.Session.TTL).To(Equal(12 * time.Hour))
		})
	})

	When("YAML uses default part in ${VAR:-default}", func() {
		It("uses the default when env is missing", func() {
			_ = os.Unsetenv("MISSING_ENV")

			yamlStr := `
storage:
  base_dir: ${MISSING_ENV:-/fallback/dir}
registry:
  type: inmem
http_server: {}
security:
  admin:
    password: s3cret
metrics: {}
`
			cfg, err := config.LoadConfigString(yamlStr)
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.Storage.BaseDir).To(Equal("/fallback/dir"))
		})
	})

	When("real test file exists", func() {
		It("loads it successfully (smoke test)", func() {
			if _, err := os.Stat(TestConfigPath); err != nil {
				Skip("test config file not found: " + TestConfigPath)
			}
			cfg, err := config.LoadConfig(TestConfigPath)
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg).ToNot(BeNil())
		})
	})
})

var _ = Describe("ProgramConfig utility methods", func() {
	It("validates the admin credential and base dir", func() {
		yamlStr := `
storage: { base_dir: /srv/vault }
http_server: {}
registry: { type: inmem }
security:
  admin:
    password: s3cret
metrics: {}
`
		cfg, err := config.LoadConfigString(yamlStr)
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.Validate()).To(Succeed())

		cfg.Storage.BaseDir = ""
		Expect(cfg.Validate()).ToNot(Succeed())

		cfg.Storage.BaseDir = "/srv/vault"
		cfg.Security.Admin.Password = ""
		cfg.Security.Admin.PasswordHash = ""
		Expect(cfg.Validate()).ToNot(Succeed())
	})

	It("defaults the registry file next to the base dir", func() {
		yamlStr := `
storage: { base_dir: /srv/vault }
http_server: {}
registry: { type: file }
security:
  admin:
    password: s3cret
metrics: {}
`
		cfg, err := config.LoadConfigString(yamlStr)
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.RegistryFilePath()).To(Equal(filepath.Join("/srv/vault", "users.yml")))

		cfg.Registry.File.FilePath = "/etc/file-vault/users.yml"
		Expect(cfg.RegistryFilePath()).To(Equal("/etc/file-vault/users.yml"))
	})
})

var _ = Describe("DB-related defaults", func() {
	It("applies sqlite timeouts", func() {
		yamlStr := `
storage: { base_dir: /srv/vault }
http_server: {}
metrics: {}
security:
  admin:
    password: s3cret
registry:
  type: sqlite
  sqlite:
    db_file_path: "/tmp/test.db"
`
		cfg, err := config.LoadConfigString(yamlStr)
		Expect(err).ToNot(HaveOccurred())

		Expect(cfg.Registry.Sqlite.DbFilePath).To(Equal("/tmp/test.db"))
		Expect(cfg.Registry.Sqlite.QueryTimeout).To(Equal(5 * time.Second))
		Expect(cfg.Registry.Sqlite.WriteTimeout).To(Equal(5 * time.Second))
	})
})

var _ = Describe("ExpandEnvWithDefaults (unit)", func() {
	It("replaces ${VAR} unresolved to empty string if no env and no default", func() {
		_ = os.Unsetenv("NOPE")
		out := config.ExpandEnvWithDefaults("${NOPE}")
		Expect(out).To(Equal(""))
	})

	It("replaces ${VAR:-def} with def when unset", func() {
		_ = os.Unsetenv("NOPE2")
		out := config.ExpandEnvWithDefaults("${NOPE2:-abc}")
		Expect(out).To(Equal("abc"))
	})

	It("replaces ${VAR} with value when set", func() {
		Expect(os.Setenv("REAL", "value")).To(Succeed())
		defer func() {
			_ = os.Unsetenv("REAL")
		}()

		out := config.ExpandEnvWithDefaults("${REAL}")
		Expect(out).To(Equal("value"))
	})
})
