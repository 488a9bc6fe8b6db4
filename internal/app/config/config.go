package config

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"time"

	"github.com/mcuadros/go-defaults"
	"gopkg.in/yaml.v3"
)

type ProgramConfig struct {
	Storage    StorageConfig    `yaml:"storage"`
	HttpServer HttpServerConfig `yaml:"http_server"`
	Registry   RegistryConfig   `yaml:"registry"`
	Security   SecurityConfig   `yaml:"security"`
	Metrics    MetricsContext   `yaml:"metrics"`
}

type MetricsContext struct {
	Namespace   string `yaml:"namespace" default:"fva"`
	Environment string `yaml:"environment"`
}

type StorageConfig struct {
	Implementation string `yaml:"implementation" default:"unix"`
	BaseDir        string `yaml:"base_dir"`
	CreateBaseDir  bool   `yaml:"create_base_dir" default:"false"`
}

type HttpServerConfig struct {
	Banner         string `yaml:"banner" default:"File Vault API"`
	ListenAddress  string `yaml:"listen_address" default:":8080"`
	UnixSocketPath string `yaml:"unix_socket_path"`
	TelemetryPath  string `yaml:"telemetry_path" default:"/metrics"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" default:"33554432"`
}

type SecurityConfig struct {
	Admin   AdminConfig   `yaml:"admin"`
	Hasher  HasherConfig  `yaml:"hasher"`
	Session SessionConfig `yaml:"session"`
}

// AdminConfig carries the fixed administrator credential. Exactly one of
// Password and PasswordHash should be set; a plaintext Password is hashed
// once at startup and never kept around.
type AdminConfig struct {
	Username     string `yaml:"username" default:"admin"`
	Password     string `yaml:"password"`
	PasswordHash string `yaml:"password_hash"`
}

type HasherConfig struct {
	DefaultAlgorithm string `yaml:"default_algorithm" default:"crypt-sha256"`
	DefaultRounds    int    `yaml:"default_rounds" default:"5000"`
	DefaultSaltLen   int    `yaml:"default_salt_len" default:"16"`
}

type SessionConfig struct {
	TTL time.Duration `yaml:"ttl" default:"12h"`
}

type RegistryConfig struct {
	Type   string               `yaml:"type" default:"file"`
	File   RegistryFileConfig   `yaml:"file"`
	Sqlite RegistrySqliteConfig `yaml:"sqlite"`
	MySQL  RegistryMySqlConfig  `yaml:"mysql"`
}

type RegistryFileConfig struct {
	// FilePath defaults to <storage.base_dir>/users.yml when empty.
	FilePath string `yaml:"file_path"`
}

type RegistrySqliteConfig struct {
	DbFilePath   string        `yaml:"db_file_path"`
	CreateDbDir  bool          `yaml:"create_db_dir" default:"false"`
	QueryTimeout time.Duration `yaml:"query_timeout" default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"5s"`
}

type RegistryMySqlConfig struct {
	Database     string        `yaml:"database"`
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	User         string        `yaml:"user"`
	Password     string        `yaml:"password"`
	IgnoreSSL    bool          `yaml:"ignore_ssl"`
	SSLCaPath    string        `yaml:"ssl_ca_path"`
	QueryTimeout time.Duration `yaml:"query_timeout" default:"5s"`
}

func LoadConfig(path string) (*ProgramConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadConfigString(string(data))
}

func LoadConfigString(data string) (*ProgramConfig, error) {
	expanded := ExpandEnvWithDefaults(data)
	var config ProgramConfig
	err := yaml.Unmarshal([]byte(expanded), &config)
	if err != nil {
		return nil, err
	}
	defaults.SetDefaults(&config)
	return &config, nil
}

func (c *ProgramConfig) Validate() error {
	if c.Storage.BaseDir == "" {
		return fmt.Errorf("storage.base_dir is required")
	}
	if c.Security.Admin.Password == "" && c.Security.Admin.PasswordHash == "" {
		return fmt.Errorf("security.admin needs password or password_hash")
	}
	return nil
}

// RegistryFilePath applies the file-registry default location.
func (c *ProgramConfig) RegistryFilePath() string {
	if c.Registry.File.FilePath != "" {
		return c.Registry.File.FilePath
	}
	return c.Storage.BaseDir + string(os.PathSeparator) + "users.yml"
}

func (c *ProgramConfig) PrintHello(programName, programVersion string, pidFile string, bootstrap bool) {
	pid := os.Getpid()
	pidFileInfo := ""
	if pidFile != "" {
		pidFileInfo = fmt.Sprintf(" (file: %s)", pidFile)
	}
	log.Printf("%s v.%s, pid: %d%s, bootstrap: %v, registry: %s", programName, programVersion, pid, pidFileInfo, bootstrap, c.Registry.Type)
}

var varWithDefault = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?}`)

// ExpandEnvWithDefaults handles ${VAR:-default}, ${VAR} and $VAR the env values
func ExpandEnvWithDefaults(s string) string {
	s = varWithDefault.ReplaceAllStringFunc(s, func(m string) string {
		sub := varWithDefault.FindStringSubmatch(m)
		name, defaultVal := sub[1], sub[2]
		if v, ok := os.LookupEnv(name); ok && v != "" {
			return v
		}
		if defaultVal != "" {
			return defaultVal
		}
		// If no default (the pattern was just ${VAR}), keep it unresolved
		return "${" + name + "}"
	})
	// handle $VAR and ${VAR}
	return os.ExpandEnv(s)
}
