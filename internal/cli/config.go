package cli

import (
	"bytes"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/module"

	"github.com/toyz/routegen/internal/errors"
	"github.com/toyz/routegen/internal/generator"
	"github.com/toyz/routegen/internal/models"
)

const (
	// ConfigFile is the optional configuration file looked up in the working directory
	ConfigFile = "routegen.toml"

	// EnvOutputFile overrides output_file
	EnvOutputFile = "ROUTEGEN_OUTPUT_FILE"

	// EnvRuntimeImport overrides runtime_import
	EnvRuntimeImport = "ROUTEGEN_RUNTIME_IMPORT"
)

// Config holds the configuration for the CLI generator
type Config struct {
	// Directories is the list of directories to scan; "dir/..." scans recursively
	Directories []string `toml:"-"`

	// ModuleName is the module path of the target code.
	// If empty, will be determined from go.mod file
	ModuleName string `toml:"module"`

	// Verbose enables detailed logging and error reporting
	Verbose bool `toml:"-"`

	OutputFile       string `toml:"output_file"`
	DefaultFunc      string `toml:"default_func"`
	RuntimeImport    string `toml:"runtime_import"`
	ContractChecks   *bool  `toml:"contract_checks"`
	RejectDuplicates *bool  `toml:"reject_duplicates"`
}

// LoadConfig reads path, or routegen.toml in the working directory when path
// is empty. A missing default file is not an error; a missing explicit one is.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = ConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, errors.WrapConfigurationError(path, "read", err)
	}

	var cfg Config
	decoder := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.WrapConfigurationError(path, "parse", err).
			WithSuggestions("Valid keys: module, output_file, default_func, runtime_import, contract_checks, reject_duplicates")
	}
	return &cfg, nil
}

// Merge applies values from overlay that differ from zero values
func (c *Config) Merge(overlay *Config) {
	if len(overlay.Directories) > 0 {
		c.Directories = overlay.Directories
	}
	if overlay.ModuleName != "" {
		c.ModuleName = overlay.ModuleName
	}
	if overlay.Verbose {
		c.Verbose = true
	}
	if overlay.OutputFile != "" {
		c.OutputFile = overlay.OutputFile
	}
	if overlay.DefaultFunc != "" {
		c.DefaultFunc = overlay.DefaultFunc
	}
	if overlay.RuntimeImport != "" {
		c.RuntimeImport = overlay.RuntimeImport
	}
	if overlay.ContractChecks != nil {
		c.ContractChecks = overlay.ContractChecks
	}
	if overlay.RejectDuplicates != nil {
		c.RejectDuplicates = overlay.RejectDuplicates
	}
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
// runtime_import stays empty until the module is known.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// GeneratorOptions converts the configuration for the code generator
func (c *Config) GeneratorOptions() generator.Options {
	return generator.Options{
		OutputFile:       c.OutputFile,
		RuntimeImport:    c.RuntimeImport,
		DefaultFunc:      c.DefaultFunc,
		ContractChecks:   boolValue(c.ContractChecks, true),
		RejectDuplicates: boolValue(c.RejectDuplicates, true),
	}
}

func (c *Config) loadDefaults() {
	if len(c.Directories) == 0 {
		c.Directories = []string{"."}
	}
	if c.OutputFile == "" {
		c.OutputFile = generator.DefaultOutputFile
	}
	if c.DefaultFunc == "" {
		c.DefaultFunc = models.DefaultRegistryFunc
	}
	if c.ContractChecks == nil {
		c.ContractChecks = boolPtr(true)
	}
	if c.RejectDuplicates == nil {
		c.RejectDuplicates = boolPtr(true)
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvOutputFile); v != "" {
		c.OutputFile = v
	}
	if v := os.Getenv(EnvRuntimeImport); v != "" {
		c.RuntimeImport = v
	}
}

func (c *Config) validate() error {
	if filepath.Base(c.OutputFile) != c.OutputFile || !strings.HasSuffix(c.OutputFile, ".go") {
		return invalidConfig("output_file", c.OutputFile, "must be a .go file name without directories")
	}
	if strings.HasSuffix(c.OutputFile, "_test.go") {
		return invalidConfig("output_file", c.OutputFile, "must not be a test file")
	}
	if !token.IsIdentifier(c.DefaultFunc) {
		return invalidConfig("default_func", c.DefaultFunc, "must be a Go identifier")
	}
	if c.RuntimeImport != "" {
		if err := module.CheckImportPath(c.RuntimeImport); err != nil {
			return invalidConfig("runtime_import", c.RuntimeImport, err.Error())
		}
	}
	return nil
}

func invalidConfig(key, value, reason string) error {
	return errors.Newf(errors.ConfigurationErrorCode, "invalid %s %q: %s", key, value, reason).
		WithContext("key", key).
		WithContext("value", value)
}

func boolPtr(v bool) *bool {
	return &v
}

func boolValue(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

// String renders the effective configuration for verbose output
func (c *Config) String() string {
	return fmt.Sprintf("output_file=%s default_func=%s runtime_import=%s contract_checks=%t reject_duplicates=%t",
		c.OutputFile, c.DefaultFunc, c.RuntimeImport,
		boolValue(c.ContractChecks, true), boolValue(c.RejectDuplicates, true))
}
