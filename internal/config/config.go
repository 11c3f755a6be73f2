package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFilename is the bundle description read when no path is given.
	DefaultConfigFilename = "appbundler.yaml"

	// DefaultExecutableName is the name of the embedded launcher.
	DefaultExecutableName = "JavaAppLauncher"

	// DefaultShortVersion is used when short_version is not set.
	DefaultShortVersion = "1.0"

	// DefaultVersion is used when version is not set.
	DefaultVersion = "1.0"

	// DefaultSignature is the unknown creator code.
	DefaultSignature = "????"

	// DefaultDocumentRole is the role of a document type without one.
	DefaultDocumentRole = "Editor"

	// SignatureLength is the exact length of a creator code.
	SignatureLength = 4

	// BundleExtension is appended to the bundle name.
	BundleExtension = ".app"

	// DefaultFilePermissions is the permission of files written by Save.
	DefaultFilePermissions = 0o644
)

var (
	// ErrInvalidSignature is returned when the signature is not exactly four bytes.
	ErrInvalidSignature = errors.New("signature must be exactly 4 bytes")
	// ErrInvalidName is returned when the name would place the bundle outside the output directory.
	ErrInvalidName = errors.New("invalid bundle name")
	// ErrInvalidIcon is returned when the icon is missing or is a directory.
	ErrInvalidIcon = errors.New("invalid icon")
	// ErrInvalidOutputDir is returned when the output directory is missing or not a directory.
	ErrInvalidOutputDir = errors.New("invalid output directory")
	// ErrRequired is wrapped by every missing-field error.
	ErrRequired = errors.New("required")

	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
)

// Load reads the bundle description from path, resolves relative paths
// against the directory of the file and validates it.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Read reads the bundle description from path without validating it, so
// callers can override fields before calling Validate. BaseDir is set to
// the directory of the file.
func Read(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	path = filepath.Clean(path)

	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle description: %w", err)
	}

	var cfg Config
	if err = yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal bundle description: %w", err)
	}

	absolute, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve bundle description path: %w", err)
	}

	cfg.BaseDir = filepath.Dir(absolute)

	return &cfg, nil
}

// Save writes the bundle description to path without validating it,
// so templates referring to files that do not exist yet can be written.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal bundle description: %w", err)
	}

	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write bundle description: %w", err)
	}

	return nil
}

// Validate applies defaults, resolves relative paths against BaseDir and
// checks every invariant. It touches the filesystem only to stat the
// output directory and icons; nothing is created or modified.
//
//nolint:cyclop,funlen // A flat list of checks reads better than a split one.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	applyDefaults(cfg)
	resolvePaths(cfg)

	required := []struct {
		field string
		value string
	}{
		{"name", cfg.Name},
		{"display_name", cfg.DisplayName},
		{"identifier", cfg.Identifier},
		{"short_version", cfg.ShortVersion},
		{"main_class_name", cfg.MainClassName},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s: %w", r.field, ErrRequired)
		}
	}

	if err := checkName(cfg.Name); err != nil {
		return err
	}

	if len(cfg.Signature) != SignatureLength {
		return fmt.Errorf("%w: %q", ErrInvalidSignature, cfg.Signature)
	}

	if err := checkDirectory(cfg.OutputDir); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOutputDir, err)
	}

	if cfg.Icon != "" {
		if err := checkRegularFile(cfg.Icon); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidIcon, err)
		}
	}

	if cfg.Runtime != nil && cfg.Runtime.Dir == "" {
		return fmt.Errorf("runtime.dir: %w", ErrRequired)
	}

	for i, fs := range cfg.ClassPath {
		if fs.Dir == "" {
			return fmt.Errorf("classpath[%d].dir: %w", i, ErrRequired)
		}
	}

	for i, fs := range cfg.LibraryPath {
		if fs.Dir == "" {
			return fmt.Errorf("library_path[%d].dir: %w", i, ErrRequired)
		}
	}

	for i, opt := range cfg.Options {
		if opt.Value == "" {
			return fmt.Errorf("options[%d].value: %w", i, ErrRequired)
		}
	}

	lists := []struct {
		field  string
		values []string
	}{
		{"arguments", cfg.Arguments},
		{"architectures", cfg.Architectures},
		{"schemes", cfg.Schemes},
		{"classpath_ref", cfg.ClassPathRef},
	}
	for _, l := range lists {
		for i, value := range l.values {
			if value == "" {
				return fmt.Errorf("%s[%d]: %w", l.field, i, ErrRequired)
			}
		}
	}

	for i, entry := range cfg.PlistEntries {
		if entry.Key == "" {
			return fmt.Errorf("plist_entries[%d].key: %w", i, ErrRequired)
		}

		if entry.Value == "" {
			return fmt.Errorf("plist_entries[%d].value: %w", i, ErrRequired)
		}
	}

	for i := range cfg.Documents {
		if err := validateDocument(cfg, &cfg.Documents[i]); err != nil {
			return fmt.Errorf("documents[%d]: %w", i, err)
		}
	}

	return nil
}

// applyDefaults fills optional fields with the values the launcher expects.
func applyDefaults(cfg *Config) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}

	if cfg.ExecutableName == "" {
		cfg.ExecutableName = DefaultExecutableName
	}

	if cfg.ShortVersion == "" {
		cfg.ShortVersion = DefaultShortVersion
	}

	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}

	if cfg.Signature == "" {
		cfg.Signature = DefaultSignature
	}

	for i := range cfg.Documents {
		if cfg.Documents[i].Role == "" {
			cfg.Documents[i].Role = DefaultDocumentRole
		}
	}
}

// resolvePaths makes every configured path absolute relative to BaseDir.
func resolvePaths(cfg *Config) {
	cfg.OutputDir = cfg.resolve(cfg.OutputDir)
	cfg.Icon = cfg.resolve(cfg.Icon)
	cfg.Launcher = cfg.resolve(cfg.Launcher)

	if cfg.Runtime != nil {
		cfg.Runtime.Dir = cfg.resolve(cfg.Runtime.Dir)
	}

	for i := range cfg.ClassPath {
		cfg.ClassPath[i].Dir = cfg.resolve(cfg.ClassPath[i].Dir)
	}

	for i := range cfg.LibraryPath {
		cfg.LibraryPath[i].Dir = cfg.resolve(cfg.LibraryPath[i].Dir)
	}

	for i := range cfg.ClassPathRef {
		cfg.ClassPathRef[i] = cfg.resolve(cfg.ClassPathRef[i])
	}
}

// resolve joins a relative path with BaseDir; empty paths stay empty.
func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.BaseDir == "" {
		return path
	}

	return filepath.Join(c.BaseDir, path)
}

// validateDocument checks a document type and decides whether its icon is
// a file to copy or a bare name reference.
func validateDocument(cfg *Config, doc *DocumentType) error {
	if doc.Name == "" {
		return fmt.Errorf("name: %w", ErrRequired)
	}

	if len(doc.Extensions) == 0 {
		return fmt.Errorf("extensions: %w", ErrRequired)
	}

	doc.IconFile = ""

	if doc.Icon == "" {
		return nil
	}

	candidate := cfg.resolve(doc.Icon)
	if checkRegularFile(candidate) == nil {
		doc.IconFile = candidate
	}

	return nil
}

var (
	// errNotDirectory is returned when a directory was expected.
	errNotDirectory = errors.New("not a directory")
	// errIsDirectory is returned when a regular file was expected.
	errIsDirectory = errors.New("is a directory")
)

// checkName rejects names that are not a single path element, since the
// bundle directory <name>.app is removed recursively before assembly.
func checkName(name string) error {
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return nil
}

func checkDirectory(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return fmt.Errorf("%s: %w", path, errNotDirectory)
	}

	return nil
}

func checkRegularFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.IsDir() {
		return fmt.Errorf("%s: %w", path, errIsDirectory)
	}

	return nil
}
