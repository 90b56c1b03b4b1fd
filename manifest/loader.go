package manifest

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/injectkit/descriptor"
	"github.com/kbukum/injectkit/errors"
	"github.com/kbukum/injectkit/validation"
)

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	EnvFile    string // Direct .env file path (optional)
}

// LoaderOption is a functional option for Load and LoadAll.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load reads, expands, and validates one manifest file.
func Load(path string, opts ...LoaderOption) (*Manifest, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	if lc.EnvFile != "" && lc.FileSystem.Exists(lc.EnvFile) {
		if err := lc.FileSystem.LoadEnv(lc.EnvFile); err != nil {
			return nil, errors.InvalidManifest(path, "failed to load env file").WithCause(err).
				WithDetail("env_file", lc.EnvFile)
		}
	}

	if !lc.FileSystem.Exists(path) {
		return nil, errors.InvalidManifest(path, "file does not exist")
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.InvalidManifest(path, "failed to read").WithCause(err)
	}

	var m Manifest
	if err := v.Unmarshal(&m); err != nil {
		return nil, errors.InvalidManifest(path, "failed to unmarshal").WithCause(err)
	}

	m.expandEnv()

	if err := validation.Validate(&m); err != nil {
		return nil, errors.InvalidManifest(path, err.Error()).WithCause(err)
	}
	return &m, nil
}

// LoadAll loads every manifest and concatenates their raw declarations, one
// module per file. Load failures are collected and reported together.
func LoadAll(paths []string, opts ...LoaderOption) ([]descriptor.RawDeclaration, error) {
	agg := errors.NewAggregate()
	var decls []descriptor.RawDeclaration
	for _, path := range paths {
		m, err := Load(path, opts...)
		if err != nil {
			if ce, ok := err.(*errors.ConfigError); ok {
				agg.Add(ce)
			} else {
				agg.Add(errors.InvalidManifest(path, err.Error()))
			}
			continue
		}
		decls = append(decls, m.Declarations()...)
	}
	if err := agg.ErrOrNil(); err != nil {
		return nil, err
	}
	return decls, nil
}
