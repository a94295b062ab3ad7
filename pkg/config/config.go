// Package config loads the optional TOML configuration of the generator.
//
// A configuration file names the repository to read tags from and the
// distributions built for every release:
//
//	remote = "origin"
//	repository = "."
//	concurrency = 4
//	drop_stale_milestones = false
//
//	[[distributions]]
//	type = "debian"
//	directory = "debian"
//
//	[[distributions]]
//	type = "alpine"
//	directory = "alpine"
//	architectures = ["amd64", "arm64v8"]
//
// Missing keys take the values of [Default]. Command-line flags override the
// file.
package config

import (
	"os"
	"path"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stackbrew/pkg/distro"
	"github.com/matzehuels/stackbrew/pkg/errors"
)

// EnvVar names the environment variable consulted when no --config flag is given.
const EnvVar = "STACKBREW_CONFIG"

const (
	defaultRemote      = "origin"
	defaultRepository  = "."
	defaultDockerfile  = "Dockerfile"
	defaultConcurrency = 4
	maxConcurrency     = 64
)

// Distribution configures one distribution directory of the repository.
// TagNames, when set, replace the tag names detected from the Dockerfile.
type Distribution struct {
	Type          distro.Type `toml:"type"`
	Directory     string      `toml:"directory"`
	Dockerfile    string      `toml:"dockerfile"`
	Architectures []string    `toml:"architectures"`
	TagNames      []string    `toml:"tag_names"`
}

// Path returns the repository path of the distribution's Dockerfile.
func (d Distribution) Path() string {
	return path.Join(d.Directory, d.Dockerfile)
}

// Config is the generator configuration.
type Config struct {
	Remote              string         `toml:"remote"`
	Repository          string         `toml:"repository"`
	DropStaleMilestones bool           `toml:"drop_stale_milestones"`
	Concurrency         int            `toml:"concurrency"`
	Distributions       []Distribution `toml:"distributions"`
}

// Default returns the built-in configuration: the "origin" remote of the
// repository in the working directory, with debian and alpine variants in
// directories of the same name.
func Default() Config {
	c := Config{
		Remote:      defaultRemote,
		Repository:  defaultRepository,
		Concurrency: defaultConcurrency,
	}
	for _, t := range distro.Types {
		c.Distributions = append(c.Distributions, Distribution{
			Type:          t,
			Directory:     string(t),
			Dockerfile:    defaultDockerfile,
			Architectures: distro.DefaultArchitectures(t),
		})
	}
	return c
}

// Load reads the configuration at p. An empty path returns Default.
func Load(p string) (Config, error) {
	if p == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", p)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", p)
	}
	return Parse(string(raw))
}

// Parse decodes a TOML document on top of Default and validates the result.
// Unknown keys are rejected.
func Parse(s string) (Config, error) {
	c := Default()
	def := c.Distributions
	c.Distributions = nil

	md, err := toml.Decode(s, &c)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}

	if !md.IsDefined("distributions") {
		c.Distributions = def
	}
	c.fillDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) fillDefaults() {
	for i := range c.Distributions {
		d := &c.Distributions[i]
		if d.Directory == "" {
			d.Directory = string(d.Type)
		}
		if d.Dockerfile == "" {
			d.Dockerfile = defaultDockerfile
		}
		if len(d.Architectures) == 0 {
			d.Architectures = distro.DefaultArchitectures(d.Type)
		}
	}
}

// Validate checks the configuration. All failures carry ErrCodeInvalidConfig.
func (c Config) Validate() error {
	if err := errors.ValidateRemote(c.Remote); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "remote")
	}
	if c.Repository == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "repository cannot be empty")
	}
	if c.Concurrency < 1 || c.Concurrency > maxConcurrency {
		return errors.New(errors.ErrCodeInvalidConfig, "concurrency must be between 1 and %d, got %d", maxConcurrency, c.Concurrency)
	}
	if len(c.Distributions) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "at least one distribution is required")
	}

	seen := make(map[distro.Type]bool)
	for _, d := range c.Distributions {
		if _, err := distro.ParseType(string(d.Type)); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "distribution")
		}
		if seen[d.Type] {
			return errors.New(errors.ErrCodeInvalidConfig, "distribution type %s configured twice", d.Type)
		}
		seen[d.Type] = true
		if err := errors.ValidatePath(d.Path()); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "distribution %s", d.Type)
		}
		if len(d.TagNames) > 0 {
			named := distro.Distribution{Type: d.Type, Name: string(d.Type), TagNames: d.TagNames}
			if _, err := distro.NewSet(named); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "distribution %s", d.Type)
			}
		}
	}
	return nil
}

// Architectures returns the configured architectures per distribution family.
func (c Config) Architectures() map[distro.Type][]string {
	m := make(map[distro.Type][]string, len(c.Distributions))
	for _, d := range c.Distributions {
		m[d.Type] = d.Architectures
	}
	return m
}

// Resolve returns the config path from the flag value or, when empty, from
// the STACKBREW_CONFIG environment variable.
func Resolve(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv(EnvVar)
}
