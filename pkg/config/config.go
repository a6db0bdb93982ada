// Package config loads itisgraph settings from a TOML file.
//
// A configuration file is optional. Without one, [Default] describes the
// ITIS 2021-04-27 release, the Plantae kingdom and two-space indentation:
//
//	[graph]
//	id = "itis-042721"
//	type = "ITIS"
//	label = "ITIS (2021-04-27)"
//
//	[source]
//	kingdom_id = 3
//
//	[output]
//	indent = 2
//
// Keys missing from a file keep their default values. Command-line flags are
// applied on top of the loaded configuration by the caller.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/itisgraph/pkg/errors"
	"github.com/matzehuels/itisgraph/pkg/graph"
	"github.com/matzehuels/itisgraph/pkg/itis"
)

// FileName is the configuration file name inside the config directory.
const FileName = "config.toml"

// Config is the complete configuration.
type Config struct {
	Graph  Graph  `toml:"graph"`
	Source Source `toml:"source"`
	Output Output `toml:"output"`
}

// Graph identifies the produced document.
type Graph struct {
	ID    string `toml:"id"`
	Type  string `toml:"type"`
	Label string `toml:"label"`
}

// Info converts to the document identity.
func (g Graph) Info() graph.Info {
	return graph.Info{ID: g.ID, Type: g.Type, Label: g.Label}
}

// Source selects what is read from the database.
type Source struct {
	KingdomID int64 `toml:"kingdom_id"`
}

// Output controls document formatting.
type Output struct {
	// Indent is the number of spaces per nesting level; 0 is compact.
	Indent int `toml:"indent"`
}

// Default returns the built-in configuration.
func Default() Config {
	info := graph.DefaultInfo()
	return Config{
		Graph:  Graph{ID: info.ID, Type: info.Type, Label: info.Label},
		Source: Source{KingdomID: itis.DefaultKingdomID},
		Output: Output{Indent: 2},
	}
}

// Load reads the file at path over [Default]. Unknown keys are rejected so
// typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDefault loads the user configuration file when it exists, and
// otherwise returns [Default].
func LoadDefault() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return Default(), nil
	}
	return Load(path)
}

// DefaultPath returns $XDG_CONFIG_HOME/itisgraph/config.toml, falling back
// to the platform's user config directory.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, "itisgraph", FileName), nil
}

// Validate checks that the configuration can produce a document.
func (c Config) Validate() error {
	switch {
	case c.Graph.ID == "":
		return errors.New(errors.ErrCodeInvalidConfig, "graph.id must not be empty")
	case c.Graph.Type == "":
		return errors.New(errors.ErrCodeInvalidConfig, "graph.type must not be empty")
	case c.Source.KingdomID <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "source.kingdom_id must be positive, got %d", c.Source.KingdomID)
	case c.Output.Indent < 0 || c.Output.Indent > 8:
		return errors.New(errors.ErrCodeInvalidConfig, "output.indent must be between 0 and 8, got %d", c.Output.Indent)
	}
	return nil
}
