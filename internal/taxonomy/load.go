package taxonomy

import (
	"fmt"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load reads a taxonomy from a TOML file. An empty path returns the built-in
// taxonomy. Any read, parse or validation problem is a *ConfigError.
func Load(path string) (*Taxonomy, error) {
	if path == "" {
		return Default(), nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, defect("read %s: %v", path, err)
	}

	t := &Taxonomy{}
	if err := k.Unmarshal("", t); err != nil {
		return nil, defect("decode %s: %v", path, err)
	}

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
