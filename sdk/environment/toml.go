package environment

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// LoadTOML decodes the TOML file at path into cfg. Fields use the `toml`
// struct tag. A missing file leaves cfg untouched.
func LoadTOML(path string, cfg any) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat config file: %w", err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config file %s: unknown keys %v", path, undecoded)
	}
	return nil
}

// Load fills cfg from the optional TOML file at path and then from the
// environment. Environment variables win over file values, file values win
// over `default` tags.
func Load(prefix, path string, cfg any) error {
	if err := LoadTOML(path, cfg); err != nil {
		return err
	}
	return ParseEnvTags(prefix, cfg)
}
