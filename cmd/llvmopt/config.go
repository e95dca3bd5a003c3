package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// config is the optional table registry:
//
//	[tables]
//	clang = "/usr/share/llvmopt/clang.json"
//	lld   = "/usr/share/llvmopt/lld-elf.json"
type config struct {
	Tables map[string]string `toml:"tables"`
}

// loadConfig reads the registry at path, or the default location when
// path is empty. A missing default file is not an error.
func loadConfig(path string) (*config, error) {
	explicit := path != ""
	if !explicit {
		dir, err := os.UserConfigDir()
		if err != nil {
			return &config{}, nil
		}
		path = filepath.Join(dir, "llvmopt", "config.toml")
	}

	var cfg config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &config{}, nil
		}
		return nil, fmt.Errorf("reading registry %s: %w", path, err)
	}
	return &cfg, nil
}
