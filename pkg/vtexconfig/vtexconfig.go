// Package vtexconfig reads the optional sibling mod-config file that maps a
// .gts file's virtual-texture hash to a human-readable output filename when
// no vanilla-asset hash match is available. Grounded on the teacher's
// pkg/vkern remote manifest reader, which decodes a small YAML document with
// gopkg.in/yaml.v2 into tagged structs.
package vtexconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Entry maps one virtual-texture hash to the name it should be extracted
// under.
type Entry struct {
	Hash     string `yaml:"hash"`
	Filename string `yaml:"filename"`
}

// Config is the decoded sibling config document, normally named
// `<stem>.vtex.yml` next to the .gts file it describes.
type Config struct {
	Entries []Entry `yaml:"textures"`
}

// Load reads and parses a sibling config file. A missing file is not an
// error: callers fall back to their default naming.
func Load(path string) (*Config, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("vtexconfig: reading %s: %w", path, err)
	}
	cfg := new(Config)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, false, fmt.Errorf("vtexconfig: parsing %s: %w", path, err)
	}
	return cfg, true, nil
}

// FilenameForHash looks up the configured output filename for a hash. The
// second return is false if no entry matches.
func (c *Config) FilenameForHash(hash string) (string, bool) {
	if c == nil {
		return "", false
	}
	for _, e := range c.Entries {
		if e.Hash == hash {
			return e.Filename, true
		}
	}
	return "", false
}
