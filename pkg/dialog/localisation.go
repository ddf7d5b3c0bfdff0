package dialog

import (
	"fmt"
	"os"

	"github.com/ls-toolkit/lstoolkit/pkg/loca"
)

// LocalisationCache holds every handle -> text pair from a set of .loca
// files, pre-indexed so a dialog node's TranslatedString handle resolves in
// O(1).
type LocalisationCache struct {
	byHandle map[string]string
}

// TextFor returns the localised text for handle, or "" if unknown.
func (c *LocalisationCache) TextFor(handle string) (string, bool) {
	v, ok := c.byHandle[handle]
	return v, ok
}

// BuildLocalisationCache reads every named .loca file and indexes its
// entries by handle. Later files override earlier ones for a shared
// handle, matching the merged-asset resolver's later-wins convention.
func BuildLocalisationCache(locaPaths []string) (*LocalisationCache, error) {
	cache := &LocalisationCache{byHandle: make(map[string]string)}
	for _, path := range locaPaths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("dialog: opening %s: %w", path, err)
		}
		entries, err := loca.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("dialog: decoding %s: %w", path, err)
		}
		for _, e := range entries {
			cache.byHandle[e.Handle] = e.Text
		}
	}
	return cache, nil
}
