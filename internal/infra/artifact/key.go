package artifact

import (
	"fmt"
	"path"
	"strings"
)

// validateKey rejects keys that would escape the storage root.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("artifact key cannot be empty")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return fmt.Errorf("artifact key %q must be a relative slash path", key)
	}
	if path.Clean(key) != key {
		return fmt.Errorf("artifact key %q is not clean", key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return fmt.Errorf("artifact key %q escapes the storage root", key)
		}
	}
	return nil
}
