package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FindByID returns the path of the first regular file in dir named
// "<id>.<ext>", or "" when there is none.
func FindByID(dir string, id int64) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("listing %s: %w", dir, err)
	}
	prefix := strconv.FormatInt(id, 10) + "."
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasPrefix(e.Name(), prefix) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", nil
}

// RemoveStale deletes every "<id>.<ext>" file in dir except keep, so a
// re-download under a new extension leaves a single copy.
func RemoveStale(dir string, id int64, keep string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("listing %s: %w", dir, err)
	}
	prefix := strconv.FormatInt(id, 10) + "."
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasPrefix(e.Name(), prefix) || e.Name() == keep {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("removing stale %s: %w", e.Name(), err)
		}
	}
	return nil
}

// Exts is a set of allowed file extensions without the leading dot,
// compared case-insensitively. An empty set allows every extension.
type Exts map[string]bool

// NewExts builds an extension set from a list such as ["jpg", ".PNG"].
func NewExts(list []string) Exts {
	out := make(Exts, len(list))
	for _, e := range list {
		if e = normalizeExt(e); e != "" {
			out[e] = true
		}
	}
	return out
}

// Allows reports whether ext (with or without the dot) is in the set.
func (e Exts) Allows(ext string) bool {
	if len(e) == 0 {
		return true
	}
	return e[normalizeExt(ext)]
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// InternalName is the file name a value is stored under after download.
func InternalName(id int64, ext string) string {
	if ext == "" {
		return strconv.FormatInt(id, 10) + ".*"
	}
	return strconv.FormatInt(id, 10) + "." + normalizeExt(ext)
}
