package template

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Dictionary maps user-facing aliases to canonical context keys.
// Alias sets are disjoint, so resolution does not depend on iteration order.
type Dictionary struct {
	canonical map[string]string // alias -> canonical key
}

// NewDictionary builds a Dictionary from canonical key -> aliases. An alias
// listed under two canonical keys yields ErrAliasConflict.
func NewDictionary(table map[string][]string) (*Dictionary, error) {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := &Dictionary{canonical: make(map[string]string)}
	for _, key := range keys {
		for _, alias := range table[key] {
			if prev, ok := d.canonical[alias]; ok && prev != key {
				return nil, fmt.Errorf("alias %q under %q and %q: %w", alias, prev, key, ErrAliasConflict)
			}
			d.canonical[alias] = key
		}
	}
	return d, nil
}

// LoadDictionary reads a JSON object of canonical key -> array of aliases.
func LoadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading alias dictionary: %w", err)
	}
	var table map[string][]string
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing alias dictionary %s: %w", path, err)
	}
	return NewDictionary(table)
}

// Resolve returns the canonical key for key. Keys without an alias entry
// resolve to themselves, so canonical keys work directly in templates.
// A nil Dictionary resolves every key to itself.
func (d *Dictionary) Resolve(key string) string {
	if d == nil {
		return key
	}
	if canonical, ok := d.canonical[key]; ok {
		return canonical
	}
	return key
}

// Len returns the number of aliases.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.canonical)
}
