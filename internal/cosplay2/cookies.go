package cosplay2

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"sort"
)

// CookieStore persists the session cookies between runs.
type CookieStore interface {
	Load() ([]*http.Cookie, error)
	Save(cookies []*http.Cookie) error
}

// FileCookieStore keeps cookies in a JSON object of name -> value.
type FileCookieStore struct {
	Path string
}

func NewFileCookieStore(path string) *FileCookieStore {
	return &FileCookieStore{Path: path}
}

// Load returns the stored cookies. A missing file yields no cookies.
func (s *FileCookieStore) Load() ([]*http.Cookie, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cookies: %w", err)
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parsing cookies %s: %w", s.Path, err)
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	cookies := make([]*http.Cookie, 0, len(names))
	for _, name := range names {
		cookies = append(cookies, &http.Cookie{Name: name, Value: values[name]})
	}
	return cookies, nil
}

// Save replaces the stored cookies.
func (s *FileCookieStore) Save(cookies []*http.Cookie) error {
	values := make(map[string]string, len(cookies))
	for _, c := range cookies {
		values[c.Name] = c.Value
	}
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encoding cookies: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o600); err != nil {
		return fmt.Errorf("writing cookies: %w", err)
	}
	return nil
}

// MemoryCookieStore keeps cookies in memory.
type MemoryCookieStore struct {
	Cookies []*http.Cookie
}

func (s *MemoryCookieStore) Load() ([]*http.Cookie, error) { return s.Cookies, nil }

func (s *MemoryCookieStore) Save(cookies []*http.Cookie) error {
	s.Cookies = cookies
	return nil
}
