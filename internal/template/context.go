package template

import "strings"

// listSeparator separates quoted items in a rendered list.
const listSeparator = ", "

// Value is a context entry: a single text or an ordered list of texts
// collected from repeated fields.
type Value struct {
	items []string
	list  bool
}

// Scalar returns a single-text value.
func Scalar(s string) Value {
	return Value{items: []string{s}}
}

// List returns a list value holding items in order.
func List(items ...string) Value {
	return Value{items: append([]string(nil), items...), list: true}
}

func (v Value) IsList() bool { return v.list }

// Items returns the texts held by v: one for a scalar, all items for a list.
func (v Value) Items() []string {
	return append([]string(nil), v.items...)
}

// Empty reports whether v holds nothing: an empty scalar or a list
// without items. A list of empty strings is not empty.
func (v Value) Empty() bool {
	if v.list {
		return len(v.items) == 0
	}
	return v.String() == ""
}

// String renders a scalar as its text and a list in bracketed form with
// each item quoted, e.g. ['X', 'Y'].
func (v Value) String() string {
	if !v.list {
		if len(v.items) == 0 {
			return ""
		}
		return v.items[0]
	}
	quoted := make([]string, len(v.items))
	for i, item := range v.items {
		quoted[i] = quoteItem(item)
	}
	return "[" + strings.Join(quoted, listSeparator) + "]"
}

// quoteItem quotes s with single quotes, or double quotes when s holds a
// single quote and no double quote. Backslashes, the quote character and
// line breaks are escaped.
func quoteItem(s string) string {
	q := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var b strings.Builder
	b.WriteRune(q)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case q:
			b.WriteRune('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune(q)
	return b.String()
}

// With returns v extended by s: a scalar becomes a two-item list, a list
// gains s at the end.
func (v Value) With(s string) Value {
	items := append(v.Items(), s)
	return Value{items: items, list: true}
}

// Context maps placeholder keys to values. Absent keys are null.
type Context map[string]Value

// Set stores s under key, replacing any previous value.
func (c Context) Set(key, s string) {
	c[key] = Scalar(s)
}

// SetOptional stores s under key when ok, and removes the key otherwise.
func (c Context) SetOptional(key, s string, ok bool) {
	if !ok {
		delete(c, key)
		return
	}
	c.Set(key, s)
}

// Add merges a repeated field into the context. The first occurrence of key
// sets it directly; later occurrences turn it into a list and append. An
// existing empty entry is replaced rather than merged. Absent renders of
// later occurrences are kept as empty items so list positions line up.
func (c Context) Add(key, s string, ok bool) {
	existing, found := c[key]
	if !found || existing.Empty() {
		c.SetOptional(key, s, ok)
		return
	}
	c[key] = existing.With(s)
}

// Lookup returns the value stored under key.
func (c Context) Lookup(key string) (Value, bool) {
	v, ok := c[key]
	return v, ok
}

// Text returns the rendered value under key, or an empty string.
func (c Context) Text(key string) string {
	return c[key].String()
}

// Overlay copies every entry of other into c, replacing existing keys.
func (c Context) Overlay(other Context) {
	for k, v := range other {
		c[k] = v
	}
}

// Clone returns a shallow copy of c.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	out.Overlay(c)
	return out
}
