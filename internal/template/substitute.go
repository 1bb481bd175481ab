package template

import "strings"

// Substitute replaces every {key|key|...} group in tmpl with the value found
// in ctx. Keys are resolved through dict and tried left to right; every key
// present in ctx overwrites the previous match, so the last present key
// wins. Groups with no present key, or an empty value, become "". A group
// ends at the first '}'; a '{' without a closing brace on the same line is
// kept literally. There is no escaping.
func Substitute(tmpl string, ctx Context, dict *Dictionary) string {
	if !strings.Contains(tmpl, "{") {
		return tmpl
	}

	var out strings.Builder
	out.Grow(len(tmpl))

	i := 0
	for i < len(tmpl) {
		if tmpl[i] != '{' {
			out.WriteByte(tmpl[i])
			i++
			continue
		}

		end := closingBrace(tmpl, i+1)
		if end < 0 {
			out.WriteByte('{')
			i++
			continue
		}

		out.WriteString(resolveGroup(tmpl[i+1:end], ctx, dict))
		i = end + 1
	}
	return out.String()
}

// closingBrace returns the index of the first '}' at or after from, or -1
// when a newline or the end of input comes first.
func closingBrace(s string, from int) int {
	for j := from; j < len(s); j++ {
		switch s[j] {
		case '}':
			return j
		case '\n':
			return -1
		}
	}
	return -1
}

func resolveGroup(group string, ctx Context, dict *Dictionary) string {
	var (
		value Value
		found bool
	)
	for _, key := range strings.Split(group, "|") {
		if v, ok := ctx.Lookup(dict.Resolve(key)); ok {
			value, found = v, true
		}
	}
	if !found {
		return ""
	}
	return value.String()
}

// Keys returns the placeholder keys referenced by tmpl, in order of
// appearance, without alias resolution.
func Keys(tmpl string) []string {
	var keys []string
	i := 0
	for i < len(tmpl) {
		if tmpl[i] != '{' {
			i++
			continue
		}
		end := closingBrace(tmpl, i+1)
		if end < 0 {
			i++
			continue
		}
		keys = append(keys, strings.Split(tmpl[i+1:end], "|")...)
		i = end + 1
	}
	return keys
}
