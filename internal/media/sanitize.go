package media

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alexanderramin/fangen/internal/template"
	"golang.org/x/text/unicode/norm"
)

const replacement = "_"

var (
	illegalChars     = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	replacementRun   = regexp.MustCompile(regexp.QuoteMeta(replacement) + `+`)
	pathSeparatorSet = `/\`
)

// Sanitize makes s usable as one path segment: the text is NFC-normalized,
// characters illegal in file names become "_", runs of "_" collapse into
// one, and surrounding whitespace is trimmed. "." and ".." become "_".
func Sanitize(s string) string {
	s = norm.NFC.String(s)
	s = illegalChars.ReplaceAllString(s, replacement)
	s = replacementRun.ReplaceAllString(s, replacement)
	s = strings.TrimSpace(s)
	if s == "." || s == ".." {
		return replacement
	}
	return s
}

// SanitizeContext returns a copy of ctx whose texts are sanitized, so values
// cannot introduce directory separators into a path template.
func SanitizeContext(ctx template.Context) template.Context {
	out := make(template.Context, len(ctx))
	for k, v := range ctx {
		items := v.Items()
		for i := range items {
			items[i] = Sanitize(items[i])
		}
		if v.IsList() {
			out[k] = template.List(items...)
		} else if len(items) > 0 {
			out[k] = template.Scalar(items[0])
		} else {
			out[k] = v
		}
	}
	return out
}

// SafeJoin splits rel on both separator styles, sanitizes every segment, and
// joins the result under root. Empty segments are dropped.
func SafeJoin(root, rel string) string {
	parts := []string{root}
	for _, seg := range strings.FieldsFunc(rel, func(r rune) bool {
		return strings.ContainsRune(pathSeparatorSet, r)
	}) {
		if seg = Sanitize(seg); seg != "" {
			parts = append(parts, seg)
		}
	}
	return filepath.Join(parts...)
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
