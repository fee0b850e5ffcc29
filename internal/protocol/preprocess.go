package protocol

import (
	"fmt"
	"sort"
	"strings"

	"prism/internal/keys"
)

// Preprocessors derives extra item values from record columns. Each value is
// a template whose {column} placeholders name a catalog key or field name,
// e.g. {"wav": "/corpus/wav/{uri}.wav"}.
type Preprocessors map[string]string

// Validate checks that every placeholder names a known column.
func (p Preprocessors) Validate() error {
	var probe keys.Record
	for _, key := range p.sortedKeys() {
		if _, err := expand(p[key], probe); err != nil {
			return fmt.Errorf("preprocessor %s: %w", key, err)
		}
	}
	return nil
}

// Apply renders every template against rec. A nil result means there are
// no preprocessors.
func (p Preprocessors) Apply(rec keys.Record) (map[string]string, error) {
	if len(p) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(p))
	for _, key := range p.sortedKeys() {
		value, err := expand(p[key], rec)
		if err != nil {
			return nil, fmt.Errorf("preprocessor %s: %w", key, err)
		}
		out[key] = value
	}
	return out, nil
}

func (p Preprocessors) sortedKeys() []string {
	out := make([]string, 0, len(p))
	for key := range p {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func expand(tmpl string, rec keys.Record) (string, error) {
	var b strings.Builder
	rest := tmpl
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return "", fmt.Errorf("unterminated placeholder in %q", tmpl)
		}
		end += open
		b.WriteString(rest[:open])
		name := rest[open+1 : end]
		value, ok := rec.Value(name)
		if !ok {
			return "", fmt.Errorf("unknown column %q in %q", name, tmpl)
		}
		b.WriteString(value)
		rest = rest[end+1:]
	}
}
