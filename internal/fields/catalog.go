package fields

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// ErrInvalidCatalog wraps every violation reported by Validate.
var ErrInvalidCatalog = errors.New("invalid field catalog")

// Catalog is an ordered, immutable set of field definitions.
type Catalog struct {
	defs     []Definition
	byName   map[string]int
	byColumn map[int]int
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the PRISM FIELDS dictionary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		catalog, err := New(prism)
		if err != nil {
			panic(fmt.Sprintf("fields: built-in catalog: %v", err))
		}
		defaultCatalog = catalog
	})
	return defaultCatalog
}

// New builds a catalog from defs after checking them with Validate. The
// definitions are copied and sorted by column.
func New(defs []Definition) (*Catalog, error) {
	if err := Validate(defs); err != nil {
		return nil, err
	}
	c := &Catalog{
		defs:     make([]Definition, len(defs)),
		byName:   make(map[string]int, len(defs)*2),
		byColumn: make(map[int]int, len(defs)),
	}
	for _, def := range defs {
		c.defs[def.Column-1] = cloneDefinition(def)
	}
	for i, def := range c.defs {
		c.byColumn[def.Column] = i
		c.byName[normalize(def.Name)] = i
		c.byName[normalize(def.Key)] = i
	}
	return c, nil
}

// Validate reports every way defs fails to describe a record layout: columns
// must run 1..len(defs) without gaps or repeats, names and keys must be
// non-empty and unique, and every field needs a description.
func Validate(defs []Definition) error {
	if len(defs) == 0 {
		return fmt.Errorf("%w: no definitions", ErrInvalidCatalog)
	}

	var problems []error
	seenColumn := make(map[int]string, len(defs))
	seenName := make(map[string]int, len(defs)*2)

	for i, def := range defs {
		label := def.Name
		if strings.TrimSpace(label) == "" {
			label = fmt.Sprintf("#%d", i+1)
			problems = append(problems, fmt.Errorf("definition %s: empty name", label))
		}
		if strings.TrimSpace(def.Key) == "" {
			problems = append(problems, fmt.Errorf("definition %s: empty key", label))
		}
		if strings.TrimSpace(def.Description) == "" {
			problems = append(problems, fmt.Errorf("definition %s: empty description", label))
		}

		switch {
		case def.Column < 1 || def.Column > len(defs):
			problems = append(problems, fmt.Errorf("definition %s: column %d outside 1..%d", label, def.Column, len(defs)))
		default:
			if prev, ok := seenColumn[def.Column]; ok {
				problems = append(problems, fmt.Errorf("definition %s: column %d already used by %s", label, def.Column, prev))
			} else {
				seenColumn[def.Column] = label
			}
		}

		for _, ident := range uniqueIdents(def) {
			if prev, ok := seenName[ident]; ok && prev != i {
				problems = append(problems, fmt.Errorf("definition %s: identifier %q already used by column %d", label, ident, defs[prev].Column))
				continue
			}
			seenName[ident] = i
		}
	}

	for col := 1; col <= len(defs); col++ {
		if _, ok := seenColumn[col]; !ok {
			problems = append(problems, fmt.Errorf("column %d has no definition", col))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(problems...))
}

// Len returns the number of columns.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// All returns the definitions in column order.
func (c *Catalog) All() []Definition {
	out := make([]Definition, len(c.defs))
	for i, def := range c.defs {
		out[i] = cloneDefinition(def)
	}
	return out
}

// ByColumn looks up a definition by its 1-based column index.
func (c *Catalog) ByColumn(column int) (Definition, bool) {
	i, ok := c.byColumn[column]
	if !ok {
		return Definition{}, false
	}
	return cloneDefinition(c.defs[i]), true
}

// ByName looks up a definition by documentation name or loader key,
// ignoring case.
func (c *Catalog) ByName(name string) (Definition, bool) {
	i, ok := c.byName[normalize(name)]
	if !ok {
		return Definition{}, false
	}
	return cloneDefinition(c.defs[i]), true
}

// Lookup accepts either a column number or a name.
func (c *Catalog) Lookup(ref string) (Definition, bool) {
	ref = strings.TrimSpace(ref)
	if column, err := strconv.Atoi(ref); err == nil {
		return c.ByColumn(column)
	}
	return c.ByName(ref)
}

// Keys returns the loader keys in column order.
func (c *Catalog) Keys() []string {
	out := make([]string, len(c.defs))
	for i, def := range c.defs {
		out[i] = def.Key
	}
	return out
}

// Index returns the 0-based position of the column named by key or name.
func (c *Catalog) Index(name string) (int, bool) {
	i, ok := c.byName[normalize(name)]
	return i, ok
}

func uniqueIdents(def Definition) []string {
	name := normalize(def.Name)
	key := normalize(def.Key)
	switch {
	case name == "" && key == "":
		return nil
	case name == "":
		return []string{key}
	case key == "" || key == name:
		return []string{name}
	default:
		return []string{name, key}
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func cloneDefinition(def Definition) Definition {
	if def.Examples != nil {
		def.Examples = append([]string(nil), def.Examples...)
	}
	return def
}
