// Package assets resolves badge template images.
//
// Every badge is drawn on a template chosen by two categorical roster
// values: the category (dietary/food type) and the ticket type. The mapping
// is a static, versioned table kept as TOML configuration data rather than
// code, so that deployments can swap artwork without rebuilding:
//
//	version = 1
//	root = "templates"
//
//	[categories.veggie]
//	only_dinner = "veggie/only_dinner.png"
//
// A default table is embedded in the binary. Lookups are pure: the resolver
// never touches the filesystem; a template that is listed but missing on
// disk surfaces later as a TEMPLATE_OPEN error from the layout engine.
package assets

import (
	_ "embed"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/badgepress/pkg/errors"
)

// TableVersion is the only table schema version this package understands.
const TableVersion = 1

//go:embed default.toml
var defaultTable []byte

// Template identifies the template image for one (category, ticket type)
// pair. Its pixel dimensions are only known once the layout engine opens it.
type Template struct {
	Category   string // normalized category key
	TicketType string // normalized ticket type key
	Path       string // filesystem path of the image
}

// Table is the decoded resolution table.
type Table struct {
	Version    int                          `toml:"version"`
	Root       string                       `toml:"root"`
	Categories map[string]map[string]string `toml:"categories"`
}

// Pair is one resolvable (category, ticket type) combination.
type Pair struct {
	Category   string
	TicketType string
	Path       string
}

// DefaultTable returns the embedded table.
func DefaultTable() (*Table, error) {
	return ParseTable(defaultTable)
}

// ParseTable decodes and validates a TOML table. Category and ticket type
// keys are normalized; two keys that normalize to the same value are an
// error.
func ParseTable(data []byte) (*Table, error) {
	var raw Table
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode template table")
	}
	return normalizeTable(raw)
}

// LoadTable reads a table from a TOML file. A relative root in the file is
// resolved against the file's directory.
func LoadTable(path string) (*Table, error) {
	var raw Table
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load template table %s", path)
	}
	t, err := normalizeTable(raw)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(t.Root) {
		t.Root = filepath.Join(filepath.Dir(path), t.Root)
	}
	return t, nil
}

func normalizeTable(t Table) (*Table, error) {
	if t.Version != TableVersion {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unsupported template table version %d (want %d)", t.Version, TableVersion)
	}
	if len(t.Categories) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "template table has no categories")
	}

	out := &Table{
		Version:    t.Version,
		Root:       t.Root,
		Categories: make(map[string]map[string]string, len(t.Categories)),
	}
	for cat, tickets := range t.Categories {
		ck := Normalize(cat)
		if ck == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "empty category key")
		}
		if _, dup := out.Categories[ck]; dup {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "category %q collides with another category after normalization", cat)
		}
		if len(tickets) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "category %q has no ticket types", cat)
		}
		sub := make(map[string]string, len(tickets))
		for ticket, path := range tickets {
			tk := Normalize(ticket)
			if tk == "" {
				return nil, errors.New(errors.ErrCodeInvalidConfig, "empty ticket type key in category %q", cat)
			}
			if _, dup := sub[tk]; dup {
				return nil, errors.New(errors.ErrCodeInvalidConfig, "ticket type %q in category %q collides after normalization", ticket, cat)
			}
			if strings.TrimSpace(path) == "" {
				return nil, errors.New(errors.ErrCodeInvalidConfig, "empty template path for %s/%s", cat, ticket)
			}
			sub[tk] = path
		}
		out.Categories[ck] = sub
	}
	return out, nil
}

// Pairs lists every resolvable combination, sorted by category then ticket
// type. Paths are resolved against the table root.
func (t *Table) Pairs() []Pair {
	var pairs []Pair
	for cat, tickets := range t.Categories {
		for ticket, path := range tickets {
			pairs = append(pairs, Pair{Category: cat, TicketType: ticket, Path: t.resolvePath(path)})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Category != pairs[j].Category {
			return pairs[i].Category < pairs[j].Category
		}
		return pairs[i].TicketType < pairs[j].TicketType
	})
	return pairs
}

func (t *Table) resolvePath(p string) string {
	if filepath.IsAbs(p) || t.Root == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(t.Root, p)
}

// Resolver maps roster values to templates.
type Resolver struct {
	table *Table
}

// NewResolver creates a resolver over a validated table.
func NewResolver(t *Table) *Resolver {
	return &Resolver{table: t}
}

// Resolve returns the template for the pair. It fails with
// UNKNOWN_CATEGORY when the category is not in the table and with
// UNKNOWN_TICKET_TYPE when the category has no such ticket type.
func (r *Resolver) Resolve(category, ticketType string) (Template, error) {
	ck := Normalize(category)
	tickets, ok := r.table.Categories[ck]
	if !ok {
		return Template{}, errors.New(errors.ErrCodeUnknownCategory, "unknown category %q", category)
	}
	tk := Normalize(ticketType)
	path, ok := tickets[tk]
	if !ok {
		return Template{}, errors.New(errors.ErrCodeUnknownTicketType, "unknown ticket type %q for category %q", ticketType, category)
	}
	return Template{
		Category:   ck,
		TicketType: tk,
		Path:       r.table.resolvePath(path),
	}, nil
}

// Table returns the resolver's table.
func (r *Resolver) Table() *Table {
	return r.table
}

// Normalize canonicalizes a category or ticket type value: surrounding
// whitespace is dropped, letters are lower-cased and every run of spaces,
// hyphens or underscores becomes a single underscore.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	sep := false
	for _, r := range s {
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			sep = true
			continue
		}
		if sep && b.Len() > 0 {
			b.WriteByte('_')
		}
		sep = false
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
