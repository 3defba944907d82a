package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/badgepress/pkg/errors"
)

func defaultResolver(t *testing.T) *Resolver {
	t.Helper()
	tbl, err := DefaultTable()
	if err != nil {
		t.Fatalf("DefaultTable: %v", err)
	}
	return NewResolver(tbl)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"veggie", "veggie"},
		{"  Veggie ", "veggie"},
		{"only dinner", "only_dinner"},
		{"Only  Dinner", "only_dinner"},
		{"only-dinner", "only_dinner"},
		{"only__dinner", "only_dinner"},
		{" full day ", "full_day"},
		{"素食", "素食"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveAllPairs(t *testing.T) {
	r := defaultResolver(t)

	pairs := r.Table().Pairs()
	if len(pairs) == 0 {
		t.Fatal("default table has no pairs")
	}
	for _, p := range pairs {
		tpl, err := r.Resolve(p.Category, p.TicketType)
		if err != nil {
			t.Errorf("Resolve(%q, %q) error: %v", p.Category, p.TicketType, err)
			continue
		}
		if tpl.Path != p.Path {
			t.Errorf("Resolve(%q, %q).Path = %q, want %q", p.Category, p.TicketType, tpl.Path, p.Path)
		}
	}
}

func TestResolveNormalizesInput(t *testing.T) {
	r := defaultResolver(t)

	tpl, err := r.Resolve("  VEGGIE ", "Only Dinner")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	want := Template{
		Category:   "veggie",
		TicketType: "only_dinner",
		Path:       filepath.Join("templates", "veggie", "only_dinner.png"),
	}
	if diff := cmp.Diff(want, tpl); diff != "" {
		t.Errorf("Resolve mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveErrors(t *testing.T) {
	r := defaultResolver(t)

	tests := []struct {
		name       string
		category   string
		ticketType string
		code       errors.Code
	}{
		{"unknown category", "fish", "only_dinner", errors.ErrCodeUnknownCategory},
		{"empty category", "", "only_dinner", errors.ErrCodeUnknownCategory},
		{"unknown ticket type", "veggie", "breakfast", errors.ErrCodeUnknownTicketType},
		{"empty ticket type", "meat", "", errors.ErrCodeUnknownTicketType},
		{"both unknown reports category", "fish", "breakfast", errors.ErrCodeUnknownCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(tt.category, tt.ticketType)
			if !errors.Is(err, tt.code) {
				t.Errorf("Resolve(%q, %q) error = %v, want %s", tt.category, tt.ticketType, err, tt.code)
			}
		})
	}
}

func TestParseTableValidation(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad toml", "version = ["},
		{"wrong version", "version = 2\n[categories.meat]\nfull_day = \"a.png\"\n"},
		{"no categories", "version = 1\n"},
		{"empty category", "version = 1\n[categories.meat]\n"},
		{"empty path", "version = 1\n[categories.meat]\nfull_day = \"  \"\n"},
		{"colliding tickets", "version = 1\n[categories.meat]\nfull_day = \"a.png\"\n\"Full Day\" = \"b.png\"\n"},
		{"colliding categories", "version = 1\n[categories.meat]\nx = \"a.png\"\n[categories.MEAT]\nx = \"b.png\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTable([]byte(tt.data))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("ParseTable error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadTableResolvesRootAgainstFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.toml")
	data := "version = 1\nroot = \"art\"\n[categories.vegan]\n\"Only Lunch\" = \"vegan/lunch.png\"\nabs = \"/srv/abs.png\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	r := NewResolver(tbl)

	tpl, err := r.Resolve("Vegan", "only lunch")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if want := filepath.Join(dir, "art", "vegan", "lunch.png"); tpl.Path != want {
		t.Errorf("Path = %q, want %q", tpl.Path, want)
	}

	tpl, err = r.Resolve("vegan", "abs")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if tpl.Path != "/srv/abs.png" {
		t.Errorf("absolute Path = %q, want /srv/abs.png", tpl.Path)
	}
}

func TestPairsSorted(t *testing.T) {
	tbl, err := ParseTable([]byte("version = 1\n[categories.b]\ny = \"1\"\nx = \"2\"\n[categories.a]\nz = \"3\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, p := range tbl.Pairs() {
		got = append(got, p.Category+"/"+p.TicketType)
	}
	want := []string{"a/z", "b/x", "b/y"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Pairs order mismatch (-want +got):\n%s", diff)
	}
}
