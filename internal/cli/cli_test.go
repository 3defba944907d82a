package cli

import (
	"bytes"
	"context"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/badgepress/pkg/assets"
	"github.com/matzehuels/badgepress/pkg/batch"
	"github.com/matzehuels/badgepress/pkg/cache"
	"github.com/matzehuels/badgepress/pkg/config"
	"github.com/matzehuels/badgepress/pkg/errors"
	"github.com/matzehuels/badgepress/pkg/roster"
)

const testRoster = `category,ticket_type,division,primary_name,secondary_name,club
meat,full_day,Open,Alice,,Chess Club
veggie,only_dinner,U18,Bob,Carol,Go Club
fish,full_day,Open,Eve,,Chess Club
`

// fixture writes templates, a table and a roster into a temp dir and returns
// the table and roster paths.
func fixture(t *testing.T) (dir, tablePath, rosterPath string) {
	t.Helper()
	dir = t.TempDir()
	for _, p := range []string{"meat/full_day.png", "veggie/only_dinner.png"} {
		full := filepath.Join(dir, "art", p)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := imaging.Save(imaging.New(400, 1100, color.White), full); err != nil {
			t.Fatal(err)
		}
	}
	table := "version = 1\nroot = \"art\"" +
		"\n[categories.meat]\nfull_day = \"meat/full_day.png\"\n[categories.veggie]\nonly_dinner = \"veggie/only_dinner.png\"\nbreakfast = \"veggie/breakfast.png\"\n"
	tablePath = filepath.Join(dir, "templates.toml")
	rosterPath = filepath.Join(dir, "roster.csv")
	if err := os.WriteFile(tablePath, []byte(table), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(rosterPath, []byte(testRoster), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, tablePath, rosterPath
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "absent.env")))
	return root.ExecuteContext(context.Background())
}

func TestGenerateCommand(t *testing.T) {
	dir, tablePath, rosterPath := fixture(t)
	out := filepath.Join(dir, "out")

	if err := execute(t, "generate", rosterPath, "-o", out, "--templates", tablePath, "--pdf", "--zip"); err != nil {
		t.Fatalf("generate: %v", err)
	}

	for _, p := range []string{
		filepath.Join(out, "full_day", "Open_Alice.png"),
		filepath.Join(out, "only_dinner", "U18_Bob.png"),
		filepath.Join(out, "badges.pdf"),
		filepath.Join(out, "generated_images.zip"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
	}
}

func TestGenerateMissingRoster(t *testing.T) {
	err := execute(t, "generate", filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("generate error = %v, want INVALID_INPUT", err)
	}
}

func TestSheetCommandEmptyDir(t *testing.T) {
	err := execute(t, "sheet", t.TempDir())
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("sheet error = %v, want NOT_FOUND", err)
	}
}

func TestTemplatesCommand(t *testing.T) {
	_, tablePath, _ := fixture(t)
	if err := execute(t, "templates", "--templates", tablePath); err != nil {
		t.Fatalf("templates: %v", err)
	}
}

func TestTemplateTable(t *testing.T) {
	_, tablePath, _ := fixture(t)
	tbl, err := assets.LoadTable(tablePath)
	if err != nil {
		t.Fatal(err)
	}
	out := templateTable(tbl.Pairs())
	for _, want := range []string{"CATEGORY", "meat", "full_day", "only_dinner", iconSuccess, iconError} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if got := countMissing(tbl.Pairs()); got != 1 {
		t.Errorf("countMissing = %d, want 1 (veggie/breakfast)", got)
	}
}

func TestResultTable(t *testing.T) {
	results := []batch.Result{
		{Line: 2, Status: batch.StatusSuccess, Record: roster.Record{PrimaryName: "Alice"}, OutputPath: "out/full_day/Open_Alice.png"},
		{Line: 3, Status: batch.StatusSkipped, Record: roster.Record{PrimaryName: "Eve"},
			Err: errors.New(errors.ErrCodeUnknownCategory, "unknown category %q", "fish")},
	}

	problems := resultTable(results, false)
	if strings.Contains(problems, "Alice") || !strings.Contains(problems, "Eve") || !strings.Contains(problems, "fish") {
		t.Errorf("problem table:\n%s", problems)
	}
	if all := resultTable(results, true); !strings.Contains(all, "Open_Alice.png") {
		t.Errorf("full table should list successful rows:\n%s", all)
	}
	if got := resultTable(results[:1], false); got != "" {
		t.Errorf("all-success table = %q, want empty", got)
	}
}

func TestNewReports(t *testing.T) {
	ctx := context.Background()

	reports, err := newReports(ctx, config.Settings{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := reports.Cache.(cache.NullCache); !ok {
		t.Errorf("no settings: store = %T, want cache.NullCache", reports.Cache)
	}

	reports, err = newReports(ctx, config.Settings{ReportDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := reports.Cache.(*cache.FileCache); !ok {
		t.Errorf("report dir: store = %T, want *cache.FileCache", reports.Cache)
	}

	reports, err = newReports(ctx, config.Settings{ReportDir: t.TempDir(), ReportPrefix: "staging:"})
	if err != nil {
		t.Fatal(err)
	}
	if got := reports.Keyer.ReportKey("abc"); got != "staging:report:abc" {
		t.Errorf("prefixed report key = %q, want staging:report:abc", got)
	}

	if _, err := newReports(ctx, config.Settings{RedisURL: "not-a-url"}); err == nil {
		t.Error("invalid redis URL should fail")
	}
}

func TestClearDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.json", "b.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "keep"), 0o755); err != nil {
		t.Fatal(err)
	}

	n, err := clearDir(dir)
	if err != nil || n != 2 {
		t.Fatalf("clearDir = %d, %v; want 2, nil", n, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "keep")); err != nil {
		t.Error("subdirectories should be kept")
	}
	if n, err := clearDir(filepath.Join(dir, "missing")); n != 0 || err != nil {
		t.Errorf("missing dir: %d, %v", n, err)
	}
}

func TestCompletionCommand(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), appName) {
		t.Error("bash completion should mention the command name")
	}
}
