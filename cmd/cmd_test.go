package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateCommand(t *testing.T) {
	project := t.TempDir()
	if err := os.WriteFile(filepath.Join(project, "site.css"), []byte(".a { color: red; }\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "design")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{
		"generate", project,
		"--config", filepath.Join(t.TempDir(), "missing.yml"),
		"--output", out,
		"--no-progress",
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if !strings.Contains(stdout.String(), "Design generated") {
		t.Errorf("summary missing:\n%s", stdout.String())
	}
	for _, name := range []string{"_index.md", "_module.md", "site.css_items.md"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"version"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if got := stdout.String(); got != "archdoc dev\n" {
		t.Errorf("version output = %q", got)
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789"); got != "01234567" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID = %q", got)
	}
}

func TestHistoryAndShowResolveAgainstProjectDir(t *testing.T) {
	project := t.TempDir()
	if err := os.WriteFile(filepath.Join(project, "site.css"), []byte(".a { color: red; }\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(t.TempDir(), "archdoc.yml")
	if err := os.WriteFile(cfgPath, []byte("output_dir: design\nhistory_db: .archdoc/history.db\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	run := func(args ...string) string {
		t.Helper()
		var stdout bytes.Buffer
		rootCmd.SetOut(&stdout)
		rootCmd.SetArgs(append(args, "--config", cfgPath))
		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("%v failed: %v", args, err)
		}
		return stdout.String()
	}

	dbPath := filepath.Join(project, ".archdoc", "history.db")
	if out := run("history", project); !strings.Contains(out, "No runs recorded yet.") {
		t.Errorf("history before any run:\n%s", out)
	}
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Error("listing history must not create the database")
	}

	run("generate", project, "--output", filepath.Join(project, "design"), "--no-progress")

	if out := run("history", project); !strings.Contains(out, "1 files, 0 skipped") || !strings.Contains(out, project) {
		t.Errorf("history after a run:\n%s", out)
	}
	if out := run("show", "_index.md", project); !strings.Contains(out, filepath.Base(project)) {
		t.Errorf("show output:\n%s", out)
	}
}
